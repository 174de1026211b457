// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"math/rand"
	"testing"
)

// bitSerialPEC is the shift register form of the SMBus CRC, one bit at a
// time, MSB first.
func bitSerialPEC(bytes []byte) byte {
	var crc byte
	for _, in := range bytes {
		for i := 0; i < 8; i++ {
			carry := (crc ^ in) & 0x80
			crc <<= 1
			if carry != 0 {
				crc ^= 0x07
			}
			in <<= 1
		}
	}
	return crc
}

func TestPEC(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		{bytes: []byte("123456789"), result: 0xf4},
		// MLX90614 datasheet: read Tobj1 from 0x5a.
		{bytes: []byte{0xb4, 0x07, 0xb5, 0xd2, 0x3a}, result: 0x30},
		// MLX90614 datasheet: sleep command to 0x5a.
		{bytes: []byte{0xb4, 0xff}, result: 0xe8},
		{bytes: []byte{}, result: 0x00},
	}
	for _, test := range tests {
		res := PEC(test.bytes)
		if res != test.result {
			t.Errorf("PEC(%#v)!=0x%02x received 0x%02x", test.bytes, test.result, res)
		}
	}
}

func TestPECMatchesBitSerial(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		b := make([]byte, 1+r.Intn(8))
		r.Read(b)
		if got, want := PEC(b), bitSerialPEC(b); got != want {
			t.Fatalf("PEC(%#v) = 0x%02x, bit serial = 0x%02x", b, got, want)
		}
	}
}
