// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the SMBus packet error code calculation and the logger setup.
package common

import "github.com/sigurn/crc8"

// smbusParams is CRC-8 with polynomial x^8 + x^2 + x + 1, zero init and no
// reflection, as used by the SMBus Packet Error Code.
var smbusParams = crc8.Params{
	Poly:  0x07,
	Init:  0x00,
	Check: 0xf4,
	Name:  "CRC-8/SMBUS",
}

var smbusTable = crc8.MakeTable(smbusParams)

// PEC calculates the SMBus Packet Error Code of the byte slice parameter and
// returns the calculated value. The bytes must include the address bytes as
// they appear on the wire, not only the payload.
func PEC(bytes []byte) byte {
	return crc8.Checksum(bytes, smbusTable)
}
