// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"time"

	"github.com/GermanBionicSystems/irdevices/common"
)

const (
	// Commands outside the RAM and EEPROM maps.
	cmdReadFlags  byte = 0xf0
	cmdEnterSleep byte = 0xff

	// Set in the command for EEPROM access, clear for RAM access.
	eepromBit byte = 0x20

	readAttempts    = 3
	readRetryDelay  = 5 * time.Millisecond
	eepromSettleDur = 10 * time.Millisecond
)

// read returns the 16 bit value of cmd. The value is verified against the
// PEC sent by the chip; on a mismatch the read is retried.
func (d *Dev) read(cmd byte) (uint16, error) {
	var buf [3]byte
	for attempt := 1; ; attempt++ {
		if err := d.caps.Bus.ReadReg(d.addr, cmd, buf[:]); err != nil {
			return 0, err
		}
		frame := [5]byte{d.addr << 1, cmd, d.addr<<1 | 1, buf[0], buf[1]}
		if common.PEC(frame[:]) == buf[2] {
			return uint16(buf[0]) | uint16(buf[1])<<8, nil
		}
		if attempt == readAttempts {
			return 0, ErrPEC
		}
		d.caps.Delay.Delay(readRetryDelay)
	}
}

// write stores v in cmd. EEPROM cells can't be overwritten in place, so they
// are erased first and each phase gets a settle delay.
func (d *Dev) write(cmd byte, v uint16) error {
	if cmd&eepromBit == 0 {
		return d.writeWord(cmd, v)
	}
	if err := d.writeWord(cmd, 0); err != nil {
		return err
	}
	d.caps.Delay.Delay(eepromSettleDur)
	if err := d.writeWord(cmd, v); err != nil {
		return err
	}
	d.caps.Delay.Delay(eepromSettleDur)
	return nil
}

func (d *Dev) writeWord(cmd byte, v uint16) error {
	lo, hi := byte(v), byte(v>>8)
	frame := [4]byte{d.addr << 1, cmd, lo, hi}
	return d.caps.Bus.WriteReg(d.addr, cmd, []byte{lo, hi, common.PEC(frame[:])})
}

// powerDown sends the sleep command. It carries no data, only the PEC.
func (d *Dev) powerDown() error {
	frame := [2]byte{d.addr << 1, cmdEnterSleep}
	return d.caps.Bus.WriteReg(d.addr, cmdEnterSleep, []byte{common.PEC(frame[:])})
}
