// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mlx90614test simulates a MLX90614 on an I²C bus, PEC included, to
// test the driver without hardware.
package mlx90614test

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/irdevices/common"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

const (
	cmdReadFlags  = 0xf0
	cmdEnterSleep = 0xff
	eepromBit     = 0x20
)

var (
	// ErrNack is returned for a transaction the chip doesn't acknowledge.
	ErrNack = errors.New("mlx90614test: nack")
	// ErrPEC is returned when a write carries a wrong PEC.
	ErrPEC = errors.New("mlx90614test: bad pec")
	// ErrNotErased is returned when an EEPROM cell is written without being
	// erased first.
	ErrNotErased = errors.New("mlx90614test: eeprom cell not erased")
)

// Chip is an in memory MLX90614 implementing i2c.Bus.
type Chip struct {
	// Addr is the 7 bit address the chip answers to, in addition to the
	// broadcast address 0.
	Addr uint16
	// Regs holds RAM and EEPROM cells by command.
	Regs map[byte]uint16
	// Flags is returned by the read flags command.
	Flags uint16
	// Asleep is set by the sleep command and cleared by a low level on SDA.
	Asleep bool
	// CorruptReads is the number of upcoming reads answered with a wrong PEC.
	CorruptReads int
	// Fail, when set, is called before every transaction; a non nil error
	// aborts it.
	Fail func(addr uint16, w, r []byte) error
	// Ops records every transaction.
	Ops []i2ctest.IO
}

// New returns a chip with factory default content at address 0x5a.
func New() *Chip {
	return &Chip{
		Addr: 0x5a,
		Regs: map[byte]uint16{
			0x06: 0x3a7f, // 26.35°C die
			0x07: 0x3b1c,
			0x08: 0x3b1c,
			0x20: 0x9993,
			0x21: 0x62e3,
			0x22: 0x0201,
			0x23: 0xf71c,
			0x24: 0xffff,
			0x25: 0x9fb4,
			0x2e: 0xbe5a,
			0x3c: 0x1234,
			0x3d: 0x5678,
			0x3e: 0x9abc,
			0x3f: 0xdef0,
		},
		Flags: 0x0010,
	}
}

// Tx implements i2c.Bus.
func (c *Chip) Tx(addr uint16, w, r []byte) error {
	c.Ops = append(c.Ops, i2ctest.IO{Addr: addr, W: append([]byte(nil), w...)})
	if c.Fail != nil {
		if err := c.Fail(addr, w, r); err != nil {
			return err
		}
	}
	if addr != 0 && addr != c.Addr {
		return fmt.Errorf("%w: address 0x%02x", ErrNack, addr)
	}
	if c.Asleep || len(w) == 0 {
		return ErrNack
	}
	sa := byte(addr << 1)
	cmd := w[0]
	if len(r) != 0 {
		if len(w) != 1 || len(r) != 3 {
			return fmt.Errorf("%w: read of %d bytes", ErrNack, len(r))
		}
		v := c.Regs[cmd]
		if cmd == cmdReadFlags {
			v = c.Flags
		}
		r[0], r[1] = byte(v), byte(v>>8)
		r[2] = common.PEC([]byte{sa, cmd, sa | 1, r[0], r[1]})
		if c.CorruptReads > 0 {
			c.CorruptReads--
			r[2] ^= 0xff
		}
		c.Ops[len(c.Ops)-1].R = append([]byte(nil), r...)
		return nil
	}
	if cmd == cmdEnterSleep {
		if len(w) != 2 || w[1] != common.PEC([]byte{sa, cmd}) {
			return ErrPEC
		}
		c.Asleep = true
		return nil
	}
	if len(w) != 4 {
		return fmt.Errorf("%w: write of %d bytes", ErrNack, len(w))
	}
	if w[3] != common.PEC([]byte{sa, cmd, w[1], w[2]}) {
		return ErrPEC
	}
	v := uint16(w[1]) | uint16(w[2])<<8
	if cmd&eepromBit != 0 && v != 0 && c.Regs[cmd] != 0 {
		return fmt.Errorf("%w: 0x%02x", ErrNotErased, cmd)
	}
	c.Regs[cmd] = v
	return nil
}

// SetSpeed implements i2c.Bus.
func (c *Chip) SetSpeed(f physic.Frequency) error {
	return nil
}

func (c *Chip) String() string {
	return "mlx90614test"
}

// Writes returns the recorded write transactions sent to cmd.
func (c *Chip) Writes(cmd byte) [][]byte {
	var out [][]byte
	for _, op := range c.Ops {
		if op.R == nil && len(op.W) > 1 && op.W[0] == cmd {
			out = append(out, op.W[1:])
		}
	}
	return out
}

// Line is a bus wire driven as GPIO. A low level on SDA wakes the chip up.
type Line struct {
	c      *Chip
	wakes  bool
	Levels []gpio.Level
}

// SCL returns the clock line.
func (c *Chip) SCL() *Line {
	return &Line{c: c}
}

// SDA returns the data line.
func (c *Chip) SDA() *Line {
	return &Line{c: c, wakes: true}
}

// Out records l.
func (l *Line) Out(lvl gpio.Level) error {
	l.Levels = append(l.Levels, lvl)
	if l.wakes && lvl == gpio.Low {
		l.c.Asleep = false
	}
	return nil
}

var _ i2c.Bus = &Chip{}
