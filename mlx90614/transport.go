// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// Bus is the byte level SMBus transport the driver calls through. Addresses
// are 7 bit.
type Bus interface {
	// Open acquires the bus. It is called once by Dev.Init.
	Open() error
	// Close releases what Open acquired. It is called once by Dev.Deinit.
	Close() error
	// ReadReg writes reg then reads len(r) bytes in one combined transaction.
	ReadReg(addr, reg uint8, r []byte) error
	// WriteReg writes reg followed by w.
	WriteReg(addr, reg uint8, w []byte) error
}

// Line drives one of the bus wires as a plain output. Any gpio.PinOut
// satisfies it.
type Line interface {
	Out(l gpio.Level) error
}

// Delayer blocks for the requested duration.
type Delayer interface {
	Delay(d time.Duration)
}

// Logger is the debug sink. *logrus.Entry and *log.Logger satisfy it.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Capabilities groups everything the driver needs from its environment. All
// fields must be set before Dev.Init.
// Init only detects nil interfaces; a typed nil pointer other than
// *I2CBus must not be passed.
type Capabilities struct {
	Log   Logger
	Bus   Bus
	SCL   Line
	SDA   Line
	Delay Delayer
}

// Sleeper is a Delayer backed by time.Sleep.
type Sleeper struct{}

// Delay implements Delayer.
func (Sleeper) Delay(d time.Duration) {
	time.Sleep(d)
}

// I2CBus adapts a periph.io I²C bus to Bus.
//
// When Bus is nil, Open looks up the bus called Name in the i2creg registry
// and Close releases it. A Bus supplied by the caller is never closed.
type I2CBus struct {
	Name string
	Bus  i2c.Bus

	opened i2c.BusCloser
}

// Open implements Bus. A nil *I2CBus fails to open.
func (b *I2CBus) Open() error {
	if b == nil {
		return errNoBus
	}
	if b.Bus != nil {
		return nil
	}
	bc, err := i2creg.Open(b.Name)
	if err != nil {
		return fmt.Errorf("mlx90614: opening i2c bus %q: %w", b.Name, err)
	}
	b.Bus = bc
	b.opened = bc
	return nil
}

// Close implements Bus.
func (b *I2CBus) Close() error {
	if b == nil || b.opened == nil {
		return nil
	}
	err := b.opened.Close()
	b.opened = nil
	b.Bus = nil
	return err
}

// ReadReg implements Bus.
func (b *I2CBus) ReadReg(addr, reg uint8, r []byte) error {
	if b == nil || b.Bus == nil {
		return errNoBus
	}
	return b.Bus.Tx(uint16(addr), []byte{reg}, r)
}

// WriteReg implements Bus.
func (b *I2CBus) WriteReg(addr, reg uint8, w []byte) error {
	if b == nil || b.Bus == nil {
		return errNoBus
	}
	buf := make([]byte, 0, len(w)+1)
	buf = append(buf, reg)
	buf = append(buf, w...)
	return b.Bus.Tx(uint16(addr), buf, nil)
}

func (b *I2CBus) String() string {
	if b == nil {
		return "i2c"
	}
	if b.Bus != nil {
		return b.Bus.String()
	}
	return b.Name
}

var errNoBus = errors.New("mlx90614: i2c bus is not open")

var _ Bus = &I2CBus{}
var _ Line = gpio.PinOut(nil)
