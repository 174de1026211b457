// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

// Opts holds the configuration options used by NewI2C.
type Opts struct {
	// Addr is the 7 bit address. 0 means DefaultAddress.
	Addr uint8
	// Configure writes the fields below to EEPROM. When false the chip keeps
	// its stored configuration.
	Configure bool

	FIRLength        FIRLength
	IIR              IIR
	Mode             Mode
	IRSensor         IRSensor
	Ks               Sign
	Kt2              Sign
	Gain             Gain
	SensorTest       bool
	RepeatSensorTest bool
	// Emissivity is the coefficient in [0, 1].
	Emissivity float64
}

// DefaultOpts is the recommended configuration for a dual sensor part.
var DefaultOpts = Opts{
	Addr:       DefaultAddress,
	Configure:  true,
	FIRLength:  FIRLength1024,
	IIR:        IIRA1_1B1_0,
	Mode:       ModeTaTObj1,
	IRSensor:   IRSensorDual,
	Ks:         SignPositive,
	Kt2:        SignPositive,
	Gain:       Gain100,
	Emissivity: 1.0,
}

// NewI2C returns an initialized, awake device on a periph.io I²C bus. scl
// and sda are the GPIO lines muxed with the bus pins, used for the PWM to
// SMBus switch and the wake up sequence. The Opts can be nil, in which case
// the stored configuration is kept.
//
// On error the handle is deinitialized. The bus is not closed, it belongs to
// the caller.
func NewI2C(b i2c.Bus, scl, sda gpio.PinOut, log Logger, opts *Opts) (*Dev, error) {
	o := Opts{Addr: DefaultAddress}
	if opts != nil {
		o = *opts
	}
	if o.Addr == 0 {
		o.Addr = DefaultAddress
	}
	d := New()
	_ = d.Link(Capabilities{
		Log:   log,
		Bus:   &I2CBus{Bus: b},
		SCL:   scl,
		SDA:   sda,
		Delay: Sleeper{},
	})
	_ = d.SetAddr(o.Addr)
	if err := d.Init(); err != nil {
		return nil, err
	}
	if err := d.start(&o); err != nil {
		_ = d.Deinit()
		return nil, err
	}
	return d, nil
}

// start switches the chip to SMBus, wakes it and applies o.
func (d *Dev) start(o *Opts) error {
	if err := d.PWMToSMBus(); err != nil {
		return err
	}
	if err := d.ExitSleepMode(); err != nil {
		return err
	}
	if !o.Configure {
		return nil
	}
	return d.Configure(o)
}

// Configure writes the configuration fields and the emissivity of o. Each
// field is a separate EEPROM cycle.
func (d *Dev) Configure(o *Opts) error {
	if err := d.check(); err != nil {
		return err
	}
	steps := []struct {
		name string
		f    func() error
	}{
		{"fir length", func() error { return d.SetFIRLength(o.FIRLength) }},
		{"iir", func() error { return d.SetIIR(o.IIR) }},
		{"mode", func() error { return d.SetMode(o.Mode) }},
		{"ir sensor", func() error { return d.SetIRSensor(o.IRSensor) }},
		{"ks", func() error { return d.SetKs(o.Ks) }},
		{"kt2", func() error { return d.SetKt2(o.Kt2) }},
		{"gain", func() error { return d.SetGain(o.Gain) }},
		{"sensor test", func() error { return d.SetSensorTest(o.SensorTest) }},
		{"repeat sensor test", func() error { return d.SetRepeatSensorTest(o.RepeatSensorTest) }},
		{"emissivity", func() error { return d.SetEmissivityCoefficient(o.Emissivity) }},
	}
	for _, s := range steps {
		if err := s.f(); err != nil {
			d.caps.Log.Printf("mlx90614: set %s failed.\n", s.name)
			return fmt.Errorf("mlx90614: configuring %s: %w", s.name, err)
		}
	}
	return nil
}
