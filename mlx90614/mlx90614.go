// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the factory programmed 7 bit SMBus address.
	DefaultAddress uint8 = 0x5a

	// Address used to reach a chip regardless of its programmed address.
	broadcastAddress uint8 = 0x00
)

// RAM registers.
const (
	regRawIR1 byte = 0x04
	regRawIR2 byte = 0x05
	regTa     byte = 0x06
	regTObj1  byte = 0x07
	regTObj2  byte = 0x08
)

// EEPROM registers.
const (
	regToMax      byte = 0x20
	regToMin      byte = 0x21
	regPWMCtrl    byte = 0x22
	regTaRange    byte = 0x23
	regEmissivity byte = 0x24
	regConfig1    byte = 0x25
	regAddress    byte = 0x2e
	regID1        byte = 0x3c
	regID2        byte = 0x3d
	regID3        byte = 0x3e
	regID4        byte = 0x3f
)

// Shortest SenseContinuous period.
const minSenseInterval = 100 * time.Millisecond

// Only the low nibble of the address cell is rewritten by WriteAddr.
const addressMask uint16 = 0x000f

// objectFlag is set by the chip in TObj1 and TObj2 when the measurement is
// invalid.
const objectFlag uint16 = 1 << 15

// Flags is the content of the chip status register.
type Flags uint16

const (
	// FlagEEBusy is set while an EEPROM write or erase is in progress.
	FlagEEBusy Flags = 1 << 7
	// FlagEEDead is set after an EEPROM double error.
	FlagEEDead Flags = 1 << 5
	// FlagInit is cleared while the power on initialization is running.
	FlagInit Flags = 1 << 4
)

// Dev is a handle to a MLX90614 infrared thermometer.
//
// A Dev is not safe for concurrent use. The configuration setters do a read
// followed by a write of the same EEPROM cell. While SenseContinuous runs,
// only Halt and Deinit may be called.
type Dev struct {
	addr   uint8
	caps   Capabilities
	inited bool

	// Set while SenseContinuous runs.
	stop chan struct{}
	done chan struct{}
}

// New returns an uninitialized handle. Attach the capabilities with Link,
// select the address with SetAddr, then call Init.
func New() *Dev {
	return &Dev{}
}

// Link attaches the capabilities used by every later operation. It must be
// called before Init.
func (d *Dev) Link(c Capabilities) error {
	if d == nil {
		return ErrNilHandle
	}
	d.caps = c
	return nil
}

// SetAddr sets the 7 bit address used for the following transactions. It
// doesn't touch the bus and may be called before Init.
func (d *Dev) SetAddr(addr uint8) error {
	if d == nil {
		return ErrNilHandle
	}
	d.addr = addr
	return nil
}

// Addr returns the 7 bit address used for transactions.
func (d *Dev) Addr() (uint8, error) {
	if d == nil {
		return 0, ErrNilHandle
	}
	return d.addr, nil
}

// Initialized reports whether Init succeeded and Deinit wasn't called since.
func (d *Dev) Initialized() bool {
	return d != nil && d.inited
}

// check is the precondition shared by every operation touching the chip.
func (d *Dev) check() error {
	if d == nil {
		return ErrNilHandle
	}
	if !d.inited {
		return ErrNotInitialized
	}
	return nil
}

// Init validates the capabilities and opens the bus. Calling Init on an
// initialized handle does nothing.
func (d *Dev) Init() error {
	if d == nil {
		return ErrNilHandle
	}
	if d.inited {
		return nil
	}
	if d.caps.Log == nil {
		return fmt.Errorf("%w: log", ErrMissingCapability)
	}
	for _, c := range []struct {
		name string
		nil  bool
	}{
		{"bus", d.caps.Bus == nil},
		{"scl", d.caps.SCL == nil},
		{"sda", d.caps.SDA == nil},
		{"delay", d.caps.Delay == nil},
	} {
		if c.nil {
			d.caps.Log.Printf("mlx90614: %s is null.\n", c.name)
			return fmt.Errorf("%w: %s", ErrMissingCapability, c.name)
		}
	}
	if err := d.caps.Bus.Open(); err != nil {
		d.caps.Log.Printf("mlx90614: iic init failed.\n")
		return fmt.Errorf("mlx90614: opening bus: %w", err)
	}
	d.inited = true
	return nil
}

// Deinit puts the chip to sleep then closes the bus. If the sleep command
// fails the bus is left open and the handle stays initialized.
func (d *Dev) Deinit() error {
	if err := d.check(); err != nil {
		return err
	}
	d.stopSensing()
	if err := d.powerDown(); err != nil {
		d.caps.Log.Printf("mlx90614: power down failed.\n")
		return fmt.Errorf("%w: %w", ErrPowerDown, err)
	}
	if err := d.caps.Bus.Close(); err != nil {
		d.caps.Log.Printf("mlx90614: iic deinit failed.\n")
		return fmt.Errorf("mlx90614: closing bus: %w", err)
	}
	d.inited = false
	return nil
}

// PWMToSMBus switches a chip that powered up in PWM output mode to SMBus by
// holding SCL low. It is harmless on a chip already in SMBus mode.
func (d *Dev) PWMToSMBus() error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.caps.SCL.Out(gpio.Low); err != nil {
		d.caps.Log.Printf("mlx90614: write scl failed.\n")
		return fmt.Errorf("mlx90614: scl low: %w", err)
	}
	d.caps.Delay.Delay(5 * time.Millisecond)
	if err := d.caps.SCL.Out(gpio.High); err != nil {
		d.caps.Log.Printf("mlx90614: write scl failed.\n")
		return fmt.Errorf("mlx90614: scl high: %w", err)
	}
	return nil
}

// ExitSleepMode wakes the chip up. The SDA low pulse and the final wait are
// required by the datasheet wake up timing.
func (d *Dev) ExitSleepMode() error {
	if err := d.check(); err != nil {
		return err
	}
	steps := []struct {
		name  string
		line  Line
		level gpio.Level
		wait  time.Duration
	}{
		{"scl", d.caps.SCL, gpio.High, 0},
		{"sda", d.caps.SDA, gpio.High, time.Millisecond},
		{"sda", d.caps.SDA, gpio.Low, 50 * time.Millisecond},
		{"sda", d.caps.SDA, gpio.High, 260 * time.Millisecond},
	}
	for _, s := range steps {
		if err := s.line.Out(s.level); err != nil {
			d.caps.Log.Printf("mlx90614: write %s failed.\n", s.name)
			return fmt.Errorf("mlx90614: %s %s: %w", s.name, s.level, err)
		}
		if s.wait != 0 {
			d.caps.Delay.Delay(s.wait)
		}
	}
	return nil
}

// EnterSleepMode sends the sleep command. The handle stays initialized; use
// ExitSleepMode to wake the chip up.
func (d *Dev) EnterSleepMode() error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.powerDown(); err != nil {
		d.caps.Log.Printf("mlx90614: enter sleep mode failed.\n")
		return fmt.Errorf("mlx90614: entering sleep mode: %w", err)
	}
	return nil
}

// WriteAddr programs addr into the address EEPROM cell and uses it for the
// following transactions. The cell is reached through the broadcast address,
// so only one chip may be on the bus. Only the low nibble is programmable;
// addr above 0x0f is rejected with ErrAddressRange. The previous address is
// kept on failure.
func (d *Dev) WriteAddr(addr uint8) error {
	if err := d.check(); err != nil {
		return err
	}
	if uint16(addr)&^addressMask != 0 {
		d.caps.Log.Printf("mlx90614: addr 0x%02x is invalid.\n", addr)
		return fmt.Errorf("%w: 0x%02x", ErrAddressRange, addr)
	}
	prev := d.addr
	d.addr = broadcastAddress
	reg, err := d.read(regAddress)
	if err != nil {
		d.addr = prev
		d.caps.Log.Printf("mlx90614: read eeprom address failed.\n")
		return fmt.Errorf("mlx90614: reading address: %w", err)
	}
	reg = reg&^addressMask | uint16(addr)
	if err := d.write(regAddress, reg); err != nil {
		d.addr = prev
		d.caps.Log.Printf("mlx90614: write eeprom address failed.\n")
		return fmt.Errorf("mlx90614: writing address: %w", err)
	}
	d.addr = addr
	return nil
}

// ReadAddr reads the address programmed in EEPROM, through the broadcast
// address, and uses it for the following transactions.
func (d *Dev) ReadAddr() (uint8, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	prev := d.addr
	d.addr = broadcastAddress
	reg, err := d.read(regAddress)
	if err != nil {
		d.addr = prev
		d.caps.Log.Printf("mlx90614: read eeprom address failed.\n")
		return 0, fmt.Errorf("mlx90614: reading address: %w", err)
	}
	d.addr = uint8(reg & addressMask)
	return d.addr, nil
}

// ReadAmbient returns the die temperature.
func (d *Dev) ReadAmbient() (raw uint16, celsius float64, err error) {
	if err := d.check(); err != nil {
		return 0, 0, err
	}
	raw, err = d.read(regTa)
	if err != nil {
		d.caps.Log.Printf("mlx90614: read raw ta failed.\n")
		return 0, 0, fmt.Errorf("mlx90614: reading ta: %w", err)
	}
	return raw, rawToCelsius(raw), nil
}

// ReadObject1 returns the temperature seen by the first IR sensor. When the
// chip flags the reading, raw is returned with ErrObjectFlag and celsius is
// left at zero.
func (d *Dev) ReadObject1() (raw uint16, celsius float64, err error) {
	return d.readObject(regTObj1, "tobj1")
}

// ReadObject2 returns the temperature seen by the second IR sensor of dual
// sensor parts.
func (d *Dev) ReadObject2() (raw uint16, celsius float64, err error) {
	return d.readObject(regTObj2, "tobj2")
}

func (d *Dev) readObject(reg byte, name string) (uint16, float64, error) {
	if err := d.check(); err != nil {
		return 0, 0, err
	}
	raw, err := d.read(reg)
	if err != nil {
		d.caps.Log.Printf("mlx90614: read ram %s failed.\n", name)
		return 0, 0, fmt.Errorf("mlx90614: reading %s: %w", name, err)
	}
	if raw&objectFlag != 0 {
		d.caps.Log.Printf("mlx90614: flag error.\n")
		return raw, 0, ErrObjectFlag
	}
	return raw, rawToCelsius(raw), nil
}

// ReadRawIRChannel returns the raw ADC values of both IR channels.
func (d *Dev) ReadRawIRChannel() (ch1, ch2 uint16, err error) {
	if err := d.check(); err != nil {
		return 0, 0, err
	}
	if ch1, err = d.read(regRawIR1); err != nil {
		d.caps.Log.Printf("mlx90614: read raw channel 1 failed.\n")
		return 0, 0, fmt.Errorf("mlx90614: reading raw channel 1: %w", err)
	}
	if ch2, err = d.read(regRawIR2); err != nil {
		d.caps.Log.Printf("mlx90614: read raw channel 2 failed.\n")
		return 0, 0, fmt.Errorf("mlx90614: reading raw channel 2: %w", err)
	}
	return ch1, ch2, nil
}

// ID returns the 64 bit factory identification number as four words.
func (d *Dev) ID() ([4]uint16, error) {
	var id [4]uint16
	if err := d.check(); err != nil {
		return id, err
	}
	for i, reg := range []byte{regID1, regID2, regID3, regID4} {
		v, err := d.read(reg)
		if err != nil {
			d.caps.Log.Printf("mlx90614: read id%d failed.\n", i+1)
			return id, fmt.Errorf("mlx90614: reading id%d: %w", i+1, err)
		}
		id[i] = v
	}
	return id, nil
}

// Flags returns the chip status flags.
func (d *Dev) Flags() (Flags, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	v, err := d.read(cmdReadFlags)
	if err != nil {
		d.caps.Log.Printf("mlx90614: read flags failed.\n")
		return 0, fmt.Errorf("mlx90614: reading flags: %w", err)
	}
	return Flags(v), nil
}

// SetEmissivity writes the raw emissivity register. See
// EmissivityToRegister.
func (d *Dev) SetEmissivity(reg uint16) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.write(regEmissivity, reg); err != nil {
		d.caps.Log.Printf("mlx90614: write emissivity failed.\n")
		return fmt.Errorf("mlx90614: writing emissivity: %w", err)
	}
	return nil
}

// Emissivity reads the raw emissivity register.
func (d *Dev) Emissivity() (uint16, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	v, err := d.read(regEmissivity)
	if err != nil {
		d.caps.Log.Printf("mlx90614: read emissivity failed.\n")
		return 0, fmt.Errorf("mlx90614: reading emissivity: %w", err)
	}
	return v, nil
}

// SetEmissivityCoefficient converts s and writes it.
func (d *Dev) SetEmissivityCoefficient(s float64) error {
	reg, err := d.EmissivityToRegister(s)
	if err != nil {
		return err
	}
	return d.SetEmissivity(reg)
}

// EmissivityCoefficient reads the emissivity and converts it to [0, 1].
func (d *Dev) EmissivityCoefficient() (float64, error) {
	reg, err := d.Emissivity()
	if err != nil {
		return 0, err
	}
	return d.EmissivityFromRegister(reg)
}

// SetReg writes v to any register, with the EEPROM erase cycle when reg is
// in the EEPROM map.
func (d *Dev) SetReg(reg byte, v uint16) error {
	if err := d.check(); err != nil {
		return err
	}
	return d.write(reg, v)
}

// Reg reads any register.
func (d *Dev) Reg(reg byte) (uint16, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return d.read(reg)
}

// Sense reads the object temperature of the first IR sensor into
// e.Temperature.
func (d *Dev) Sense(e *physic.Env) error {
	raw, _, err := d.ReadObject1()
	if err != nil {
		return err
	}
	e.Temperature = rawToTemperature(raw)
	return nil
}

// SenseAmbient reads the die temperature into e.Temperature.
func (d *Dev) SenseAmbient(e *physic.Env) error {
	raw, _, err := d.ReadAmbient()
	if err != nil {
		return err
	}
	e.Temperature = rawToTemperature(raw)
	return nil
}

// Precision returns the resolution of the temperature registers.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = temperatureLSB
	e.Humidity = 0
	e.Pressure = 0
}

// SenseContinuous reads the object temperature every interval and sends it on
// the returned channel. Failed reads are skipped; they are logged by
// ReadObject1. A full channel drops the sample. Halt stops the reads and
// closes the channel. Implements physic.SenseEnv.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if interval < minSenseInterval {
		return nil, fmt.Errorf("mlx90614: interval %s is below %s", interval, minSenseInterval)
	}
	d.stopSensing()
	c := make(chan physic.Env, 16)
	stop, done := make(chan struct{}), make(chan struct{})
	d.stop, d.done = stop, done
	go func() {
		defer close(done)
		defer close(c)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case c <- e:
				default:
				}
			}
		}
	}()
	return c, nil
}

// stopSensing ends SenseContinuous, if running, and waits for its last read.
func (d *Dev) stopSensing() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	<-d.done
	d.stop, d.done = nil, nil
}

// Halt stops SenseContinuous and puts the chip to sleep. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	if d != nil {
		d.stopSensing()
	}
	err := d.EnterSleepMode()
	if errors.Is(err, ErrNotInitialized) {
		return nil
	}
	return err
}

func (d *Dev) String() string {
	if d == nil {
		return "mlx90614"
	}
	return fmt.Sprintf("mlx90614{addr:0x%02x}", d.addr)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
