// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import "fmt"

// FIRLength is the length of the FIR filter applied to the IR signal.
type FIRLength uint8

// IIR selects the coefficients of the IIR filter applied after the FIR.
type IIR uint8

// Mode selects which temperatures the PWM output and the RAM registers carry.
type Mode uint8

// IRSensor selects single or dual thermopile operation.
type IRSensor uint8

// Sign is the sign of the Ks and Kt2 compensation coefficients.
type Sign uint8

// Gain is the amplifier gain.
type Gain uint8

// FIR filter lengths, in samples.
const (
	FIRLength8 FIRLength = iota
	FIRLength16
	FIRLength32
	FIRLength64
	FIRLength128
	FIRLength256
	FIRLength512
	FIRLength1024
)

// IIR filter coefficients a1 and b1. IIRA1_1B1_0 bypasses the filter.
const (
	IIRA1_0p5B1_0p5 IIR = iota
	IIRA1_0p25B1_0p75
	IIRA1_0p166B1_0p83
	IIRA1_0p125B1_0p875
	IIRA1_1B1_0
	IIRA1_0p8B1_0p2
	IIRA1_0p666B1_0p333
	IIRA1_0p571B1_0p428
)

// Output modes.
const (
	ModeTaTObj1 Mode = iota
	ModeTaTObj2
	ModeTObj2
	ModeTObj1TObj2
)

// Thermopile configurations.
const (
	IRSensorSingle IRSensor = iota
	IRSensorDual
)

// Coefficient signs.
const (
	SignPositive Sign = iota
	SignNegative
)

// Amplifier gains. Gain12p5 is 12.5.
const (
	Gain1 Gain = iota
	Gain3
	Gain6
	Gain12p5
	Gain25
	Gain50
	Gain100
)

// field is a bitfield of the Config1 EEPROM cell.
type field struct {
	name  string
	shift uint
	width uint
}

func (f field) mask() uint16 {
	return uint16(1<<f.width-1) << f.shift
}

func (f field) get(reg uint16) uint16 {
	return (reg & f.mask()) >> f.shift
}

func (f field) set(reg, v uint16) uint16 {
	return reg&^f.mask() | v<<f.shift&f.mask()
}

// Config1 layout.
var (
	fieldIIR              = field{"iir", 0, 3}
	fieldRepeatSensorTest = field{"repeat sensor test", 3, 1}
	fieldMode             = field{"mode", 4, 2}
	fieldIRSensor         = field{"ir sensor", 6, 1}
	fieldKs               = field{"ks", 7, 1}
	fieldFIRLength        = field{"fir length", 8, 3}
	fieldGain             = field{"gain", 11, 3}
	fieldKt2              = field{"kt2", 14, 1}
	fieldSensorTest       = field{"sensor test", 15, 1}
)

// setField updates one field of Config1, leaving the others untouched.
func (d *Dev) setField(f field, v uint16) error {
	if err := d.check(); err != nil {
		return err
	}
	if v > f.mask()>>f.shift {
		d.caps.Log.Printf("mlx90614: %s %d is invalid.\n", f.name, v)
		return fmt.Errorf("%w: %s %d", ErrFieldRange, f.name, v)
	}
	reg, err := d.read(regConfig1)
	if err != nil {
		d.caps.Log.Printf("mlx90614: read config failed.\n")
		return fmt.Errorf("mlx90614: reading config: %w", err)
	}
	if err := d.write(regConfig1, f.set(reg, v)); err != nil {
		d.caps.Log.Printf("mlx90614: write config failed.\n")
		return fmt.Errorf("mlx90614: writing %s: %w", f.name, err)
	}
	return nil
}

func (d *Dev) getField(f field) (uint16, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	reg, err := d.read(regConfig1)
	if err != nil {
		d.caps.Log.Printf("mlx90614: read config failed.\n")
		return 0, fmt.Errorf("mlx90614: reading config: %w", err)
	}
	return f.get(reg), nil
}

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// SetFIRLength sets the FIR filter length.
func (d *Dev) SetFIRLength(l FIRLength) error {
	return d.setField(fieldFIRLength, uint16(l))
}

// FIRLength returns the FIR filter length.
func (d *Dev) FIRLength() (FIRLength, error) {
	v, err := d.getField(fieldFIRLength)
	return FIRLength(v), err
}

// SetIIR sets the IIR filter coefficients.
func (d *Dev) SetIIR(iir IIR) error {
	return d.setField(fieldIIR, uint16(iir))
}

// IIR returns the IIR filter coefficients.
func (d *Dev) IIR() (IIR, error) {
	v, err := d.getField(fieldIIR)
	return IIR(v), err
}

// SetMode sets the temperature output mode.
func (d *Dev) SetMode(m Mode) error {
	return d.setField(fieldMode, uint16(m))
}

// Mode returns the temperature output mode.
func (d *Dev) Mode() (Mode, error) {
	v, err := d.getField(fieldMode)
	return Mode(v), err
}

// SetIRSensor selects single or dual IR sensor operation.
func (d *Dev) SetIRSensor(s IRSensor) error {
	return d.setField(fieldIRSensor, uint16(s))
}

// IRSensor returns the thermopile configuration.
func (d *Dev) IRSensor() (IRSensor, error) {
	v, err := d.getField(fieldIRSensor)
	return IRSensor(v), err
}

// SetKs sets the sign of Ks.
func (d *Dev) SetKs(s Sign) error {
	return d.setField(fieldKs, uint16(s))
}

// Ks returns the sign of Ks.
func (d *Dev) Ks() (Sign, error) {
	v, err := d.getField(fieldKs)
	return Sign(v), err
}

// SetKt2 sets the sign of Kt2.
func (d *Dev) SetKt2(s Sign) error {
	return d.setField(fieldKt2, uint16(s))
}

// Kt2 returns the sign of Kt2.
func (d *Dev) Kt2() (Sign, error) {
	v, err := d.getField(fieldKt2)
	return Sign(v), err
}

// SetGain sets the amplifier gain.
func (d *Dev) SetGain(g Gain) error {
	return d.setField(fieldGain, uint16(g))
}

// Gain returns the amplifier gain.
func (d *Dev) Gain() (Gain, error) {
	v, err := d.getField(fieldGain)
	return Gain(v), err
}

// SetSensorTest enables or disables the sensor test.
func (d *Dev) SetSensorTest(enable bool) error {
	return d.setField(fieldSensorTest, b2u(enable))
}

// SensorTest reports whether the sensor test is enabled.
func (d *Dev) SensorTest() (bool, error) {
	v, err := d.getField(fieldSensorTest)
	return v != 0, err
}

// SetRepeatSensorTest enables or disables repeating the sensor test.
func (d *Dev) SetRepeatSensorTest(enable bool) error {
	return d.setField(fieldRepeatSensorTest, b2u(enable))
}

// RepeatSensorTest reports whether the sensor test is repeated.
func (d *Dev) RepeatSensorTest() (bool, error) {
	v, err := d.getField(fieldRepeatSensorTest)
	return v != 0, err
}

func (l FIRLength) String() string {
	if l > FIRLength1024 {
		return fmt.Sprintf("FIRLength(%d)", uint8(l))
	}
	return fmt.Sprintf("%d", 8<<l)
}

func (g Gain) String() string {
	switch g {
	case Gain1:
		return "1"
	case Gain3:
		return "3"
	case Gain6:
		return "6"
	case Gain12p5:
		return "12.5"
	case Gain25:
		return "25"
	case Gain50:
		return "50"
	case Gain100:
		return "100"
	}
	return fmt.Sprintf("Gain(%d)", uint8(g))
}
