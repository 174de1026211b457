// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"errors"
	"math"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestEmissivityRoundTrip(t *testing.T) {
	f := newInitFixture(t)
	for i := 0; i <= 10000; i++ {
		s := float64(i) / 10000
		reg, err := f.dev.EmissivityToRegister(s)
		if err != nil {
			t.Fatalf("EmissivityToRegister(%g): %v", s, err)
		}
		got, err := f.dev.EmissivityFromRegister(reg)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-s) > 1.0/65535 {
			t.Fatalf("%g -> 0x%04x -> %g", s, reg, got)
		}
	}
	if reg, _ := f.dev.EmissivityToRegister(1); reg != 0xffff {
		t.Errorf("1.0 -> 0x%04x", reg)
	}
	if reg, _ := f.dev.EmissivityToRegister(0.5); reg != 32768 {
		t.Errorf("0.5 -> %d", reg)
	}
	if len(f.chip.Ops) != 0 {
		t.Error("conversion used the bus")
	}
}

func TestEmissivityFromRegisterExact(t *testing.T) {
	f := newInitFixture(t)
	for r := 0; r <= 0xffff; r++ {
		got, err := f.dev.EmissivityFromRegister(uint16(r))
		if err != nil {
			t.Fatal(err)
		}
		if want := float64(r) / 65535.0; got != want {
			t.Fatalf("EmissivityFromRegister(%d) = %g, want %g", r, got, want)
		}
	}
}

func TestEmissivityRange(t *testing.T) {
	f := newInitFixture(t)
	for _, s := range []float64{1.0000001, 2, math.Inf(1), -0.1, math.NaN()} {
		reg, err := f.dev.EmissivityToRegister(s)
		if !errors.Is(err, ErrEmissivityRange) || StatusOf(err) != StatusInvalid {
			t.Errorf("EmissivityToRegister(%g) = %v", s, err)
		}
		if reg != 0 {
			t.Errorf("EmissivityToRegister(%g) output 0x%04x", s, reg)
		}
	}
	if err := f.dev.SetEmissivityCoefficient(1.5); !errors.Is(err, ErrEmissivityRange) {
		t.Errorf("SetEmissivityCoefficient(1.5) = %v", err)
	}
	if len(f.chip.Ops) != 0 {
		t.Errorf("bus used: %#v", f.chip.Ops)
	}
	if f.chip.Regs[regEmissivity] != 0xffff {
		t.Errorf("emissivity changed to 0x%04x", f.chip.Regs[regEmissivity])
	}
}

func TestEmissivityCoefficient(t *testing.T) {
	f := newInitFixture(t)
	if err := f.dev.SetEmissivityCoefficient(0.95); err != nil {
		t.Fatal(err)
	}
	if got := f.chip.Regs[regEmissivity]; got != 62258 {
		t.Errorf("register = %d, want 62258", got)
	}
	s, err := f.dev.EmissivityCoefficient()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s-0.95) > 1.0/65535 {
		t.Errorf("EmissivityCoefficient() = %g", s)
	}
}

func TestTemperatureConversion(t *testing.T) {
	f := newInitFixture(t)
	for _, r := range []uint16{0, 1, 0x2dc7, 0x3a7f, 0x3ad2, 0x7fff} {
		f.chip.Regs[regTa] = r
		f.chip.Regs[regTObj1] = r
		f.chip.Regs[regTObj2] = r
		want := float64(float64(r)*0.02) - 273.15
		for name, read := range map[string]func() (uint16, float64, error){
			"ambient": f.dev.ReadAmbient,
			"object1": f.dev.ReadObject1,
			"object2": f.dev.ReadObject2,
		} {
			raw, c, err := read()
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if raw != r || c != want {
				t.Errorf("%s(0x%04x) = 0x%04x %g, want %g", name, r, raw, c, want)
			}
		}
	}
}

func TestObjectFlag(t *testing.T) {
	f := newInitFixture(t)
	f.chip.Regs[regTObj1] = 0x8123
	f.chip.Regs[regTObj2] = 0xffff
	for name, read := range map[string]func() (uint16, float64, error){
		"object1": f.dev.ReadObject1,
		"object2": f.dev.ReadObject2,
	} {
		raw, c, err := read()
		if !errors.Is(err, ErrObjectFlag) || StatusOf(err) != StatusInvalid {
			t.Errorf("%s: %v", name, err)
		}
		if c != 0 {
			t.Errorf("%s: temperature %g populated", name, c)
		}
		if raw&objectFlag == 0 {
			t.Errorf("%s: raw 0x%04x", name, raw)
		}
	}
	if !f.log.contains("flag error") {
		t.Errorf("not logged: %v", f.log.lines)
	}
	// The ambient register has no flag.
	f.chip.Regs[regTa] = 0x8000
	if _, _, err := f.dev.ReadAmbient(); err != nil {
		t.Errorf("ReadAmbient() = %v", err)
	}
}

func TestRawToTemperature(t *testing.T) {
	if got, want := rawToTemperature(0x3ad2), 15058*20*physic.MilliKelvin; got != want {
		t.Errorf("rawToTemperature(0x3ad2) = %s, want %s", got, want)
	}
	// 273.16 K, 0.01°C.
	if got := rawToTemperature(13658); got != physic.ZeroCelsius+10*physic.MilliKelvin {
		t.Errorf("rawToTemperature(13658) = %s", got)
	}
}
