// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
)

const (
	// One LSB of Ta, TObj1 and TObj2 is 0.02 K.
	kelvinPerLSB   = 0.02
	celsiusOffset  = 273.15
	temperatureLSB = 20 * physic.MilliKelvin

	emissivityFullScale = 65535
)

// rawToCelsius converts a temperature register to °C.
func rawToCelsius(raw uint16) float64 {
	// The explicit conversion keeps the product rounded before the
	// subtraction on platforms with fused multiply-add.
	return float64(float64(raw)*kelvinPerLSB) - celsiusOffset
}

// rawToTemperature converts a temperature register without going through
// floating point.
func rawToTemperature(raw uint16) physic.Temperature {
	return physic.Temperature(raw) * temperatureLSB
}

// EmissivityToRegister converts an emissivity coefficient in [0, 1] to the
// register value, rounded to the nearest step of 1/65535.
func (d *Dev) EmissivityToRegister(s float64) (uint16, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	if s > 1.0 || s < 0 || math.IsNaN(s) {
		d.caps.Log.Printf("mlx90614: s %g is out of range.\n", s)
		return 0, fmt.Errorf("%w: %g", ErrEmissivityRange, s)
	}
	return uint16(math.Round(emissivityFullScale * s)), nil
}

// EmissivityFromRegister converts an emissivity register to the coefficient.
func (d *Dev) EmissivityFromRegister(reg uint16) (float64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return float64(reg) / emissivityFullScale, nil
}
