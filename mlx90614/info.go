// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import "periph.io/x/conn/v3/physic"

// Info describes the chip and the driver.
type Info struct {
	ChipName         string
	Manufacturer     string
	Interface        string
	SupplyVoltageMin physic.ElectricPotential
	SupplyVoltageMax physic.ElectricPotential
	MaxCurrent       physic.ElectricCurrent
	TemperatureMin   physic.Temperature
	TemperatureMax   physic.Temperature
	DriverVersion    int
}

// ChipInfo returns the static chip information.
func ChipInfo() Info {
	return Info{
		ChipName:         "Melexis MLX90614",
		Manufacturer:     "Melexis",
		Interface:        "IIC",
		SupplyVoltageMin: 4500 * physic.MilliVolt,
		SupplyVoltageMax: 5500 * physic.MilliVolt,
		MaxCurrent:       2500 * physic.MicroAmpere,
		TemperatureMin:   physic.ZeroCelsius - 40*physic.Kelvin,
		TemperatureMax:   physic.ZeroCelsius + 125*physic.Kelvin,
		DriverVersion:    1000,
	}
}
