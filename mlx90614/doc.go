// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mlx90614 controls a Melexis MLX90614 infrared thermometer over
// SMBus.
//
// Every transaction carries a Packet Error Code. Reads with a bad PEC are
// retried up to three times, 5ms apart. Writes to the EEPROM map (commands
// 0x20 to 0x3f) erase the cell first and wait 10ms after each phase.
//
// The driver doesn't own the hardware. It calls through the Capabilities
// given to Dev.Link: a Bus, the SCL and SDA lines as GPIO outputs, a Delayer
// and a Logger. I2CBus binds a periph.io bus, TinyGoBus a TinyGo one, and
// NewI2C wires everything for the common periph.io case.
//
// Dev implements physic.SenseEnv; Sense and SenseContinuous report the object
// temperature of the first IR sensor.
//
// Range: -70°C - 380°C object, -40°C - 125°C ambient
//
// Resolution: 0.02°C
//
// # Datasheet
//
// https://www.melexis.com/en/documents/documentation/datasheets/datasheet-mlx90614
package mlx90614
