// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for infrared thermometer drivers.
//
// Each driver lives in its own package and talks to the hardware through
// periph.io/x/conn/v3 or tinygo.org/x/drivers.
package devices
