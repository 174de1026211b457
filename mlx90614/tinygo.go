// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import "tinygo.org/x/drivers"

// TinyGoBus adapts a tinygo.org/x/drivers I²C bus to Bus. TinyGo buses are
// configured by the board setup code, so Open and Close do nothing.
type TinyGoBus struct {
	I2C drivers.I2C
}

// Open implements Bus.
func (b TinyGoBus) Open() error {
	if b.I2C == nil {
		return errNoBus
	}
	return nil
}

// Close implements Bus.
func (b TinyGoBus) Close() error {
	return nil
}

// ReadReg implements Bus.
func (b TinyGoBus) ReadReg(addr, reg uint8, r []byte) error {
	return b.I2C.Tx(uint16(addr), []byte{reg}, r)
}

// WriteReg implements Bus.
func (b TinyGoBus) WriteReg(addr, reg uint8, w []byte) error {
	buf := make([]byte, 0, len(w)+1)
	buf = append(buf, reg)
	buf = append(buf, w...)
	return b.I2C.Tx(uint16(addr), buf, nil)
}

var _ Bus = TinyGoBus{}
