// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import "errors"

// Status is the class of an operation result. Every error returned by Dev
// maps to exactly one Status through StatusOf.
type Status uint8

const (
	// StatusOK is returned for a nil error.
	StatusOK Status = iota
	// StatusFailed is a bus, PEC or other operation specific failure.
	StatusFailed
	// StatusNilHandle is returned when the method receiver is nil.
	StatusNilHandle
	// StatusNotInitialized is returned when Init was not called, or when Init
	// itself is missing a capability.
	StatusNotInitialized
	// StatusInvalid means the bus worked but the value or result is not
	// acceptable.
	StatusInvalid
)

var (
	// ErrNilHandle is returned when a method is called on a nil *Dev.
	ErrNilHandle = errors.New("mlx90614: handle is nil")
	// ErrNotInitialized is returned by operations called before Init.
	ErrNotInitialized = errors.New("mlx90614: handle is not initialized")
	// ErrMissingCapability is returned by Init when a capability is nil.
	ErrMissingCapability = errors.New("mlx90614: capability is nil")

	// ErrPEC is returned when every read attempt came back with a packet
	// error code that doesn't match the data.
	ErrPEC = errors.New("mlx90614: pec mismatch")

	// ErrEmissivityRange is returned for a coefficient outside [0, 1].
	ErrEmissivityRange = errors.New("mlx90614: emissivity must be within [0, 1]")
	// ErrFieldRange is returned for a value wider than its Config1 field.
	ErrFieldRange = errors.New("mlx90614: value does not fit the configuration field")
	// ErrAddressRange is returned by WriteAddr for an address that doesn't
	// fit the programmable low nibble.
	ErrAddressRange = errors.New("mlx90614: address must be within [0x00, 0x0f]")
	// ErrObjectFlag is returned when the chip sets bit 15 of an object
	// temperature, flagging the measurement as invalid.
	ErrObjectFlag = errors.New("mlx90614: object temperature flag error")
	// ErrPowerDown is returned by Deinit when the sleep command fails.
	ErrPowerDown = errors.New("mlx90614: power down failed")
)

// StatusOf returns the Status of err.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNilHandle):
		return StatusNilHandle
	case errors.Is(err, ErrNotInitialized), errors.Is(err, ErrMissingCapability):
		return StatusNotInitialized
	case errors.Is(err, ErrEmissivityRange), errors.Is(err, ErrFieldRange),
		errors.Is(err, ErrAddressRange), errors.Is(err, ErrObjectFlag),
		errors.Is(err, ErrPowerDown):
		return StatusInvalid
	default:
		return StatusFailed
	}
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusNilHandle:
		return "nil handle"
	case StatusNotInitialized:
		return "not initialized"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
