// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/ssbc/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted  = errors.New(f("halted"))
	ErrFaulted = errors.New(f("faulted"))
)

// ErrOpcode is the invalid opcode that latched a fault.
type ErrOpcode uint8

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x", uint8(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

func (eo ErrOpcode) Unwrap() error {
	return ErrFaulted
}

// ErrPortInvalid is a port name that is not one of A, B, C or D.
type ErrPortInvalid string

func (ep ErrPortInvalid) Error() string {
	return f("port '%v' invalid", string(ep))
}
