// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/ezrec/ssbc/memory"
	"github.com/ezrec/ssbc/translate"
)

var f = translate.From

var (
	// Run errors
	ErrStepLimit = errors.New(f("step limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc  memory.Addr
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc %v %v", err.Pc.String(), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
