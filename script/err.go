// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"github.com/ezrec/ssbc/translate"
)

var f = translate.From

// ErrRange is a builtin argument outside of its address or byte range.
type ErrRange struct {
	Builtin string
	Arg     string
	Value   int
}

func (err *ErrRange) Error() string {
	return f("%v: %v %#x out of range", err.Builtin, err.Arg, err.Value)
}

// ErrDefine is a define that is not an integer.
type ErrDefine struct {
	Name  string
	Value string
	Err   error
}

func (err *ErrDefine) Error() string {
	return f("define %v '%v' %v", err.Name, err.Value, err.Err)
}

func (err *ErrDefine) Unwrap() error {
	return err.Err
}
