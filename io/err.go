// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"
	"strconv"

	"github.com/ezrec/ssbc/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageSize = errors.New(f("machine code exceeds memory size"))
)

// ErrBinary is text that is not an 8 bit binary number.
type ErrBinary string

func (err ErrBinary) Error() string {
	return f("'%v' is not an 8 bit binary value", string(err))
}

// ErrImageLine indicates the location of a bad line in a listing.
type ErrImageLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrImageLine) Error() string {
	// Line numbers are not grouped by locale.
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err *ErrImageLine) Unwrap() error {
	return err.Err
}

// ErrImage indicates the listing that failed to load.
type ErrImage struct {
	Name string
	Err  error
}

func (err *ErrImage) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}
