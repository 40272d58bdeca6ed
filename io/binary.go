// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBinary parses an operator supplied byte, written as up to 8 binary
// digits. Surrounding white space is ignored.
func ParseBinary(text string) (value uint8, err error) {
	word := strings.TrimSpace(text)
	v64, err := strconv.ParseUint(word, 2, 8)
	if err != nil {
		err = ErrBinary(word)
		return
	}

	value = uint8(v64)
	return
}

// FormatBinary formats a byte as 8 binary digits.
func FormatBinary(value uint8) string {
	return fmt.Sprintf("%08b", value)
}
