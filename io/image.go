// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"strconv"

	"github.com/ezrec/ssbc/memory"
)

const (
	IMAGE_DIGITS   = 8       // Binary digits per image line.
	IMAGE_LINE_MAX = 1 << 20 // Longest accepted image line.
)

// Image is a machine code listing held in a file system.
//
// Each line of the listing is one byte, written as 8 binary digits, most
// significant first. Line N (zero based) is stored at address N. Lines
// shorter than 8 characters are skipped, leaving their address untouched.
// Characters past the eighth are ignored.
type Image struct {
	FS   fs.FS  // File system holding the listing.
	Name string // Name of the listing in FS.
}

// Load reads the listing into memory, returning the number of bytes stored.
// The listing is re-read on every call, so edits between loads are seen.
func (img *Image) Load(mem *memory.Memory) (count int, err error) {
	inf, err := img.FS.Open(img.Name)
	if err != nil {
		return
	}
	defer inf.Close()

	count, err = LoadImage(inf, mem)
	if err != nil {
		err = &ErrImage{Name: img.Name, Err: err}
	}
	return
}

// LoadImage reads a machine code listing from r into memory, returning the
// number of bytes stored. A listing with more lines than memory has
// addresses stores the first MEMORY_SIZE lines, and returns ErrImageSize.
func LoadImage(r io.Reader, mem *memory.Memory) (count int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), IMAGE_LINE_MAX)

	lineno := 0
	for scanner.Scan() {
		if lineno == memory.MEMORY_SIZE {
			err = ErrImageSize
			return
		}
		line := scanner.Text()
		addr := memory.Addr(lineno)
		lineno++

		if len(line) < IMAGE_DIGITS {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(line[:IMAGE_DIGITS], 2, 8)
		if err != nil {
			err = &ErrImageLine{LineNo: lineno, Line: line, Err: ErrBinary(line[:IMAGE_DIGITS])}
			return
		}

		mem.Set(addr, uint8(value))
		count++
	}

	err = scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		err = &ErrImageLine{LineNo: lineno + 1, Err: err}
	}

	return
}
