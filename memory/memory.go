// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the flat 64KiB address space of the SSBC.
//
// Program, stack, ports and the program status word all share the one
// space. The port and PSW cells are conventions of their accessors; plain
// Get and Set reach every address.
package memory

import (
	"fmt"
)

const (
	MEMORY_SIZE = 1 << 16 // Number of addressable bytes.

	PC_RESET = Addr(0x0000) // Program counter after reset.
	SP_RESET = Addr(0xfffa) // Stack pointer after reset.
	PSW      = Addr(0xfffb) // Program status word.

	PSW_ZERO     = uint8(0x80) // Last arithmetic result was zero.
	PSW_NEGATIVE = uint8(0x40) // Last arithmetic result was above 128.
	PSW_NONE     = uint8(0x00) // Neither.
)

// Addr is an address in the SSBC memory space. Arithmetic wraps modulo 65536.
type Addr uint16

// Offset returns the address n bytes past addr, wrapping.
func (addr Addr) Offset(n int) Addr {
	return addr + Addr(uint16(n))
}

// String formats the address as used in traces.
func (addr Addr) String() string {
	return fmt.Sprintf("0x%04x", uint16(addr))
}

// Memory is the 64KiB byte store of the SSBC.
type Memory struct {
	data [MEMORY_SIZE]uint8
}

// NewMemory creates a zero filled memory.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	return
}

// Get reads the byte at addr.
func (mem *Memory) Get(addr Addr) uint8 {
	return mem.data[addr]
}

// Set writes value to addr.
func (mem *Memory) Set(addr Addr, value uint8) {
	mem.data[addr] = value
}

// Ext reads the big-endian 16 bit address stored at addr and addr+1.
func (mem *Memory) Ext(addr Addr) Addr {
	hi := uint16(mem.Get(addr))
	lo := uint16(mem.Get(addr.Offset(1)))
	return Addr(hi<<8 | lo)
}

// Load copies data into memory starting at addr, wrapping at the top of memory.
func (mem *Memory) Load(addr Addr, data []uint8) {
	for n, value := range data {
		mem.Set(addr.Offset(n), value)
	}
}

// Clear zero fills the memory.
func (mem *Memory) Clear() {
	clear(mem.data[:])
}
