// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"github.com/ezrec/ssbc/memory"
)

// Port is one of the four memory mapped I/O cells.
type Port int

//go:generate go tool stringer -linecomment -type=Port
const (
	PORT_A = Port(0) // A
	PORT_B = Port(1) // B
	PORT_C = Port(2) // C
	PORT_D = Port(3) // D
)

// PORT_BASE is the address of port A. Ports B, C and D follow it.
const PORT_BASE = memory.Addr(0xfffc)

// Ports lists all ports in address order.
var Ports = [...]Port{PORT_A, PORT_B, PORT_C, PORT_D}

// Addr returns the memory cell of the port.
func (port Port) Addr() memory.Addr {
	return PORT_BASE.Offset(int(port) & 0x3)
}

// Output returns true for the ports the program writes and the operator
// reads (A and C). B and D are written by the operator.
func (port Port) Output() bool {
	return port == PORT_A || port == PORT_C
}

// ParsePort maps a port letter to its Port.
func ParsePort(name string) (port Port, err error) {
	for _, port = range Ports {
		if port.String() == name {
			return
		}
	}

	err = ErrPortInvalid(name)
	return
}
