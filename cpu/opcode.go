// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
)

// Opcode is the first byte of an SSBC instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP     = Opcode(0)  // nop
	OP_HALT    = Opcode(1)  // halt
	OP_PUSHIMM = Opcode(2)  // pushimm
	OP_PUSHEXT = Opcode(3)  // pushext
	OP_POPINH  = Opcode(4)  // popinh
	OP_POPEXT  = Opcode(5)  // popext
	OP_JNZ     = Opcode(6)  // jnz
	OP_JNN     = Opcode(7)  // jnn
	OP_ADD     = Opcode(8)  // add
	OP_SUB     = Opcode(9)  // sub
	OP_NOR     = Opcode(10) // nor
)

// OPCODE_COUNT is the number of valid opcodes. All opcodes at or above it fault.
const OPCODE_COUNT = int(OP_NOR) + 1

// Valid returns true if the opcode decodes to an instruction.
func (op Opcode) Valid() bool {
	return op <= OP_NOR
}

// Operands returns the number of bytes following the opcode in the
// instruction stream.
func (op Opcode) Operands() int {
	switch op {
	case OP_PUSHIMM:
		return 1
	case OP_PUSHEXT, OP_POPEXT, OP_JNZ, OP_JNN:
		return 2
	}
	return 0
}

// Arithmetic returns true if the opcode updates the PSW.
func (op Opcode) Arithmetic() bool {
	return op == OP_ADD || op == OP_SUB
}

// Format renders the opcode with its operand bytes, as seen in traces.
func (op Opcode) Format(operands ...uint8) (out string) {
	switch {
	case !op.Valid():
		out = fmt.Sprintf("fault(0x%02x)", uint8(op))
	case op.Operands() == 1 && len(operands) >= 1:
		out = fmt.Sprintf("%v 0x%02x", op, operands[0])
	case op.Operands() == 2 && len(operands) >= 2:
		out = fmt.Sprintf("%v 0x%02x%02x", op, operands[0], operands[1])
	default:
		out = op.String()
	}
	return
}
