// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the small stack-based computer (SSBC).
//
// The CPU consists of a program counter (PC), a stack pointer (SP) and a
// run state, all operating on a flat 64KiB memory. The stack grows down from
// just below the program status word (PSW) at 0xFFFB, which sits below the
// four memory mapped ports at 0xFFFC-0xFFFF.
//
// Instructions are a single opcode byte, followed by an optional immediate
// byte (pushimm) or a big-endian 16-bit address (pushext, popext, jnz, jnn).
// Only add and sub update the PSW.
//
// Halt and fault are latched. Once either is reached, Step and Run do
// nothing until Reset.
package cpu
