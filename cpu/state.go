// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// State is the run state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

// Stopped returns true for the latched states.
func (st State) Stopped() bool {
	return st != STATE_RUNNING
}
