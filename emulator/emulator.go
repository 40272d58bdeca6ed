// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ssbc/cpu"
	"github.com/ezrec/ssbc/internal"
	"github.com/ezrec/ssbc/io"
	"github.com/ezrec/ssbc/memory"
)

const (
	CHECK_INTERVAL = 1024 // Steps between context checks in Run.
)

var _emulator_defines = map[string]string{
	"IMAGE_DIGITS": fmt.Sprintf("%v", io.IMAGE_DIGITS),
}

// Emulator state. CPU + machine code image + run limits.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Image    *io.Image // Listing reloaded on every Reset, if set.
	MaxSteps int       // Steps allowed per Run; zero is unlimited.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the CPU, and reload the image into memory.
// Memory outside of the image is kept.
func (emu *Emulator) Reset() (count int, err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	if emu.Image == nil {
		return
	}

	count, err = emu.Image.Load(emu.Cpu.Memory)
	if emu.Verbose {
		log.Printf("emulator: loaded %v bytes from %v", count, emu.Image.Name)
	}

	return
}

// Stopped returns the reason the CPU is not running.
// A halted CPU returns cpu.ErrHalted. A faulted CPU returns an ErrRuntime.
func (emu *Emulator) Stopped() (err error) {
	switch emu.Cpu.State {
	case cpu.STATE_HALTED:
		err = cpu.ErrHalted
	case cpu.STATE_FAULTED:
		op, _ := emu.Cpu.FaultCode()
		err = &ErrRuntime{
			Pc:  emu.Cpu.Pc.Offset(-1),
			Err: cpu.ErrOpcode(op),
		}
	}

	return
}

// Tick performs a single step of the emulator.
// done is set once the CPU halts or faults; a fault is also an error.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.State.Stopped() {
		emu.Cpu.Step()
	}

	done = emu.Cpu.State.Stopped()
	err = emu.Stopped()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
	}

	return
}

// Run executes until the CPU halts or faults, MaxSteps are taken, or
// the context is done. A halt returns no error.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	emu.Cpu.Verbose = emu.Verbose

	start := emu.Cpu.Pc

	for steps := 0; !emu.Cpu.State.Stopped(); steps++ {
		if emu.MaxSteps > 0 && steps >= emu.MaxSteps {
			err = &ErrRuntime{Pc: emu.Cpu.Pc, Err: ErrStepLimit}
			return
		}
		if steps%CHECK_INTERVAL == 0 {
			err = ctx.Err()
			if err != nil {
				err = &ErrRuntime{Pc: emu.Cpu.Pc, Err: err}
				return
			}
		}
		emu.Cpu.Step()
	}

	if emu.Verbose {
		log.Printf("emulator: run from %v %v at %v", start, emu.Cpu.State, emu.Cpu.Pc)
	}

	err = emu.Stopped()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
	}

	return
}

// Peek reads any memory cell.
func (emu *Emulator) Peek(addr memory.Addr) uint8 {
	return emu.Cpu.Memory.Get(addr)
}

// Poke writes any memory cell.
func (emu *Emulator) Poke(addr memory.Addr, value uint8) {
	emu.Cpu.Memory.Set(addr, value)
}
