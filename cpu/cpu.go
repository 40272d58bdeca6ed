// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/ssbc/memory"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":  fmt.Sprintf("%#x", memory.MEMORY_SIZE),
	"PC_RESET":     fmt.Sprintf("%#x", uint16(memory.PC_RESET)),
	"SP_RESET":     fmt.Sprintf("%#x", uint16(memory.SP_RESET)),
	"PSW":          fmt.Sprintf("%#x", uint16(memory.PSW)),
	"PSW_ZERO":     fmt.Sprintf("%#x", memory.PSW_ZERO),
	"PSW_NEGATIVE": fmt.Sprintf("%#x", memory.PSW_NEGATIVE),
	"PSW_NONE":     fmt.Sprintf("%#x", memory.PSW_NONE),
}

func init() {
	for op := range OPCODE_COUNT {
		name := "OP_" + strings.ToUpper(Opcode(op).String())
		_cpu_defines[name] = fmt.Sprintf("%d", op)
	}
	for _, port := range Ports {
		_cpu_defines["PORT_"+port.String()] = fmt.Sprintf("%#x", uint16(port.Addr()))
	}
}

// Cpu is the simulation context for the SSBC.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory // Memory owned by the CPU.

	Pc    memory.Addr // Program counter.
	Sp    memory.Addr // Stack pointer; the next free slot below the top of stack.
	State State       // Run state; halted and faulted are latched.

	Ticks int // Valid instructions executed since reset.

	faultCode Opcode // Opcode that latched the fault.
}

// NewCpu creates a new CPU with zero filled memory and zeroed registers.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: memory.NewMemory(),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Sets the program counter to 0x0000.
// - Sets the stack pointer to 0xFFFA.
// - Clears the halt and fault latches.
//
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = memory.PC_RESET
	cpu.Sp = memory.SP_RESET
	cpu.State = STATE_RUNNING
	cpu.Ticks = 0
	cpu.faultCode = 0
}

// Halt returns true if a halt instruction has executed since reset.
func (cpu *Cpu) Halt() bool {
	return cpu.State == STATE_HALTED
}

// Fault returns true if an invalid opcode was fetched since reset.
func (cpu *Cpu) Fault() bool {
	return cpu.State == STATE_FAULTED
}

// FaultCode returns the opcode that latched the fault.
func (cpu *Cpu) FaultCode() (op Opcode, ok bool) {
	if cpu.State != STATE_FAULTED {
		return
	}

	op = cpu.faultCode
	ok = true
	return
}

// GetPsw returns the program status word.
func (cpu *Cpu) GetPsw() uint8 {
	return cpu.Memory.Get(memory.PSW)
}

// Top returns the byte on top of the stack.
func (cpu *Cpu) Top() uint8 {
	return cpu.Memory.Get(cpu.Sp.Offset(1))
}

// ReadPort returns the raw byte in a port cell.
func (cpu *Cpu) ReadPort(port Port) uint8 {
	return cpu.Memory.Get(port.Addr())
}

// WritePort stores a raw byte in a port cell.
func (cpu *Cpu) WritePort(port Port, value uint8) {
	cpu.Memory.Set(port.Addr(), value)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "sp", "psw", "top", "state",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = cpu.Pc.String()
		case "sp":
			strval = cpu.Sp.String()
		case "psw":
			strval = fmt.Sprintf("%08b", cpu.GetPsw())
		case "top":
			strval = fmt.Sprintf("%08b", cpu.Top())
		case "state":
			strval = cpu.State.String()
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// fetch reads the byte at the program counter, advancing the program counter.
func (cpu *Cpu) fetch() (value uint8) {
	value = cpu.Memory.Get(cpu.Pc)
	cpu.Pc++
	return
}

// fetchExt reads the big-endian address at the program counter, advancing
// the program counter by two.
func (cpu *Cpu) fetchExt() (addr memory.Addr) {
	addr = cpu.Memory.Ext(cpu.Pc)
	cpu.Pc += 2
	return
}

// push writes value to the free slot, and moves the stack pointer down.
func (cpu *Cpu) push(value uint8) {
	cpu.Memory.Set(cpu.Sp, value)
	cpu.Sp--
}

// updatePsw classifies an arithmetic result.
// Results above 128 are negative; exactly 128 is neither.
func (cpu *Cpu) updatePsw(result uint8) {
	psw := memory.PSW_NONE
	switch {
	case result > 128:
		psw = memory.PSW_NEGATIVE
	case result == 0:
		psw = memory.PSW_ZERO
	}
	cpu.Memory.Set(memory.PSW, psw)
}

// Step executes a single instruction. Does nothing once halted or faulted.
func (cpu *Cpu) Step() {
	if cpu.State.Stopped() {
		return
	}

	mem := cpu.Memory

	ip := cpu.Pc
	op := Opcode(cpu.fetch())

	if cpu.Verbose {
		operands := []uint8{mem.Get(cpu.Pc), mem.Get(cpu.Pc.Offset(1))}
		log.Printf("cpu: %v: %v", ip, op.Format(operands...))
	}

	if !op.Valid() {
		cpu.faultCode = op
		cpu.State = STATE_FAULTED
		if cpu.Verbose {
			log.Printf("cpu: %v: fault", ip)
		}
		return
	}

	cpu.Ticks++

	// Operands of the arithmetic instructions.
	second := cpu.Sp.Offset(2)
	top := cpu.Sp.Offset(1)

	switch op {
	case OP_NOP:
		// pass
	case OP_HALT:
		cpu.State = STATE_HALTED
	case OP_PUSHIMM:
		cpu.push(cpu.fetch())
	case OP_PUSHEXT:
		ext := cpu.fetchExt()
		cpu.push(mem.Get(ext))
	case OP_POPINH:
		cpu.Sp++
	case OP_POPEXT:
		ext := cpu.fetchExt()
		mem.Set(ext, mem.Get(top))
		cpu.Sp++
	case OP_JNZ:
		ext := cpu.fetchExt()
		if mem.Get(memory.PSW) != memory.PSW_ZERO {
			cpu.Pc = ext
		}
	case OP_JNN:
		ext := cpu.fetchExt()
		if mem.Get(memory.PSW) != memory.PSW_NEGATIVE {
			cpu.Pc = ext
		}
	case OP_ADD:
		result := mem.Get(second) + mem.Get(top)
		mem.Set(second, result)
		cpu.updatePsw(result)
		cpu.Sp++
	case OP_SUB:
		// Top of stack minus second.
		result := mem.Get(top) - mem.Get(second)
		mem.Set(second, result)
		cpu.updatePsw(result)
		cpu.Sp++
	case OP_NOR:
		result := ^(mem.Get(second) | mem.Get(top))
		mem.Set(second, result)
		cpu.Sp++
	}
}

// Run executes instructions until halted or faulted.
func (cpu *Cpu) Run() {
	for !cpu.State.Stopped() {
		cpu.Step()
	}
}
