package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ssbc/memory"
)

// newLoaded creates a reset CPU with program loaded at 0x0000.
func newLoaded(program ...uint8) (cpu *Cpu) {
	cpu = NewCpu()
	cpu.Memory.Load(0, program)
	cpu.Reset()
	return
}

func TestNewCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.False(cpu.Verbose)
	assert.NotNil(cpu.Memory)
	assert.Equal(memory.Addr(0), cpu.Pc)
	assert.Equal(memory.Addr(0), cpu.Sp)
	assert.False(cpu.Fault())
	assert.False(cpu.Halt())
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(0xff)
	cpu.Step()
	assert.True(cpu.Fault())

	cpu.Pc = 0x1234
	cpu.Sp = 0x0042
	cpu.Memory.Set(0x0100, 0x99)

	cpu.Reset()
	assert.Equal(memory.Addr(0x0000), cpu.Pc)
	assert.Equal(memory.Addr(0xfffa), cpu.Sp)
	assert.False(cpu.Fault())
	assert.False(cpu.Halt())
	assert.Equal(STATE_RUNNING, cpu.State)

	// Memory persists across reset.
	assert.Equal(uint8(0xff), cpu.Memory.Get(0x0000))
	assert.Equal(uint8(0x99), cpu.Memory.Get(0x0100))

	cpu = newLoaded(uint8(OP_HALT))
	cpu.Run()
	assert.True(cpu.Halt())
	cpu.Reset()
	assert.False(cpu.Halt())
	assert.Equal(memory.Addr(0xfffa), cpu.Sp)
}

func TestStep_Halt(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(uint8(OP_HALT))
	before := *cpu.Memory

	cpu.Step()
	assert.True(cpu.Halt())
	assert.False(cpu.Fault())
	assert.Equal(memory.Addr(1), cpu.Pc)
	assert.Equal(memory.Addr(0xfffa), cpu.Sp)
	assert.Equal(before, *cpu.Memory)
}

func TestStep_Fault(t *testing.T) {
	assert := assert.New(t)

	for code := OPCODE_COUNT; code < 256; code++ {
		cpu := newLoaded(uint8(code))
		cpu.Memory.Set(memory.PSW, 0x40)
		before := *cpu.Memory

		cpu.Step()
		assert.True(cpu.Fault(), "opcode 0x%02x", code)
		assert.False(cpu.Halt(), "opcode 0x%02x", code)
		assert.Equal(memory.Addr(1), cpu.Pc, "opcode 0x%02x", code)
		assert.Equal(memory.Addr(0xfffa), cpu.Sp, "opcode 0x%02x", code)
		assert.Equal(before, *cpu.Memory, "opcode 0x%02x", code)
		assert.Equal(0, cpu.Ticks, "opcode 0x%02x", code)

		op, ok := cpu.FaultCode()
		assert.True(ok)
		assert.Equal(Opcode(code), op)
	}

	cpu := newLoaded(uint8(OP_NOP))
	_, ok := cpu.FaultCode()
	assert.False(ok)

	// Only the instructions before the bad opcode are counted.
	cpu = newLoaded(uint8(OP_NOP), uint8(OP_NOP), 0xff)
	cpu.Run()
	assert.True(cpu.Fault())
	assert.Equal(2, cpu.Ticks)
}

func TestStep_Sticky(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []uint8
		state   State
	}){
		{"halt", []uint8{uint8(OP_HALT), uint8(OP_PUSHIMM), 7}, STATE_HALTED},
		{"fault", []uint8{0x0b, uint8(OP_PUSHIMM), 7}, STATE_FAULTED},
		{"late_halt", []uint8{uint8(OP_PUSHIMM), 1, uint8(OP_HALT), uint8(OP_POPINH)}, STATE_HALTED},
	}

	for _, entry := range table {
		cpu := newLoaded(entry.program...)
		cpu.Run()
		assert.Equal(entry.state, cpu.State, entry.name)

		pc, sp, state := cpu.Pc, cpu.Sp, cpu.State
		before := *cpu.Memory
		for range 16 {
			cpu.Step()
			cpu.Run()
		}
		assert.Equal(pc, cpu.Pc, entry.name)
		assert.Equal(sp, cpu.Sp, entry.name)
		assert.Equal(state, cpu.State, entry.name)
		assert.Equal(before, *cpu.Memory, entry.name)
	}
}

func TestStep_Stack(t *testing.T) {
	assert := assert.New(t)

	// pushimm 0x11, pushext 0x1000, popext 0x2000, popinh
	cpu := newLoaded(
		uint8(OP_PUSHIMM), 0x11,
		uint8(OP_PUSHEXT), 0x10, 0x00,
		uint8(OP_POPEXT), 0x20, 0x00,
		uint8(OP_POPINH),
		uint8(OP_HALT),
	)
	cpu.Memory.Set(0x1000, 0x22)

	cpu.Step()
	assert.Equal(memory.Addr(2), cpu.Pc)
	assert.Equal(memory.Addr(0xfff9), cpu.Sp)
	assert.Equal(uint8(0x11), cpu.Memory.Get(0xfffa))
	assert.Equal(uint8(0x11), cpu.Top())

	cpu.Step()
	assert.Equal(memory.Addr(5), cpu.Pc)
	assert.Equal(memory.Addr(0xfff8), cpu.Sp)
	assert.Equal(uint8(0x22), cpu.Memory.Get(0xfff9))

	cpu.Step()
	assert.Equal(memory.Addr(8), cpu.Pc)
	assert.Equal(memory.Addr(0xfff9), cpu.Sp)
	assert.Equal(uint8(0x22), cpu.Memory.Get(0x2000))

	cpu.Step()
	assert.Equal(memory.Addr(9), cpu.Pc)
	assert.Equal(memory.Addr(0xfffa), cpu.Sp)

	cpu.Step()
	assert.True(cpu.Halt())
	assert.Equal(5, cpu.Ticks)
}

func TestStep_StackWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(uint8(OP_PUSHIMM), 0x5a, uint8(OP_POPINH), uint8(OP_POPINH))
	cpu.Sp = 0x0000

	cpu.Step()
	assert.Equal(uint8(0x5a), cpu.Memory.Get(0x0000))
	assert.Equal(memory.Addr(0xffff), cpu.Sp)

	cpu.Step()
	assert.Equal(memory.Addr(0x0000), cpu.Sp)
	cpu.Step()
	assert.Equal(memory.Addr(0x0001), cpu.Sp)
}

func TestStep_PcWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Reset()
	cpu.Memory.Set(0xfffe, uint8(OP_PUSHEXT))
	cpu.Memory.Set(0xffff, 0x00)
	cpu.Memory.Set(0x0000, 0x10)
	cpu.Memory.Set(0x0010, 0x77)
	cpu.Pc = 0xfffe

	cpu.Step()
	assert.Equal(memory.Addr(0x0001), cpu.Pc)
	assert.Equal(uint8(0x77), cpu.Top())
}

func TestStep_Arithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		op     Opcode
		second uint8 // pushed first
		top    uint8 // pushed last
		result uint8
		psw    uint8
	}){
		{"add", OP_ADD, 5, 3, 8, 0x00},
		{"add_zero", OP_ADD, 0, 0, 0, 0x80},
		{"add_wrap_zero", OP_ADD, 0xff, 0x01, 0, 0x80},
		{"add_128", OP_ADD, 0x7f, 0x01, 0x80, 0x00},
		{"add_129", OP_ADD, 0x80, 0x01, 0x81, 0x40},
		{"add_wrap", OP_ADD, 0xf0, 0x20, 0x10, 0x00},
		{"sub", OP_SUB, 3, 5, 2, 0x00},
		{"sub_zero", OP_SUB, 0, 0, 0, 0x80},
		{"sub_order", OP_SUB, 5, 3, 0xfe, 0x40},
		{"sub_128", OP_SUB, 0x01, 0x81, 0x80, 0x00},
		{"nor", OP_NOR, 0x0f, 0x30, 0xc0, 0x55},
		{"nor_zero", OP_NOR, 0xff, 0x00, 0x00, 0x55},
	}

	for _, entry := range table {
		cpu := newLoaded(
			uint8(OP_PUSHIMM), entry.second,
			uint8(OP_PUSHIMM), entry.top,
			uint8(entry.op),
			uint8(OP_HALT),
		)
		cpu.Memory.Set(memory.PSW, 0x55)
		cpu.Run()

		assert.True(cpu.Halt(), entry.name)
		assert.Equal(memory.Addr(0xfff9), cpu.Sp, entry.name)
		assert.Equal(entry.result, cpu.Top(), entry.name)
		assert.Equal(entry.result, cpu.Memory.Get(0xfffa), entry.name)
		assert.Equal(entry.top, cpu.Memory.Get(0xfff9), entry.name)
		assert.Equal(entry.psw, cpu.GetPsw(), entry.name)
	}
}

func TestUpdatePsw(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	for value := range 256 {
		cpu.updatePsw(uint8(value))
		psw := cpu.GetPsw()
		switch {
		case value == 0:
			assert.Equal(uint8(0x80), psw, "%d", value)
		case value > 128:
			assert.Equal(uint8(0x40), psw, "%d", value)
		default:
			assert.Equal(uint8(0x00), psw, "%d", value)
		}
	}
}

func TestRun_PushAddHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(2, 0x05, 2, 0x03, 8, 1)
	cpu.Run()

	assert.True(cpu.Halt())
	assert.False(cpu.Fault())
	assert.Equal(memory.Addr(0xfff9), cpu.Sp)
	assert.Equal(uint8(8), cpu.Memory.Get(cpu.Sp.Offset(1)))
	assert.Equal(uint8(0x00), cpu.GetPsw())
	assert.Equal(memory.Addr(6), cpu.Pc)
}

func TestRun_PushSubHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(2, 0x00, 2, 0x00, 9, 1)
	cpu.Run()

	assert.True(cpu.Halt())
	assert.Equal(uint8(0), cpu.Top())
	assert.Equal(uint8(0x80), cpu.GetPsw())
}

func TestStep_Jump(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		op    Opcode
		psw   uint8
		taken bool
	}){
		{"jnz_none", OP_JNZ, 0x00, true},
		{"jnz_negative", OP_JNZ, 0x40, true},
		{"jnz_zero", OP_JNZ, 0x80, false},
		{"jnz_other", OP_JNZ, 0x55, true},
		{"jnn_none", OP_JNN, 0x00, true},
		{"jnn_zero", OP_JNN, 0x80, true},
		{"jnn_negative", OP_JNN, 0x40, false},
	}

	for _, entry := range table {
		cpu := newLoaded(uint8(entry.op), 0x12, 0x34)
		cpu.Memory.Set(memory.PSW, entry.psw)

		cpu.Step()
		if entry.taken {
			assert.Equal(memory.Addr(0x1234), cpu.Pc, entry.name)
		} else {
			assert.Equal(memory.Addr(0x0003), cpu.Pc, entry.name)
		}
		assert.Equal(memory.Addr(0xfffa), cpu.Sp, entry.name)
		assert.Equal(entry.psw, cpu.GetPsw(), entry.name)
	}
}

func TestStep_NorKeepsPsw(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(
		uint8(OP_PUSHIMM), 0x80,
		uint8(OP_PUSHIMM), 0x05,
		uint8(OP_ADD), // 0x85, negative
		uint8(OP_PUSHIMM), 0xff,
		uint8(OP_NOR), // 0x00
		uint8(OP_HALT),
	)
	cpu.Run()

	assert.True(cpu.Halt())
	assert.Equal(uint8(0x00), cpu.Top())
	assert.Equal(uint8(0x40), cpu.GetPsw())
}

func TestStep_PswIsMemory(t *testing.T) {
	assert := assert.New(t)

	// pushimm 0x80, popext PSW, jnz 0x0010, halt
	cpu := newLoaded(
		uint8(OP_PUSHIMM), 0x80,
		uint8(OP_POPEXT), 0xff, 0xfb,
		uint8(OP_JNZ), 0x00, 0x10,
		uint8(OP_HALT),
	)
	cpu.Run()

	assert.True(cpu.Halt())
	assert.Equal(uint8(0x80), cpu.GetPsw())
	assert.Equal(memory.Addr(9), cpu.Pc)
}

func TestRun_Loop(t *testing.T) {
	assert := assert.New(t)

	// Count port B down to zero, copying each value to port A.
	cpu := newLoaded(
		uint8(OP_PUSHIMM), 0xff, // -1
		uint8(OP_PUSHEXT), 0xff, 0xfd, // B
		uint8(OP_ADD),
		uint8(OP_POPEXT), 0xff, 0xfd, // B = B - 1
		uint8(OP_PUSHEXT), 0xff, 0xfd,
		uint8(OP_POPEXT), 0xff, 0xfc, // A = B
		uint8(OP_JNZ), 0x00, 0x00,
		uint8(OP_HALT),
	)
	cpu.WritePort(PORT_B, 5)
	cpu.Run()

	assert.True(cpu.Halt())
	assert.Equal(uint8(0), cpu.ReadPort(PORT_A))
	assert.Equal(uint8(0), cpu.ReadPort(PORT_B))
	assert.Equal(memory.Addr(0xfffa), cpu.Sp)
	assert.Equal(5*7+1, cpu.Ticks)
}

func TestPorts(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(memory.Addr(0xfffc), PORT_A.Addr())
	assert.Equal(memory.Addr(0xfffd), PORT_B.Addr())
	assert.Equal(memory.Addr(0xfffe), PORT_C.Addr())
	assert.Equal(memory.Addr(0xffff), PORT_D.Addr())

	assert.True(PORT_A.Output())
	assert.False(PORT_B.Output())
	assert.True(PORT_C.Output())
	assert.False(PORT_D.Output())

	cpu := NewCpu()
	for n, port := range Ports {
		cpu.WritePort(port, uint8(0xa0+n))
	}
	for n, port := range Ports {
		assert.Equal(uint8(0xa0+n), cpu.ReadPort(port))
		assert.Equal(uint8(0xa0+n), cpu.Memory.Get(port.Addr()))
	}

	port, err := ParsePort("C")
	assert.NoError(err)
	assert.Equal(PORT_C, port)

	_, err = ParsePort("E")
	assert.ErrorIs(err, ErrPortInvalid("E"))
}

func TestOpcode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("pushimm", OP_PUSHIMM.String())
	assert.Equal("Opcode(11)", Opcode(11).String())
	assert.True(OP_NOR.Valid())
	assert.False(Opcode(11).Valid())

	assert.Equal(0, OP_ADD.Operands())
	assert.Equal(1, OP_PUSHIMM.Operands())
	assert.Equal(2, OP_JNN.Operands())

	assert.True(OP_SUB.Arithmetic())
	assert.False(OP_NOR.Arithmetic())

	assert.Equal("pushimm 0x05", OP_PUSHIMM.Format(0x05, 0x00))
	assert.Equal("jnz 0x1234", OP_JNZ.Format(0x12, 0x34))
	assert.Equal("halt", OP_HALT.Format(0x12, 0x34))
	assert.Equal("fault(0xff)", Opcode(0xff).Format())
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("0xfffb", defines["PSW"])
	assert.Equal("0xfffa", defines["SP_RESET"])
	assert.Equal("0xfffc", defines["PORT_A"])
	assert.Equal("0xffff", defines["PORT_D"])
	assert.Equal("8", defines["OP_ADD"])
	assert.Equal("10", defines["OP_NOR"])
	assert.Equal("0x80", defines["PSW_ZERO"])
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(uint8(OP_PUSHIMM), 0x81, uint8(OP_HALT))
	cpu.Run()

	text := cpu.String()
	assert.Contains(text, "   pc: 0x0003\n")
	assert.Contains(text, "   sp: 0xfff9\n")
	assert.Contains(text, "  top: 10000001\n")
	assert.Contains(text, "state: halted\n")
}
