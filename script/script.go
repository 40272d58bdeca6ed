// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script drives an SSBC emulator from a Starlark program.
//
// Every emulator define (PSW, PORT_A, OP_ADD, ...) is a predeclared integer.
// The builtins are:
//
//	reset()                 reset, reloading the image; returns bytes loaded
//	step()                  execute one instruction; returns True once stopped
//	run(max_steps=0)        run until stopped; returns the state name
//	state()                 "running", "halted" or "faulted"
//	halted(), faulted()     latch tests
//	pc(), sp(), psw(), top()
//	set_pc(addr), set_sp(addr)
//	peek(addr), poke(addr, value)
//	store(addr, values)     poke a list of bytes starting at addr
//	read_port(name), write_port(name, value)
//
// print() output goes to the writer given to Exec.
package script

import (
	"context"
	"errors"
	"fmt"
	goIO "io"
	"log"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ssbc/cpu"
	"github.com/ezrec/ssbc/emulator"
	"github.com/ezrec/ssbc/internal"
	"github.com/ezrec/ssbc/memory"
)

// machine binds the builtins to an emulator.
type machine struct {
	ctx context.Context
	emu *emulator.Emulator
}

type builtinFunc func(m *machine, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var builtins = map[string]builtinFunc{
	"reset":      (*machine).reset,
	"step":       (*machine).step,
	"run":        (*machine).run,
	"state":      (*machine).state,
	"halted":     (*machine).halted,
	"faulted":    (*machine).faulted,
	"pc":         (*machine).pc,
	"sp":         (*machine).sp,
	"psw":        (*machine).psw,
	"top":        (*machine).top,
	"set_pc":     (*machine).setPc,
	"set_sp":     (*machine).setSp,
	"peek":       (*machine).peek,
	"poke":       (*machine).poke,
	"store":      (*machine).store,
	"read_port":  (*machine).readPort,
	"write_port": (*machine).writePort,
}

// Predeclared returns the globals visible to a script driving emu.
func Predeclared(ctx context.Context, emu *emulator.Emulator) (pred starlark.StringDict, err error) {
	pred = starlark.StringDict{}

	for key, str := range internal.SortedSeq2(emu.Defines()) {
		var v64 int64
		v64, err = strconv.ParseInt(str, 0, 64)
		if err != nil {
			err = &ErrDefine{Name: key, Value: str, Err: err}
			return
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	m := &machine{ctx: ctx, emu: emu}
	for name, fn := range builtins {
		pred[name] = starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return fn(m, b, args, kwargs)
		})
	}

	return
}

// Exec runs a Starlark program against emu, returning its globals.
// Cancelling ctx interrupts both the script and any run in progress.
func Exec(ctx context.Context, emu *emulator.Emulator, filename string, src any, output goIO.Writer) (globals starlark.StringDict, err error) {
	pred, err := Predeclared(ctx, emu)
	if err != nil {
		return
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(output, msg)
		},
	}

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	if emu.Verbose {
		log.Printf("script: exec %v", filename)
	}

	opts := syntax.FileOptions{}
	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	return
}

// unpackAddr checks an address argument.
func unpackAddr(b *starlark.Builtin, name string, value int) (addr memory.Addr, err error) {
	if value < 0 || value >= memory.MEMORY_SIZE {
		err = &ErrRange{Builtin: b.Name(), Arg: name, Value: value}
		return
	}
	addr = memory.Addr(value)
	return
}

// unpackByte checks a byte argument.
func unpackByte(b *starlark.Builtin, name string, value int) (byt uint8, err error) {
	if value < 0 || value > 0xff {
		err = &ErrRange{Builtin: b.Name(), Arg: name, Value: value}
		return
	}
	byt = uint8(value)
	return
}

func (m *machine) reset(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	count, err := m.emu.Reset()
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(count), nil
}

func (m *machine) step(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	done, _ := m.emu.Tick()
	return starlark.Bool(done), nil
}

func (m *machine) run(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	max_steps := m.emu.MaxSteps
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "max_steps?", &max_steps); err != nil {
		return nil, err
	}

	saved := m.emu.MaxSteps
	m.emu.MaxSteps = max_steps
	defer func() { m.emu.MaxSteps = saved }()

	err := m.emu.Run(m.ctx)
	if err != nil && !errors.Is(err, cpu.ErrFaulted) {
		return nil, err
	}
	return starlark.String(m.emu.State.String()), nil
}

func (m *machine) state(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.String(m.emu.State.String()), nil
}

func (m *machine) halted(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.Bool(m.emu.Halt()), nil
}

func (m *machine) faulted(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.Bool(m.emu.Fault()), nil
}

func (m *machine) pc(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(m.emu.Pc)), nil
}

func (m *machine) sp(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(m.emu.Sp)), nil
}

func (m *machine) psw(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(m.emu.GetPsw())), nil
}

func (m *machine) top(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(m.emu.Top())), nil
}

func (m *machine) setPc(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &value); err != nil {
		return nil, err
	}
	addr, err := unpackAddr(b, "addr", value)
	if err != nil {
		return nil, err
	}
	m.emu.Pc = addr
	return starlark.None, nil
}

func (m *machine) setSp(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &value); err != nil {
		return nil, err
	}
	addr, err := unpackAddr(b, "addr", value)
	if err != nil {
		return nil, err
	}
	m.emu.Sp = addr
	return starlark.None, nil
}

func (m *machine) peek(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &value); err != nil {
		return nil, err
	}
	addr, err := unpackAddr(b, "addr", value)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(m.emu.Peek(addr))), nil
}

func (m *machine) poke(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a_value, b_value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &a_value, "value", &b_value); err != nil {
		return nil, err
	}
	addr, err := unpackAddr(b, "addr", a_value)
	if err != nil {
		return nil, err
	}
	byt, err := unpackByte(b, "value", b_value)
	if err != nil {
		return nil, err
	}
	m.emu.Poke(addr, byt)
	return starlark.None, nil
}

func (m *machine) store(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a_value int
	var values *starlark.List
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &a_value, "values", &values); err != nil {
		return nil, err
	}
	addr, err := unpackAddr(b, "addr", a_value)
	if err != nil {
		return nil, err
	}

	data := make([]uint8, values.Len())
	for n := range data {
		var value int
		value, err = starlark.AsInt32(values.Index(n))
		if err != nil {
			return nil, fmt.Errorf("%s: values[%d]: %w", b.Name(), n, err)
		}
		data[n], err = unpackByte(b, fmt.Sprintf("values[%d]", n), value)
		if err != nil {
			return nil, err
		}
	}

	m.emu.Cpu.Memory.Load(addr, data)
	return starlark.MakeInt(len(data)), nil
}

func (m *machine) readPort(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	port, err := cpu.ParsePort(name)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(m.emu.ReadPort(port))), nil
}

func (m *machine) writePort(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "value", &value); err != nil {
		return nil, err
	}
	port, err := cpu.ParsePort(name)
	if err != nil {
		return nil, err
	}
	byt, err := unpackByte(b, "value", value)
	if err != nil {
		return nil, err
	}
	m.emu.WritePort(port, byt)
	return starlark.None, nil
}
