// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package console implements the SSBC operator console.
//
// The console reads one command per line. The first character selects
// the command; the rest of the line is ignored.
//
//	R  reset, and reload the machine code image
//	b  step a single instruction ("break")
//	r  run until halt or fault
//	A  read port A        C  read port C
//	B  write port B       D  write port D
//	s  fault and halt status
//	t  top of stack
//	p  program status word
//	q  quit
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	goIO "io"
	"log"

	"github.com/ezrec/ssbc/cpu"
	"github.com/ezrec/ssbc/emulator"
	"github.com/ezrec/ssbc/io"
	"github.com/ezrec/ssbc/translate"
)

var menu = []string{
	"+------------------------+ ",
	"|  R: RESET              | ",
	"|  b: BREAK              | ",
	"|  r: RUN                | ",
	"|  A: READ PORT A        | ",
	"|  B: WRITE PORT B       | ",
	"|  C: READ PORT C        | ",
	"|  D: WRITE PORT D       | ",
	"|  s: STATUS             | ",
	"|  t: TOP                | ",
	"|  p: PSW                | ",
	"|  q: QUIT               | ",
	"|                        | ",
	"|  Enter menu selection: | ",
	"+------------------------+ ",
}

// Console drives an emulator from an operator's line oriented input.
type Console struct {
	Verbose  bool               // If set, logs each command.
	Emulator *emulator.Emulator // Machine under control.
	Menu     bool               // If set, print the menu before each command.

	// RunContext creates the context for each run command.
	// Defaults to a context that is never cancelled.
	RunContext func() (ctx context.Context, stop context.CancelFunc)

	input  *bufio.Scanner
	output goIO.Writer
}

// NewConsole creates a console reading commands from input.
func NewConsole(emu *emulator.Emulator, input goIO.Reader, output goIO.Writer) (con *Console) {
	con = &Console{
		Emulator: emu,
		input:    bufio.NewScanner(input),
		output:   output,
	}

	return
}

// printf writes translated text to the operator.
func (con *Console) printf(format string, args ...any) {
	translate.Fprintf(con.output, format, args...)
}

// warn reports a recoverable problem to the operator.
func (con *Console) warn(err error) {
	con.printf("WARNING: %v\n", err)
}

// readLine reads the next line of operator input.
func (con *Console) readLine() (line string, ok bool) {
	ok = con.input.Scan()
	if ok {
		line = con.input.Text()
	}
	return
}

// Repl repeatedly asks the operator for commands, until quit or end of input.
func (con *Console) Repl() (err error) {
	for {
		con.prompt()

		line, ok := con.readLine()
		if !ok {
			break
		}

		var command byte = ' '
		if len(line) > 0 {
			command = line[0]
		}

		if con.Verbose {
			log.Printf("console: command %q", command)
		}

		if !con.Execute(command) {
			break
		}
	}

	err = con.input.Err()
	return
}

// Execute performs a single console command.
// Returns false when the console should stop.
func (con *Console) Execute(command byte) (more bool) {
	more = true

	switch command {
	case 'R':
		con.reset()
	case 'b':
		con.Emulator.Tick()
	case 'r':
		con.run()
	case 'A':
		con.readPort(cpu.PORT_A)
	case 'B':
		more = con.writePort(cpu.PORT_B)
	case 'C':
		con.readPort(cpu.PORT_C)
	case 'D':
		more = con.writePort(cpu.PORT_D)
	case 's':
		con.status()
	case 't':
		con.top()
	case 'p':
		con.psw()
	case 'q':
		more = false
	default:
		con.printf("WARNING: Unknown command\n")
	}

	return
}

func (con *Console) prompt() {
	if !con.Menu {
		return
	}

	for _, line := range menu {
		fmt.Fprintln(con.output, line)
	}
}

func (con *Console) reset() {
	_, err := con.Emulator.Reset()
	if err != nil {
		con.warn(err)
	}
}

func (con *Console) run() {
	ctx, stop := context.Background(), context.CancelFunc(func() {})
	if con.RunContext != nil {
		ctx, stop = con.RunContext()
	}
	defer stop()

	// Faults are reported by the status command.
	err := con.Emulator.Run(ctx)
	if err != nil && !errors.Is(err, cpu.ErrFaulted) {
		con.warn(err)
	}
}

func (con *Console) readPort(port cpu.Port) {
	value := con.Emulator.ReadPort(port)
	if value == 0 {
		// Zero reads as blank.
		con.printf("Port %v value:  \n", port)
	} else {
		con.printf("Port %v value: %v \n", port, io.FormatBinary(value))
	}
}

func (con *Console) writePort(port cpu.Port) (more bool) {
	con.printf("Enter Port %v value in binary (8 bits) ", port)

	line, ok := con.readLine()
	if !ok {
		return
	}
	more = true

	value, err := io.ParseBinary(line)
	if err != nil {
		con.warn(err)
		return
	}

	con.Emulator.WritePort(port, value)
	return
}

func (con *Console) status() {
	fault, halt := 0, 0
	if con.Emulator.Fault() {
		fault = 1
	}
	if con.Emulator.Halt() {
		halt = 1
	}
	con.printf("Fault: %v \n", fault)
	con.printf(" Halt: %v \n", halt)
}

func (con *Console) top() {
	con.printf("Top of stack: %v\n", io.FormatBinary(con.Emulator.Top()))
}

func (con *Console) psw() {
	con.printf("PSW: %v\n", io.FormatBinary(con.Emulator.GetPsw()))
}
