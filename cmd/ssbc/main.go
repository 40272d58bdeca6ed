// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	goIO "io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"golang.org/x/term"

	"github.com/ezrec/ssbc/console"
	"github.com/ezrec/ssbc/emulator"
	"github.com/ezrec/ssbc/io"
	"github.com/ezrec/ssbc/script"
)

func main() {
	config := parseArgs(os.Args)

	emu := emulator.NewEmulator()
	emu.Verbose = config.Verbose
	emu.MaxSteps = config.MaxSteps

	if len(config.Image) != 0 {
		path, err := filepath.Abs(config.Image)
		if err != nil {
			log.Fatalf("%v: %v", config.Image, err)
		}
		emu.Image = &io.Image{
			FS:   os.DirFS(filepath.Dir(path)),
			Name: filepath.Base(path),
		}
	}

	if len(config.Script) != 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var src []byte
		var err error
		if config.Script == "-" {
			src, err = goIO.ReadAll(os.Stdin)
		} else {
			src, err = os.ReadFile(config.Script)
		}
		if err != nil {
			log.Fatalf("%v: %v", config.Script, err)
		}

		_, err = script.Exec(ctx, emu, config.Script, src, os.Stdout)
		if err != nil {
			log.Fatalf("%v: %v", config.Script, err)
		}
		return
	}

	con := console.NewConsole(emu, os.Stdin, os.Stdout)
	con.Verbose = config.Verbose
	con.Menu = config.Menu || term.IsTerminal(int(os.Stdin.Fd()))
	con.RunContext = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt)
	}

	err := con.Repl()
	if err != nil {
		log.Fatal(err)
	}
}
