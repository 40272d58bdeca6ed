// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"os"
)

const VERSION = "0.1.0"

// Config defines program configuration.
type Config struct {
	Image    string // Machine code listing reloaded on every reset.
	Script   string // Starlark script to run instead of the console.
	MaxSteps int    // Steps allowed per run; zero is unlimited.
	Menu     bool   // Force the console menu, even when not on a terminal.
	Verbose  bool   // Verbose mode.
}

// parseArgs parses command line arguments.
//
// Exits the program on bad arguments, or after printing the version.
func parseArgs(args []string) *Config {
	var c Config
	c.Image = "mac"

	flags := flag.NewFlagSet(args[0], flag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "%s [options]\n", args[0])
		flags.PrintDefaults()
	}

	flags.StringVar(&c.Image, "m", c.Image, "Machine code listing, one binary byte per line")
	flags.StringVar(&c.Script, "s", "", "Starlark script to execute, '-' for stdin")
	flags.IntVar(&c.MaxSteps, "n", 0, "Maximum steps per run, 0 for unlimited")
	flags.BoolVar(&c.Menu, "menu", false, "Always print the console menu")
	flags.BoolVar(&c.Verbose, "v", false, "Verbose mode")

	version := flags.Bool("version", false, "Display version information.")
	flags.Parse(args[1:])

	if *version {
		fmt.Println(VERSION)
		os.Exit(0)
	}

	if flags.NArg() != 0 {
		flags.Usage()
		os.Exit(2)
	}

	return &c
}
