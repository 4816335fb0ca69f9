// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/lassandro/goc8/pkg/assembler"
	"github.com/lassandro/goc8/pkg/config"
	"github.com/lassandro/goc8/pkg/debugger"
	"github.com/lassandro/goc8/pkg/disasm"
	"github.com/lassandro/goc8/pkg/fault"
	"github.com/lassandro/goc8/pkg/machine"
)

var log = commonlog.GetLogger("goc8")

type Options struct {
	Clock       int    `short:"c" long:"clock" default:"1000" description:"Instructions per second"`
	Palette     string `short:"p" long:"palette" description:"Background and foreground colors as bg,fg"`
	PaletteFile string `long:"palette-file" description:"File holding a background and a foreground color"`
	Quirks      string `short:"q" long:"quirks" description:"Quirks to enable, any of bdjls"`
	SmallFont   string `long:"sfont" description:"Small font name"`
	BigFont     string `long:"bfont" description:"Big font name"`
	Flags       string `long:"flags" description:"Load settings from a flags file"`
	Debug       bool   `short:"d" long:"debug" description:"Start halted in the debugger"`
	Verbose     []bool `short:"v" long:"verbose" description:"Increase log verbosity"`
	Log         string `long:"log" description:"Write logs to a file"`

	Args struct {
		ROM string `positional-arg-name:"rom" description:".ch8 binary or .c8s source"`
	} `positional-args:"yes" required:"yes"`
}

func report(err error) {
	fmt.Fprintf(os.Stderr, "c8: %s\n", err)
}

// Config faults are not fatal: the offending setting keeps its default
func settings(opts *Options, state *machine.MachineState) int {
	current := config.Capture(state, machine.CLOCK_SPEED)

	if opts.Flags != "" {
		if file, err := config.Load(opts.Flags); err != nil {
			report(err)
		} else if result, err := file.Validate(current); err != nil {
			report(err)
		} else {
			current = result
		}
	}

	if err := config.ValidateClock(opts.Clock); err != nil {
		report(err)
	} else {
		current.Clock = opts.Clock
	}

	cli := config.Flags{
		Quirks:    opts.Quirks,
		SmallFont: opts.SmallFont,
		BigFont:   opts.BigFont,
	}

	if result, err := cli.Validate(current); err != nil {
		report(err)
	} else {
		current = result
	}

	if opts.PaletteFile != "" {
		if colors, err := config.LoadPalette(opts.PaletteFile); err != nil {
			report(err)
		} else {
			current.Colors = colors
		}
	}

	if opts.Palette != "" {
		if colors, err := config.ParsePalette(opts.Palette); err != nil {
			report(err)
		} else {
			current.Colors = colors
		}
	}

	current.Apply(state)
	return current.Clock
}

func loadROM(s *debugger.Session, path string) error {
	data, err := os.ReadFile(path)

	if err != nil {
		return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".c8s") {
		if err := s.Machine.LoadROM(bytes.NewReader(data)); err != nil {
			return err
		}

		s.SymTable = &assembler.SymTable{Labels: disasm.FindLabels(data)}
		log.Infof("loaded %s (%d bytes)", path, len(data))
		return nil
	}

	symtable := assembler.SymTable{
		Symbols: make(map[uint16]int),
		Labels:  make(map[uint16]string),
	}

	program, err := assembler.Assemble(bytes.NewReader(data), &symtable)

	if err != nil {
		return err
	}

	if err := s.Machine.LoadProgram(program); err != nil {
		return err
	}

	s.SymTable = &symtable
	s.Source = strings.Split(string(data), "\n")
	log.Infof("assembled %s (%d bytes)", path, len(program))

	return nil
}

func c8() int {
	var opts Options

	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}

		return 1
	}

	var logPath *string
	if opts.Log != "" {
		logPath = &opts.Log
	}

	commonlog.Configure(len(opts.Verbose), logPath)

	mc := machine.New()
	s := debugger.NewSession(mc, os.Stdout)
	s.Clock = settings(&opts, &mc.State)

	if err := loadROM(s, opts.Args.ROM); err != nil {
		report(err)
		return 1
	}

	if err := initTerm(); err != nil {
		log.Criticalf("%s", err)
		report(err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	defer signal.Stop(c)

	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range c {
			if sig == os.Interrupt && opts.Debug {
				s.Interrupt()
			} else {
				cancel()
			}
		}
	}()

	if err := run(ctx, s, opts.Debug); err != nil {
		if fault.IsFatal(err) {
			log.Criticalf("%s", err)
		}

		if ctx.Err() == nil {
			report(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(c8())
}
