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

package debugger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/tliron/commonlog"

	"github.com/lassandro/goc8/pkg/assembler"
	"github.com/lassandro/goc8/pkg/config"
	"github.com/lassandro/goc8/pkg/fault"
	"github.com/lassandro/goc8/pkg/machine"
	"github.com/lassandro/goc8/pkg/snapshot"
)

var log = commonlog.GetLogger("goc8.debugger")

type Mode uint

const (
	MODE_SINGLE_STEPPING Mode = iota
	MODE_RUNNING
	MODE_HALTED_AT_BREAKPOINT
	MODE_HALTED_BY_FAULT
	MODE_INTERRUPTED
	MODE_EXITED
)

func (mode Mode) String() string {
	switch mode {
	case MODE_SINGLE_STEPPING:
		return "single-stepping"
	case MODE_RUNNING:
		return "running"
	case MODE_HALTED_AT_BREAKPOINT:
		return "halted at breakpoint"
	case MODE_HALTED_BY_FAULT:
		return "halted by fault"
	case MODE_INTERRUPTED:
		return "interrupted"
	case MODE_EXITED:
		return "exited"
	}

	return fmt.Sprintf("Mode(%d)", uint(mode))
}

const PROMPT = "(dbg) "

type Session struct {
	Machine     *machine.Machine
	Breakpoints *Breakpoints
	Output      io.Writer
	Prompt      string
	Mode        Mode

	// Instructions per second while running, unpaced when zero
	Clock int

	// Present when the program was assembled from source
	SymTable *assembler.SymTable
	Source   []string

	HandleResume func(*Session)
	HandleHalt   func(*Session)
	HandleTick   func(*Session)

	interrupt atomic.Bool
	ticker    *time.Ticker
	lastHalt  int
	resume    int
	lastLine  string
	done      bool
}

func NewSession(mc *machine.Machine, output io.Writer) *Session {
	s := &Session{
		Machine:     mc,
		Breakpoints: NewBreakpoints(),
		Output:      output,
		Prompt:      PROMPT,
		Mode:        MODE_SINGLE_STEPPING,
		Clock:       machine.CLOCK_SPEED,
		lastHalt:    -1,
		resume:      -1,
	}

	mc.Debugger = s
	return s
}

// Interrupt asks a running session to stop before its next instruction. It
// is safe to call from another goroutine.
func (s *Session) Interrupt() {
	s.interrupt.Store(true)
}

func (s *Session) Done() bool {
	return s.done
}

// Break is consulted once per instruction while running. A breakpoint at
// the address the session last stopped on is skipped once, so that
// continuing from a breakpoint makes progress.
func (s *Session) Break(mc *machine.Machine) bool {
	if s.ticker != nil {
		<-s.ticker.C
	}

	if s.HandleTick != nil {
		s.HandleTick(s)
	}

	if s.interrupt.Swap(false) {
		s.Mode = MODE_INTERRUPTED
		return true
	}

	pc := mc.State.PC
	skip := s.resume
	s.resume = -1

	if s.Breakpoints.Contains(pc) && int(pc) != skip {
		log.Infof("breakpoint hit at $%03x", pc)
		s.Mode = MODE_HALTED_AT_BREAKPOINT
		return true
	}

	return false
}

func (s *Session) Continue(ctx context.Context) error {
	if s.Machine.State.Halted {
		s.Mode = MODE_EXITED
		fmt.Fprintln(s.Output, "Program has exited")
		return nil
	}

	s.interrupt.Store(false)
	s.resume = s.lastHalt
	s.Mode = MODE_RUNNING

	log.Debugf("continuing from $%03x", s.Machine.State.PC)

	if s.Clock > 0 {
		s.ticker = time.NewTicker(time.Second / time.Duration(s.Clock))

		defer func() {
			s.ticker.Stop()
			s.ticker = nil
		}()
	}

	if s.HandleResume != nil {
		s.HandleResume(s)
	}

	s.Machine.Debugger = s
	err := s.Machine.Run(ctx)

	if s.HandleHalt != nil {
		s.HandleHalt(s)
	}

	return s.stopped(err)
}

// Next executes exactly one instruction
func (s *Session) Next() error {
	s.Mode = MODE_SINGLE_STEPPING
	return s.stopped(s.Machine.Step())
}

func (s *Session) stopped(err error) error {
	state := &s.Machine.State
	s.lastHalt = int(state.PC)

	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		s.Mode = MODE_INTERRUPTED
		return err

	case err != nil:
		s.Mode = MODE_HALTED_BY_FAULT
		log.Warningf("fault at $%03x: %s", state.PC, err)
		s.printInstruction(state.PC)
		return err

	case state.Halted:
		s.Mode = MODE_EXITED
		fmt.Fprintln(s.Output, "Program exited")
		return nil
	}

	switch s.Mode {
	case MODE_HALTED_AT_BREAKPOINT:
		fmt.Fprintf(s.Output, "Breakpoint [$%03x]\n", state.PC)
	case MODE_INTERRUPTED:
		fmt.Fprintln(s.Output, "Program stopped")
	case MODE_SINGLE_STEPPING:
		if state.WaitingForKey {
			fmt.Fprintf(s.Output, "Waiting for key (V%01x)\n", state.VK)
		}
	}

	s.printInstruction(state.PC)
	return nil
}

// Execute parses and dispatches one line of input. An empty line repeats
// the previous one.
func (s *Session) Execute(ctx context.Context, line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Criticalf("recovered: %v", r)
			err = fault.New(fault.UNKNOWN, "%v", r)
		}
	}()

	inv, err := Parse(line)

	if err != nil {
		return err
	}

	if inv == nil {
		if s.lastLine == "" {
			return nil
		}

		if inv, err = Parse(s.lastLine); err != nil {
			return err
		}
	} else {
		s.lastLine = line
	}

	return s.Dispatch(ctx, inv)
}

// Dispatch performs a parsed command. Commands that fail validation leave
// the machine untouched.
func (s *Session) Dispatch(ctx context.Context, inv *Invocation) error {
	state := &s.Machine.State

	log.Debugf("dispatch %s %v", inv.Command.Names[0], inv.Args)

	switch inv.Command.ID {
	case CMD_ADD_BREAKPOINT:
		addr := s.address(inv)
		s.Breakpoints.Add(addr)
		fmt.Fprintf(s.Output, "Breakpoint added [$%03x]\n", addr)

	case CMD_RM_BREAKPOINT:
		addr := s.address(inv)

		if !s.Breakpoints.Contains(addr) {
			fmt.Fprintf(s.Output, "No breakpoint at $%03x\n", addr)
			break
		}

		s.Breakpoints.Remove(addr)
		fmt.Fprintf(s.Output, "Breakpoint removed [$%03x]\n", addr)

	case CMD_CONTINUE:
		return s.Continue(ctx)

	case CMD_NEXT:
		return s.Next()

	case CMD_SET:
		if err := s.set(inv.Args[0], inv.Args[1]); err != nil {
			return err
		}

		s.print(inv.Args[0])

	case CMD_PRINT:
		if len(inv.Args) == 0 {
			s.print(None())
		} else {
			s.print(inv.Args[0])
		}

	case CMD_LOAD:
		path := inv.Args[0].Path()

		if err := snapshot.Load(path, state); err != nil {
			return err
		}

		s.Machine.Debugger = s
		s.lastHalt = -1
		fmt.Fprintf(s.Output, "Loaded %s\n", path)
		s.printInstruction(state.PC)

	case CMD_SAVE:
		path := inv.Args[0].Path()

		if err := snapshot.Save(path, state); err != nil {
			return err
		}

		fmt.Fprintf(s.Output, "Saved %s\n", path)

	case CMD_LOADFLAGS:
		path := inv.Args[0].Path()
		flags, err := config.Load(path)

		if err != nil {
			return err
		}

		settings, err := flags.Validate(config.Capture(state, s.Clock))

		if err != nil {
			return err
		}

		settings.Apply(state)
		s.Clock = settings.Clock
		fmt.Fprintf(s.Output, "Loaded flags %s\n", path)

	case CMD_SAVEFLAGS:
		path := inv.Args[0].Path()
		flags := config.Capture(state, s.Clock).Flags()

		if err := config.Save(path, &flags); err != nil {
			return err
		}

		fmt.Fprintf(s.Output, "Saved flags %s\n", path)

	case CMD_HELP:
		fmt.Fprint(s.Output, Help())

	case CMD_QUIT:
		s.done = true

	default:
		return fault.New(fault.INVALID_SYMBOL, "command %d", inv.Command.ID)
	}

	return nil
}

func (s *Session) address(inv *Invocation) uint16 {
	if len(inv.Args) == 0 {
		return s.Machine.State.PC
	}

	return uint16(inv.Args[0].Int())
}

func outOfRange(target Arg, value, max int) error {
	if value < 0 || value > max {
		return fault.New(
			fault.INVALID_ARGUMENT,
			"%s: %d out of range 0-%d", target, value, max,
		)
	}

	return nil
}

func (s *Session) set(target, value Arg) error {
	state := &s.Machine.State

	switch target.Type {
	case ARG_QUIRKS:
		quirks, err := machine.ParseQuirks(value.Name())

		if err != nil {
			return err
		}

		state.Quirks = quirks
		return nil

	case ARG_SFONT:
		return state.SetFont(machine.FONT_SMALL, value.Name())

	case ARG_BFONT:
		return state.SetFont(machine.FONT_BIG, value.Name())
	}

	n := value.Int()

	switch target.Type {
	case ARG_SP:
		if err := outOfRange(target, n, machine.STACK_SIZE); err != nil {
			return err
		}
		state.SP = uint8(n)

	case ARG_PC:
		if err := outOfRange(target, n, machine.MEMSIZE-1); err != nil {
			return err
		}
		state.PC = uint16(n)

	case ARG_VK:
		if err := outOfRange(target, n, 0xF); err != nil {
			return err
		}
		state.VK = uint8(n)

	case ARG_V:
		if err := outOfRange(target, n, 0xFF); err != nil {
			return err
		}
		state.V[target.Index()] = uint8(n)

	case ARG_SLOT:
		if err := outOfRange(target, n, machine.MEMSIZE-1); err != nil {
			return err
		}
		state.Stack[target.Index()] = uint16(n)

	case ARG_ADDR:
		if err := outOfRange(target, n, 0xFF); err != nil {
			return err
		}
		state.Memory[target.Int()] = uint8(n)

	case ARG_BG, ARG_FG:
		if err := outOfRange(target, n, int(machine.MAX_COLOR)); err != nil {
			return err
		}

		if target.Type == ARG_BG {
			state.Colors[0] = uint32(n)
		} else {
			state.Colors[1] = uint32(n)
		}

	case ARG_REG:
		switch target.Name() {
		case REG_I:
			if err := outOfRange(target, n, machine.MEMSIZE-1); err != nil {
				return err
			}
			state.I = uint16(n)

		case REG_DT, REG_ST, REG_R:
			if err := outOfRange(target, n, 0xFF); err != nil {
				return err
			}

			switch target.Name() {
			case REG_DT:
				state.DT = uint8(n)
			case REG_ST:
				state.ST = uint8(n)
			default:
				state.R[target.Index()] = uint8(n)
			}
		}

	default:
		return fault.New(fault.INVALID_ARGUMENT, "%s is read-only", target)
	}

	return nil
}

// REPL reads commands from input until quit, end of input, or a fatal
// fault. Recoverable faults are reported and the loop carries on.
func (s *Session) REPL(ctx context.Context, input io.Reader) error {
	reader := bufio.NewReader(input)

	for !s.done {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.Output, s.Prompt)

		line, err := readLine(reader)

		if err == io.EOF {
			fmt.Fprintln(s.Output)
			s.done = true
			return nil
		}

		if err != nil {
			return err
		}

		if err := s.Execute(ctx, line); err != nil {
			if fault.IsFatal(err) {
				return err
			}

			fmt.Fprintf(s.Output, "error: %s\n", err)
		}
	}

	return nil
}

// readLine returns the next line without its terminator. Bytes past
// MAX_LINE_SIZE are dropped but the line stays over the limit, so Parse
// still rejects it.
func readLine(reader *bufio.Reader) (string, error) {
	var line []byte

	for {
		chunk, more, err := reader.ReadLine()

		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return string(line), nil
			}

			return "", err
		}

		if len(line) <= MAX_LINE_SIZE {
			line = append(line, chunk...)
		}

		if !more {
			return string(line), nil
		}
	}
}
