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

package debugger_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lassandro/goc8/pkg/debugger"
	"github.com/lassandro/goc8/pkg/fault"
	"github.com/lassandro/goc8/pkg/machine"
)

// $200: LD V0, $05
// $202: ADD V0, $01
// $204: JP $202
var loopProgram = []uint16{0x6005, 0x7001, 0x1202}

func newSession(t *testing.T, program []uint16) (*debugger.Session, *bytes.Buffer) {
	t.Helper()

	var rom []byte
	for _, word := range program {
		rom = append(rom, byte(word>>8), byte(word))
	}

	mc := machine.New()

	if err := mc.LoadProgram(rom); err != nil {
		t.Fatal(err)
	}

	var output bytes.Buffer
	s := debugger.NewSession(mc, &output)
	s.Clock = 0

	return s, &output
}

func execute(t *testing.T, s *debugger.Session, lines ...string) {
	t.Helper()

	for _, line := range lines {
		if err := s.Execute(context.Background(), line); err != nil {
			t.Fatalf("'%s' failed: %s", line, err)
		}
	}
}

func TestNext(t *testing.T) {
	s, _ := newSession(t, loopProgram)
	state := &s.Machine.State

	execute(t, s, "next")

	if state.PC != 0x202 || state.V[0] != 5 {
		t.Errorf(
			"PC, V0\nwant:$202 5\nhave:$%03x %d", state.PC, state.V[0],
		)
	}

	execute(t, s, "n", "n")

	if state.PC != 0x202 || state.V[0] != 6 {
		t.Errorf(
			"PC, V0\nwant:$202 6\nhave:$%03x %d", state.PC, state.V[0],
		)
	}

	if s.Mode != debugger.MODE_SINGLE_STEPPING {
		t.Errorf("Mode\nwant:%s\nhave:%s", debugger.MODE_SINGLE_STEPPING, s.Mode)
	}
}

func TestContinueBreakpoint(t *testing.T) {
	s, output := newSession(t, loopProgram)
	state := &s.Machine.State

	execute(t, s, "break $204", "continue")

	if state.PC != 0x204 || state.V[0] != 6 {
		t.Errorf(
			"PC, V0\nwant:$204 6\nhave:$%03x %d", state.PC, state.V[0],
		)
	}

	if s.Mode != debugger.MODE_HALTED_AT_BREAKPOINT {
		t.Errorf(
			"Mode\nwant:%s\nhave:%s",
			debugger.MODE_HALTED_AT_BREAKPOINT,
			s.Mode,
		)
	}

	if !strings.Contains(output.String(), "Breakpoint [$204]") {
		t.Errorf("Breakpoint not reported:\n%s", output)
	}

	// Resuming skips the breakpoint once and loops back onto it
	execute(t, s, "c")

	if state.PC != 0x204 || state.V[0] != 7 {
		t.Errorf(
			"PC, V0\nwant:$204 7\nhave:$%03x %d", state.PC, state.V[0],
		)
	}
}

func TestBreakAtStart(t *testing.T) {
	s, _ := newSession(t, loopProgram)
	state := &s.Machine.State

	execute(t, s, "break 0x200", "continue")

	if state.PC != 0x200 || state.V[0] != 0 {
		t.Errorf(
			"PC, V0\nwant:$200 0\nhave:$%03x %d", state.PC, state.V[0],
		)
	}

	execute(t, s, "unbreak", "break $202", "continue")

	if state.PC != 0x202 || state.V[0] != 5 {
		t.Errorf(
			"PC, V0\nwant:$202 5\nhave:$%03x %d", state.PC, state.V[0],
		)
	}
}

func TestSetPrint(t *testing.T) {
	type testCase struct {
		Set   string
		Print string
		Want  string
	}

	tests := []testCase{
		{"set v3 42", "print v3", "V3: 42\n"},
		{"set sp 2", "print sp", "SP: 2\n"},
		{"set pc $300", "print pc", "PC: 300\n"},
		{"set i 0x2a0", "print i", "I: 2a0\n"},
		{"set dt 60", "print dt", "DT: 60\n"},
		{"set st 3", "print st", "ST: 3\n"},
		{"set vk $a", "print vk", "VK: Va\n"},
		{"set r2 9", "print r2", "R2: 9\n"},
		{"set s1 $2f0", "print s1", "S1: 2f0\n"},
		{"set bg $102030", "print bg", "BG: 102030\n"},
		{"set fg 0xffee00", "print fg", "FG: ffee00\n"},
		{"set quirks jb", "print quirks", "Quirks: bj\n"},
		{"set quirks none", "print quirks", "Quirks: None\n"},
		{"set sfont VIP", "print sfont", "SFONT: vip\n"},
		{"set bfont schip", "print bfont", "BFONT: schip\n"},
		{"set $300 $12", "print $300", "$300: 1200\tJP $200\n"},
	}

	for _, test := range tests {
		s, output := newSession(t, loopProgram)

		execute(t, s, test.Set)
		output.Reset()
		execute(t, s, test.Print)

		if have := output.String(); have != test.Want {
			t.Errorf(
				"'%s' then '%s'\nwant:%q\nhave:%q",
				test.Set,
				test.Print,
				test.Want,
				have,
			)
		}
	}
}

func TestSetOutOfRange(t *testing.T) {
	type testCase struct {
		Line string
		Code fault.Code
	}

	tests := []testCase{
		{"set v3 300", fault.INVALID_ARGUMENT},
		{"set sp 17", fault.INVALID_ARGUMENT},
		{"set pc $1000", fault.INVALID_ARGUMENT},
		{"set vk 16", fault.INVALID_ARGUMENT},
		{"set bg $1000000", fault.INVALID_ARGUMENT},
		{"set $300 256", fault.INVALID_ARGUMENT},
		{"set i $1000", fault.INVALID_ARGUMENT},
	}

	for _, test := range tests {
		s, _ := newSession(t, loopProgram)

		execute(t, s, "set v3 42")
		before := s.Machine.State

		err := s.Execute(context.Background(), test.Line)

		if have := fault.CodeOf(err); have != test.Code {
			t.Errorf("'%s' fault\nwant:%s\nhave:%s", test.Line, test.Code, have)
		}

		if s.Machine.State != before {
			t.Errorf("'%s' modified the machine", test.Line)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	s, _ := newSession(t, loopProgram)
	before := s.Machine.State

	path := filepath.Join(t.TempDir(), "missing.ch8")
	err := s.Execute(context.Background(), "load "+path)

	if have := fault.CodeOf(err); have != fault.LOAD_FILE_FAILURE {
		t.Errorf("Fault\nwant:%s\nhave:%s", fault.LOAD_FILE_FAILURE, have)
	}

	if s.Machine.State != before {
		t.Error("Failed load modified the machine")
	}
}

func TestSaveLoad(t *testing.T) {
	s, _ := newSession(t, loopProgram)
	state := &s.Machine.State
	path := filepath.Join(t.TempDir(), "state.snap")

	execute(t, s, "break $200", "continue", "save "+path, "next", "next")

	if state.PC != 0x204 {
		t.Fatalf("PC\nwant:$204\nhave:$%03x", state.PC)
	}

	execute(t, s, "load "+path)

	if state.PC != 0x200 || state.V[0] != 0 {
		t.Errorf(
			"Restored PC, V0\nwant:$200 0\nhave:$%03x %d", state.PC, state.V[0],
		)
	}

	// A restored machine has no previous stop to resume from
	execute(t, s, "continue")

	if state.PC != 0x200 || s.Mode != debugger.MODE_HALTED_AT_BREAKPOINT {
		t.Errorf(
			"After load\nwant:$200 %s\nhave:$%03x %s",
			debugger.MODE_HALTED_AT_BREAKPOINT,
			state.PC,
			s.Mode,
		)
	}
}

func TestFlags(t *testing.T) {
	s, _ := newSession(t, loopProgram)
	state := &s.Machine.State
	path := filepath.Join(t.TempDir(), "c8.toml")

	execute(
		t, s,
		"set quirks bj",
		"set bg $123456",
		"saveflags "+path,
		"set quirks none",
		"set bg 0",
		"loadflags "+path,
	)

	if state.Quirks != machine.QUIRK_BITWISE|machine.QUIRK_JUMP {
		t.Errorf("Quirks\nwant:bj\nhave:%s", state.Quirks)
	}

	if state.Colors[0] != 0x123456 {
		t.Errorf("Background\nwant:123456\nhave:%06x", state.Colors[0])
	}

	if s.Clock != 0 {
		t.Errorf("Clock\nwant:0\nhave:%d", s.Clock)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	data := "background = \"000000\"\nquirks = \"z\"\n"

	if err := os.WriteFile(bad, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	err := s.Execute(context.Background(), "loadflags "+bad)

	if have := fault.CodeOf(err); have != fault.INVALID_QUIRK {
		t.Errorf("Fault\nwant:%s\nhave:%s", fault.INVALID_QUIRK, have)
	}

	if state.Colors[0] != 0x123456 {
		t.Errorf("Rejected flags were partially applied: %06x", state.Colors[0])
	}
}

func TestFault(t *testing.T) {
	// $200: RET
	s, _ := newSession(t, []uint16{0x00EE})

	err := s.Execute(context.Background(), "continue")

	if have := fault.CodeOf(err); have != fault.STACK_UNDERFLOW {
		t.Errorf("Fault\nwant:%s\nhave:%s", fault.STACK_UNDERFLOW, have)
	}

	if fault.IsFatal(err) {
		t.Error("Stack underflow reported as fatal")
	}

	if s.Mode != debugger.MODE_HALTED_BY_FAULT {
		t.Errorf(
			"Mode\nwant:%s\nhave:%s", debugger.MODE_HALTED_BY_FAULT, s.Mode,
		)
	}
}

func TestExit(t *testing.T) {
	// $200: EXIT
	s, output := newSession(t, []uint16{0x00FD})

	execute(t, s, "continue")

	if s.Mode != debugger.MODE_EXITED {
		t.Errorf("Mode\nwant:%s\nhave:%s", debugger.MODE_EXITED, s.Mode)
	}

	if !strings.Contains(output.String(), "Program exited") {
		t.Errorf("Exit not reported:\n%s", output)
	}
}

func TestInterrupt(t *testing.T) {
	// $200: JP $200
	s, _ := newSession(t, []uint16{0x1200})

	ticks := 0
	s.HandleTick = func(s *debugger.Session) {
		ticks++

		if ticks == 10 {
			s.Interrupt()
		}
	}

	execute(t, s, "continue")

	if s.Mode != debugger.MODE_INTERRUPTED {
		t.Errorf("Mode\nwant:%s\nhave:%s", debugger.MODE_INTERRUPTED, s.Mode)
	}
}

func TestRecover(t *testing.T) {
	s, _ := newSession(t, loopProgram)

	s.HandleTick = func(*debugger.Session) {
		panic("renderer failed")
	}

	err := s.Execute(context.Background(), "continue")

	if have := fault.CodeOf(err); have != fault.UNKNOWN {
		t.Errorf("Fault\nwant:%s\nhave:%s", fault.UNKNOWN, have)
	}

	if !fault.IsFatal(err) {
		t.Error("Recovered panic should be fatal")
	}
}

func TestREPL(t *testing.T) {
	s, output := newSession(t, loopProgram)

	input := strings.NewReader(
		"set v3 42\nprint v3\nfrobnicate\n\nquit\nset v3 1\n",
	)

	if err := s.REPL(context.Background(), input); err != nil {
		t.Fatal(err)
	}

	if !s.Done() {
		t.Error("Session not done after quit")
	}

	have := output.String()

	// Echoed by set, printed, then repeated by the empty line
	if count := strings.Count(have, "V3: 42\n"); count != 3 {
		t.Errorf("V3 output count\nwant:3\nhave:%d\n%s", count, have)
	}

	if !strings.Contains(have, "error: 'frobnicate' is not a valid command") {
		t.Errorf("Unknown command not reported:\n%s", have)
	}

	if s.Machine.State.V[3] != 42 {
		t.Errorf("Input after quit was executed: V3 = %d", s.Machine.State.V[3])
	}
}

func TestREPLEndOfInput(t *testing.T) {
	s, _ := newSession(t, loopProgram)

	if err := s.REPL(context.Background(), strings.NewReader("next\n")); err != nil {
		t.Fatal(err)
	}

	if !s.Done() || s.Machine.State.PC != 0x202 {
		t.Errorf("End of input\nwant:done $202\nhave:%v $%03x",
			s.Done(), s.Machine.State.PC)
	}
}

func TestREPLLongLine(t *testing.T) {
	s, output := newSession(t, loopProgram)

	input := strings.NewReader(
		strings.Repeat("x", 70000) + "\nset v3 42\nquit\n",
	)

	if err := s.REPL(context.Background(), input); err != nil {
		t.Fatal(err)
	}

	if !s.Done() {
		t.Error("Session not done after quit")
	}

	if s.Machine.State.V[3] != 42 {
		t.Errorf("Line after long line\nwant:42\nhave:%d", s.Machine.State.V[3])
	}

	if !strings.Contains(output.String(), "error: ") {
		t.Errorf("Long line not reported:\n%.200s", output.String())
	}
}

func TestHelp(t *testing.T) {
	s, output := newSession(t, loopProgram)

	execute(t, s, "help")

	for _, cmd := range debugger.Commands {
		if !strings.Contains(output.String(), cmd.Usage) {
			t.Errorf("Help is missing '%s'", cmd.Usage)
		}
	}
}
