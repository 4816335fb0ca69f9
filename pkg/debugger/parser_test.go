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
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/lassandro/goc8/pkg/debugger"
	"github.com/lassandro/goc8/pkg/fault"
)

func TestParse(t *testing.T) {
	type testCase struct {
		Line    string
		Command debugger.CommandID
		Args    []debugger.Arg
	}

	tests := []testCase{
		{"break", debugger.CMD_ADD_BREAKPOINT, nil},
		{
			"b $204",
			debugger.CMD_ADD_BREAKPOINT,
			[]debugger.Arg{debugger.Address(0x204)},
		},
		{
			"break 0x200",
			debugger.CMD_ADD_BREAKPOINT,
			[]debugger.Arg{debugger.Address(0x200)},
		},
		{
			"unbreak 512",
			debugger.CMD_RM_BREAKPOINT,
			[]debugger.Arg{debugger.Address(0x200)},
		},
		{"rmbreak", debugger.CMD_RM_BREAKPOINT, nil},
		{"c", debugger.CMD_CONTINUE, nil},
		{"  next  ", debugger.CMD_NEXT, nil},
		{
			"set v3 42",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.DataRegister(3), debugger.Immediate(42)},
		},
		{
			"set VF 0b101",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.DataRegister(0xF), debugger.Immediate(5)},
		},
		{
			"set vk 5",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.VKey(-1), debugger.Immediate(5)},
		},
		{
			"set quirks bj",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.Quirks(""), debugger.Quirks("bj")},
		},
		{
			"set sfont VIP",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.SmallFont(""), debugger.SmallFont("VIP")},
		},
		{
			"set bfont schip",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.BigFont(""), debugger.BigFont("schip")},
		},
		{
			"set bg $ff00ff",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.Background(), debugger.Value(0xff00ff)},
		},
		{
			"set dt 10",
			debugger.CMD_SET,
			[]debugger.Arg{
				debugger.Register(debugger.REG_DT, -1),
				debugger.Immediate(10),
			},
		},
		{
			"set r7 1",
			debugger.CMD_SET,
			[]debugger.Arg{
				debugger.Register(debugger.REG_R, 7),
				debugger.Immediate(1),
			},
		},
		{
			"set s2 0x300",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.StackSlot(2), debugger.Immediate(0x300)},
		},
		{
			"set $300 #255",
			debugger.CMD_SET,
			[]debugger.Arg{debugger.Address(0x300), debugger.Immediate(255)},
		},
		{"print", debugger.CMD_PRINT, nil},
		{
			"p stack",
			debugger.CMD_PRINT,
			[]debugger.Arg{debugger.Stack()},
		},
		{
			"print V",
			debugger.CMD_PRINT,
			[]debugger.Arg{debugger.DataRegister(-1)},
		},
		{
			"print i",
			debugger.CMD_PRINT,
			[]debugger.Arg{debugger.Register(debugger.REG_I, -1)},
		},
		{
			"print sp",
			debugger.CMD_PRINT,
			[]debugger.Arg{debugger.StackPointer()},
		},
		{
			"load my state.snap",
			debugger.CMD_LOAD,
			[]debugger.Arg{debugger.File("my state.snap")},
		},
		{
			"save out.snap",
			debugger.CMD_SAVE,
			[]debugger.Arg{debugger.File("out.snap")},
		},
		{
			"loadflags c8.toml",
			debugger.CMD_LOADFLAGS,
			[]debugger.Arg{debugger.File("c8.toml")},
		},
		{
			"saveflags c8.toml",
			debugger.CMD_SAVEFLAGS,
			[]debugger.Arg{debugger.File("c8.toml")},
		},
		{"help", debugger.CMD_HELP, nil},
		{"?", debugger.CMD_HELP, nil},
		{"q", debugger.CMD_QUIT, nil},
	}

	for _, test := range tests {
		inv, err := debugger.Parse(test.Line)

		if err != nil {
			t.Errorf("Parse '%s' failed: %s", test.Line, err)
			continue
		}

		if inv.Command.ID != test.Command {
			t.Errorf(
				"Parse '%s' command\nwant:%d\nhave:%d",
				test.Line,
				test.Command,
				inv.Command.ID,
			)
		}

		if len(inv.Args) == 0 && len(test.Args) == 0 {
			continue
		}

		if !reflect.DeepEqual(inv.Args, test.Args) {
			t.Errorf(
				"Parse '%s' arguments\nwant:%v\nhave:%v",
				test.Line,
				test.Args,
				inv.Args,
			)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	inv, err := debugger.Parse("   ")

	if inv != nil || err != nil {
		t.Errorf("Empty line\nwant:<nil> <nil>\nhave:%v %v", inv, err)
	}
}

func TestParseFailure(t *testing.T) {
	type testCase struct {
		Line string
		Code fault.Code
	}

	tests := []testCase{
		{"frobnicate", fault.INVALID_SYMBOL},
		{"Break", fault.INVALID_SYMBOL},
		{"continue now", fault.INVALID_ARGUMENT},
		{"set v3", fault.INVALID_ARGUMENT},
		{"load", fault.INVALID_ARGUMENT},
		{"print pc sp", fault.INVALID_ARGUMENT},
		{"set v10 1", fault.INVALID_ARGUMENT},
		{"print r8", fault.INVALID_ARGUMENT},
		{"print $1000", fault.INVALID_ARGUMENT},
		{"print bogus", fault.INVALID_ARGUMENT},
		{"set v 1", fault.INVALID_ARGUMENT},
		{"set r 1", fault.INVALID_ARGUMENT},
		{"set stack 1", fault.INVALID_ARGUMENT},
		{"set v3 abc", fault.INVALID_ARGUMENT},
		{"break v3", fault.INVALID_ARGUMENT},
		{"set quirks z", fault.INVALID_ARGUMENT},
		{"set bfont comic", fault.INVALID_ARGUMENT},
		{"set sfont comic", fault.INVALID_ARGUMENT},
		{"print" + strings.Repeat(" ", debugger.MAX_LINE_SIZE) + "v3", fault.INVALID_ARGUMENT},
	}

	for _, test := range tests {
		inv, err := debugger.Parse(test.Line)

		if err == nil {
			t.Errorf("Parse '%s' succeeded: %v", test.Line, inv)
			continue
		}

		if have := fault.CodeOf(err); have != test.Code {
			t.Errorf(
				"Parse '%s' fault\nwant:%s\nhave:%s (%s)",
				test.Line,
				test.Code,
				have,
				err,
			)
		}

		if fault.IsFatal(err) {
			t.Errorf("Parse '%s' fault is fatal", test.Line)
		}
	}
}

func TestParseErrorKinds(t *testing.T) {
	_, err := debugger.Parse("frobnicate")

	var unknown *debugger.UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Errorf("Unknown command\nwant:*UnknownCommandError\nhave:%T", err)
	}

	_, err = debugger.Parse("set v3")

	var usage *debugger.UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("Arity mismatch\nwant:*UsageError\nhave:%T", err)
	}

	if !strings.Contains(err.Error(), "set <target> <value>") {
		t.Errorf("Usage missing from message: %s", err)
	}
}

func TestArgAccessor(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Mismatched accessor did not panic")
		}
	}()

	debugger.Immediate(1).Path()
}
