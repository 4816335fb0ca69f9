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
	"fmt"
)

type ArgType uint

const (
	ARG_NONE ArgType = iota
	ARG_SP
	ARG_V
	ARG_SLOT
	ARG_PC
	ARG_IMM
	ARG_VK
	ARG_STACK
	ARG_BG
	ARG_FG
	ARG_SFONT
	ARG_BFONT
	ARG_QUIRKS
	ARG_VALUE
	ARG_REG
	ARG_ADDR
	ARG_FILE
)

// Named registers carried by ARG_REG
const (
	REG_DT = "DT"
	REG_ST = "ST"
	REG_I  = "I"
	REG_R  = "R"
)

// Arg is one parsed command argument. The Type tag decides which of the
// accessors below may be called; any other accessor panics.
type Arg struct {
	Type ArgType

	index int
	value int
	name  string
}

func (t ArgType) String() string {
	switch t {
	case ARG_NONE:
		return "none"
	case ARG_SP:
		return "stack pointer"
	case ARG_V:
		return "data register"
	case ARG_SLOT:
		return "stack slot"
	case ARG_PC:
		return "program counter"
	case ARG_IMM:
		return "immediate"
	case ARG_VK:
		return "key register"
	case ARG_STACK:
		return "stack"
	case ARG_BG:
		return "background"
	case ARG_FG:
		return "foreground"
	case ARG_SFONT:
		return "small font"
	case ARG_BFONT:
		return "big font"
	case ARG_QUIRKS:
		return "quirks"
	case ARG_VALUE:
		return "value"
	case ARG_REG:
		return "register"
	case ARG_ADDR:
		return "address"
	case ARG_FILE:
		return "file"
	}

	return fmt.Sprintf("ArgType(%d)", uint(t))
}

func None() Arg           { return Arg{Type: ARG_NONE} }
func StackPointer() Arg   { return Arg{Type: ARG_SP} }
func ProgramCounter() Arg { return Arg{Type: ARG_PC} }
func Stack() Arg          { return Arg{Type: ARG_STACK} }
func Background() Arg     { return Arg{Type: ARG_BG} }
func Foreground() Arg     { return Arg{Type: ARG_FG} }

// DataRegister selects V<index>, or every V register when index is -1
func DataRegister(index int) Arg { return Arg{Type: ARG_V, index: index} }

func StackSlot(index int) Arg { return Arg{Type: ARG_SLOT, index: index} }
func VKey(index int) Arg      { return Arg{Type: ARG_VK, index: index} }
func Immediate(n int) Arg     { return Arg{Type: ARG_IMM, value: n} }
func Value(n int) Arg         { return Arg{Type: ARG_VALUE, value: n} }
func Address(addr int) Arg    { return Arg{Type: ARG_ADDR, value: addr} }
func File(path string) Arg    { return Arg{Type: ARG_FILE, name: path} }

func SmallFont(name string) Arg { return Arg{Type: ARG_SFONT, name: name} }
func BigFont(name string) Arg   { return Arg{Type: ARG_BFONT, name: name} }
func Quirks(name string) Arg    { return Arg{Type: ARG_QUIRKS, name: name} }

// Register selects DT, ST, I or the flag registers. For REG_R an index of -1
// selects every flag register.
func Register(name string, index int) Arg {
	return Arg{Type: ARG_REG, name: name, index: index}
}

func (arg Arg) mismatch(accessor string) {
	panic(fmt.Sprintf("debugger: %s called on %s argument", accessor, arg.Type))
}

func (arg Arg) Index() int {
	switch arg.Type {
	case ARG_V, ARG_SLOT, ARG_VK, ARG_REG:
		return arg.index
	}

	arg.mismatch("Index")
	return 0
}

func (arg Arg) Int() int {
	switch arg.Type {
	case ARG_IMM, ARG_VALUE, ARG_ADDR:
		return arg.value
	}

	arg.mismatch("Int")
	return 0
}

func (arg Arg) Name() string {
	switch arg.Type {
	case ARG_SFONT, ARG_BFONT, ARG_QUIRKS, ARG_REG:
		return arg.name
	}

	arg.mismatch("Name")
	return ""
}

func (arg Arg) Path() string {
	if arg.Type != ARG_FILE {
		arg.mismatch("Path")
	}

	return arg.name
}

func (arg Arg) String() string {
	switch arg.Type {
	case ARG_SP:
		return "SP"
	case ARG_PC:
		return "PC"
	case ARG_STACK:
		return "stack"
	case ARG_BG:
		return "BG"
	case ARG_FG:
		return "FG"
	case ARG_V:
		if arg.index < 0 {
			return "V"
		}
		return fmt.Sprintf("V%01x", arg.index)
	case ARG_SLOT:
		return fmt.Sprintf("S%01x", arg.index)
	case ARG_VK:
		return "VK"
	case ARG_IMM, ARG_VALUE:
		return fmt.Sprintf("%d", arg.value)
	case ARG_ADDR:
		return fmt.Sprintf("$%03x", arg.value)
	case ARG_SFONT:
		return "SFONT " + arg.name
	case ARG_BFONT:
		return "BFONT " + arg.name
	case ARG_QUIRKS:
		return arg.name
	case ARG_REG:
		if arg.name == REG_R && arg.index >= 0 {
			return fmt.Sprintf("R%01x", arg.index)
		}
		return arg.name
	case ARG_FILE:
		return arg.name
	}

	return ""
}
