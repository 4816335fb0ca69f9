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

package machine

import (
	"math/rand"
)

type Quirk uint

type Display struct {
	Mode   uint8
	Pixels [HIGH_DISPLAY_WIDTH * HIGH_DISPLAY_HEIGHT]bool
}

type MachineState struct {
	Memory [MEMSIZE]uint8

	// Flag registers
	R [FLAG_COUNT]uint8

	// General purpose registers
	V [16]uint8

	SP    uint8
	DT    uint8
	ST    uint8
	Stack [STACK_SIZE]uint16
	PC    uint16
	I     uint16

	// Register receiving the next keypress
	VK            uint8
	WaitingForKey bool
	Keys          [16]bool

	// Background, foreground
	Colors [2]uint32

	// Small, big
	Fonts [2]int

	Quirks  Quirk
	Display Display
	Draw    bool
	Halted  bool
}

// MachineDebugger is consulted once per instruction, before the instruction
// at the program counter is fetched. Returning true stops Run without
// executing that instruction.
type MachineDebugger interface {
	Break(mc *Machine) bool
}

type Machine struct {
	State    MachineState
	Debugger MachineDebugger
	Rand     *rand.Rand
}
