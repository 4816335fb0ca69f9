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

const (
	MEMSIZE     = 0x1000
	PROG_START  = 0x200
	STACK_SIZE  = 16
	FLAG_COUNT  = 8
	CLOCK_SPEED = 1000
)

const (
	FONT_START      = 0x000
	HIGH_FONT_START = FONT_START + (0x10 * 5)
)

const (
	LOW_DISPLAY_WIDTH   = 64
	LOW_DISPLAY_HEIGHT  = 32
	HIGH_DISPLAY_WIDTH  = 128
	HIGH_DISPLAY_HEIGHT = 64
)

const (
	DISPLAYMODE_LOW uint8 = iota
	DISPLAYMODE_HIGH
)

const (
	QUIRK_BITWISE Quirk = 1 << iota
	QUIRK_DRAW
	QUIRK_JUMP
	QUIRK_LOADSTORE
	QUIRK_SHIFT
)

// Quirk letters, in print order
var quirkLetters = []struct {
	Letter byte
	Quirk  Quirk
}{
	{'b', QUIRK_BITWISE},
	{'d', QUIRK_DRAW},
	{'j', QUIRK_JUMP},
	{'l', QUIRK_LOADSTORE},
	{'s', QUIRK_SHIFT},
}

const (
	DEFAULT_BACKGROUND uint32 = 0x000000
	DEFAULT_FOREGROUND uint32 = 0xFFFFFF
	MAX_COLOR          uint32 = 0xFFFFFF
)
