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

package fault

type Code int
type Class uint

// Longest detail message an Exception will hold, in bytes
const MESSAGE_SIZE = 64

const (
	RECOVERABLE Class = iota
	FATAL
)

const (
	INVALID_INSTRUCTION Code = iota + 1
	TOO_MANY_LABELS
	STACK_OVERFLOW
	INVALID_ARGUMENT
	DUPLICATE_LABEL
	INVALID_SYMBOL
	MEMORY_ALLOCATION
	UNKNOWN
	TOO_MANY_SYMBOLS
	LOAD_FILE_FAILURE
	FILE_TOO_BIG
	INVALID_COLOR_PALETTE
	INVALID_QUIRK
	FAILED_GRAPHICS_INITIALIZATION
	INVALID_FONT
	INVALID_CLOCK_SPEED
	STACK_UNDERFLOW
)

var names = map[Code]string{
	INVALID_INSTRUCTION:            "INVALID_INSTRUCTION",
	TOO_MANY_LABELS:                "TOO_MANY_LABELS",
	STACK_OVERFLOW:                 "STACK_OVERFLOW",
	INVALID_ARGUMENT:               "INVALID_ARGUMENT",
	DUPLICATE_LABEL:                "DUPLICATE_LABEL",
	INVALID_SYMBOL:                 "INVALID_SYMBOL",
	MEMORY_ALLOCATION:              "MEMORY_ALLOCATION",
	UNKNOWN:                        "UNKNOWN",
	TOO_MANY_SYMBOLS:               "TOO_MANY_SYMBOLS",
	LOAD_FILE_FAILURE:              "LOAD_FILE_FAILURE",
	FILE_TOO_BIG:                   "FILE_TOO_BIG",
	INVALID_COLOR_PALETTE:          "INVALID_COLOR_PALETTE",
	INVALID_QUIRK:                  "INVALID_QUIRK",
	FAILED_GRAPHICS_INITIALIZATION: "FAILED_GRAPHICS_INITIALIZATION",
	INVALID_FONT:                   "INVALID_FONT",
	INVALID_CLOCK_SPEED:            "INVALID_CLOCK_SPEED",
	STACK_UNDERFLOW:                "STACK_UNDERFLOW",
}

var messages = map[Code]string{
	INVALID_INSTRUCTION:            "An invalid instruction was encountered.",
	TOO_MANY_LABELS:                "Too many labels are defined in the input file.",
	STACK_OVERFLOW:                 "A stack overflow occurred during execution.",
	INVALID_ARGUMENT:               "An invalid argument was given.",
	DUPLICATE_LABEL:                "A label was defined multiple times.",
	INVALID_SYMBOL:                 "An invalid symbol was given.",
	MEMORY_ALLOCATION:              "Failed to allocate memory.",
	UNKNOWN:                        "An unknown error has occurred.",
	TOO_MANY_SYMBOLS:               "Too many symbols exist in the input file.",
	LOAD_FILE_FAILURE:              "Failed to load file.",
	FILE_TOO_BIG:                   "The given file is too big.",
	INVALID_COLOR_PALETTE:          "Invalid color palette.",
	INVALID_QUIRK:                  "Invalid quirk.",
	FAILED_GRAPHICS_INITIALIZATION: "Failed to initialize graphics.",
	INVALID_FONT:                   "Invalid font.",
	INVALID_CLOCK_SPEED:            "Clock speed cannot be less than 1.",
	STACK_UNDERFLOW:                "Stack underflow occurred during execution.",
}

var fatal = map[Code]bool{
	MEMORY_ALLOCATION:              true,
	UNKNOWN:                        true,
	FAILED_GRAPHICS_INITIALIZATION: true,
}
