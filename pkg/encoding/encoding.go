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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidLiteral = errors.New("Invalid numeric literal")

// DecodeHex accepts "0x2A", "x2A" and "$2A"
func DecodeHex(s string) (int, error) {
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	case strings.HasPrefix(s, "$"), strings.HasPrefix(s, "x"),
		strings.HasPrefix(s, "X"):
		s = s[1:]
	default:
		return 0, ErrInvalidLiteral
	}

	if len(s) == 0 {
		return 0, ErrInvalidLiteral
	}

	result, err := strconv.ParseUint(s, 16, 32)

	if err != nil {
		return 0, ErrInvalidLiteral
	}

	return int(result), nil
}

// DecodeInt accepts hexadecimal (see DecodeHex), binary ("0b101") and
// decimal ("42", "#42") forms. Negative values are rejected.
func DecodeInt(s string) (int, error) {
	if result, err := DecodeHex(s); err == nil {
		return result, nil
	}

	base := 10

	if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		s = s[2:]
		base = 2
	} else if strings.HasPrefix(s, "#") {
		s = s[1:]
	}

	if len(s) == 0 {
		return 0, ErrInvalidLiteral
	}

	result, err := strconv.ParseUint(s, base, 32)

	if err != nil {
		return 0, ErrInvalidLiteral
	}

	return int(result), nil
}

// DecodeHexDigit parses a single hexadecimal digit, as used by register
// names such as "VA" or "R3"
func DecodeHexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}

	return 0, false
}

// Instruction fields
//
// |A      |X      |Y      |N      |
// [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
//         |NNN                    |
//                 |KK             |

func OpA(word uint16) uint8    { return uint8(word >> 12) }
func OpX(word uint16) uint8    { return uint8((word >> 8) & 0xF) }
func OpY(word uint16) uint8    { return uint8((word >> 4) & 0xF) }
func OpN(word uint16) uint8    { return uint8(word & 0xF) }
func OpKK(word uint16) uint8   { return uint8(word & 0xFF) }
func OpNNN(word uint16) uint16 { return word & 0xFFF }

func Word(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}
