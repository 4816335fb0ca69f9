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
	"strings"

	"github.com/lassandro/goc8/pkg/fault"
)

type Font struct {
	Name  string
	Glyph []uint8
}

const (
	FONT_SMALL = 0
	FONT_BIG   = 1
)

// 4x5 hexadecimal digits, 5 bytes per glyph
var SmallFonts = []Font{
	{
		Name: "vip",
		Glyph: []uint8{
			0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
			0x20, 0x60, 0x20, 0x20, 0x70, // 1
			0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
			0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
			0x90, 0x90, 0xF0, 0x10, 0x10, // 4
			0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
			0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
			0xF0, 0x10, 0x20, 0x40, 0x40, // 7
			0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
			0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
			0xF0, 0x90, 0xF0, 0x90, 0x90, // A
			0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
			0xF0, 0x80, 0x80, 0x80, 0xF0, // C
			0xE0, 0x90, 0x90, 0x90, 0xE0, // D
			0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
			0xF0, 0x80, 0xF0, 0x80, 0x80, // F
		},
	},
}

// 8x10 hexadecimal digits, 10 bytes per glyph
var BigFonts = []Font{
	{
		Name: "schip",
		Glyph: []uint8{
			0xFF, 0xFF, 0xC3, 0xC3, 0xC3, 0xC3, 0xC3, 0xC3, 0xFF, 0xFF, // 0
			0x18, 0x78, 0x78, 0x18, 0x18, 0x18, 0x18, 0x18, 0xFF, 0xFF, // 1
			0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF, 0xC0, 0xC0, 0xFF, 0xFF, // 2
			0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF, // 3
			0xC3, 0xC3, 0xC3, 0xC3, 0xFF, 0xFF, 0x03, 0x03, 0x03, 0x03, // 4
			0xFF, 0xFF, 0xC0, 0xC0, 0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF, // 5
			0xFF, 0xFF, 0xC0, 0xC0, 0xFF, 0xFF, 0xC3, 0xC3, 0xFF, 0xFF, // 6
			0xFF, 0xFF, 0x03, 0x03, 0x06, 0x0C, 0x18, 0x18, 0x18, 0x18, // 7
			0xFF, 0xFF, 0xC3, 0xC3, 0xFF, 0xFF, 0xC3, 0xC3, 0xFF, 0xFF, // 8
			0xFF, 0xFF, 0xC3, 0xC3, 0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF, // 9
			0x7E, 0xFF, 0xC3, 0xC3, 0xC3, 0xFF, 0xFF, 0xC3, 0xC3, 0xC3, // A
			0xFC, 0xFC, 0xC3, 0xC3, 0xFC, 0xFC, 0xC3, 0xC3, 0xFC, 0xFC, // B
			0x3C, 0xFF, 0xC3, 0xC0, 0xC0, 0xC0, 0xC0, 0xC3, 0xFF, 0x3C, // C
			0xFC, 0xFE, 0xC3, 0xC3, 0xC3, 0xC3, 0xC3, 0xC3, 0xFE, 0xFC, // D
			0xFF, 0xFF, 0xC0, 0xC0, 0xFF, 0xFF, 0xC0, 0xC0, 0xFF, 0xFF, // E
			0xFF, 0xFF, 0xC0, 0xC0, 0xFF, 0xFF, 0xC0, 0xC0, 0xC0, 0xC0, // F
		},
	},
}

func fontTable(kind int) []Font {
	if kind == FONT_BIG {
		return BigFonts
	}

	return SmallFonts
}

// FindFont resolves a font name (case-insensitive) to its index in the
// small or big font table
func FindFont(kind int, name string) (int, bool) {
	for i, font := range fontTable(kind) {
		if strings.EqualFold(font.Name, name) {
			return i, true
		}
	}

	return 0, false
}

// ValidFont reports whether index names an entry of the small or big font
// table
func ValidFont(kind int, index int) bool {
	return index >= 0 && index < len(fontTable(kind))
}

func FontName(kind int, index int) string {
	if !ValidFont(kind, index) {
		return "<invalid>"
	}

	return fontTable(kind)[index].Name
}

func FontNames(kind int) []string {
	table := fontTable(kind)
	result := make([]string, len(table))

	for i, font := range table {
		result[i] = font.Name
	}

	return result
}

func (mc *MachineState) loadFonts() {
	for kind := range mc.Fonts {
		if !ValidFont(kind, mc.Fonts[kind]) {
			mc.Fonts[kind] = 0
		}
	}

	small := SmallFonts[mc.Fonts[FONT_SMALL]].Glyph
	big := BigFonts[mc.Fonts[FONT_BIG]].Glyph

	copy(mc.Memory[FONT_START:], small)
	copy(mc.Memory[HIGH_FONT_START:], big)
}

// SetFont selects a font by name and copies its glyphs into memory
func (mc *MachineState) SetFont(kind int, name string) error {
	index, ok := FindFont(kind, name)

	if !ok {
		return fault.New(fault.INVALID_FONT, "%s", name)
	}

	mc.Fonts[kind] = index
	mc.loadFonts()

	return nil
}
