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

package disasm_test

import (
	"strings"
	"testing"

	"github.com/lassandro/goc8/pkg/disasm"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		Word uint16
		Text string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x00C4, "SCD 4"},
		{0x00FD, "EXIT"},
		{0x0123, ".db 0123"},
		{0x1248, "JP $248"},
		{0x2300, "CALL $300"},
		{0x332A, "SE V3, $2a"},
		{0x5120, "SE V1, V2"},
		{0x5121, ".db 5121"},
		{0x632A, "LD V3, $2a"},
		{0x8124, "ADD V1, V2"},
		{0x812E, "SHL V1, V2"},
		{0x8128, ".db 8128"},
		{0xA321, "LD I, $321"},
		{0xB240, "JP V0, $240"},
		{0xC0FF, "RND V0, $ff"},
		{0xD125, "DRW V1, V2, $5"},
		{0xE09E, "SKP V0"},
		{0xE0A2, ".db e0a2"},
		{0xF50A, "LD V5, K"},
		{0xF455, "LD [I], V4"},
		{0xF785, "LD V7, R"},
		{0xF0FF, ".db f0ff"},
	}

	for _, test := range tests {
		if have := disasm.Decode(test.Word); have != test.Text {
			t.Errorf(
				"Decode mismatch (%#04x)\nwant:%s\nhave:%s",
				test.Word,
				test.Text,
				have,
			)
		}
	}
}

func TestDisassemble(t *testing.T) {
	program := []byte{
		0x62, 0x00, // LD V2, $00
		0x72, 0x01, // ADD V2, $01
		0x12, 0x02, // JP $202
		0xFF,
	}

	var builder strings.Builder

	err := disasm.Disassemble(&builder, program, disasm.Options{
		Addresses: true,
		Labels:    true,
	})

	if err != nil {
		t.Fatal(err)
	}

	want := "200: LD V2, $00\n" +
		"label1:\n" +
		"202: ADD V2, $01\n" +
		"204: JP label1\n" +
		"206: .db ff\n"

	if have := builder.String(); have != want {
		t.Errorf("Disassembly mismatch\nwant:\n%s\nhave:\n%s", want, have)
	}
}
