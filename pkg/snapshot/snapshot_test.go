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

package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lassandro/goc8/pkg/fault"
	"github.com/lassandro/goc8/pkg/machine"
	"github.com/lassandro/goc8/pkg/snapshot"
)

func TestSaveLoad(t *testing.T) {
	mc := machine.New()

	if err := mc.LoadProgram([]byte{0x63, 0x2A, 0x00, 0xE0}); err != nil {
		t.Fatal(err)
	}

	mc.State.V[3] = 0x2A
	mc.State.PC = 0x202
	mc.State.SP = 1
	mc.State.Stack[0] = 0x200
	mc.State.Quirks = machine.QUIRK_SHIFT | machine.QUIRK_JUMP
	mc.State.Colors[0] = 0x102030
	mc.State.Display.Pixels[5] = true

	path := filepath.Join(t.TempDir(), "state.c8snap")

	if err := snapshot.Save(path, &mc.State); err != nil {
		t.Fatal(err)
	}

	var loaded machine.MachineState

	if err := snapshot.Load(path, &loaded); err != nil {
		t.Fatal(err)
	}

	if loaded != mc.State {
		t.Errorf(
			"Snapshot mismatch\nwant:PC=%03x V3=%02x\nhave:PC=%03x V3=%02x",
			mc.State.PC,
			mc.State.V[3],
			loaded.PC,
			loaded.V[3],
		)
	}
}

func TestLoadFailure(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.c8snap")
	if err := os.WriteFile(corrupt, []byte("not a snapshot"), 0o644); err != nil {
		t.Fatal(err)
	}

	invalid := machine.New().State
	invalid.SP = machine.STACK_SIZE + 1

	data, err := snapshot.Marshal(&invalid)
	if err != nil {
		t.Fatal(err)
	}

	inconsistent := filepath.Join(dir, "inconsistent.c8snap")
	if err := os.WriteFile(inconsistent, data, 0o644); err != nil {
		t.Fatal(err)
	}

	badFont := machine.New().State
	badFont.Fonts[machine.FONT_BIG] = len(machine.BigFonts)

	data, err = snapshot.Marshal(&badFont)
	if err != nil {
		t.Fatal(err)
	}

	unknownFont := filepath.Join(dir, "font.c8snap")
	if err := os.WriteFile(unknownFont, data, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		Name string
		Path string
	}{
		{"Missing", filepath.Join(dir, "missing.c8snap")},
		{"Corrupt", corrupt},
		{"Inconsistent", inconsistent},
		{"Unknown Font", unknownFont},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			state := machine.New().State
			state.V[0] = 0x42

			err := snapshot.Load(test.Path, &state)

			if have := fault.CodeOf(err); err == nil || have != fault.LOAD_FILE_FAILURE {
				t.Fatalf(
					"Fault mismatch\nwant:%s\nhave:%v",
					fault.LOAD_FILE_FAILURE,
					err,
				)
			}

			if state.V[0] != 0x42 {
				t.Errorf(
					"State modified by failed load\nwant:0x42\nhave:%#02x",
					state.V[0],
				)
			}
		})
	}
}
