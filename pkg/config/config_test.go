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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lassandro/goc8/pkg/config"
	"github.com/lassandro/goc8/pkg/fault"
	"github.com/lassandro/goc8/pkg/machine"
)

func TestValidate(t *testing.T) {
	current := config.Settings{
		Clock:  machine.CLOCK_SPEED,
		Colors: [2]uint32{0x000000, 0xFFFFFF},
	}

	tests := []struct {
		Name  string
		Flags config.Flags
		Fault fault.Code
	}{
		{"Empty", config.Flags{}, 0},
		{"Clock", config.Flags{Clock: 500}, 0},
		{"Negative Clock", config.Flags{Clock: -1}, fault.INVALID_CLOCK_SPEED},
		{"Color", config.Flags{Background: "102030"}, 0},
		{"Prefixed Color", config.Flags{Foreground: "0xff00ff"}, 0},
		{"Oversized Color", config.Flags{Foreground: "1000000"}, fault.INVALID_COLOR_PALETTE},
		{"Invalid Color", config.Flags{Background: "green"}, fault.INVALID_COLOR_PALETTE},
		{"Quirks", config.Flags{Quirks: "bs"}, 0},
		{"Invalid Quirk", config.Flags{Quirks: "bx"}, fault.INVALID_QUIRK},
		{"Font", config.Flags{SmallFont: "VIP", BigFont: "schip"}, 0},
		{"Invalid Font", config.Flags{BigFont: "comic"}, fault.INVALID_FONT},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			result, err := test.Flags.Validate(current)

			if test.Fault == 0 {
				if err != nil {
					t.Fatalf("Unexpected fault\nwant:<nil>\nhave:%v", err)
				}

				return
			}

			if have := fault.CodeOf(err); err == nil || have != test.Fault {
				t.Fatalf("Fault mismatch\nwant:%s\nhave:%v", test.Fault, err)
			}

			if result != current {
				t.Errorf(
					"Settings changed by failed validation\nwant:%+v\nhave:%+v",
					current,
					result,
				)
			}
		})
	}
}

func TestParsePalette(t *testing.T) {
	palette, err := config.ParsePalette("$102030,0xa0b0c0")

	if err != nil {
		t.Fatal(err)
	}

	if want := [2]uint32{0x102030, 0xA0B0C0}; palette != want {
		t.Errorf("Palette mismatch\nwant:%06x\nhave:%06x", want, palette)
	}

	for _, input := range []string{"102030", "102030,", "1,2,3"} {
		_, err := config.ParsePalette(input)

		if fault.CodeOf(err) != fault.INVALID_COLOR_PALETTE || err == nil {
			t.Errorf(
				"Fault mismatch (%q)\nwant:%s\nhave:%v",
				input,
				fault.INVALID_COLOR_PALETTE,
				err,
			)
		}
	}
}

func TestLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette")

	if err := os.WriteFile(path, []byte("101010\n\nf0f0f0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	palette, err := config.LoadPalette(path)

	if err != nil {
		t.Fatal(err)
	}

	if want := [2]uint32{0x101010, 0xF0F0F0}; palette != want {
		t.Errorf("Palette mismatch\nwant:%06x\nhave:%06x", want, palette)
	}
}

func TestSaveLoad(t *testing.T) {
	mc := machine.New()
	mc.State.Colors = [2]uint32{0x112233, 0x445566}
	mc.State.Quirks = machine.QUIRK_DRAW | machine.QUIRK_LOADSTORE

	path := filepath.Join(t.TempDir(), "flags.toml")
	saved := config.Capture(&mc.State, 720)
	flags := saved.Flags()

	if err := config.Save(path, &flags); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.Load(path)

	if err != nil {
		t.Fatal(err)
	}

	if *loaded != flags {
		t.Errorf("Flags mismatch\nwant:%+v\nhave:%+v", flags, *loaded)
	}

	fresh := machine.New()
	settings, err := loaded.Validate(config.Capture(&fresh.State, 1))

	if err != nil {
		t.Fatal(err)
	}

	settings.Apply(&fresh.State)

	if settings != saved {
		t.Errorf("Settings mismatch\nwant:%+v\nhave:%+v", saved, settings)
	}

	if fresh.State.Colors != mc.State.Colors || fresh.State.Quirks != mc.State.Quirks {
		t.Errorf(
			"Machine mismatch\nwant:%06x %s\nhave:%06x %s",
			mc.State.Colors,
			mc.State.Quirks,
			fresh.State.Colors,
			fresh.State.Quirks,
		)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); fault.CodeOf(err) != fault.LOAD_FILE_FAILURE {
		t.Errorf("Fault mismatch\nwant:%s\nhave:%v", fault.LOAD_FILE_FAILURE, err)
	}
}
