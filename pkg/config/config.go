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

// Package config holds the emulator settings shared by the command line and
// the debugger's loadflags and saveflags commands.
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/lassandro/goc8/pkg/encoding"
	"github.com/lassandro/goc8/pkg/fault"
	"github.com/lassandro/goc8/pkg/machine"
)

const (
	MIN_CLOCK_SPEED = 1
	MAX_CLOCK_SPEED = 1000000
)

var log = commonlog.GetLogger("goc8.config")

// Flags is the on-disk settings format. Empty fields leave the current
// setting unchanged when applied.
type Flags struct {
	Clock      int    `toml:"clock,omitempty"`
	Background string `toml:"background,omitempty"`
	Foreground string `toml:"foreground,omitempty"`
	Quirks     string `toml:"quirks,omitempty"`
	SmallFont  string `toml:"small-font,omitempty"`
	BigFont    string `toml:"big-font,omitempty"`
}

// Settings is a validated, ready to apply Flags
type Settings struct {
	Clock  int
	Colors [2]uint32
	Quirks machine.Quirk
	Fonts  [2]int
}

func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)

	value, err := encoding.DecodeHex(s)

	if err != nil {
		// Bare hex digits, as written by palette files
		value, err = encoding.DecodeHex("$" + s)
	}

	if err != nil || uint32(value) > machine.MAX_COLOR {
		return 0, fault.New(fault.INVALID_COLOR_PALETTE, "%s", s)
	}

	return uint32(value), nil
}

// ParsePalette reads "background,foreground"
func ParsePalette(s string) ([2]uint32, error) {
	var palette [2]uint32

	parts := strings.Split(s, ",")

	if len(parts) != 2 {
		return palette, fault.New(fault.INVALID_COLOR_PALETTE, "%s", s)
	}

	for i, part := range parts {
		color, err := ParseColor(part)

		if err != nil {
			return palette, err
		}

		palette[i] = color
	}

	return palette, nil
}

// LoadPalette reads a palette file: background then foreground, one colour
// per line
func LoadPalette(path string) ([2]uint32, error) {
	var palette [2]uint32

	data, err := os.ReadFile(path)

	if err != nil {
		return palette, fault.Wrap(fault.INVALID_COLOR_PALETTE, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	count := 0

	for scanner.Scan() && count < 2 {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if palette[count], err = ParseColor(line); err != nil {
			return palette, err
		}

		count++
	}

	if count != 2 {
		return palette, fault.New(
			fault.INVALID_COLOR_PALETTE, "%s: want 2 colors", path,
		)
	}

	return palette, nil
}

func ValidateClock(clock int) error {
	if clock < MIN_CLOCK_SPEED || clock > MAX_CLOCK_SPEED {
		return fault.New(fault.INVALID_CLOCK_SPEED, "%d", clock)
	}

	return nil
}

// Validate checks every field and resolves it against current. Nothing is
// modified, so a failed validation leaves the caller's settings intact.
func (flags *Flags) Validate(current Settings) (Settings, error) {
	result := current

	if flags.Clock != 0 {
		if err := ValidateClock(flags.Clock); err != nil {
			return current, err
		}

		result.Clock = flags.Clock
	}

	for i, color := range []string{flags.Background, flags.Foreground} {
		if color == "" {
			continue
		}

		value, err := ParseColor(color)

		if err != nil {
			return current, err
		}

		result.Colors[i] = value
	}

	if flags.Quirks != "" {
		quirks, err := machine.ParseQuirks(flags.Quirks)

		if err != nil {
			return current, err
		}

		result.Quirks = quirks
	}

	fonts := []string{
		machine.FONT_SMALL: flags.SmallFont,
		machine.FONT_BIG:   flags.BigFont,
	}

	for kind, name := range fonts {
		if name == "" {
			continue
		}

		index, ok := machine.FindFont(kind, name)

		if !ok {
			return current, fault.New(fault.INVALID_FONT, "%s", name)
		}

		result.Fonts[kind] = index
	}

	return result, nil
}

func Capture(state *machine.MachineState, clock int) Settings {
	return Settings{
		Clock:  clock,
		Colors: state.Colors,
		Quirks: state.Quirks,
		Fonts:  state.Fonts,
	}
}

// Apply writes the machine-side settings into state. The clock belongs to
// the caller.
func (settings Settings) Apply(state *machine.MachineState) {
	state.Colors = settings.Colors
	state.Quirks = settings.Quirks

	for kind, index := range settings.Fonts {
		state.SetFont(kind, machine.FontName(kind, index))
	}
}

func (settings Settings) Flags() Flags {
	return Flags{
		Clock:      settings.Clock,
		Background: fmt.Sprintf("%06x", settings.Colors[0]),
		Foreground: fmt.Sprintf("%06x", settings.Colors[1]),
		Quirks:     strings.ToLower(settings.Quirks.String()),
		SmallFont:  machine.FontName(machine.FONT_SMALL, settings.Fonts[0]),
		BigFont:    machine.FontName(machine.FONT_BIG, settings.Fonts[1]),
	}
}

func Load(path string) (*Flags, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	var flags Flags
	if err := toml.Unmarshal(data, &flags); err != nil {
		return nil, fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	log.Infof("loaded flags %s", path)
	return &flags, nil
}

func Save(path string, flags *Flags) error {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(flags); err != nil {
		return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	log.Infof("saved flags %s", path)
	return nil
}
