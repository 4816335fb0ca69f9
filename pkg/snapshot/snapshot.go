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

// Package snapshot persists complete machine state for the debugger's load
// and save commands.
package snapshot

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"

	"github.com/lassandro/goc8/pkg/fault"
	"github.com/lassandro/goc8/pkg/machine"
)

const VERSION = 1

var log = commonlog.GetLogger("goc8.snapshot")

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

type Snapshot struct {
	Version int                  `cbor:"1,keyasint"`
	State   machine.MachineState `cbor:"2,keyasint"`
}

func Marshal(state *machine.MachineState) ([]byte, error) {
	return encMode.Marshal(&Snapshot{Version: VERSION, State: *state})
}

// Unmarshal decodes a snapshot into state. On failure state is left as it
// was.
func Unmarshal(data []byte, state *machine.MachineState) error {
	var snap Snapshot

	if err := cbor.Unmarshal(data, &snap); err != nil {
		return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	if snap.Version != VERSION {
		return fault.New(
			fault.LOAD_FILE_FAILURE, "snapshot version %d", snap.Version,
		)
	}

	if err := validate(&snap.State); err != nil {
		return err
	}

	*state = snap.State
	return nil
}

func validate(state *machine.MachineState) error {
	switch {
	case int(state.SP) > machine.STACK_SIZE:
		return fault.New(fault.LOAD_FILE_FAILURE, "SP: %d", state.SP)
	case state.PC >= machine.MEMSIZE:
		return fault.New(fault.LOAD_FILE_FAILURE, "PC: %04x", state.PC)
	case state.I >= machine.MEMSIZE:
		return fault.New(fault.LOAD_FILE_FAILURE, "I: %04x", state.I)
	case state.VK > 0xF:
		return fault.New(fault.LOAD_FILE_FAILURE, "VK: %d", state.VK)
	case state.Display.Mode > machine.DISPLAYMODE_HIGH:
		return fault.New(
			fault.LOAD_FILE_FAILURE, "display mode %d", state.Display.Mode,
		)
	}

	for i, color := range state.Colors {
		if color > machine.MAX_COLOR {
			return fault.New(
				fault.LOAD_FILE_FAILURE, "color %d: %x", i, color,
			)
		}
	}

	for kind, index := range state.Fonts {
		if !machine.ValidFont(kind, index) {
			return fault.New(
				fault.LOAD_FILE_FAILURE, "font %d: %d", kind, index,
			)
		}
	}

	for i := 0; i < int(state.SP); i++ {
		if state.Stack[i] >= machine.MEMSIZE {
			return fault.New(
				fault.LOAD_FILE_FAILURE, "S%x: %04x", i, state.Stack[i],
			)
		}
	}

	return nil
}

func Save(path string, state *machine.MachineState) error {
	data, err := Marshal(state)

	if err != nil {
		return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	log.Infof("saved snapshot %s (%d bytes)", path, len(data))
	return nil
}

func Load(path string, state *machine.MachineState) error {
	data, err := os.ReadFile(path)

	if err != nil {
		return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	if err := Unmarshal(data, state); err != nil {
		return err
	}

	log.Infof("loaded snapshot %s", path)
	return nil
}
