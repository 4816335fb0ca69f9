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

package debugger

import (
	"fmt"
	"strings"

	"github.com/lassandro/goc8/pkg/disasm"
	"github.com/lassandro/goc8/pkg/machine"
)

func (s *Session) labels() map[uint16]string {
	if s.SymTable == nil {
		return nil
	}

	return s.SymTable.Labels
}

func (s *Session) sourceLine(addr uint16) (string, bool) {
	if s.SymTable == nil || s.Source == nil {
		return "", false
	}

	line, exists := s.SymTable.Symbols[addr]

	if !exists || line < 1 || line > len(s.Source) {
		return "", false
	}

	return strings.TrimSpace(s.Source[line-1]), true
}

func (s *Session) printInstruction(addr uint16) {
	word := s.Machine.State.Fetch(addr)
	labels := s.labels()

	if label, exists := labels[addr]; exists {
		fmt.Fprintf(s.Output, "%s:\n", label)
	}

	fmt.Fprintf(
		s.Output,
		"$%03x: %04x\t%s",
		addr,
		word,
		disasm.DecodeLabeled(word, labels),
	)

	if line, ok := s.sourceLine(addr); ok {
		fmt.Fprintf(s.Output, "\t; %s", line)
	}

	fmt.Fprintln(s.Output)
}

// Two entries per line
func (s *Session) columns(entries []string) {
	for i := 0; i < len(entries); i += 2 {
		if i+1 < len(entries) {
			fmt.Fprintf(s.Output, "%-16s%s\n", entries[i], entries[i+1])
		} else {
			fmt.Fprintln(s.Output, entries[i])
		}
	}
}

func (s *Session) dataRegisters() []string {
	state := &s.Machine.State
	result := make([]string, len(state.V))

	for i, value := range state.V {
		result[i] = fmt.Sprintf("V%01x: %d", i, value)
	}

	return result
}

func (s *Session) flagRegisters() []string {
	state := &s.Machine.State
	result := make([]string, len(state.R))

	for i, value := range state.R {
		result[i] = fmt.Sprintf("R%01x: %d", i, value)
	}

	return result
}

func (s *Session) printStack() {
	state := &s.Machine.State

	if state.SP == 0 {
		fmt.Fprintln(s.Output, "Stack: empty")
		return
	}

	fmt.Fprintln(s.Output, "Stack:")

	entries := make([]string, state.SP)

	for i := range entries {
		entries[i] = fmt.Sprintf("S%01x: %03x", i, state.Stack[i])
	}

	s.columns(entries)
}

func (s *Session) printBreakpoints() {
	list := s.Breakpoints.List()

	if len(list) == 0 {
		fmt.Fprintln(s.Output, "Breakpoints: None")
		return
	}

	addrs := make([]string, len(list))

	for i, addr := range list {
		addrs[i] = fmt.Sprintf("$%03x", addr)
	}

	fmt.Fprintf(s.Output, "Breakpoints: %s\n", strings.Join(addrs, " "))
}

func (s *Session) printState() {
	state := &s.Machine.State

	s.printInstruction(state.PC)
	s.columns([]string{
		fmt.Sprintf("PC: %03x", state.PC),
		fmt.Sprintf("SP: %d", state.SP),
		fmt.Sprintf("DT: %d", state.DT),
		fmt.Sprintf("ST: %d", state.ST),
		fmt.Sprintf("I:  %03x", state.I),
		fmt.Sprintf("VK: V%01x", state.VK),
		fmt.Sprintf("BG: %06x", state.Colors[0]),
		fmt.Sprintf("FG: %06x", state.Colors[1]),
		"SFONT: " + machine.FontName(machine.FONT_SMALL, state.Fonts[0]),
		"BFONT: " + machine.FontName(machine.FONT_BIG, state.Fonts[1]),
	})
	fmt.Fprintf(s.Output, "Quirks: %s\n", state.Quirks)
	fmt.Fprintln(s.Output)
	s.columns(s.dataRegisters())
	fmt.Fprintln(s.Output)
	s.columns(s.flagRegisters())
	fmt.Fprintln(s.Output)
	s.printStack()
	s.printBreakpoints()
	fmt.Fprintf(s.Output, "Mode: %s\n", s.Mode)
}

func (s *Session) print(target Arg) {
	state := &s.Machine.State

	switch target.Type {
	case ARG_NONE:
		s.printState()

	case ARG_SP:
		fmt.Fprintf(s.Output, "SP: %d\n", state.SP)

	case ARG_PC:
		fmt.Fprintf(s.Output, "PC: %03x\n", state.PC)

	case ARG_VK:
		fmt.Fprintf(s.Output, "VK: V%01x\n", state.VK)

	case ARG_V:
		if target.Index() < 0 {
			s.columns(s.dataRegisters())
			break
		}

		fmt.Fprintf(
			s.Output, "V%01x: %d\n", target.Index(), state.V[target.Index()],
		)

	case ARG_SLOT:
		fmt.Fprintf(
			s.Output,
			"S%01x: %03x\n",
			target.Index(),
			state.Stack[target.Index()],
		)

	case ARG_STACK:
		s.printStack()

	case ARG_BG:
		fmt.Fprintf(s.Output, "BG: %06x\n", state.Colors[0])

	case ARG_FG:
		fmt.Fprintf(s.Output, "FG: %06x\n", state.Colors[1])

	case ARG_SFONT:
		fmt.Fprintf(
			s.Output,
			"SFONT: %s\n",
			machine.FontName(machine.FONT_SMALL, state.Fonts[0]),
		)

	case ARG_BFONT:
		fmt.Fprintf(
			s.Output,
			"BFONT: %s\n",
			machine.FontName(machine.FONT_BIG, state.Fonts[1]),
		)

	case ARG_QUIRKS:
		fmt.Fprintf(s.Output, "Quirks: %s\n", state.Quirks)

	case ARG_REG:
		switch target.Name() {
		case REG_DT:
			fmt.Fprintf(s.Output, "DT: %d\n", state.DT)
		case REG_ST:
			fmt.Fprintf(s.Output, "ST: %d\n", state.ST)
		case REG_I:
			fmt.Fprintf(s.Output, "I: %03x\n", state.I)
		case REG_R:
			if target.Index() < 0 {
				s.columns(s.flagRegisters())
				break
			}

			fmt.Fprintf(
				s.Output,
				"R%01x: %d\n",
				target.Index(),
				state.R[target.Index()],
			)
		}

	case ARG_ADDR:
		s.printInstruction(uint16(target.Int()))
	}
}
