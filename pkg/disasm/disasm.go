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

package disasm

import (
	"fmt"
	"io"
	"sort"

	"github.com/lassandro/goc8/pkg/encoding"
)

const (
	PROG_START = 0x200
	MEMSIZE    = 0x1000
)

type Options struct {
	// Prefix each line with the instruction address
	Addresses bool

	// Name jump, call and index targets
	Labels bool
}

// Decode renders a single instruction. Words that are not valid instructions
// are rendered as data.
func Decode(word uint16) string {
	return decode(word, nil)
}

// DecodeLabeled renders a single instruction, naming address operands found
// in labels.
func DecodeLabeled(word uint16, labels map[uint16]string) string {
	return decode(word, labels)
}

func target(nnn uint16, labels map[uint16]string) string {
	if name, ok := labels[nnn]; ok {
		return name
	}

	return fmt.Sprintf("$%03x", nnn)
}

func decode(word uint16, labels map[uint16]string) string {
	a := encoding.OpA(word)
	x := encoding.OpX(word)
	y := encoding.OpY(word)
	n := encoding.OpN(word)
	kk := encoding.OpKK(word)
	nnn := encoding.OpNNN(word)

	switch a {
	case 0x0:
		switch {
		case word == 0x00E0:
			return "CLS"
		case word == 0x00EE:
			return "RET"
		case word&0xFFF0 == 0x00C0:
			return fmt.Sprintf("SCD %d", n)
		case word == 0x00FB:
			return "SCR"
		case word == 0x00FC:
			return "SCL"
		case word == 0x00FD:
			return "EXIT"
		case word == 0x00FE:
			return "LOW"
		case word == 0x00FF:
			return "HIGH"
		}
	case 0x1:
		return "JP " + target(nnn, labels)
	case 0x2:
		return "CALL " + target(nnn, labels)
	case 0x3:
		return fmt.Sprintf("SE V%01x, $%02x", x, kk)
	case 0x4:
		return fmt.Sprintf("SNE V%01x, $%02x", x, kk)
	case 0x5:
		if n == 0 {
			return fmt.Sprintf("SE V%01x, V%01x", x, y)
		}
	case 0x6:
		return fmt.Sprintf("LD V%01x, $%02x", x, kk)
	case 0x7:
		return fmt.Sprintf("ADD V%01x, $%02x", x, kk)
	case 0x8:
		if mnemonic, ok := aluMnemonics[n]; ok {
			return fmt.Sprintf("%s V%01x, V%01x", mnemonic, x, y)
		}
	case 0x9:
		if n == 0 {
			return fmt.Sprintf("SNE V%01x, V%01x", x, y)
		}
	case 0xA:
		return "LD I, " + target(nnn, labels)
	case 0xB:
		return "JP V0, " + target(nnn, labels)
	case 0xC:
		return fmt.Sprintf("RND V%01x, $%02x", x, kk)
	case 0xD:
		return fmt.Sprintf("DRW V%01x, V%01x, $%01x", x, y, n)
	case 0xE:
		switch kk {
		case 0x9E:
			return fmt.Sprintf("SKP V%01x", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%01x", x)
		}
	case 0xF:
		if format, ok := miscFormats[kk]; ok {
			return fmt.Sprintf(format, x)
		}
	}

	return fmt.Sprintf(".db %04x", word)
}

var aluMnemonics = map[uint8]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var miscFormats = map[uint8]string{
	0x07: "LD V%01x, DT",
	0x0A: "LD V%01x, K",
	0x15: "LD DT, V%01x",
	0x18: "LD ST, V%01x",
	0x1E: "ADD I, V%01x",
	0x29: "LD F, V%01x",
	0x30: "LD HF, V%01x",
	0x33: "LD B, V%01x",
	0x55: "LD [I], V%01x",
	0x65: "LD V%01x, [I]",
	0x75: "LD R, V%01x",
	0x85: "LD V%01x, R",
}

// FindLabels names every instruction boundary of program used as a jump,
// call or index target, numbered in ascending address order.
func FindLabels(program []byte) map[uint16]string {
	targets := make(map[uint16]struct{})
	end := PROG_START + len(program)

	for i := 0; i+1 < len(program); i += 2 {
		word := encoding.Word(program[i], program[i+1])
		nnn := encoding.OpNNN(word)

		if nnn < PROG_START || int(nnn) >= end || nnn%2 != 0 {
			continue
		}

		switch encoding.OpA(word) {
		case 0x1, 0x2, 0xA, 0xB:
			targets[nnn] = struct{}{}
		}
	}

	sorted := make([]int, 0, len(targets))
	for addr := range targets {
		sorted = append(sorted, int(addr))
	}
	sort.Ints(sorted)

	labels := make(map[uint16]string, len(sorted))
	for i, addr := range sorted {
		labels[uint16(addr)] = fmt.Sprintf("label%d", i+1)
	}

	return labels
}

// Disassemble writes program, loaded at PROG_START, as assembly source. A
// trailing odd byte is written as data.
func Disassemble(w io.Writer, program []byte, options Options) error {
	var labels map[uint16]string

	if options.Labels {
		labels = FindLabels(program)
	}

	for i := 0; i < len(program); i += 2 {
		addr := uint16(PROG_START + i)

		if name, ok := labels[addr]; ok {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return err
			}
		}

		if options.Addresses {
			if _, err := fmt.Fprintf(w, "%03x: ", addr); err != nil {
				return err
			}
		}

		var line string

		if i+1 < len(program) {
			line = decode(encoding.Word(program[i], program[i+1]), labels)
		} else {
			line = fmt.Sprintf(".db %02x", program[i])
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
