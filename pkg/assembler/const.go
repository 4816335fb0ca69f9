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

package assembler

const (
	PROG_START = 0x200
	MEMSIZE    = 0x1000

	// Largest program that fits between PROG_START and the end of memory
	PROGRAM_SIZE = MEMSIZE - PROG_START
)

const (
	LABEL_CEILING         = 64
	LABEL_IDENTIFIER_SIZE = 20
)

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_DIRECTIVE
	TOKEN_LITERAL
	TOKEN_LABEL
)

const (
	LITERAL_NIBBLE LiteralType = 4
	LITERAL_BYTE               = 8
	LITERAL_ADDR               = 12
	LITERAL_WORD               = 16
)

const (
	OPERAND_NONE OperandType = iota

	// Vx and Vy, filled into the x then y fields
	OPERAND_V

	OPERAND_I
	OPERAND_INDIRECT_I
	OPERAND_DT
	OPERAND_ST
	OPERAND_K
	OPERAND_F
	OPERAND_HF
	OPERAND_B
	OPERAND_R

	// Literal or label, by field width
	OPERAND_NIBBLE
	OPERAND_BYTE
	OPERAND_ADDR
)

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_DB
	DIRECTIVE_DW
)

type form struct {
	Operands []OperandType
	Opcode   uint16
}

var (
	opNone = []OperandType{}
	opV    = []OperandType{OPERAND_V}
	opVV   = []OperandType{OPERAND_V, OPERAND_V}
	opVB   = []OperandType{OPERAND_V, OPERAND_BYTE}
	opAddr = []OperandType{OPERAND_ADDR}
)

// Every accepted operand layout per mnemonic
var instructions = map[string][]form{
	"CLS":  {{opNone, 0x00E0}},
	"RET":  {{opNone, 0x00EE}},
	"SCD":  {{[]OperandType{OPERAND_NIBBLE}, 0x00C0}},
	"SCR":  {{opNone, 0x00FB}},
	"SCL":  {{opNone, 0x00FC}},
	"EXIT": {{opNone, 0x00FD}},
	"LOW":  {{opNone, 0x00FE}},
	"HIGH": {{opNone, 0x00FF}},
	"JP": {
		{opAddr, 0x1000},
		{[]OperandType{OPERAND_V, OPERAND_ADDR}, 0xB000},
	},
	"CALL": {{opAddr, 0x2000}},
	"SE":   {{opVB, 0x3000}, {opVV, 0x5000}},
	"SNE":  {{opVB, 0x4000}, {opVV, 0x9000}},
	"LD": {
		{opVB, 0x6000},
		{opVV, 0x8000},
		{[]OperandType{OPERAND_I, OPERAND_ADDR}, 0xA000},
		{[]OperandType{OPERAND_V, OPERAND_DT}, 0xF007},
		{[]OperandType{OPERAND_V, OPERAND_K}, 0xF00A},
		{[]OperandType{OPERAND_DT, OPERAND_V}, 0xF015},
		{[]OperandType{OPERAND_ST, OPERAND_V}, 0xF018},
		{[]OperandType{OPERAND_F, OPERAND_V}, 0xF029},
		{[]OperandType{OPERAND_HF, OPERAND_V}, 0xF030},
		{[]OperandType{OPERAND_B, OPERAND_V}, 0xF033},
		{[]OperandType{OPERAND_INDIRECT_I, OPERAND_V}, 0xF055},
		{[]OperandType{OPERAND_V, OPERAND_INDIRECT_I}, 0xF065},
		{[]OperandType{OPERAND_R, OPERAND_V}, 0xF075},
		{[]OperandType{OPERAND_V, OPERAND_R}, 0xF085},
	},
	"ADD": {
		{opVB, 0x7000},
		{opVV, 0x8004},
		{[]OperandType{OPERAND_I, OPERAND_V}, 0xF01E},
	},
	"OR":   {{opVV, 0x8001}},
	"AND":  {{opVV, 0x8002}},
	"XOR":  {{opVV, 0x8003}},
	"SUB":  {{opVV, 0x8005}},
	"SHR":  {{opVV, 0x8006}, {opV, 0x8006}},
	"SUBN": {{opVV, 0x8007}},
	"SHL":  {{opVV, 0x800E}, {opV, 0x800E}},
	"RND":  {{opVB, 0xC000}},
	"DRW": {
		{[]OperandType{OPERAND_V, OPERAND_V, OPERAND_NIBBLE}, 0xD000},
	},
	"SKP":  {{opV, 0xE09E}},
	"SKNP": {{opV, 0xE0A1}},
}

// Fixed operand names, matched case-insensitively
var reserved = map[string]OperandType{
	"I":   OPERAND_I,
	"[I]": OPERAND_INDIRECT_I,
	"DT":  OPERAND_DT,
	"ST":  OPERAND_ST,
	"K":   OPERAND_K,
	"F":   OPERAND_F,
	"HF":  OPERAND_HF,
	"B":   OPERAND_B,
	"R":   OPERAND_R,
}
