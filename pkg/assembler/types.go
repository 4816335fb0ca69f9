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

import (
	"fmt"
	"strings"

	"github.com/lassandro/goc8/pkg/fault"
)

type LiteralType uint
type TokenType uint
type OperandType uint
type DirectiveType uint

type Cursor struct {
	Line   int
	Column int
}

type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

// SymTable maps assembled addresses back to their source
type SymTable struct {
	// Address to source line
	Symbols map[uint16]int

	// Address to label name
	Labels map[uint16]string
}

type TokenError interface {
	GetPosition() Cursor
	Code() fault.Code
}

func tokenTypeName(tokenType TokenType) string {
	switch tokenType {
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_DIRECTIVE:
		return "Directive"
	case TOKEN_LITERAL:
		return "Literal"
	case TOKEN_LABEL:
		return "Label"
	}

	return "<invalid>"
}

func operandTypeName(operandType OperandType) string {
	switch operandType {
	case OPERAND_V:
		return "Vx"
	case OPERAND_I:
		return "I"
	case OPERAND_INDIRECT_I:
		return "[I]"
	case OPERAND_DT:
		return "DT"
	case OPERAND_ST:
		return "ST"
	case OPERAND_K:
		return "K"
	case OPERAND_F:
		return "F"
	case OPERAND_HF:
		return "HF"
	case OPERAND_B:
		return "B"
	case OPERAND_R:
		return "R"
	case OPERAND_NIBBLE:
		return "nibble"
	case OPERAND_BYTE:
		return "byte"
	case OPERAND_ADDR:
		return "address"
	}

	return "<invalid>"
}

type InvalidOperandError struct {
	Position Cursor
	Received string
}

func (err *InvalidOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidOperandError) Code() fault.Code {
	return fault.INVALID_ARGUMENT
}

func (err *InvalidOperandError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid operand '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

// InvalidOperandsError is raised when no layout of a mnemonic matches its
// operands
type InvalidOperandsError struct {
	Position Cursor
	Required [][]OperandType
}

func (err *InvalidOperandsError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidOperandsError) Code() fault.Code {
	return fault.INVALID_ARGUMENT
}

func (err *InvalidOperandsError) Error() string {
	layouts := make([]string, 0, len(err.Required))

	for _, layout := range err.Required {
		names := make([]string, 0, len(layout))

		for _, operandType := range layout {
			names = append(names, operandTypeName(operandType))
		}

		layouts = append(layouts, strings.Join(names, ", "))
	}

	return fmt.Sprintf(
		"%02d:%02d: Invalid operands, want one of: %s",
		err.Position.Line,
		err.Position.Column,
		strings.Join(layouts, " | "),
	)
}

type InvalidNumArgumentsError struct {
	Position Cursor
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidNumArgumentsError) Code() fault.Code {
	return fault.INVALID_ARGUMENT
}

func (err *InvalidNumArgumentsError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid number of arguments, want:%d have:%d",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type UnexpectedTokenError struct {
	Position Cursor
	Received TokenType
}

func (err *UnexpectedTokenError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedTokenError) Code() fault.Code {
	return fault.INVALID_SYMBOL
}

func (err *UnexpectedTokenError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected %s",
		err.Position.Line,
		err.Position.Column,
		tokenTypeName(err.Received),
	)
}

type InvalidLiteralError struct {
	Position Cursor
}

func (err *InvalidLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Code() fault.Code {
	return fault.INVALID_ARGUMENT
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid numeric literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type OversizedLiteralError struct {
	Position Cursor
	Required int
	Received int
}

func (err *OversizedLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedLiteralError) Code() fault.Code {
	return fault.INVALID_ARGUMENT
}

func (err *OversizedLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Literal exceeds allowed size, want:<%#x have:%#x",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type InvalidRegisterError struct {
	Position Cursor
	Received string
}

func (err *InvalidRegisterError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidRegisterError) Code() fault.Code {
	return fault.INVALID_ARGUMENT
}

func (err *InvalidRegisterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid register identifier '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnexpectedCharacterError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Code() fault.Code {
	return fault.INVALID_SYMBOL
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected character %q",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type InvalidLabelError struct {
	Position Cursor
	Received string
}

func (err *InvalidLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidLabelError) Code() fault.Code {
	return fault.INVALID_SYMBOL
}

func (err *InvalidLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid label name '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type RedeclaredLabelError struct {
	Position Cursor
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *RedeclaredLabelError) Code() fault.Code {
	return fault.DUPLICATE_LABEL
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type TooManyLabelsError struct {
	Position Cursor
}

func (err *TooManyLabelsError) GetPosition() Cursor {
	return err.Position
}

func (err *TooManyLabelsError) Code() fault.Code {
	return fault.TOO_MANY_LABELS
}

func (err *TooManyLabelsError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: More than %d labels",
		err.Position.Line,
		err.Position.Column,
		LABEL_CEILING,
	)
}

type UnknownLabelError struct {
	Position Cursor
	Received string
}

func (err *UnknownLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownLabelError) Code() fault.Code {
	return fault.INVALID_SYMBOL
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownIdentifierError struct {
	Position Cursor
	Received string
}

func (err *UnknownIdentifierError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownIdentifierError) Code() fault.Code {
	return fault.INVALID_SYMBOL
}

func (err *UnknownIdentifierError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown identifier '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type OversizedBinaryError struct {
	Position Cursor
}

func (err *OversizedBinaryError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedBinaryError) Code() fault.Code {
	return fault.TOO_MANY_SYMBOLS
}

func (err *OversizedBinaryError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Binary exceeds %d bytes",
		err.Position.Line,
		err.Position.Column,
		PROGRAM_SIZE,
	)
}

// Exception converts an assembler error into its fault kind
func Exception(err error) *fault.Exception {
	if tokenErr, ok := err.(TokenError); ok {
		return fault.Wrap(tokenErr.Code(), err)
	}

	return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
}
