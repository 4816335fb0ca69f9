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
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/tliron/commonlog"

	"github.com/lassandro/goc8/pkg/encoding"
)

var log = commonlog.GetLogger("goc8.assembler")

func parseDirective(ident string) DirectiveType {
	if strings.EqualFold(ident, ".DB") {
		return DIRECTIVE_DB
	} else if strings.EqualFold(ident, ".DW") {
		return DIRECTIVE_DW
	}

	return DIRECTIVE_INVALID
}

func parseLiteral(token *Token, bits LiteralType) (uint16, error) {
	if token.Type != TOKEN_LITERAL {
		return 0, &InvalidOperandError{token.Position, token.Value}
	}

	result, err := encoding.DecodeInt(token.Value)

	if err != nil {
		return 0, &InvalidLiteralError{token.Position}
	}

	if limit := 1 << bits; result >= limit {
		return 0, &OversizedLiteralError{token.Position, limit, result}
	}

	return uint16(result), nil
}

// parseOperand resolves a token to a register kind. Literals and label
// references resolve to OPERAND_NONE and are bound to a field later.
func parseOperand(token *Token) (OperandType, uint16, error) {
	switch token.Type {
	case TOKEN_LITERAL:
		return OPERAND_NONE, 0, nil
	case TOKEN_IDENT:
	default:
		return OPERAND_NONE, 0, &UnexpectedTokenError{token.Position, token.Type}
	}

	ident := strings.ToUpper(token.Value)

	if kind, exists := reserved[ident]; exists {
		return kind, 0, nil
	}

	if ident[0] == 'V' && len(ident) > 1 {
		isHex := true
		for i := 1; i < len(ident); i++ {
			if _, ok := encoding.DecodeHexDigit(ident[i]); !ok {
				isHex = false
			}
		}

		if isHex && len(ident) == 2 {
			reg, _ := encoding.DecodeHexDigit(ident[1])
			return OPERAND_V, uint16(reg), nil
		} else if isHex {
			return OPERAND_NONE, 0, &InvalidRegisterError{
				token.Position, token.Value,
			}
		}
	}

	return OPERAND_NONE, 0, nil
}

// Operand names only; mnemonics never appear in operand position, so they
// remain usable as labels
func isReservedName(name string) bool {
	upper := strings.ToUpper(name)

	if _, exists := reserved[upper]; exists {
		return true
	}

	if len(upper) == 2 && upper[0] == 'V' {
		_, ok := encoding.DecodeHexDigit(upper[1])
		return ok
	}

	return false
}

func validLabel(name string) bool {
	if len(name) == 0 || len(name) > LABEL_IDENTIFIER_SIZE {
		return false
	}

	for i, char := range name {
		switch {
		case char == '_', unicode.IsLetter(char):
		case unicode.IsDigit(char) && i > 0:
		default:
			return false
		}
	}

	return !isReservedName(name)
}

func tokenize(line string, cursor Cursor) (tokens []Token, errs []error) {
	var builder strings.Builder
	var tokenStart int

	flush := func() {
		if builder.Len() == 0 {
			return
		}

		token := Token{
			Position: Cursor{Line: cursor.Line, Column: tokenStart},
			Value:    builder.String(),
		}

		switch first := token.Value[0]; {
		// Label definition (i.e. loop:)
		case strings.HasSuffix(token.Value, ":"):
			token.Type = TOKEN_LABEL
			token.Value = strings.TrimSuffix(token.Value, ":")

		// Assembler Directives
		case first == '.':
			token.Type = TOKEN_DIRECTIVE

		// Numeric Literal (i.e. 42, #42, $2a, 0x2a, 0b101)
		case first == '$' || first == '#' || unicode.IsDigit(rune(first)):
			token.Type = TOKEN_LITERAL

		default:
			token.Type = TOKEN_IDENT
		}

		tokens = append(tokens, token)
		builder.Reset()
	}

	for column, char := range line {
		cursor.Column = column + 1

		switch {
		// Comments
		case char == ';':
			flush()
			return

		// Whitespace and operand separators
		case unicode.IsSpace(char), char == ',':
			flush()

		case char > unicode.MaxASCII:
			errs = append(errs, &UnexpectedCharacterError{cursor, char})

		case unicode.IsLetter(char), unicode.IsDigit(char),
			strings.ContainsRune("_$#.:[]", char):
			if builder.Len() == 0 {
				tokenStart = cursor.Column
			}

			builder.WriteRune(char)

		default:
			errs = append(errs, &UnexpectedCharacterError{cursor, char})
		}
	}

	flush()
	return
}

// AssembleSource assembles CHIP-8 source into a program loaded at
// PROG_START. Errors are collected for every line rather than stopping at
// the first one.
func AssembleSource(input io.Reader, symtable *SymTable) (result []byte, errs []error) {
	type LabelRef struct {
		Label    string
		Offset   int
		Word     bool
		Position Cursor
	}

	var labels = make(map[string]uint16)
	var labelRefs []LabelRef

	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 0}

	result = make([]byte, 0, PROGRAM_SIZE)
	errs = make([]error, 0)

	for scanner.Scan() {
		cursor.Line++
		cursor.Column = 0

		tokens, lineErrs := tokenize(scanner.Text(), cursor)

		if len(lineErrs) > 0 {
			errs = append(errs, lineErrs...)
			continue
		}

		if len(tokens) == 0 {
			continue
		}

		if tokens[0].Type == TOKEN_LABEL {
			label := &tokens[0]

			if !validLabel(label.Value) {
				errs = append(
					errs, &InvalidLabelError{label.Position, label.Value},
				)
			} else if _, exists := labels[label.Value]; exists {
				errs = append(
					errs, &RedeclaredLabelError{label.Position, label.Value},
				)
			} else if len(labels) == LABEL_CEILING {
				errs = append(errs, &TooManyLabelsError{label.Position})
			} else {
				labels[label.Value] = uint16(PROG_START + len(result))
			}

			tokens = tokens[1:]

			// No need to assemble label-only statements
			if len(tokens) == 0 {
				continue
			}
		}

		keyword := &tokens[0]
		operands := tokens[1:]
		offset := len(result)

		switch keyword.Type {
		case TOKEN_DIRECTIVE:
			directive := parseDirective(keyword.Value)

			if directive == DIRECTIVE_INVALID {
				errs = append(
					errs,
					&UnknownIdentifierError{keyword.Position, keyword.Value},
				)

				break
			}

			if len(operands) == 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, 0},
				)

				break
			}

			for i := range operands {
				operand := &operands[i]

				// .DB 0x2A, ...
				if directive == DIRECTIVE_DB {
					literal, err := parseLiteral(operand, LITERAL_BYTE)

					if err != nil {
						errs = append(errs, err)
					}

					result = append(result, byte(literal))
					continue
				}

				// .DW 0x2A2A, label, ...
				if operand.Type == TOKEN_IDENT {
					if addr, exists := labels[operand.Value]; exists {
						result = append(result, byte(addr>>8), byte(addr))
					} else {
						labelRefs = append(labelRefs, LabelRef{
							operand.Value, len(result), true, operand.Position,
						})
						result = append(result, 0, 0)
					}

					continue
				}

				literal, err := parseLiteral(operand, LITERAL_WORD)

				if err != nil {
					errs = append(errs, err)
				}

				result = append(result, byte(literal>>8), byte(literal))
			}

		case TOKEN_IDENT:
			forms, exists := instructions[strings.ToUpper(keyword.Value)]

			if !exists {
				errs = append(
					errs,
					&UnknownIdentifierError{keyword.Position, keyword.Value},
				)

				break
			}

			kinds := make([]OperandType, len(operands))
			registers := make([]uint16, len(operands))
			valid := true

			for i := range operands {
				kind, reg, err := parseOperand(&operands[i])

				if err != nil {
					errs = append(errs, err)
					valid = false
				}

				kinds[i] = kind
				registers[i] = reg
			}

			if !valid {
				break
			}

			match := matchForm(forms, kinds)

			if match == nil {
				errs = append(errs, operandsError(keyword, forms, len(kinds)))
				break
			}

			scratch := match.Opcode
			fields := 0

			for i, kind := range match.Operands {
				operand := &operands[i]

				switch kind {
				// Vx then Vy
				case OPERAND_V:
					if match.Opcode == 0xB000 && registers[i] != 0 {
						errs = append(
							errs,
							&InvalidRegisterError{
								operand.Position, operand.Value,
							},
						)
					}

					if fields == 0 {
						scratch |= registers[i] << 8
					} else {
						scratch |= registers[i] << 4
					}

					fields++

				case OPERAND_NIBBLE:
					literal, err := parseLiteral(operand, LITERAL_NIBBLE)

					if err != nil {
						errs = append(errs, err)
					}

					scratch |= literal

				case OPERAND_BYTE:
					literal, err := parseLiteral(operand, LITERAL_BYTE)

					if err != nil {
						errs = append(errs, err)
					}

					scratch |= literal

				case OPERAND_ADDR:
					if operand.Type == TOKEN_LITERAL {
						literal, err := parseLiteral(operand, LITERAL_ADDR)

						if err != nil {
							errs = append(errs, err)
						}

						scratch |= literal
					} else if addr, exists := labels[operand.Value]; exists {
						scratch |= addr & 0xFFF
					} else {
						labelRefs = append(labelRefs, LabelRef{
							operand.Value, offset, false, operand.Position,
						})
					}
				}
			}

			result = append(result, byte(scratch>>8), byte(scratch))

		default:
			errs = append(
				errs, &UnexpectedTokenError{keyword.Position, keyword.Type},
			)
		}

		if symtable != nil && len(result) > offset {
			symtable.Symbols[uint16(PROG_START+offset)] = cursor.Line
		}

		if len(result) > PROGRAM_SIZE {
			errs = append(errs, &OversizedBinaryError{keyword.Position})
			return
		}
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
		return
	}

	// Labels
	// - Validate and resolve label references
	// - Add labels to symbol table
	for _, ref := range labelRefs {
		addr, exists := labels[ref.Label]

		if !exists {
			errs = append(errs, &UnknownLabelError{ref.Position, ref.Label})
			continue
		}

		if ref.Word {
			result[ref.Offset] = byte(addr >> 8)
		} else {
			result[ref.Offset] |= byte(addr>>8) & 0xF
		}

		result[ref.Offset+1] = byte(addr)
	}

	if symtable != nil {
		for label, addr := range labels {
			symtable.Labels[addr] = label
		}
	}

	log.Debugf("assembled %d bytes, %d labels", len(result), len(labels))

	return
}

func matchForm(forms []form, kinds []OperandType) *form {
	for i := range forms {
		if len(forms[i].Operands) != len(kinds) {
			continue
		}

		matched := true

		for j, want := range forms[i].Operands {
			switch want {
			case OPERAND_NIBBLE, OPERAND_BYTE, OPERAND_ADDR:
				matched = matched && kinds[j] == OPERAND_NONE
			default:
				matched = matched && kinds[j] == want
			}
		}

		if matched {
			return &forms[i]
		}
	}

	return nil
}

func operandsError(keyword *Token, forms []form, count int) error {
	required := make([][]OperandType, 0, len(forms))
	arity := -1

	for _, f := range forms {
		required = append(required, f.Operands)

		if len(f.Operands) == count {
			arity = count
		}
	}

	if arity < 0 {
		return &InvalidNumArgumentsError{
			keyword.Position, len(forms[0].Operands), count,
		}
	}

	return &InvalidOperandsError{keyword.Position, required}
}

// Assemble assembles source and reports the first error as a fault
func Assemble(input io.Reader, symtable *SymTable) ([]byte, error) {
	result, errs := AssembleSource(input, symtable)

	if len(errs) > 0 {
		for _, err := range errs[1:] {
			log.Debugf("%s", err)
		}

		return nil, Exception(errs[0])
	}

	return result, nil
}
