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

	"github.com/lassandro/goc8/pkg/encoding"
	"github.com/lassandro/goc8/pkg/fault"
	"github.com/lassandro/goc8/pkg/machine"
)

type Invocation struct {
	Command *CommandDescriptor
	Args    []Arg
}

type UnknownCommandError struct {
	Name string
}

func (err *UnknownCommandError) Error() string {
	return fmt.Sprintf("'%s' is not a valid command", err.Name)
}

func (err *UnknownCommandError) Code() fault.Code {
	return fault.INVALID_SYMBOL
}

type UsageError struct {
	Command  *CommandDescriptor
	Received int
}

func (err *UsageError) Error() string {
	return fmt.Sprintf(
		"%s takes %s, got %d\nusage: %s",
		err.Command.Names[0],
		arity(err.Command),
		err.Received,
		err.Command.Usage,
	)
}

func (err *UsageError) Code() fault.Code {
	return fault.INVALID_ARGUMENT
}

func arity(cmd *CommandDescriptor) string {
	least, most := cmd.required(), len(cmd.Args)

	switch {
	case most == 0:
		return "no arguments"
	case least == most && most == 1:
		return "1 argument"
	case least == most:
		return fmt.Sprintf("%d arguments", most)
	}

	return fmt.Sprintf("%d to %d arguments", least, most)
}

type InvalidArgumentError struct {
	Token  string
	Reason string
}

func (err *InvalidArgumentError) Error() string {
	return fmt.Sprintf("Invalid argument '%s': %s", err.Token, err.Reason)
}

func (err *InvalidArgumentError) Code() fault.Code {
	return fault.INVALID_ARGUMENT
}

func invalid(token, format string, args ...interface{}) error {
	return &InvalidArgumentError{token, fmt.Sprintf(format, args...)}
}

// Longest accepted input line in bytes
const MAX_LINE_SIZE = 4096

// Parse turns one line of debugger input into an Invocation. Command names
// are matched exactly; target symbols are matched case-insensitively.
func Parse(line string) (*Invocation, error) {
	if len(line) > MAX_LINE_SIZE {
		return nil, fault.New(
			fault.INVALID_ARGUMENT, "line exceeds %d bytes", MAX_LINE_SIZE,
		)
	}

	line = strings.TrimSpace(line)
	fields := strings.Fields(line)

	if len(fields) == 0 {
		return nil, nil
	}

	cmd, ok := Lookup(fields[0])

	if !ok {
		return nil, &UnknownCommandError{fields[0]}
	}

	tokens := fields[1:]

	// File arguments take the remainder of the line verbatim
	if len(cmd.Args) == 1 && cmd.Args[0].Accepts[0] == ARG_FILE {
		rest := strings.TrimSpace(line[len(fields[0]):])

		if rest == "" {
			return nil, &UsageError{cmd, 0}
		}

		return &Invocation{cmd, []Arg{File(rest)}}, nil
	}

	if len(tokens) < cmd.required() || len(tokens) > len(cmd.Args) {
		return nil, &UsageError{cmd, len(tokens)}
	}

	result := &Invocation{Command: cmd, Args: make([]Arg, 0, len(tokens))}

	for i, token := range tokens {
		var arg Arg
		var err error

		if i == 0 {
			arg, err = parseTarget(token)
		} else {
			arg, err = parseValue(result.Args[0], token)
		}

		if err != nil {
			return nil, err
		}

		if !accepts(cmd.Args[i], arg.Type) {
			return nil, invalid(
				token, "%s does not accept a %s", cmd.Names[0], arg.Type,
			)
		}

		if cmd.ID == CMD_SET && i == 0 {
			if err := writable(token, arg); err != nil {
				return nil, err
			}
		}

		result.Args = append(result.Args, arg)
	}

	return result, nil
}

func accepts(desc ArgDescriptor, t ArgType) bool {
	for _, accepted := range desc.Accepts {
		if accepted == t {
			return true
		}
	}

	return false
}

// Aggregate targets can be printed but not written
func writable(token string, arg Arg) error {
	switch arg.Type {
	case ARG_V:
		if arg.Index() < 0 {
			return invalid(token, "a register index is required")
		}
	case ARG_REG:
		if arg.Name() == REG_R && arg.Index() < 0 {
			return invalid(token, "a register index is required")
		}
	}

	return nil
}

func parseTarget(token string) (Arg, error) {
	upper := strings.ToUpper(token)

	switch upper {
	case "SP":
		return StackPointer(), nil
	case "PC":
		return ProgramCounter(), nil
	case "VK":
		return VKey(-1), nil
	case "V":
		return DataRegister(-1), nil
	case "STACK":
		return Stack(), nil
	case "BG":
		return Background(), nil
	case "FG":
		return Foreground(), nil
	case "SFONT":
		return SmallFont(""), nil
	case "BFONT":
		return BigFont(""), nil
	case "QUIRKS":
		return Quirks(""), nil
	case REG_DT, REG_ST, REG_I, REG_R:
		return Register(upper, -1), nil
	}

	// V0-VF, R0-R7, S0-SF
	if len(upper) == 2 {
		if index, ok := encoding.DecodeHexDigit(upper[1]); ok {
			switch upper[0] {
			case 'V':
				return DataRegister(index), nil
			case 'S':
				return StackSlot(index), nil
			case 'R':
				if index >= machine.FLAG_COUNT {
					return Arg{}, invalid(token, "no such flag register")
				}
				return Register(REG_R, index), nil
			}
		}
	}

	if addr, err := encoding.DecodeInt(token); err == nil {
		if addr >= machine.MEMSIZE {
			return Arg{}, invalid(token, "address out of range")
		}

		return Address(addr), nil
	}

	return Arg{}, invalid(token, "unknown target")
}

// The variant of a set value depends on the target being written
func parseValue(target Arg, token string) (Arg, error) {
	switch target.Type {
	case ARG_QUIRKS:
		if _, err := machine.ParseQuirks(token); err != nil {
			return Arg{}, invalid(token, "unknown quirk")
		}
		return Quirks(token), nil

	case ARG_SFONT:
		if _, ok := machine.FindFont(machine.FONT_SMALL, token); !ok {
			return Arg{}, invalid(token, "unknown small font")
		}
		return SmallFont(token), nil

	case ARG_BFONT:
		if _, ok := machine.FindFont(machine.FONT_BIG, token); !ok {
			return Arg{}, invalid(token, "unknown big font")
		}
		return BigFont(token), nil
	}

	value, err := encoding.DecodeInt(token)

	if err != nil {
		return Arg{}, invalid(token, "expected a number")
	}

	if target.Type == ARG_BG || target.Type == ARG_FG {
		return Value(value), nil
	}

	return Immediate(value), nil
}
