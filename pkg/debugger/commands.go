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
)

type CommandID uint

const (
	CMD_NONE CommandID = iota
	CMD_ADD_BREAKPOINT
	CMD_RM_BREAKPOINT
	CMD_CONTINUE
	CMD_NEXT
	CMD_SET
	CMD_LOAD
	CMD_SAVE
	CMD_PRINT
	CMD_HELP
	CMD_QUIT
	CMD_LOADFLAGS
	CMD_SAVEFLAGS
)

type ArgDescriptor struct {
	Name     string
	Accepts  []ArgType
	Optional bool
}

type CommandDescriptor struct {
	ID    CommandID
	Names []string
	Args  []ArgDescriptor
	Usage string
	Help  string
}

// Targets that can be inspected with print
var printTargets = []ArgType{
	ARG_SP, ARG_V, ARG_SLOT, ARG_PC, ARG_VK, ARG_STACK, ARG_BG, ARG_FG,
	ARG_SFONT, ARG_BFONT, ARG_QUIRKS, ARG_REG, ARG_ADDR,
}

// Targets that can be written with set
var setTargets = []ArgType{
	ARG_SP, ARG_V, ARG_SLOT, ARG_PC, ARG_VK, ARG_BG, ARG_FG,
	ARG_SFONT, ARG_BFONT, ARG_QUIRKS, ARG_REG, ARG_ADDR,
}

var fileArg = []ArgDescriptor{{Name: "file", Accepts: []ArgType{ARG_FILE}}}

var Commands = []CommandDescriptor{
	{
		ID:    CMD_ADD_BREAKPOINT,
		Names: []string{"break", "b"},
		Args: []ArgDescriptor{
			{Name: "addr", Accepts: []ArgType{ARG_ADDR}, Optional: true},
		},
		Usage: "break [addr]",
		Help:  "Add a breakpoint at addr, or at PC",
	},
	{
		ID:    CMD_RM_BREAKPOINT,
		Names: []string{"unbreak", "rmbreak", "ub"},
		Args: []ArgDescriptor{
			{Name: "addr", Accepts: []ArgType{ARG_ADDR}, Optional: true},
		},
		Usage: "unbreak [addr]",
		Help:  "Remove the breakpoint at addr, or at PC",
	},
	{
		ID:    CMD_CONTINUE,
		Names: []string{"continue", "c"},
		Usage: "continue",
		Help:  "Resume execution until a breakpoint or fault",
	},
	{
		ID:    CMD_NEXT,
		Names: []string{"next", "n", "step", "s"},
		Usage: "next",
		Help:  "Execute a single instruction",
	},
	{
		ID:    CMD_SET,
		Names: []string{"set"},
		Args: []ArgDescriptor{
			{Name: "target", Accepts: setTargets},
			{
				Name: "value",
				Accepts: []ArgType{
					ARG_IMM, ARG_VALUE, ARG_SFONT, ARG_BFONT, ARG_QUIRKS,
				},
			},
		},
		Usage: "set <target> <value>",
		Help:  "Write a register, stack slot, memory byte or setting",
	},
	{
		ID:    CMD_LOAD,
		Names: []string{"load"},
		Args:  fileArg,
		Usage: "load <file>",
		Help:  "Restore the machine from a snapshot",
	},
	{
		ID:    CMD_SAVE,
		Names: []string{"save"},
		Args:  fileArg,
		Usage: "save <file>",
		Help:  "Write a snapshot of the machine",
	},
	{
		ID:    CMD_PRINT,
		Names: []string{"print", "p"},
		Args: []ArgDescriptor{
			{Name: "target", Accepts: printTargets, Optional: true},
		},
		Usage: "print [target]",
		Help:  "Show the machine state, or a single target",
	},
	{
		ID:    CMD_HELP,
		Names: []string{"help", "h", "?"},
		Usage: "help",
		Help:  "Show this message",
	},
	{
		ID:    CMD_QUIT,
		Names: []string{"quit", "q", "exit"},
		Usage: "quit",
		Help:  "Leave the debugger",
	},
	{
		ID:    CMD_LOADFLAGS,
		Names: []string{"loadflags"},
		Args:  fileArg,
		Usage: "loadflags <file>",
		Help:  "Apply palette, quirks, fonts and clock from a flags file",
	},
	{
		ID:    CMD_SAVEFLAGS,
		Names: []string{"saveflags"},
		Args:  fileArg,
		Usage: "saveflags <file>",
		Help:  "Write palette, quirks, fonts and clock to a flags file",
	},
}

// Lookup matches a command name or alias exactly
func Lookup(name string) (*CommandDescriptor, bool) {
	for i := range Commands {
		for _, alias := range Commands[i].Names {
			if alias == name {
				return &Commands[i], true
			}
		}
	}

	return nil, false
}

func (desc *CommandDescriptor) required() int {
	count := 0

	for _, arg := range desc.Args {
		if !arg.Optional {
			count++
		}
	}

	return count
}

const helpTargets = `Targets:
  SP PC I DT ST VK      Machine registers
  V V0-VF R R0-R7       Data and flag registers
  stack S0-SF           Call stack
  BG FG                 Palette colors
  sfont bfont quirks    Machine settings
  $200 0x200 512        Memory address
`

func Help() string {
	var builder strings.Builder

	builder.WriteString("Commands:\n")

	for _, cmd := range Commands {
		fmt.Fprintf(&builder, "  %-22s%s\n", cmd.Usage, cmd.Help)

		if len(cmd.Names) > 1 {
			fmt.Fprintf(
				&builder,
				"  %-22s(%s)\n",
				"",
				strings.Join(cmd.Names[1:], ", "),
			)
		}
	}

	builder.WriteString("\n")
	builder.WriteString(helpTargets)
	builder.WriteString("\nAn empty line repeats the previous command\n")

	return builder.String()
}
