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

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/lassandro/goc8/pkg/assembler"
	"github.com/lassandro/goc8/pkg/disasm"
)

type Options struct {
	Out         string `short:"o" long:"out" description:"Output file, overriding the default name"`
	Disassemble bool   `short:"d" long:"disassemble" description:"Disassemble a binary instead of assembling"`
	Addresses   bool   `short:"a" long:"addresses" description:"Prefix disassembled lines with their address"`
	Verbose     []bool `short:"v" long:"verbose" description:"Increase log verbosity"`

	Args struct {
		File string `positional-arg-name:"file" description:"Input file, standard input when omitted"`
	} `positional-args:"yes"`
}

var prefix = "c8as: "

func report(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		prefix = "\033[1m<stdin>:\033[0m "
		return io.ReadAll(os.Stdin)
	}

	prefix = fmt.Sprintf("\033[1m%s:\033[0m ", filepath.Base(path))

	if stat, err := os.Stat(path); err != nil {
		return nil, err
	} else if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return os.ReadFile(path)
}

func outputName(opts *Options, ext string) string {
	if opts.Out != "" {
		return opts.Out
	}

	if opts.Args.File == "" {
		return "out" + ext
	}

	filename := filepath.Base(opts.Args.File)
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

// Underline the offending token of each error in its source line
func printErrors(source []byte, errs []error) {
	lines := strings.Split(string(source), "\n")

	for _, err := range errs {
		tokenErr, ok := err.(assembler.TokenError)

		if !ok {
			report("%s", err)
			continue
		}

		cursor := tokenErr.GetPosition()

		if cursor.Line < 1 || cursor.Line > len(lines) || cursor.Column < 1 {
			report("%s", err)
			continue
		}

		line := strings.TrimRight(lines[cursor.Line-1], "\r")

		report(
			"%s\n%s\n\033[31m%s^\033[0m",
			err,
			line,
			strings.Repeat(" ", cursor.Column-1),
		)
	}
}

func assemble(opts *Options, input []byte) int {
	result, errs := assembler.AssembleSource(bytes.NewReader(input), nil)

	if len(errs) > 0 {
		printErrors(input, errs)
		return 1
	}

	if err := os.WriteFile(outputName(opts, ".ch8"), result, 0666); err != nil {
		report("Error writing output file")
		report("%s", err)
		return 1
	}

	return 0
}

func disassemble(opts *Options, input []byte) int {
	var output io.Writer = os.Stdout

	if opts.Out != "" {
		file, err := os.Create(opts.Out)

		if err != nil {
			report("%s", err)
			return 1
		}

		defer file.Close()
		output = file
	}

	writer := bufio.NewWriter(output)

	if err := disasm.Disassemble(
		writer,
		input,
		disasm.Options{Addresses: opts.Addresses, Labels: true},
	); err != nil {
		report("%s", err)
		return 1
	}

	if err := writer.Flush(); err != nil {
		report("%s", err)
		return 1
	}

	return 0
}

func c8as() int {
	var opts Options

	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}

		return 1
	}

	commonlog.Configure(len(opts.Verbose), nil)

	input, err := readInput(opts.Args.File)

	if err != nil {
		report("%s", err)
		return 1
	}

	if opts.Disassemble {
		return disassemble(&opts, input)
	}

	return assemble(&opts, input)
}

func main() {
	os.Exit(c8as())
}
