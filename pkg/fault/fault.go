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

// Package fault holds the closed set of fault kinds raised by the machine,
// the assembler, the configuration layer and the debugger. Every fault is
// either recoverable (reported, session continues) or fatal (reported,
// process terminates).
package fault

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

type Exception struct {
	Code    Code
	Message string

	cause error
}

func (code Code) String() string {
	if name, exists := names[code]; exists {
		return name
	}

	return fmt.Sprintf("Code(%d)", int(code))
}

// Description is the fixed human readable text for the fault kind
func (code Code) Description() string {
	if msg, exists := messages[code]; exists {
		return msg
	}

	return messages[UNKNOWN]
}

func (code Code) Class() Class {
	if _, exists := names[code]; !exists {
		return FATAL
	}

	if fatal[code] {
		return FATAL
	}

	return RECOVERABLE
}

func (class Class) String() string {
	if class == FATAL {
		return "fatal"
	}

	return "recoverable"
}

func truncate(s string) string {
	if len(s) <= MESSAGE_SIZE {
		return s
	}

	end := MESSAGE_SIZE
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}

	return s[:end]
}

func New(code Code, format string, args ...interface{}) *Exception {
	return &Exception{
		Code:    code,
		Message: truncate(fmt.Sprintf(format, args...)),
	}
}

// Wrap attaches a fault kind to an error raised elsewhere. If err already
// carries a fault it is returned unchanged.
func Wrap(code Code, err error) *Exception {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc
	}

	return &Exception{
		Code:    code,
		Message: truncate(err.Error()),
		cause:   err,
	}
}

func (exc *Exception) Error() string {
	if exc.Message == "" {
		return exc.Code.Description()
	}

	return fmt.Sprintf("%s (%s)", exc.Code.Description(), exc.Message)
}

func (exc *Exception) Unwrap() error {
	return exc.cause
}

// Is matches any exception of the same kind, so that errors.Is(err,
// &Exception{Code: STACK_OVERFLOW}) works irrespective of the message.
func (exc *Exception) Is(target error) bool {
	other, ok := target.(*Exception)
	return ok && other.Code == exc.Code
}

func (exc *Exception) Fatal() bool {
	return exc.Code.Class() == FATAL
}

// Coder is implemented by typed errors that map onto a fault kind without
// being an Exception themselves
type Coder interface {
	Code() Code
}

// CodeOf returns the fault kind carried by err. Errors that carry no fault
// are UNKNOWN.
func CodeOf(err error) Code {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.Code
	}

	var coder Coder
	if errors.As(err, &coder) {
		return coder.Code()
	}

	return UNKNOWN
}

func IsFatal(err error) bool {
	return err != nil && CodeOf(err).Class() == FATAL
}
