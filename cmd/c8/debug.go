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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lassandro/goc8/pkg/debugger"
)

const PROMPT = "\033[1;30m(dbg)\033[0m "

// run drives the session either from the debugger prompt or, without
// debug, straight through until the program exits
func run(ctx context.Context, s *debugger.Session, debug bool) error {
	scr := newScreen()

	s.Prompt = PROMPT
	s.HandleTick = scr.tick

	s.HandleResume = func(s *debugger.Session) {
		enterRawTerm()
		scr.lastFrame = time.Time{}
		s.Machine.State.Draw = true
	}

	s.HandleHalt = func(s *debugger.Session) {
		scr.render(&s.Machine.State)
		exitRawTerm()
	}

	if !debug {
		return s.Continue(ctx)
	}

	fmt.Fprintln(s.Output, "Type 'help' for a list of commands")

	return s.REPL(ctx, os.Stdin)
}
