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
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/lassandro/goc8/pkg/fault"
)

var termRestore unix.Termios
var termRaw unix.Termios

func initTerm() error {
	termstate, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), ioctlGetTermios)

	if err != nil {
		return fault.Wrap(fault.FAILED_GRAPHICS_INITIALIZATION, err)
	}

	termRestore = *termstate
	termRaw = *termstate

	termRaw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termRaw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termRaw.Cflag &^= unix.CSIZE | unix.PARENB
	termRaw.Cflag |= unix.CS8

	termRaw.Cc[unix.VMIN] = 0
	termRaw.Cc[unix.VTIME] = 0

	return nil
}

func enterRawTerm() {
	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), ioctlSetTermios, &termRaw,
	); err != nil {
		log.Errorf("raw terminal: %s", err)
	}

	os.Stdout.WriteString(ANSI_HIDE_CURSOR + ANSI_CLEAR)
}

func exitRawTerm() {
	os.Stdout.WriteString(ANSI_RESET + ANSI_SHOW_CURSOR)

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), ioctlSetTermios, &termRestore,
	); err != nil {
		log.Errorf("restore terminal: %s", err)
	}

	// Keypad input typed while running must not reach the prompt
	if err := termios.Tcflush(os.Stdin.Fd(), termios.TCIFLUSH); err != nil {
		log.Warningf("flush terminal: %s", err)
	}
}
