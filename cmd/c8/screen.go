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
	"fmt"
	"os"
	"time"

	"github.com/lassandro/goc8/pkg/debugger"
	"github.com/lassandro/goc8/pkg/machine"
)

const (
	ANSI_CLEAR       = "\033[H\033[2J"
	ANSI_HOME        = "\033[H"
	ANSI_RESET       = "\033[0m"
	ANSI_HIDE_CURSOR = "\033[?25l"
	ANSI_SHOW_CURSOR = "\033[?25h"
)

const FRAME_RATE = 60

// Terminals report key presses but not releases
const KEY_HOLD = 100 * time.Millisecond

// 1 2 3 C
// 4 5 6 D
// 7 8 9 E
// A 0 B F
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

type screen struct {
	out       *bufio.Writer
	lastFrame time.Time
	held      [16]time.Time
	input     [32]byte
}

func newScreen() *screen {
	return &screen{out: bufio.NewWriter(os.Stdout)}
}

func color(rgb uint32) (uint32, uint32, uint32) {
	return (rgb >> 16) & 0xFF, (rgb >> 8) & 0xFF, rgb & 0xFF
}

// Two display rows per character cell using half blocks
func (scr *screen) render(state *machine.MachineState) {
	width, height := state.Display.Size()
	bgR, bgG, bgB := color(state.Colors[0])
	fgR, fgG, fgB := color(state.Colors[1])

	scr.out.WriteString(ANSI_HOME)

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := state.Display.At(x, y)
			bottom := y+1 < height && state.Display.At(x, y+1)

			switch {
			case top && bottom:
				fmt.Fprintf(scr.out, "\033[38;2;%d;%d;%dm█", fgR, fgG, fgB)
			case top:
				fmt.Fprintf(
					scr.out,
					"\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀",
					fgR, fgG, fgB, bgR, bgG, bgB,
				)
			case bottom:
				fmt.Fprintf(
					scr.out,
					"\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▄",
					fgR, fgG, fgB, bgR, bgG, bgB,
				)
			default:
				fmt.Fprintf(scr.out, "\033[38;2;%d;%d;%dm█", bgR, bgG, bgB)
			}
		}

		scr.out.WriteString(ANSI_RESET + "\r\n")
	}

	scr.out.Flush()
}

func (scr *screen) poll(mc *machine.Machine, now time.Time) {
	n, err := os.Stdin.Read(scr.input[:])

	if err == nil {
		for _, c := range scr.input[:n] {
			if key, exists := keymap[c|0x20]; exists {
				mc.Press(key)
				scr.held[key] = now
			}
		}
	}

	for key, pressed := range scr.held {
		if !pressed.IsZero() && now.Sub(pressed) > KEY_HOLD {
			mc.Release(uint8(key))
			scr.held[key] = time.Time{}
		}
	}
}

// tick runs between instructions while the session is running
func (scr *screen) tick(s *debugger.Session) {
	now := time.Now()

	if now.Sub(scr.lastFrame) < time.Second/FRAME_RATE {
		return
	}

	scr.lastFrame = now
	scr.poll(s.Machine, now)

	state := &s.Machine.State

	if state.Draw {
		scr.render(state)
		state.Draw = false
	}
}
