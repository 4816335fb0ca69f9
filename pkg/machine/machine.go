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

package machine

import (
	"context"
	"io"
	"math/rand"

	"github.com/lassandro/goc8/pkg/encoding"
	"github.com/lassandro/goc8/pkg/fault"
)

func New() *Machine {
	var mc Machine
	mc.State.Colors = [2]uint32{DEFAULT_BACKGROUND, DEFAULT_FOREGROUND}
	mc.State.Reset()
	return &mc
}

// Reset clears memory, registers and the display. Colours, fonts and quirks
// are configuration and survive a reset.
func (mc *MachineState) Reset() {
	colors, fonts, quirks := mc.Colors, mc.Fonts, mc.Quirks

	*mc = MachineState{}

	mc.Colors = colors
	mc.Fonts = fonts
	mc.Quirks = quirks
	mc.PC = PROG_START
	mc.loadFonts()
}

// LoadProgram resets the machine and copies program to PROG_START. A program
// that does not fit leaves the machine untouched.
func (mc *Machine) LoadProgram(program []byte) error {
	if size := len(program); size > MEMSIZE-PROG_START {
		return fault.New(
			fault.FILE_TOO_BIG, "%d bytes, limit %d", size, MEMSIZE-PROG_START,
		)
	}

	mc.State.Reset()
	copy(mc.State.Memory[PROG_START:], program)

	return nil
}

func (mc *Machine) LoadROM(reader io.Reader) error {
	program, err := io.ReadAll(
		io.LimitReader(reader, int64(MEMSIZE-PROG_START+1)),
	)

	if err != nil {
		return fault.Wrap(fault.LOAD_FILE_FAILURE, err)
	}

	return mc.LoadProgram(program)
}

func (mc *MachineState) Fetch(addr uint16) uint16 {
	return encoding.Word(
		mc.Memory[addr&(MEMSIZE-1)], mc.Memory[(addr+1)&(MEMSIZE-1)],
	)
}

func (mc *Machine) Press(key uint8) {
	mc.State.Keys[key&0xF] = true
}

func (mc *Machine) Release(key uint8) {
	mc.State.Keys[key&0xF] = false
}

func (mc *Machine) random() uint8 {
	if mc.Rand != nil {
		return uint8(mc.Rand.Intn(256))
	}

	return uint8(rand.Intn(256))
}

// Size is the visible area for the current display mode
func (d *Display) Size() (int, int) {
	if d.Mode == DISPLAYMODE_HIGH {
		return HIGH_DISPLAY_WIDTH, HIGH_DISPLAY_HEIGHT
	}

	return LOW_DISPLAY_WIDTH, LOW_DISPLAY_HEIGHT
}

func (d *Display) At(x, y int) bool {
	return d.Pixels[y*HIGH_DISPLAY_WIDTH+x]
}

func (mc *MachineState) clear() {
	mc.Display.Pixels = [HIGH_DISPLAY_WIDTH * HIGH_DISPLAY_HEIGHT]bool{}
	mc.Draw = true
}

func (mc *MachineState) scroll(dx, dy int) {
	width, height := mc.Display.Size()
	var pixels [HIGH_DISPLAY_WIDTH * HIGH_DISPLAY_HEIGHT]bool

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy := x-dx, y-dy

			if sx < 0 || sx >= width || sy < 0 || sy >= height {
				continue
			}

			pixels[y*HIGH_DISPLAY_WIDTH+x] =
				mc.Display.Pixels[sy*HIGH_DISPLAY_WIDTH+sx]
		}
	}

	mc.Display.Pixels = pixels
	mc.Draw = true
}

func (mc *MachineState) draw(x, y, n uint8) {
	width, height := mc.Display.Size()

	rows, cols := int(n), 8
	if n == 0 && mc.Display.Mode == DISPLAYMODE_HIGH {
		rows, cols = 16, 16
	}

	originX := int(mc.V[x]) % width
	originY := int(mc.V[y]) % height
	stride := cols / 8

	mc.V[0xF] = 0

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			addr := (int(mc.I) + row*stride + col/8) & (MEMSIZE - 1)

			if mc.Memory[addr]&(0x80>>(col%8)) == 0 {
				continue
			}

			px, py := originX+col, originY+row

			if mc.Quirks&QUIRK_DRAW != 0 {
				// Clip instead of wrapping
				if px >= width || py >= height {
					continue
				}
			} else {
				px %= width
				py %= height
			}

			pixel := &mc.Display.Pixels[py*HIGH_DISPLAY_WIDTH+px]

			if *pixel {
				mc.V[0xF] = 1
			}

			*pixel = !*pixel
		}
	}

	mc.Draw = true
}

func invalidInstruction(pc, instruction uint16) error {
	return fault.New(
		fault.INVALID_INSTRUCTION, "PC: %03x OP: %04x", pc, instruction,
	)
}

// execute runs one decoded instruction and returns the amount by which the
// program counter advances. Faults are raised before any state is modified.
func (mc *Machine) execute(instruction uint16) (uint16, error) {
	state := &mc.State

	a := encoding.OpA(instruction)
	x := encoding.OpX(instruction)
	y := encoding.OpY(instruction)
	n := encoding.OpN(instruction)
	kk := encoding.OpKK(instruction)
	nnn := encoding.OpNNN(instruction)

	switch a {
	case 0x0:
		switch {
		// 00CN SCD n
		case x == 0x0 && y == 0xC:
			state.scroll(0, int(n))
			return 2, nil

		// 00E0 CLS
		case instruction == 0x00E0:
			state.clear()
			return 2, nil

		// 00EE RET
		case instruction == 0x00EE:
			if state.SP == 0 {
				return 0, fault.New(fault.STACK_UNDERFLOW, "PC: %03x", state.PC)
			}

			state.SP--
			state.PC = state.Stack[state.SP]
			return 2, nil

		// 00FB SCR
		case instruction == 0x00FB:
			state.scroll(4, 0)
			return 2, nil

		// 00FC SCL
		case instruction == 0x00FC:
			state.scroll(-4, 0)
			return 2, nil

		// 00FD EXIT
		case instruction == 0x00FD:
			state.Halted = true
			return 0, nil

		// 00FE LOW
		case instruction == 0x00FE:
			state.Display.Mode = DISPLAYMODE_LOW
			state.Draw = true
			return 2, nil

		// 00FF HIGH
		case instruction == 0x00FF:
			state.Display.Mode = DISPLAYMODE_HIGH
			state.Draw = true
			return 2, nil
		}

	// 1NNN JP nnn
	case 0x1:
		state.PC = nnn
		return 0, nil

	// 2NNN CALL nnn
	case 0x2:
		if int(state.SP) >= STACK_SIZE {
			return 0, fault.New(fault.STACK_OVERFLOW, "PC: %03x", state.PC)
		}

		state.Stack[state.SP] = state.PC
		state.SP++
		state.PC = nnn
		return 0, nil

	// 3XKK SE Vx, kk
	case 0x3:
		if state.V[x] == kk {
			return 4, nil
		}
		return 2, nil

	// 4XKK SNE Vx, kk
	case 0x4:
		if state.V[x] != kk {
			return 4, nil
		}
		return 2, nil

	// 5XY0 SE Vx, Vy
	case 0x5:
		if n != 0 {
			break
		}

		if state.V[x] == state.V[y] {
			return 4, nil
		}
		return 2, nil

	// 6XKK LD Vx, kk
	case 0x6:
		state.V[x] = kk
		return 2, nil

	// 7XKK ADD Vx, kk (no carry)
	case 0x7:
		state.V[x] += kk
		return 2, nil

	case 0x8:
		vx, vy := state.V[x], state.V[y]

		switch n {
		// 8XY0 LD Vx, Vy
		case 0x0:
			state.V[x] = vy
			return 2, nil

		// 8XY1 OR Vx, Vy
		case 0x1:
			state.V[x] = vx | vy
			if state.Quirks&QUIRK_BITWISE != 0 {
				state.V[0xF] = 0
			}
			return 2, nil

		// 8XY2 AND Vx, Vy
		case 0x2:
			state.V[x] = vx & vy
			if state.Quirks&QUIRK_BITWISE != 0 {
				state.V[0xF] = 0
			}
			return 2, nil

		// 8XY3 XOR Vx, Vy
		case 0x3:
			state.V[x] = vx ^ vy
			if state.Quirks&QUIRK_BITWISE != 0 {
				state.V[0xF] = 0
			}
			return 2, nil

		// 8XY4 ADD Vx, Vy
		case 0x4:
			state.V[x] = vx + vy
			if int(vx)+int(vy) > 0xFF {
				state.V[0xF] = 1
			} else {
				state.V[0xF] = 0
			}
			return 2, nil

		// 8XY5 SUB Vx, Vy
		case 0x5:
			state.V[x] = vx - vy
			if vx >= vy {
				state.V[0xF] = 1
			} else {
				state.V[0xF] = 0
			}
			return 2, nil

		// 8XY6 SHR Vx, Vy
		case 0x6:
			src := vy
			if state.Quirks&QUIRK_SHIFT != 0 {
				src = vx
			}

			state.V[x] = src >> 1
			state.V[0xF] = src & 0x1
			return 2, nil

		// 8XY7 SUBN Vx, Vy
		case 0x7:
			state.V[x] = vy - vx
			if vy >= vx {
				state.V[0xF] = 1
			} else {
				state.V[0xF] = 0
			}
			return 2, nil

		// 8XYE SHL Vx, Vy
		case 0xE:
			src := vy
			if state.Quirks&QUIRK_SHIFT != 0 {
				src = vx
			}

			state.V[x] = src << 1
			state.V[0xF] = (src >> 7) & 0x1
			return 2, nil
		}

	// 9XY0 SNE Vx, Vy
	case 0x9:
		if n != 0 {
			break
		}

		if state.V[x] != state.V[y] {
			return 4, nil
		}
		return 2, nil

	// ANNN LD I, nnn
	case 0xA:
		state.I = nnn
		return 2, nil

	// BNNN JP V0, nnn
	case 0xB:
		offset := state.V[0]
		if state.Quirks&QUIRK_JUMP != 0 {
			offset = state.V[x]
		}

		state.PC = (nnn + uint16(offset)) & (MEMSIZE - 1)
		return 0, nil

	// CXKK RND Vx, kk
	case 0xC:
		state.V[x] = mc.random() & kk
		return 2, nil

	// DXYN DRW Vx, Vy, n
	case 0xD:
		state.draw(x, y, n)
		return 2, nil

	case 0xE:
		switch kk {
		// EX9E SKP Vx
		case 0x9E:
			if state.Keys[state.V[x]&0xF] {
				return 4, nil
			}
			return 2, nil

		// EXA1 SKNP Vx
		case 0xA1:
			if !state.Keys[state.V[x]&0xF] {
				return 4, nil
			}
			return 2, nil
		}

	case 0xF:
		switch kk {
		// FX07 LD Vx, DT
		case 0x07:
			state.V[x] = state.DT
			return 2, nil

		// FX0A LD Vx, K
		case 0x0A:
			state.VK = x
			state.WaitingForKey = true
			return 2, nil

		// FX15 LD DT, Vx
		case 0x15:
			state.DT = state.V[x]
			return 2, nil

		// FX18 LD ST, Vx
		case 0x18:
			state.ST = state.V[x]
			return 2, nil

		// FX1E ADD I, Vx
		case 0x1E:
			state.I = (state.I + uint16(state.V[x])) & (MEMSIZE - 1)
			return 2, nil

		// FX29 LD F, Vx
		case 0x29:
			state.I = FONT_START + uint16(state.V[x]&0xF)*5
			return 2, nil

		// FX30 LD HF, Vx
		case 0x30:
			state.I = HIGH_FONT_START + uint16(state.V[x]&0xF)*10
			return 2, nil

		// FX33 LD B, Vx
		case 0x33:
			value := state.V[x]
			state.Memory[state.I&(MEMSIZE-1)] = value / 100
			state.Memory[(state.I+1)&(MEMSIZE-1)] = (value / 10) % 10
			state.Memory[(state.I+2)&(MEMSIZE-1)] = value % 10
			return 2, nil

		// FX55 LD [I], Vx
		case 0x55:
			for i := uint16(0); i <= uint16(x); i++ {
				state.Memory[(state.I+i)&(MEMSIZE-1)] = state.V[i]
			}

			if state.Quirks&QUIRK_LOADSTORE != 0 {
				state.I = (state.I + uint16(x) + 1) & (MEMSIZE - 1)
			}
			return 2, nil

		// FX65 LD Vx, [I]
		case 0x65:
			for i := uint16(0); i <= uint16(x); i++ {
				state.V[i] = state.Memory[(state.I+i)&(MEMSIZE-1)]
			}

			if state.Quirks&QUIRK_LOADSTORE != 0 {
				state.I = (state.I + uint16(x) + 1) & (MEMSIZE - 1)
			}
			return 2, nil

		// FX75 LD R, Vx
		case 0x75:
			if int(x) >= len(state.R) {
				break
			}

			copy(state.R[:x+1], state.V[:x+1])
			return 2, nil

		// FX85 LD Vx, R
		case 0x85:
			if int(x) >= len(state.R) {
				break
			}

			copy(state.V[:x+1], state.R[:x+1])
			return 2, nil
		}
	}

	return 0, invalidInstruction(state.PC, instruction)
}

// Step executes exactly one instruction. A machine that has exited, or is
// waiting for a key that has not been pressed, makes no progress.
func (mc *Machine) Step() error {
	state := &mc.State

	if state.Halted {
		return nil
	}

	if state.WaitingForKey {
		pressed := -1

		for key, down := range state.Keys {
			if down {
				pressed = key
				break
			}
		}

		if pressed < 0 {
			return nil
		}

		state.V[state.VK] = uint8(pressed)
		state.WaitingForKey = false
	}

	instruction := state.Fetch(state.PC)

	advance, err := mc.execute(instruction)

	if err != nil {
		return err
	}

	state.PC = (state.PC + advance) & (MEMSIZE - 1)

	if state.DT > 0 {
		state.DT--
	}

	if state.ST > 0 {
		state.ST--
	}

	return nil
}

// Run executes instructions until the program exits, ctx is cancelled, a
// fault is raised or the debugger asks to break. The debugger is consulted
// exactly once per instruction, before it is fetched.
func (mc *Machine) Run(ctx context.Context) error {
	for !mc.State.Halted {
		if err := ctx.Err(); err != nil {
			return err
		}

		if mc.Debugger != nil && mc.Debugger.Break(mc) {
			return nil
		}

		if err := mc.Step(); err != nil {
			return err
		}
	}

	return nil
}
