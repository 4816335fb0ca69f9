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
	"sort"
)

// Breakpoints is a set of program addresses. Adding an address twice or
// removing one that is absent leaves the set unchanged.
type Breakpoints struct {
	addrs map[uint16]struct{}
}

func NewBreakpoints() *Breakpoints {
	return &Breakpoints{addrs: make(map[uint16]struct{})}
}

func (bp *Breakpoints) Add(addr uint16) {
	bp.addrs[addr] = struct{}{}
}

func (bp *Breakpoints) Remove(addr uint16) {
	delete(bp.addrs, addr)
}

func (bp *Breakpoints) Contains(addr uint16) bool {
	_, exists := bp.addrs[addr]
	return exists
}

func (bp *Breakpoints) Len() int {
	return len(bp.addrs)
}

func (bp *Breakpoints) Clear() {
	bp.addrs = make(map[uint16]struct{})
}

// List returns the addresses in ascending order
func (bp *Breakpoints) List() []uint16 {
	keys := make([]uint16, 0, len(bp.addrs))

	for addr := range bp.addrs {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
