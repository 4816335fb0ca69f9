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
	"strings"

	"github.com/lassandro/goc8/pkg/fault"
)

// ParseQuirks reads a set of quirk letters ("bdjls"). "none" clears all
// quirks.
func ParseQuirks(s string) (Quirk, error) {
	if strings.EqualFold(s, "none") {
		return 0, nil
	}

	var result Quirk

	s = strings.ToLower(s)

	for i := 0; i < len(s); i++ {
		found := false

		for _, entry := range quirkLetters {
			if entry.Letter == s[i] {
				result |= entry.Quirk
				found = true
				break
			}
		}

		if !found {
			return 0, fault.New(fault.INVALID_QUIRK, "%c", s[i])
		}
	}

	return result, nil
}

func (q Quirk) String() string {
	var builder strings.Builder

	for _, entry := range quirkLetters {
		if q&entry.Quirk != 0 {
			builder.WriteByte(entry.Letter)
		}
	}

	if builder.Len() == 0 {
		return "None"
	}

	return builder.String()
}
