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

package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Width of a machine word in bits
const WordBits = 14

// Mask selecting the bits of a machine word
const WordMask = (1 << WordBits) - 1

// Symbols used to render each 2-bit chunk of a word, indexed by chunk value
const alphabet = "*#%!"

// Decodes a base-10 string in the formats: #123, 123, -123, +123
func DecodeInt(s string) (int, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	if !IsNumeric(s) {
		return 0, errors.New("Invalid decimal string")
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, err
	}

	return int(result), nil
}

// Reports whether s is a non-empty run of decimal digits
func IsDigits(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// Reports whether s is a decimal number with an optional leading sign
func IsNumeric(s string) bool {
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		s = s[1:]
	}

	return IsDigits(s)
}

// Truncates a value to a machine word, negative values become two's
// complement
func Truncate(value int) uint16 {
	return uint16(value & WordMask)
}

// Renders a word as 7 symbols, two bits per symbol, most significant first
func EncodeWord(word uint16) string {
	var builder strings.Builder
	builder.Grow(WordBits / 2)

	for shift := WordBits - 2; shift >= 0; shift -= 2 {
		builder.WriteByte(alphabet[(word>>uint(shift))&0x3])
	}

	return builder.String()
}

// Formats a memory address the way the output files expect it
func FormatAddress(addr int) string {
	return fmt.Sprintf("%04d", addr)
}
