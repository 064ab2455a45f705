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

package assembler

import (
	"strings"

	"github.com/lassandro/goasm14/pkg/encoding"
)

type ModeSet uint8

func modes(list ...AddressingMode) ModeSet {
	var set ModeSet

	for _, mode := range list {
		set |= 1 << mode
	}

	return set
}

func (set ModeSet) Has(mode AddressingMode) bool {
	return set&(1<<mode) != 0
}

func (set ModeSet) List() []AddressingMode {
	var result []AddressingMode

	for mode := MODE_IMMEDIATE; mode <= MODE_REGISTER; mode++ {
		if set.Has(mode) {
			result = append(result, mode)
		}
	}

	return result
}

type Instruction struct {
	Mnemonic string
	Opcode   uint16
	Operands int
	Source   ModeSet
	Dest     ModeSet
}

// Allowed returns the legal modes for the operand at index. A lone operand
// is always checked against the source modes.
func (ins *Instruction) Allowed(index int) ModeSet {
	if ins.Operands == 2 && index == 1 {
		return ins.Dest
	}

	return ins.Source
}

var (
	anyMode     = modes(MODE_IMMEDIATE, MODE_DIRECT, MODE_INDEX, MODE_REGISTER)
	writeMode   = modes(MODE_DIRECT, MODE_INDEX, MODE_REGISTER)
	addressMode = modes(MODE_DIRECT, MODE_INDEX)
	jumpMode    = modes(MODE_DIRECT, MODE_REGISTER)
)

var instructions = [...]Instruction{
	{"mov", 0, 2, anyMode, writeMode},
	{"cmp", 1, 2, anyMode, anyMode},
	{"add", 2, 2, anyMode, writeMode},
	{"sub", 3, 2, anyMode, writeMode},
	{"not", 4, 1, writeMode, 0},
	{"clr", 5, 1, writeMode, 0},
	{"lea", 6, 2, addressMode, writeMode},
	{"inc", 7, 1, writeMode, 0},
	{"dec", 8, 1, writeMode, 0},
	{"jmp", 9, 1, jumpMode, 0},
	{"bne", 10, 1, jumpMode, 0},
	{"red", 11, 1, writeMode, 0},
	{"prn", 12, 1, anyMode, 0},
	{"jsr", 13, 1, jumpMode, 0},
	{"rts", 14, 0, 0, 0},
	{"stop", 15, 0, 0, 0},
}

var instructionIndex = func() map[string]*Instruction {
	index := make(map[string]*Instruction, len(instructions))

	for i := range instructions {
		index[instructions[i].Mnemonic] = &instructions[i]
	}

	return index
}()

func LookupInstruction(mnemonic string) (*Instruction, bool) {
	ins, exists := instructionIndex[mnemonic]
	return ins, exists
}

func parseGuidance(name string) GuidanceType {
	switch name {
	case "data":
		return GUIDANCE_DATA
	case "string":
		return GUIDANCE_STRING
	case "define":
		return GUIDANCE_DEFINE
	case "extern":
		return GUIDANCE_EXTERN
	case "entry":
		return GUIDANCE_ENTRY
	}

	return GUIDANCE_INVALID
}

func isRegisterName(name string) bool {
	return strings.HasPrefix(name, "r") && encoding.IsDigits(name[1:])
}

// Mnemonics, guidance names and register names cannot be labels
func isReserved(name string) bool {
	if _, exists := LookupInstruction(name); exists {
		return true
	}

	return parseGuidance(name) != GUIDANCE_INVALID || isRegisterName(name)
}
