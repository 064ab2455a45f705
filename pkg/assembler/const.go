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

const (
	// First address of the code segment
	MEMORY_BASE = 100

	// Words available to the data segment
	MEMORY_SIZE = 4096

	// Longest accepted source line, not counting the line terminator
	LINE_MAX = 80

	// Longest accepted label
	LABEL_MAX = 31

	// Registers r0 through r7
	REGISTER_COUNT = 8

	// Most words a single instruction line can produce
	MAX_WORDS = 5
)

// Bit positions inside an encoded word
const (
	OPCODE_SHIFT     = 6
	FIRST_MODE_SHIFT = 4 // left operand of a two operand instruction
	LAST_MODE_SHIFT  = 2 // right operand, or the only operand
	VALUE_SHIFT      = 2
	FIRST_REG_SHIFT  = 5
	SECOND_REG_SHIFT = 2
)

const (
	SYMBOL_GUIDANCE SymbolKind = iota
	SYMBOL_COMMAND
	SYMBOL_MACRO
	SYMBOL_EXTERNAL
	SYMBOL_ENTRY
)

const (
	MODE_IMMEDIATE AddressingMode = iota
	MODE_DIRECT
	MODE_INDEX
	MODE_REGISTER
)

const (
	ARE_ABSOLUTE ARE = iota
	ARE_EXTERNAL
	ARE_RELOCATABLE
)

const (
	OPERAND_IMMEDIATE OperandType = iota
	OPERAND_MACRO
	OPERAND_REGISTER
	OPERAND_ARRAY
	OPERAND_LABEL
)

const (
	GUIDANCE_INVALID GuidanceType = iota
	GUIDANCE_DATA
	GUIDANCE_STRING
	GUIDANCE_DEFINE
	GUIDANCE_EXTERN
	GUIDANCE_ENTRY
)

const (
	ERROR_INVALID_SYNTAX ErrorKind = iota
	ERROR_UNKNOWN_OPERATOR
	ERROR_ARGUMENT_COUNT
	ERROR_ADDRESSING_MODE
	ERROR_INVALID_ARGUMENT
	ERROR_CAPACITY
)

const (
	PASS_FIRST Pass = iota + 1
	PASS_SECOND
)
