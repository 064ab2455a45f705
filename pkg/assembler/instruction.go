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
	"strconv"

	"github.com/lassandro/goasm14/pkg/encoding"
)

// Sizes and validates an instruction line
func (s *Session) handleFirstInstruction(mnemonic string, rest string, label string) {
	ins, exists := LookupInstruction(mnemonic)

	if !exists {
		s.errs = append(s.errs, &UnknownOperatorError{s.position, mnemonic})
		return
	}

	if label != "" {
		s.define(label, s.ic, SYMBOL_COMMAND)
	}

	s.ic++

	args, err := splitArguments(rest)

	if err != nil {
		s.errs = append(s.errs, &InvalidSyntaxError{s.position, err.Error()})
		return
	}

	if count := len(args); count != ins.Operands {
		s.errs = append(
			s.errs, &InvalidNumArgumentsError{s.position, ins.Operands, count},
		)

		return
	}

	registers := 0

	for i, arg := range args {
		typ := classifyOperand(arg)

		s.validateOperand(ins, i, arg, typ)

		if typ == OPERAND_REGISTER {
			registers++
		}

		s.ic += typ.Size()
	}

	// Two registers share a single word
	if registers == 2 {
		s.ic--
	}
}

func (s *Session) validateOperand(ins *Instruction, index int, arg string, typ OperandType) {
	allowed := ins.Allowed(index)

	if !allowed.Has(typ.Mode()) {
		s.errs = append(
			s.errs,
			&InvalidAddressingModeError{
				s.position, arg, allowed.List(), typ.Mode(),
			},
		)

		return
	}

	switch typ {
	case OPERAND_IMMEDIATE:
		s.validateNumber(arg)

	case OPERAND_MACRO:
		s.validateMacro(arg[1:])

	case OPERAND_REGISTER:
		if reg, err := strconv.Atoi(arg[1:]); err != nil || reg >= REGISTER_COUNT {
			s.errs = append(s.errs, &InvalidRegisterError{s.position, arg})
		}

	case OPERAND_ARRAY:
		label, index, ok := splitArray(arg)

		if !ok {
			s.errs = append(
				s.errs,
				&InvalidSyntaxError{s.position, "No opening brace found for " + arg},
			)
		} else if len(label) == 0 {
			s.errs = append(
				s.errs,
				&InvalidSyntaxError{s.position, "No label name found for " + arg},
			)
		} else if len(index) == 0 {
			s.errs = append(
				s.errs,
				&InvalidSyntaxError{s.position, "No index found for " + arg},
			)
		} else if encoding.IsDigits(index) {
			s.validateNumber(index)
		} else {
			s.validateMacro(index)
		}
	}
}

func (s *Session) validateNumber(arg string) bool {
	if _, err := encoding.DecodeInt(arg); err != nil {
		s.errs = append(
			s.errs,
			&InvalidArgumentError{s.position, arg, "Number out of range"},
		)

		return false
	}

	return true
}

func (s *Session) validateMacro(name string) bool {
	symbol, exists := s.symbols.Lookup(name)

	if !exists {
		s.errs = append(
			s.errs,
			&InvalidArgumentError{s.position, name, "Macro has not been declared"},
		)

		return false
	}

	if symbol.Kind != SYMBOL_MACRO {
		s.errs = append(
			s.errs,
			&InvalidArgumentError{s.position, name, "Symbol is not a macro"},
		)

		return false
	}

	return true
}

// Operand mode position in the first word
func modeShift(ins *Instruction, index int) uint {
	if ins.Operands == 2 && index == 0 {
		return FIRST_MODE_SHIFT
	}

	return LAST_MODE_SHIFT
}

// Register position in an operand word
func registerShift(index int) uint {
	if index == 0 {
		return FIRST_REG_SHIFT
	}

	return SECOND_REG_SHIFT
}

// Encodes an instruction line
//
// WORD |opcode |left |right|ARE|
// ---- [_ _ _ _|_ _  |_ _  |_ _]
// IMM  |value                |ARE|
// REG  |       |left |right|ARE|   left is 3 bits from bit 5, right from bit 2
// ---- [_ _ _ _ _ _ _ _ _ _ _ _ _ _]
func (s *Session) handleSecondInstruction(mnemonic string, rest string) {
	ins, exists := LookupInstruction(mnemonic)

	if !exists {
		s.errs = append(s.errs, &UnknownOperatorError{s.position, mnemonic})
		return
	}

	args, err := splitArguments(rest)

	if err != nil {
		s.errs = append(s.errs, &InvalidSyntaxError{s.position, err.Error()})
		return
	}

	var words [MAX_WORDS]uint16
	var count = 1
	var pairedRegister = false

	words[0] = ins.Opcode << OPCODE_SHIFT

	for i, arg := range args {
		if i >= ins.Operands {
			break
		}

		typ := classifyOperand(arg)

		words[0] |= uint16(typ.Mode()) << modeShift(ins, i)

		switch typ {
		case OPERAND_IMMEDIATE:
			value, _ := encoding.DecodeInt(arg)
			words[count] = encodeValue(value)
			count++

		case OPERAND_MACRO:
			words[count] = s.encodeMacro(arg[1:])
			count++

		case OPERAND_REGISTER:
			reg, _ := strconv.Atoi(arg[1:])
			bits := encoding.Truncate(reg<<registerShift(i)) | uint16(ARE_ABSOLUTE)

			if pairedRegister {
				words[count-1] |= bits
			} else {
				words[count] = bits
				count++
				pairedRegister = i == 0
			}

		case OPERAND_LABEL:
			words[count] = s.encodeLabel(arg, s.ic+count)
			count++

		case OPERAND_ARRAY:
			label, index, _ := splitArray(arg)

			words[count] = s.encodeLabel(label, s.ic+count)
			count++

			if encoding.IsDigits(index) {
				value, _ := encoding.DecodeInt(index)
				words[count] = encodeValue(value)
			} else {
				words[count] = s.encodeMacro(index)
			}

			count++
		}
	}

	if s.symtable != nil {
		s.symtable.Lines[uint16(s.ic)] = s.position.Line
	}

	s.code = append(s.code, words[:count]...)
	s.ic += count
}

func encodeValue(value int) uint16 {
	return encoding.Truncate(value<<VALUE_SHIFT) | uint16(ARE_ABSOLUTE)
}

func (s *Session) encodeMacro(name string) uint16 {
	if !s.validateMacro(name) {
		return 0
	}

	symbol, _ := s.symbols.Lookup(name)
	return encodeValue(symbol.Value)
}

// Resolves a label operand stored at addr
func (s *Session) encodeLabel(label string, addr int) uint16 {
	symbol, exists := s.symbols.Lookup(label)

	if !exists {
		s.errs = append(s.errs, &UnknownLabelError{s.position, label})
		return 0
	}

	switch symbol.Kind {
	case SYMBOL_EXTERNAL:
		s.externals = append(s.externals, ExternalRef{label, addr})
		return uint16(ARE_EXTERNAL)

	case SYMBOL_MACRO:
		s.errs = append(
			s.errs,
			&InvalidArgumentError{
				s.position, label, "A macro cannot be used as an address",
			},
		)

		return 0
	}

	return encoding.Truncate(symbol.Value<<VALUE_SHIFT) | uint16(ARE_RELOCATABLE)
}
