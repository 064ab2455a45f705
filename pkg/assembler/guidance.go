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

func (s *Session) handleGuidance(name string, rest string, label string) {
	switch parseGuidance(name) {
	case GUIDANCE_DATA:
		s.createData(rest, label)
	case GUIDANCE_STRING:
		s.createString(rest, label)
	case GUIDANCE_DEFINE:
		s.createDefinition(rest, label)
	case GUIDANCE_EXTERN:
		s.createExtern(rest, label)
	case GUIDANCE_ENTRY:
		s.createEntry(rest, label)
	default:
		s.errs = append(s.errs, &UnknownOperatorError{s.position, "." + name})
	}
}

// Adds a symbol, reporting a redeclaration if the label is taken
func (s *Session) define(label string, value int, kind SymbolKind) bool {
	if err := s.symbols.Insert(label, value, kind); err != nil {
		s.errs = append(s.errs, &RedeclaredLabelError{s.position, label})
		return false
	}

	return true
}

func (s *Session) appendData(label string, values []int) {
	for i, value := range values {
		if i == 0 {
			s.data.Append(label, value)
		} else {
			s.data.Append("", value)
		}

		s.dc++
	}

	if s.dc > MEMORY_SIZE {
		s.errs = append(
			s.errs, &OversizedDataError{s.position, MEMORY_SIZE, s.dc},
		)
	}
}

// .data 1, -2, MACRO
func (s *Session) createData(rest string, label string) {
	args, err := splitArguments(rest)

	if err != nil {
		s.errs = append(s.errs, &InvalidSyntaxError{s.position, err.Error()})
		return
	}

	if len(args) == 0 {
		s.errs = append(s.errs, &InvalidNumArgumentsError{s.position, 1, 0})
		return
	}

	if label != "" {
		s.define(label, s.dc, SYMBOL_GUIDANCE)
	}

	values := make([]int, 0, len(args))
	valid := true

	for _, arg := range args {
		if encoding.IsNumeric(arg) {
			value, err := encoding.DecodeInt(arg)

			if err != nil {
				s.errs = append(
					s.errs,
					&InvalidArgumentError{s.position, arg, "Number out of range"},
				)

				valid = false
				continue
			}

			values = append(values, value)
			continue
		}

		symbol, exists := s.symbols.Lookup(arg)

		if !exists {
			s.errs = append(s.errs, &UnknownOperatorError{s.position, arg})
			valid = false
		} else if symbol.Kind != SYMBOL_MACRO {
			s.errs = append(
				s.errs,
				&InvalidArgumentError{s.position, arg, "Symbol is not a macro"},
			)

			valid = false
		} else {
			values = append(values, symbol.Value)
		}
	}

	if valid {
		s.appendData(label, values)
	}
}

// .string "text"
func (s *Session) createString(rest string, label string) {
	text := strings.TrimSpace(rest)

	if len(text) == 0 {
		s.errs = append(s.errs, &InvalidNumArgumentsError{s.position, 1, 0})
		return
	}

	if text[0] != '"' {
		s.errs = append(
			s.errs,
			&InvalidSyntaxError{s.position, "A string must start with '\"'"},
		)

		return
	}

	if len(text) < 2 || text[len(text)-1] != '"' {
		s.errs = append(
			s.errs,
			&InvalidSyntaxError{s.position, "A string must end with '\"'"},
		)

		return
	}

	if label != "" {
		s.define(label, s.dc, SYMBOL_GUIDANCE)
	}

	content := text[1 : len(text)-1]
	values := make([]int, 0, len(content)+1)

	for _, char := range content {
		values = append(values, int(char))
	}

	s.appendData(label, append(values, 0))
}

// .define NAME = VALUE
func (s *Session) createDefinition(rest string, label string) {
	if label != "" {
		s.errs = append(
			s.errs,
			&InvalidSyntaxError{
				s.position, "Cannot add a label to a macro definition",
			},
		)
	}

	if len(strings.TrimSpace(rest)) == 0 {
		s.errs = append(s.errs, &InvalidNumArgumentsError{s.position, 1, 0})
		return
	}

	equals := strings.IndexByte(rest, '=')

	if equals < 0 {
		s.errs = append(
			s.errs,
			&InvalidSyntaxError{
				s.position, "Macro name needs to be followed by a '='",
			},
		)

		return
	}

	name := strings.TrimSpace(rest[:equals])
	value := strings.TrimSpace(rest[equals+1:])

	if len(strings.Fields(name)) > 1 {
		s.errs = append(
			s.errs,
			&InvalidSyntaxError{
				s.position, "Macro name needs to be followed by a '='",
			},
		)

		return
	}

	if len(value) == 0 {
		s.errs = append(
			s.errs,
			&InvalidSyntaxError{s.position, "Macro value is missing"},
		)

		return
	}

	if len(strings.Fields(value)) > 1 {
		s.errs = append(
			s.errs,
			&InvalidSyntaxError{
				s.position, "Macro value cannot be followed by another value",
			},
		)

		return
	}

	number, err := encoding.DecodeInt(value)

	if err != nil || strings.HasPrefix(value, "#") {
		s.errs = append(
			s.errs,
			&InvalidArgumentError{
				s.position, value, "Macro value must be a whole number",
			},
		)

		return
	}

	if s.validateName(name) {
		s.define(name, number, SYMBOL_MACRO)
	}
}

// .extern NAME
func (s *Session) createExtern(rest string, label string) {
	if label != "" {
		s.warn("A label in an extern guidance is meaningless")
	}

	fields := strings.Fields(rest)

	if len(fields) != 1 {
		s.errs = append(
			s.errs, &InvalidNumArgumentsError{s.position, 1, len(fields)},
		)

		return
	}

	if s.validateName(fields[0]) {
		s.define(fields[0], 0, SYMBOL_EXTERNAL)
	}
}

// .entry NAME, resolved on the second pass
func (s *Session) createEntry(rest string, label string) {
	if label != "" {
		s.warn("A label in an entry guidance is meaningless")
	}

	if fields := strings.Fields(rest); len(fields) != 1 {
		s.errs = append(
			s.errs, &InvalidNumArgumentsError{s.position, 1, len(fields)},
		)
	}
}

func (s *Session) updateEntry(name string) {
	switch s.symbols.PromoteToEntry(name) {
	case ErrSymbolNotFound:
		s.warn("Label '%s' does not exist", name)
	case ErrAlreadyEntry:
		s.warn("Entry for label '%s' has already been declared", name)
	case ErrInvalidEntryKind:
		s.warn("Entry label '%s' must be a command or guidance label", name)
	}
}
