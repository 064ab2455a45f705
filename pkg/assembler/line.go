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
	"errors"
	"strings"
	"unicode"

	"github.com/lassandro/goasm14/pkg/encoding"
)

// Splits off the first whitespace delimited word of line
func splitWord(line string) (word string, rest string) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)

	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		return line[:i], line[i:]
	}

	return line, ""
}

// Splits an operand list on commas. Blank space may surround arguments but
// never separate them.
func splitArguments(line string) ([]string, error) {
	var args []string
	var builder strings.Builder

	started := false
	ended := false

	for _, char := range line {
		switch {
		case unicode.IsSpace(char):
			if started {
				ended = true
			}

		case char == ',':
			if !started {
				return nil, errors.New("A comma must follow an argument")
			}

			args = append(args, builder.String())
			builder.Reset()
			started = false
			ended = false

		default:
			if ended {
				return nil, errors.New("Arguments must be separated by commas")
			}

			started = true
			builder.WriteRune(char)
		}
	}

	if started {
		args = append(args, builder.String())
	} else if len(args) > 0 {
		return nil, errors.New("Line cannot end with a comma")
	}

	return args, nil
}

func classifyOperand(arg string) OperandType {
	if strings.HasPrefix(arg, "#") {
		if encoding.IsNumeric(arg[1:]) {
			return OPERAND_IMMEDIATE
		}

		return OPERAND_MACRO
	}

	if isRegisterName(arg) {
		return OPERAND_REGISTER
	}

	if strings.HasSuffix(arg, "]") {
		return OPERAND_ARRAY
	}

	return OPERAND_LABEL
}

func (typ OperandType) Mode() AddressingMode {
	switch typ {
	case OPERAND_LABEL:
		return MODE_DIRECT
	case OPERAND_ARRAY:
		return MODE_INDEX
	case OPERAND_REGISTER:
		return MODE_REGISTER
	}

	return MODE_IMMEDIATE
}

// Words the operand occupies on its own
func (typ OperandType) Size() int {
	if typ == OPERAND_ARRAY {
		return 2
	}

	return 1
}

// Splits LABEL[INDEX] into its parts; ok is false without an opening brace
func splitArray(arg string) (label string, index string, ok bool) {
	open := strings.IndexByte(arg, '[')

	if open < 0 || !strings.HasSuffix(arg, "]") {
		return "", "", false
	}

	return arg[:open], arg[open+1 : len(arg)-1], true
}

// Checks the naming rules shared by labels, macros and externals
func (s *Session) validateName(name string) bool {
	var reason string

	switch {
	case len(name) == 0:
		reason = "Label cannot be empty"
	case len(name) > LABEL_MAX:
		reason = "Label characters count must not exceed 31"
	case strings.IndexFunc(name, isNotAlphaNumeric) >= 0:
		reason = "Label must include only alphabetic characters and numbers"
	case !isASCIILetter(rune(name[0])):
		reason = "Label must start with an alphabetic character"
	case isReserved(name):
		reason = "Label '" + name + "' is a reserved keyword"
	default:
		return true
	}

	s.errs = append(s.errs, &InvalidSyntaxError{s.position, reason})
	return false
}

func isASCIILetter(char rune) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}

func isNotAlphaNumeric(char rune) bool {
	return !isASCIILetter(char) && !(char >= '0' && char <= '9')
}

// First pass handling of a single line:
// - Validate and strip the label
// - Dispatch guidance and instruction lines
func (s *Session) scanFirst(line string) {
	word, rest := splitWord(line)

	if len(word) == 0 || word[0] == ';' {
		return
	}

	var label string

	if strings.HasSuffix(word, ":") {
		label = word[:len(word)-1]

		if !s.validateName(label) {
			label = ""
		}

		if word, rest = splitWord(rest); len(word) == 0 || word[0] == ';' {
			s.errs = append(
				s.errs,
				&InvalidSyntaxError{
					s.position, "Label cannot be followed by an empty line",
				},
			)

			return
		}
	}

	if word[0] == '.' {
		s.handleGuidance(word[1:], rest, label)
	} else {
		s.handleFirstInstruction(word, rest, label)
	}
}

// Second pass handling of a single line:
// - Promote entries
// - Encode instructions
func (s *Session) scanSecond(line string) {
	word, rest := splitWord(line)

	if len(word) == 0 || word[0] == ';' {
		return
	}

	if strings.HasSuffix(word, ":") {
		if word, rest = splitWord(rest); len(word) == 0 {
			return
		}
	}

	if word[0] == '.' {
		if parseGuidance(word[1:]) == GUIDANCE_ENTRY {
			name, _ := splitWord(rest)
			s.updateEntry(name)
		}

		return
	}

	s.handleSecondInstruction(word, rest)
}
