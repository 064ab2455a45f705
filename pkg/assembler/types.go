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
	"fmt"
	"strings"
)

type SymbolKind uint
type AddressingMode uint
type ARE uint
type OperandType uint
type GuidanceType uint
type ErrorKind uint
type Pass uint

func (kind SymbolKind) String() string {
	switch kind {
	case SYMBOL_GUIDANCE:
		return "Guidance"
	case SYMBOL_COMMAND:
		return "Command"
	case SYMBOL_MACRO:
		return "Macro"
	case SYMBOL_EXTERNAL:
		return "External"
	case SYMBOL_ENTRY:
		return "Entry"
	}

	return "<invalid>"
}

func (mode AddressingMode) String() string {
	switch mode {
	case MODE_IMMEDIATE:
		return "Immediate"
	case MODE_DIRECT:
		return "Direct"
	case MODE_INDEX:
		return "Index"
	case MODE_REGISTER:
		return "Register"
	}

	return "<invalid>"
}

func (kind ErrorKind) String() string {
	switch kind {
	case ERROR_INVALID_SYNTAX:
		return "InvalidSyntax"
	case ERROR_UNKNOWN_OPERATOR:
		return "UnknownOperator"
	case ERROR_ARGUMENT_COUNT:
		return "ArgumentCountMismatch"
	case ERROR_ADDRESSING_MODE:
		return "InvalidAddressingMode"
	case ERROR_INVALID_ARGUMENT:
		return "InvalidArgument"
	case ERROR_CAPACITY:
		return "CapacityExceeded"
	}

	return "<invalid>"
}

// Position identifies a source line within a unit
type Position struct {
	Unit string
	Line int
	Text string
}

func (pos Position) String() string {
	return fmt.Sprintf("%s:%d", pos.Unit, pos.Line)
}

// Debugging information written beside an object file
type SymTable struct {
	Source string
	Lines  map[uint16]int
	Labels map[uint16]string
}

type ExternalRef struct {
	Label   string
	Address int
}

type Word struct {
	Address int
	Value   uint16
}

type Warning struct {
	Position Position
	Message  string
}

func (warn Warning) String() string {
	return fmt.Sprintf("%s: %s", warn.Position, warn.Message)
}

var (
	ErrDuplicateLabel   = errors.New("label already defined")
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrInvalidEntryKind = errors.New("symbol cannot be an entry")
	ErrAlreadyEntry     = errors.New("symbol is already an entry")
)

type LineError interface {
	error
	GetPosition() Position
	Kind() ErrorKind
}

type InvalidSyntaxError struct {
	Position Position
	Reason   string
}

func (err *InvalidSyntaxError) GetPosition() Position {
	return err.Position
}

func (err *InvalidSyntaxError) Kind() ErrorKind {
	return ERROR_INVALID_SYNTAX
}

func (err *InvalidSyntaxError) Error() string {
	return fmt.Sprintf("%s: Invalid syntax\n\t%s", err.Position, err.Reason)
}

type RedeclaredLabelError struct {
	Position Position
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Position {
	return err.Position
}

func (err *RedeclaredLabelError) Kind() ErrorKind {
	return ERROR_INVALID_SYNTAX
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"%s: Redeclaration of label '%s'", err.Position, err.Received,
	)
}

type UnknownOperatorError struct {
	Position Position
	Received string
}

func (err *UnknownOperatorError) GetPosition() Position {
	return err.Position
}

func (err *UnknownOperatorError) Kind() ErrorKind {
	return ERROR_UNKNOWN_OPERATOR
}

func (err *UnknownOperatorError) Error() string {
	return fmt.Sprintf(
		"%s: Unknown operator '%s'", err.Position, err.Received,
	)
}

type InvalidNumArgumentsError struct {
	Position Position
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() Position {
	return err.Position
}

func (err *InvalidNumArgumentsError) Kind() ErrorKind {
	return ERROR_ARGUMENT_COUNT
}

func (err *InvalidNumArgumentsError) Error() string {
	return fmt.Sprintf(
		"%s: Invalid number of arguments\n\twant:%d\n\thave:%d",
		err.Position,
		err.Required,
		err.Received,
	)
}

type InvalidAddressingModeError struct {
	Position Position
	Operand  string
	Required []AddressingMode
	Received AddressingMode
}

func (err *InvalidAddressingModeError) GetPosition() Position {
	return err.Position
}

func (err *InvalidAddressingModeError) Kind() ErrorKind {
	return ERROR_ADDRESSING_MODE
}

func (err *InvalidAddressingModeError) Error() string {
	var requiredString string

	requiredStrings := make([]string, 0, len(err.Required))

	for _, mode := range err.Required {
		requiredStrings = append(requiredStrings, mode.String())
	}

	if count := len(requiredStrings); count == 0 {
		requiredString = "<none>"
	} else if count == 1 {
		requiredString = requiredStrings[0]
	} else if count == 2 {
		requiredString = requiredStrings[0] + " or " + requiredStrings[1]
	} else {
		requiredString = strings.Join(
			requiredStrings[:len(requiredStrings)-1], ", ",
		) + ", or " + requiredStrings[len(requiredStrings)-1]
	}

	return fmt.Sprintf(
		"%s: Invalid addressing mode for '%s'\n\twant:%s\n\thave:%s",
		err.Position,
		err.Operand,
		requiredString,
		err.Received,
	)
}

type InvalidRegisterError struct {
	Position Position
	Received string
}

func (err *InvalidRegisterError) GetPosition() Position {
	return err.Position
}

func (err *InvalidRegisterError) Kind() ErrorKind {
	return ERROR_INVALID_ARGUMENT
}

func (err *InvalidRegisterError) Error() string {
	return fmt.Sprintf(
		"%s: Invalid register identifier '%s'\n\twant:r0-r%d",
		err.Position,
		err.Received,
		REGISTER_COUNT-1,
	)
}

type UnknownLabelError struct {
	Position Position
	Received string
}

func (err *UnknownLabelError) GetPosition() Position {
	return err.Position
}

func (err *UnknownLabelError) Kind() ErrorKind {
	return ERROR_INVALID_ARGUMENT
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf(
		"%s: Unknown label '%s'", err.Position, err.Received,
	)
}

type InvalidArgumentError struct {
	Position Position
	Received string
	Reason   string
}

func (err *InvalidArgumentError) GetPosition() Position {
	return err.Position
}

func (err *InvalidArgumentError) Kind() ErrorKind {
	return ERROR_INVALID_ARGUMENT
}

func (err *InvalidArgumentError) Error() string {
	return fmt.Sprintf(
		"%s: Invalid argument '%s'\n\t%s",
		err.Position,
		err.Received,
		err.Reason,
	)
}

type OversizedDataError struct {
	Position Position
	Required int
	Received int
}

func (err *OversizedDataError) GetPosition() Position {
	return err.Position
}

func (err *OversizedDataError) Kind() ErrorKind {
	return ERROR_CAPACITY
}

func (err *OversizedDataError) Error() string {
	return fmt.Sprintf(
		"%s: Data exceeds available memory\n\twant:%d\n\thave:%d",
		err.Position,
		err.Required,
		err.Received,
	)
}
