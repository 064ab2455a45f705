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
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"

	"github.com/lassandro/goasm14/pkg/encoding"
)

// An assembled source unit
type Program struct {
	Unit      string
	Code      []uint16
	Data      []uint16
	Externals []ExternalRef
	Entries   []Symbol
}

// Words lists code followed by data, each with its memory address
func (p *Program) Words() []Word {
	words := make([]Word, 0, len(p.Code)+len(p.Data))
	addr := MEMORY_BASE

	for _, value := range p.Code {
		words = append(words, Word{addr, value})
		addr++
	}

	for _, value := range p.Data {
		words = append(words, Word{addr, value})
		addr++
	}

	return words
}

// Session holds the state of one source unit across both passes. A new
// session must be created for every unit.
type Session struct {
	unit     string
	symbols  *SymbolTable
	data     *DataTable
	symtable *SymTable

	ic       int
	dc       int
	pass     Pass
	position Position

	errs      []error
	warnings  []Warning
	code      []uint16
	externals []ExternalRef
}

// NewSession starts a unit. symtable is optional and receives debugging
// information during the second pass.
func NewSession(unit string, symtable *SymTable) *Session {
	if symtable != nil {
		if symtable.Lines == nil {
			symtable.Lines = make(map[uint16]int)
		}

		if symtable.Labels == nil {
			symtable.Labels = make(map[uint16]string)
		}
	}

	return &Session{
		unit:     unit,
		symbols:  NewSymbolTable(),
		data:     NewDataTable(),
		symtable: symtable,
		ic:       MEMORY_BASE,
	}
}

func (s *Session) Symbols() *SymbolTable {
	return s.symbols
}

func (s *Session) Data() *DataTable {
	return s.data
}

func (s *Session) Warnings() []Warning {
	return s.warnings
}

// Pass reports the pass that was running when assembly stopped
func (s *Session) Pass() Pass {
	return s.pass
}

func (s *Session) warn(format string, args ...interface{}) {
	s.warnings = append(
		s.warnings, Warning{s.position, fmt.Sprintf(format, args...)},
	)
}

func (s *Session) scan(lines []string, pass Pass) {
	s.pass = pass

	for i, line := range lines {
		s.position = Position{Unit: s.unit, Line: i + 1, Text: line}

		glog.V(2).Infof("%s pass %d: %q", s.position, pass, line)

		if utf8.RuneCountInString(line) > LINE_MAX {
			if pass == PASS_FIRST {
				s.errs = append(
					s.errs,
					&InvalidSyntaxError{
						s.position,
						fmt.Sprintf("A line can have at most %d characters", LINE_MAX),
					},
				)
			}

			continue
		}

		line = strings.TrimSpace(line)

		if pass == PASS_FIRST {
			s.scanFirst(line)
		} else {
			s.scanSecond(line)
		}
	}
}

// Reads every line of input whatever its length; overlong lines are
// reported by the scan
func readLines(input io.Reader) ([]string, error) {
	var lines []string

	reader := bufio.NewReader(input)

	for {
		line, err := reader.ReadString('\n')

		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}

		if err == io.EOF {
			return lines, nil
		} else if err != nil {
			return nil, err
		}
	}
}

// Assemble runs both passes over input. The program is nil whenever an
// error was found; every error of the failing pass is returned.
func (s *Session) Assemble(input io.Reader) (*Program, []error) {
	lines, err := readLines(input)

	if err != nil {
		return nil, []error{err}
	}

	// Process:
	// - Size instructions and collect symbols
	// - Move data labels behind the code
	// - Encode instructions
	s.scan(lines, PASS_FIRST)

	glog.V(1).Infof(
		"%s: first pass: ic=%d dc=%d symbols=%d errors=%d",
		s.unit, s.ic, s.dc, s.symbols.Len(), len(s.errs),
	)

	if len(s.errs) > 0 {
		return nil, s.errs
	}

	codeSize := s.ic - MEMORY_BASE

	s.symbols.FixupGuidance(s.ic)
	s.ic = MEMORY_BASE
	s.code = make([]uint16, 0, codeSize)

	s.scan(lines, PASS_SECOND)

	glog.V(1).Infof(
		"%s: second pass: words=%d externals=%d errors=%d",
		s.unit, len(s.code), len(s.externals), len(s.errs),
	)

	if len(s.errs) > 0 {
		return nil, s.errs
	}

	program := &Program{
		Unit:      s.unit,
		Code:      s.code,
		Data:      make([]uint16, 0, s.data.Len()),
		Externals: s.externals,
		Entries:   s.symbols.Entries(),
	}

	for _, entry := range s.data.Entries() {
		program.Data = append(program.Data, encoding.Truncate(entry.Value))
	}

	if s.symtable != nil {
		for _, symbol := range s.symbols.Symbols() {
			switch symbol.Kind {
			case SYMBOL_COMMAND, SYMBOL_GUIDANCE, SYMBOL_ENTRY:
				s.symtable.Labels[uint16(symbol.Value)] = symbol.Label
			}
		}
	}

	return program, nil
}

// AssembleSource assembles a single unit read from input
func AssembleSource(unit string, input io.Reader, symtable *SymTable) (program *Program, warnings []Warning, errs []error) {
	session := NewSession(unit, symtable)
	program, errs = session.Assemble(input)
	return program, session.Warnings(), errs
}
