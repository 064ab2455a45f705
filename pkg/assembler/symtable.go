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

type Symbol struct {
	Label string
	Value int
	Kind  SymbolKind
}

// SymbolTable keeps symbols in declaration order with label lookup.
type SymbolTable struct {
	indexes map[string]int
	symbols []Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		indexes: make(map[string]int),
		symbols: make([]Symbol, 0, 32),
	}
}

// Insert fails with ErrDuplicateLabel if the label exists, whatever its kind.
func (st *SymbolTable) Insert(label string, value int, kind SymbolKind) error {
	if _, exists := st.indexes[label]; exists {
		return ErrDuplicateLabel
	}

	st.indexes[label] = len(st.symbols)
	st.symbols = append(st.symbols, Symbol{label, value, kind})

	return nil
}

func (st *SymbolTable) Lookup(label string) (Symbol, bool) {
	index, exists := st.indexes[label]

	if !exists {
		return Symbol{}, false
	}

	return st.symbols[index], true
}

// PromoteToEntry marks a guidance or command symbol as an entry point.
func (st *SymbolTable) PromoteToEntry(label string) error {
	index, exists := st.indexes[label]

	if !exists {
		return ErrSymbolNotFound
	}

	symbol := &st.symbols[index]

	switch symbol.Kind {
	case SYMBOL_ENTRY:
		return ErrAlreadyEntry
	case SYMBOL_GUIDANCE, SYMBOL_COMMAND:
		symbol.Kind = SYMBOL_ENTRY
		return nil
	}

	return ErrInvalidEntryKind
}

// FixupGuidance relocates data labels behind the code segment. It must run
// exactly once, after the first pass.
func (st *SymbolTable) FixupGuidance(ic int) {
	for i := range st.symbols {
		if st.symbols[i].Kind == SYMBOL_GUIDANCE {
			st.symbols[i].Value += ic
		}
	}
}

func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

func (st *SymbolTable) Symbols() []Symbol {
	result := make([]Symbol, len(st.symbols))
	copy(result, st.symbols)
	return result
}

func (st *SymbolTable) Entries() []Symbol {
	var result []Symbol

	for _, symbol := range st.symbols {
		if symbol.Kind == SYMBOL_ENTRY {
			result = append(result, symbol)
		}
	}

	return result
}

type DataEntry struct {
	Label string
	Value int
	Index int
}

type DataTable struct {
	entries []DataEntry
}

func NewDataTable() *DataTable {
	return &DataTable{entries: make([]DataEntry, 0, 64)}
}

// Append stores a value and returns its index within the data segment.
func (dt *DataTable) Append(label string, value int) int {
	index := len(dt.entries)
	dt.entries = append(dt.entries, DataEntry{label, value, index})
	return index
}

func (dt *DataTable) Len() int {
	return len(dt.entries)
}

func (dt *DataTable) Entries() []DataEntry {
	result := make([]DataEntry, len(dt.entries))
	copy(result, dt.entries)
	return result
}
