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

package assembler_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lassandro/goasm14/pkg/assembler"
)

type testCase struct {
	Name      string
	Input     string
	CodeSize  int
	Output    map[int]uint16
	Externals []assembler.ExternalRef
	Entries   []assembler.Symbol
	SymTable  *assembler.SymTable
}

type failCase struct {
	Name  string
	Input string
	Error error
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	var symtable assembler.SymTable
	var symtarget *assembler.SymTable = nil

	if test.SymTable != nil {
		symtarget = &symtable
	}

	program, _, errs := assembler.AssembleSource(
		"test.as", strings.NewReader(test.Input), symtarget,
	)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	if size := len(program.Code); size != test.CodeSize {
		t.Fatalf(
			"Invalid code size\n"+
				"want:%d\n"+
				"have:%d",
			test.CodeSize,
			size,
		)
	}

	words := program.Words()

	if len(words) != len(test.Output) {
		t.Fatalf(
			"Invalid word count\n"+
				"want:%d\n"+
				"have:%d",
			len(test.Output),
			len(words),
		)
	}

	for _, word := range words {
		want, exists := test.Output[word.Address]

		if !exists {
			t.Fatalf(
				"Unexpected word\n"+
					"want:nil\n"+
					"have:%#014b (address %04d)",
				word.Value,
				word.Address,
			)
		} else if want != word.Value {
			t.Fatalf(
				"Word encoding mismatch\n"+
					"want:%#014b (test.Output[%04d])\n"+
					"have:%#014b",
				want,
				word.Address,
				word.Value,
			)
		}
	}

	if test.Externals != nil && !reflect.DeepEqual(program.Externals, test.Externals) {
		t.Fatalf(
			"Externals mismatch\n"+
				"want:%v\n"+
				"have:%v",
			test.Externals,
			program.Externals,
		)
	}

	if test.Entries != nil && !reflect.DeepEqual(program.Entries, test.Entries) {
		t.Fatalf(
			"Entries mismatch\n"+
				"want:%v\n"+
				"have:%v",
			test.Entries,
			program.Entries,
		)
	}

	if test.SymTable != nil {
		if !reflect.DeepEqual(symtable.Lines, test.SymTable.Lines) {
			t.Fatalf(
				"Symtable lines mismatch\n"+
					"want:%v\n"+
					"have:%v",
				test.SymTable.Lines,
				symtable.Lines,
			)
		}

		if !reflect.DeepEqual(symtable.Labels, test.SymTable.Labels) {
			t.Fatalf(
				"Symtable labels mismatch\n"+
					"want:%v\n"+
					"have:%v",
				test.SymTable.Labels,
				symtable.Labels,
			)
		}
	}
}

func testAssemblerFail(t *testing.T, test *failCase) {
	program, _, errs := assembler.AssembleSource(
		"test.as", strings.NewReader(test.Input), nil,
	)

	if test.Error == nil {
		panic("Fail case missing error value")
	}

	if program != nil {
		t.Fatalf("%s produced a program despite errors", t.Name())
	}

	if len(errs) == 0 {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:<nil>",
			t.Name(),
			test.Error,
		)
	}

	if len(errs) > 1 {
		errTypes := make([]reflect.Type, 0, len(errs))
		for _, err := range errs {
			errTypes = append(errTypes, reflect.TypeOf(err))
		}

		t.Fatalf(
			"%s produced multiple errors:\n\twant:%T (test.Error)\n\thave:%v",
			t.Name(),
			test.Error,
			errTypes,
		)
	}

	if reflect.TypeOf(errs[0]) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T",
			t.Name(),
			test.Error,
			errs[0],
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			test := test
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			test := test
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerFail(t, &test)
			})
		}
	})
}

// WORD |----|opcode |left|right|ARE|
// REG  |------|left |right|ARE|
// IMM  |value                 |ARE|
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestMov(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "MOV imm reg",
			Input:    `mov #5, r1`,
			CodeSize: 3,
			Output: map[int]uint16{
				100: 0b0000_0000_00_11_00,
				101: 0b0000_0000_0101_00,
				102: 0b000000_000_001_00,
			},
		},
		{
			Name:     "MOV negative imm",
			Input:    `mov #-1, r0`,
			CodeSize: 3,
			Output: map[int]uint16{
				100: 0b0000_0000_00_11_00,
				101: 0b1111_1111_1111_00,
				102: 0b000000_000_000_00,
			},
		},
		{
			Name:     "MOV reg reg",
			Input:    `mov r3, r7`,
			CodeSize: 2,
			Output: map[int]uint16{
				100: 0b0000_0000_11_11_00,
				101: 0b000000_011_111_00,
			},
		},
		{
			Name:     "MOV direct reg",
			Input:    `X: mov X, r2`,
			CodeSize: 3,
			Output: map[int]uint16{
				100: 0b0000_0000_01_11_00,
				101: 0b0000_0110_0100_10, // 100, relocatable
				102: 0b000000_000_010_00,
			},
		},
		{
			Name:     "MOV reg direct",
			Input:    "mov r6, X\nX: stop",
			CodeSize: 4,
			Output: map[int]uint16{
				100: 0b0000_0000_11_01_00,
				101: 0b000000_110_000_00,
				102: 0b0000_0110_0111_10, // 103, relocatable
				103: 0b0000_1111_00_00_00,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "MOV imm dest",
			Input: `mov r1, #5`,
			Error: &assembler.InvalidAddressingModeError{},
		},
		{
			Name:  "MOV bad register",
			Input: `mov r8, r1`,
			Error: &assembler.InvalidRegisterError{},
		},
		{
			Name:  "MOV too few",
			Input: `mov r1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "MOV too many",
			Input: `mov r1, r2, r3`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "MOV double comma",
			Input: `mov r1,,r2`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "MOV leading comma",
			Input: `mov ,r1, r2`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "MOV trailing comma",
			Input: `mov r1, r2,`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "MOV missing comma",
			Input: `mov r1 r2`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "MOV imm out of range",
			Input: `mov #99999999999, r1`,
			Error: &assembler.InvalidArgumentError{},
		},
		{
			Name:  "MOV unknown label",
			Input: `mov NOWHERE, r1`,
			Error: &assembler.UnknownLabelError{},
		},
	})
}

func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "CMP imm imm",
			Input:    `cmp #1, #-2`,
			CodeSize: 3,
			Output: map[int]uint16{
				100: 0b0000_0001_00_00_00,
				101: 0b0000_0000_0001_00,
				102: 0b1111_1111_1110_00,
			},
		},
		{
			Name:     "ADD reg reg",
			Input:    `add r1, r2`,
			CodeSize: 2,
			Output: map[int]uint16{
				100: 0b0000_0010_11_11_00,
				101: 0b000000_001_010_00,
			},
		},
		{
			Name:     "SUB imm reg",
			Input:    `sub #3, r4`,
			CodeSize: 3,
			Output: map[int]uint16{
				100: 0b0000_0011_00_11_00,
				101: 0b0000_0000_0011_00,
				102: 0b000000_000_100_00,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "ADD imm dest",
			Input: `add r1, #1`,
			Error: &assembler.InvalidAddressingModeError{},
		},
		{
			Name:  "SUB bad register",
			Input: `sub r1, r9`,
			Error: &assembler.InvalidRegisterError{},
		},
	})
}

func TestSingleOperand(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "INC reg",
			Input:    `inc r3`,
			CodeSize: 2,
			Output: map[int]uint16{
				100: 0b0000_0111_00_11_00,
				101: 0b000000_011_000_00,
			},
		},
		{
			Name:     "PRN negative imm",
			Input:    `prn #-1`,
			CodeSize: 2,
			Output: map[int]uint16{
				100: 0b0000_1100_00_00_00,
				101: 0b1111_1111_1111_00,
			},
		},
		{
			Name:     "JMP direct",
			Input:    "L: jmp L",
			CodeSize: 2,
			Output: map[int]uint16{
				100: 0b0000_1001_00_01_00,
				101: 0b0000_0110_0100_10,
			},
		},
		{
			Name:     "RTS STOP",
			Input:    "rts\nstop",
			CodeSize: 2,
			Output: map[int]uint16{
				100: 0b0000_1110_00_00_00,
				101: 0b0000_1111_00_00_00,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "JMP imm",
			Input: `jmp #5`,
			Error: &assembler.InvalidAddressingModeError{},
		},
		{
			Name:  "BNE index",
			Input: "bne A[1]\nA: .data 1",
			Error: &assembler.InvalidAddressingModeError{},
		},
		{
			Name:  "INC imm",
			Input: `inc #1`,
			Error: &assembler.InvalidAddressingModeError{},
		},
		{
			Name:  "LEA reg source",
			Input: `lea r1, r2`,
			Error: &assembler.InvalidAddressingModeError{},
		},
		{
			Name:  "RTS with operand",
			Input: `rts r1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Unknown mnemonic",
			Input: `move r1, r2`,
			Error: &assembler.UnknownOperatorError{},
		},
	})
}

func TestArray(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Macro index",
			Input: ".define sz = 2\n" +
				"mov STR[sz], r1\n" +
				"stop\n" +
				"STR: .string \"ab\"",
			CodeSize: 5,
			Output: map[int]uint16{
				100: 0b0000_0000_10_11_00,
				101: 0b0000_0110_1001_10, // STR = 105, relocatable
				102: 0b0000_0000_0010_00,
				103: 0b000000_000_001_00,
				104: 0b0000_1111_00_00_00,
				105: 'a',
				106: 'b',
				107: 0,
			},
		},
		{
			Name:     "Numeric index",
			Input:    "lea LIST[1], r2\nLIST: .data 4, 5",
			CodeSize: 4,
			Output: map[int]uint16{
				100: 0b0000_0110_10_11_00,
				101: 0b0000_0110_1000_10, // LIST = 104, relocatable
				102: 0b0000_0000_0001_00,
				103: 0b000000_000_010_00,
				104: 4,
				105: 5,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "No label",
			Input: `mov [1], r1`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "No index",
			Input: "mov A[], r1\nA: .data 1",
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "No opening brace",
			Input: "mov A1], r1\nA: .data 1",
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Undeclared macro index",
			Input: "mov A[n], r1\nA: .data 1",
			Error: &assembler.InvalidArgumentError{},
		},
		{
			Name:  "Index out of range",
			Input: "X: .data 1\nmov X[99999999999], r1",
			Error: &assembler.InvalidArgumentError{},
		},
		{
			Name:  "Unknown base label",
			Input: `mov A[1], r1`,
			Error: &assembler.UnknownLabelError{},
		},
	})
}

func TestMacro(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "Immediate macro",
			Input:    ".define len = 4\nprn #len",
			CodeSize: 2,
			Output: map[int]uint16{
				100: 0b0000_1100_00_00_00,
				101: 0b0000_0000_0100_00,
			},
		},
		{
			Name:     "Data macro",
			Input:    ".define n = -3\n.data n, 7",
			CodeSize: 0,
			Output: map[int]uint16{
				100: 0b1111_1111_1111_01,
				101: 7,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Undeclared macro",
			Input: `prn #UNDEF`,
			Error: &assembler.InvalidArgumentError{},
		},
		{
			Name:  "Label as macro",
			Input: "X: .data 1\nprn #X",
			Error: &assembler.InvalidArgumentError{},
		},
		{
			Name:  "Macro as address",
			Input: ".define n = 3\njmp n",
			Error: &assembler.InvalidArgumentError{},
		},
		{
			Name:  "Labelled define",
			Input: `A: .define n = 1`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Define missing equals",
			Input: `.define n 1`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Define extra value",
			Input: `.define n = 1 2`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Define not a number",
			Input: `.define n = x`,
			Error: &assembler.InvalidArgumentError{},
		},
		{
			Name:  "Define reserved name",
			Input: `.define mov = 1`,
			Error: &assembler.InvalidSyntaxError{},
		},
	})
}

func TestData(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "Data",
			Input:    `.data 6, -9, +15`,
			CodeSize: 0,
			Output: map[int]uint16{
				100: 6,
				101: 0b1111_1111_1101_11,
				102: 15,
			},
		},
		{
			Name:     "String",
			Input:    `  .string   "hi"  `,
			CodeSize: 0,
			Output: map[int]uint16{
				100: 'h',
				101: 'i',
				102: 0,
			},
		},
		{
			Name:     "Empty string",
			Input:    `.string ""`,
			CodeSize: 0,
			Output: map[int]uint16{
				100: 0,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Data no arguments",
			Input: `.data`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Data double comma",
			Input: `.data 1,,2`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Data undefined name",
			Input: `.data UNDEF`,
			Error: &assembler.UnknownOperatorError{},
		},
		{
			Name:  "Data non macro",
			Input: ".extern E\n.data E",
			Error: &assembler.InvalidArgumentError{},
		},
		{
			Name:  "String unquoted",
			Input: `.string abc`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "String unterminated",
			Input: `.string "abc`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "String trailing text",
			Input: `.string "abc" x`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "String missing",
			Input: `.string`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Oversized data",
			Input: strings.Repeat(".data 1\n", assembler.MEMORY_SIZE+1),
			Error: &assembler.OversizedDataError{},
		},
		{
			Name:  "Unknown guidance",
			Input: `.word 1`,
			Error: &assembler.UnknownOperatorError{},
		},
	})
}

func TestExternal(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "External usages",
			Input: ".extern EXT\n" +
				"jmp EXT\n" +
				"mov EXT, r1",
			CodeSize: 5,
			Output: map[int]uint16{
				100: 0b0000_1001_00_01_00,
				101: 0b0000_0000_0000_01,
				102: 0b0000_0000_01_11_00,
				103: 0b0000_0000_0000_01,
				104: 0b000000_000_001_00,
			},
			Externals: []assembler.ExternalRef{
				{Label: "EXT", Address: 101},
				{Label: "EXT", Address: 103},
			},
		},
		{
			Name:     "External array",
			Input:    ".extern ARR\nclr ARR[2]",
			CodeSize: 3,
			Output: map[int]uint16{
				100: 0b0000_0101_00_10_00,
				101: 0b0000_0000_0000_01,
				102: 0b0000_0000_0010_00,
			},
			Externals: []assembler.ExternalRef{
				{Label: "ARR", Address: 101},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Extern no name",
			Input: `.extern`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Extern two names",
			Input: `.extern A B`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

func TestEntry(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Entries",
			Input: ".entry MAIN\n" +
				".entry LIST\n" +
				"MAIN: rts\n" +
				"LIST: .data 6, -9",
			CodeSize: 1,
			Output: map[int]uint16{
				100: 0b0000_1110_00_00_00,
				101: 6,
				102: 0b1111_1111_1101_11,
			},
			Entries: []assembler.Symbol{
				{Label: "MAIN", Value: 100, Kind: assembler.SYMBOL_ENTRY},
				{Label: "LIST", Value: 101, Kind: assembler.SYMBOL_ENTRY},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Entry no name",
			Input: `.entry`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

func TestComment(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Comments and blanks",
			Input: "; leading comment\n" +
				"\n" +
				"   \t\n" +
				"   ; indented comment\n" +
				"stop",
			CodeSize: 1,
			Output: map[int]uint16{
				100: 0b0000_1111_00_00_00,
			},
		},
	})
}

func TestLabel(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "Forwards Label",
			Input:    "jsr END\nEND: stop",
			CodeSize: 3,
			Output: map[int]uint16{
				100: 0b0000_1101_00_01_00,
				101: 0b0000_0110_0110_10, // 102, relocatable
				102: 0b0000_1111_00_00_00,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Redeclared command",
			Input: "A: stop\nA: stop",
			Error: &assembler.RedeclaredLabelError{},
		},
		{
			Name:  "Redeclared external",
			Input: ".extern A\nA: stop",
			Error: &assembler.RedeclaredLabelError{},
		},
		{
			Name:  "Extern after macro",
			Input: ".define A = 1\n.extern A",
			Error: &assembler.RedeclaredLabelError{},
		},
		{
			Name:  "Macro after data",
			Input: "A: .data 1\n.define A = 2",
			Error: &assembler.RedeclaredLabelError{},
		},
		{
			Name:  "Leading digit",
			Input: `1A: stop`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Not alphanumeric",
			Input: `A_B: stop`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Reserved mnemonic",
			Input: `mov: stop`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Reserved register",
			Input: `r3: stop`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Oversized label",
			Input: strings.Repeat("L", assembler.LABEL_MAX+1) + ": stop",
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Label on empty line",
			Input: `A:`,
			Error: &assembler.InvalidSyntaxError{},
		},
		{
			Name:  "Oversized line",
			Input: "stop ;" + strings.Repeat("x", assembler.LINE_MAX),
			Error: &assembler.InvalidSyntaxError{},
		},
	})
}

func TestProgram(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Program",
			Input: "MAIN: mov #5,r1\n" +
				"\tadd r1,r2\n" +
				"\tstop",
			CodeSize: 6,
			Output: map[int]uint16{
				100: 0b0000_0000_00_11_00,
				101: 0b0000_0000_0101_00,
				102: 0b000000_000_001_00,
				103: 0b0000_0010_11_11_00,
				104: 0b000000_001_010_00,
				105: 0b0000_1111_00_00_00,
			},
		},
	})
}

func TestSymtable(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Symtable",
			Input: "MAIN: mov #5, r1\n" +
				"stop\n" +
				"D: .data 1",
			CodeSize: 4,
			Output: map[int]uint16{
				100: 0b0000_0000_00_11_00,
				101: 0b0000_0000_0101_00,
				102: 0b000000_000_001_00,
				103: 0b0000_1111_00_00_00,
				104: 1,
			},
			SymTable: &assembler.SymTable{
				Lines: map[uint16]int{
					100: 1,
					103: 2,
				},
				Labels: map[uint16]string{
					100: "MAIN",
					104: "D",
				},
			},
		},
	})
}
