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

package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lassandro/goasm14/pkg/assembler"
	"github.com/lassandro/goasm14/pkg/output"
)

var debugvar bool
var dumpvar bool
var outvar string
var colorvar bool

const usage = "goasm14 [--debug] [--dump] [--out-dir dir] file..."

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	colorvar = term.IsTerminal(int(os.Stderr.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "goasm14 [flags] file...",
	Short: "Assembler for the 14-bit teaching CPU",
	Long: `goasm14 translates assembly source units into object files.

Each argument names a source unit, with or without its '.as' extension.
Units are assembled one after the other. For every unit that assembles
without errors the following files are written beside it:

  name.ob   the object file
  name.ent  entry points, when the unit declares any
  name.ext  external symbol usages, when the unit uses any

Files left by a previous compilation of the unit are removed first. When
no argument is given and standard input is not a terminal, the source is
read from standard input and written as unit 'out'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its settings from the Go flag set
		return flag.CommandLine.Parse(nil)
	},
	Run: func(cmd *cobra.Command, args []string) {
		status = goasm14(args)
	},
}

var status int

func init() {
	rootCmd.Flags().BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the unit name with extension '.db'",
	)
	rootCmd.Flags().BoolVar(
		&dumpvar, "dump", false,
		"Prints the symbol and data tables of every unit to stderr",
	)
	rootCmd.Flags().StringVar(
		&outvar, "out-dir", "",
		"Specifies a directory for the output files, "+
			"overriding the directory of the source file",
	)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func paint(color string, text string) string {
	if !colorvar {
		return text
	}

	return color + text + "\033[0m"
}

func printError(err error) {
	if lineErr, ok := err.(assembler.LineError); ok {
		log.Printf(
			"%s %s\n\t%s\n",
			paint("\033[31m", "error:"),
			err,
			strings.TrimSpace(lineErr.GetPosition().Text),
		)
	} else {
		log.Printf("%s %s\n", paint("\033[31m", "error:"), err)
	}
}

func printWarning(warn assembler.Warning) {
	log.Printf(
		"%s %s\n\t%s\n",
		paint("\033[33m", "warning:"),
		warn,
		strings.TrimSpace(warn.Position.Text),
	)
}

// A warning or an error, whichever is set
type diagnostic struct {
	Line    int
	Warning *assembler.Warning
	Err     error
}

// Merges warnings and errors in source line order. Errors without a
// position come first.
func collectDiagnostics(warnings []assembler.Warning, errs []error) []diagnostic {
	diags := make([]diagnostic, 0, len(warnings)+len(errs))

	for i := range warnings {
		diags = append(
			diags, diagnostic{warnings[i].Position.Line, &warnings[i], nil},
		)
	}

	for _, err := range errs {
		line := 0

		if lineErr, ok := err.(assembler.LineError); ok {
			line = lineErr.GetPosition().Line
		}

		diags = append(diags, diagnostic{line, nil, err})
	}

	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Line < diags[j].Line
	})

	return diags
}

func writeSymTable(filename string, symtable *assembler.SymTable) error {
	file, err := os.Create(filename)

	if err != nil {
		return err
	}

	if err := gob.NewEncoder(file).Encode(symtable); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// Assembles one unit and replaces its output files. Returns false on any
// error.
func assembleUnit(unit string, input io.Reader, base string, source string) bool {
	var symtable *assembler.SymTable = nil

	if debugvar {
		symtable = &assembler.SymTable{Source: source}
	}

	session := assembler.NewSession(unit, symtable)
	program, errs := session.Assemble(input)

	for _, diag := range collectDiagnostics(session.Warnings(), errs) {
		if diag.Err != nil {
			printError(diag.Err)
		} else {
			printWarning(*diag.Warning)
		}
	}

	if dumpvar {
		pp.Fprintln(os.Stderr, session.Symbols().Symbols())
		pp.Fprintln(os.Stderr, session.Data().Entries())
	}

	if len(errs) > 0 {
		if err := output.NewFiles(base).Remove(); err != nil {
			log.Println(err)
		}

		log.Printf(
			"%s: errors found on pass %d, no output written",
			unit, session.Pass(),
		)

		return false
	}

	if err := output.Write(base, program); err != nil {
		log.Println("Error writing output files")
		log.Println(err)
		return false
	}

	if debugvar {
		if err := writeSymTable(base+output.DebugExt, symtable); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return false
		}
	}

	glog.V(1).Infof(
		"%s: %d code words, %d data words", unit,
		len(program.Code), len(program.Data),
	)

	fmt.Printf("%s compiled successfully\n", unit)

	return true
}

func assembleFile(arg string) bool {
	name := strings.TrimSuffix(arg, output.SourceExt)

	file, err := os.Open(name + output.SourceExt)

	if err != nil {
		log.Println(err)
		return false
	}

	defer file.Close()

	if stat, err := file.Stat(); err != nil {
		log.Println(err)
		return false
	} else if stat.IsDir() {
		log.Printf("%s is not a valid assembly file", file.Name())
		return false
	}

	base := name

	if outvar != "" {
		base = filepath.Join(outvar, filepath.Base(name))
	}

	source, err := filepath.Abs(file.Name())

	if err != nil {
		log.Println(err)
		source = ""
	}

	return assembleUnit(filepath.Base(file.Name()), file, base, source)
}

func goasm14(args []string) int {
	if len(args) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			log.Println(usage)
			return 1
		}

		base := "out"

		if outvar != "" {
			base = filepath.Join(outvar, base)
		}

		if assembleUnit("<stdin>", os.Stdin, base, "") {
			return 0
		}

		return 1
	}

	result := 0

	for _, arg := range args {
		if !assembleFile(arg) {
			result = 1
		}
	}

	return result
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		status = 1
	}

	glog.Flush()
	os.Exit(status)
}
