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

package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/lassandro/goasm14/pkg/assembler"
	"github.com/lassandro/goasm14/pkg/encoding"
)

const (
	ObjectExt   = ".ob"
	EntryExt    = ".ent"
	ExternalExt = ".ext"
	DebugExt    = ".db"
	SourceExt   = ".as"
)

// Sink receives the lines of every output file of a unit
type Sink interface {
	ObjectHeader(code int, data int) error
	ObjectWord(addr int, word string) error
	EntryLine(label string, addr int) error
	ExternalLine(label string, addr int) error
}

// Emit writes an assembled program to sink: the object file, then the
// externals, then the entries.
func Emit(program *assembler.Program, sink Sink) error {
	if err := sink.ObjectHeader(len(program.Code), len(program.Data)); err != nil {
		return err
	}

	for _, word := range program.Words() {
		if err := sink.ObjectWord(
			word.Address, encoding.EncodeWord(word.Value),
		); err != nil {
			return err
		}
	}

	for _, ref := range program.Externals {
		if err := sink.ExternalLine(ref.Label, ref.Address); err != nil {
			return err
		}
	}

	for _, symbol := range program.Entries {
		if err := sink.EntryLine(symbol.Label, symbol.Value); err != nil {
			return err
		}
	}

	return nil
}

// Writers is a Sink over three already open streams
type Writers struct {
	Object    io.Writer
	Entries   io.Writer
	Externals io.Writer
}

func (w *Writers) ObjectHeader(code int, data int) error {
	_, err := fmt.Fprintf(w.Object, "\t%d\t%d\n", code, data)
	return err
}

func (w *Writers) ObjectWord(addr int, word string) error {
	_, err := fmt.Fprintf(
		w.Object, "%s\t%s\n", encoding.FormatAddress(addr), word,
	)

	return err
}

func (w *Writers) EntryLine(label string, addr int) error {
	_, err := fmt.Fprintf(
		w.Entries, "%s\t%s\n", label, encoding.FormatAddress(addr),
	)

	return err
}

func (w *Writers) ExternalLine(label string, addr int) error {
	_, err := fmt.Fprintf(
		w.Externals, "%s\t%s\n", label, encoding.FormatAddress(addr),
	)

	return err
}

// Files is a Sink creating <Base>.ob, <Base>.ent and <Base>.ext. The entries
// and externals files only come into existence with their first line.
type Files struct {
	Base string

	object    *os.File
	entries   *os.File
	externals *os.File
}

func NewFiles(base string) *Files {
	return &Files{Base: base}
}

func (f *Files) open(file **os.File, ext string) (*os.File, error) {
	if *file == nil {
		created, err := os.Create(f.Base + ext)

		if err != nil {
			return nil, err
		}

		*file = created
	}

	return *file, nil
}

func (f *Files) ObjectHeader(code int, data int) error {
	file, err := f.open(&f.object, ObjectExt)

	if err != nil {
		return err
	}

	return (&Writers{Object: file}).ObjectHeader(code, data)
}

func (f *Files) ObjectWord(addr int, word string) error {
	file, err := f.open(&f.object, ObjectExt)

	if err != nil {
		return err
	}

	return (&Writers{Object: file}).ObjectWord(addr, word)
}

func (f *Files) EntryLine(label string, addr int) error {
	file, err := f.open(&f.entries, EntryExt)

	if err != nil {
		return err
	}

	return (&Writers{Entries: file}).EntryLine(label, addr)
}

func (f *Files) ExternalLine(label string, addr int) error {
	file, err := f.open(&f.externals, ExternalExt)

	if err != nil {
		return err
	}

	return (&Writers{Externals: file}).ExternalLine(label, addr)
}

// Close closes every file that was created
func (f *Files) Close() error {
	var errs []error

	for _, file := range []*os.File{f.object, f.entries, f.externals} {
		if file != nil {
			errs = append(errs, file.Close())
		}
	}

	f.object, f.entries, f.externals = nil, nil, nil

	return errors.Join(errs...)
}

// Remove deletes the artifacts of a previous compilation, if any
func (f *Files) Remove() error {
	for _, ext := range []string{ObjectExt, EntryExt, ExternalExt, DebugExt} {
		if err := os.Remove(f.Base + ext); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

// Write replaces the artifacts of base with those of program
func Write(base string, program *assembler.Program) error {
	files := NewFiles(base)

	if err := files.Remove(); err != nil {
		return err
	}

	return files.Save(program)
}

// Save emits program into the files. On failure every file written so far
// is removed.
func (f *Files) Save(program *assembler.Program) error {
	if err := Emit(program, f); err != nil {
		f.Close()
		f.Remove()
		return err
	}

	return f.Close()
}
