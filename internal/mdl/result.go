package mdl

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/compyler/internal/value"
)

// Result is the outcome of parsing a script. It is either *Success or
// *Failure.
type Result interface {
	result()
}

// Success holds a fully parsed script.
type Success struct {
	Commands []*Command
	Symbols  *SymbolTable
}

func (*Success) result() {}

// Pair returns the (commands, symbols) tuple in its value form.
func (s *Success) Pair() value.Tuple {
	cmds := make(value.List, 0, len(s.Commands))
	for _, c := range s.Commands {
		cmds = append(cmds, c.Dict())
	}
	syms := s.Symbols
	if syms == nil {
		syms = NewSymbolTable()
	}
	return value.Tuple{cmds, syms.Dict()}
}

// Failure describes why a script could not be parsed. Err is set when the
// script could not be read at all. Diagnostics holds syntax errors.
type Failure struct {
	Path        string
	Diagnostics hcl.Diagnostics
	Err         error

	source []byte
}

func (*Failure) result() {}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Err.Error()
	}
	if f.Diagnostics.HasErrors() {
		return fmt.Sprintf("failed to parse MDL script %s: %s", f.Path, f.Diagnostics.Error())
	}
	return fmt.Sprintf("failed to parse MDL script %s", f.Path)
}

// Unwrap returns the underlying I/O error, if any.
func (f *Failure) Unwrap() error {
	return f.Err
}

// WriteDiagnostics prints the failure's diagnostics with source snippets.
// width is the wrap width; 0 disables wrapping.
func (f *Failure) WriteDiagnostics(w io.Writer, width uint) error {
	if len(f.Diagnostics) == 0 {
		return nil
	}
	files := map[string]*hcl.File{}
	if f.source != nil {
		files[f.Path] = &hcl.File{Bytes: f.source}
	}
	return hcl.NewDiagnosticTextWriter(w, files, width, false).WriteDiagnostics(f.Diagnostics)
}
