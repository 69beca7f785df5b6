package mdl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/compyler/internal/ctxlog"
)

// Parser reads MDL scripts from disk.
type Parser struct{}

// NewParser creates a new MDL parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and parses the script at path. It never returns nil: a
// script that cannot be read or contains syntax errors yields a *Failure.
func (p *Parser) ParseFile(ctx context.Context, path string) Result {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Reading MDL script.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("MDL script could not be read.", "path", path, "error", err)
		return &Failure{Path: path, Err: fmt.Errorf("failed to read MDL script %s: %w", path, err)}
	}

	res := Parse(path, src)
	switch r := res.(type) {
	case *Success:
		logger.Debug("MDL script parsed.", "path", path, "commands", len(r.Commands), "symbols", r.Symbols.Len())
	case *Failure:
		logger.Debug("MDL script has errors.", "path", path, "diagnostics", len(r.Diagnostics))
	}
	return res
}

// Parse parses src as an MDL script. filename is only used in source ranges.
func Parse(filename string, src []byte) Result {
	st := &state{
		filename: filename,
		symbols:  NewSymbolTable(),
	}

	for _, ln := range scanLines(src) {
		tokens := tokenize(filename, ln)
		if len(tokens) == 0 {
			continue
		}
		if st.parseLine(tokens) == stop {
			break
		}
	}

	if st.diags.HasErrors() {
		return &Failure{Path: filename, Diagnostics: st.diags, source: src}
	}
	return &Success{Commands: st.commands, Symbols: st.symbols}
}

type flow int

const (
	next flow = iota
	stop
)

// state accumulates the results of a single parse.
type state struct {
	filename string
	commands []*Command
	symbols  *SymbolTable
	diags    hcl.Diagnostics
}

func (st *state) parseLine(tokens []token) flow {
	head := tokens[0]
	if head.Kind != tokenWord {
		st.diags = append(st.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing command",
			Detail:   fmt.Sprintf("Each line must start with a command name, but found %s %q.", head.Kind, head.Text),
			Subject:  head.Range.Ptr(),
		})
		return next
	}

	if head.Text == "quit" || head.Text == "exit" {
		return stop
	}

	rule, ok := grammar[head.Text]
	if !ok {
		st.diags = append(st.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unrecognized command",
			Detail:   fmt.Sprintf("%q is not an MDL command.", head.Text),
			Subject:  head.Range.Ptr(),
		})
		return next
	}

	args := &argReader{op: head, tokens: tokens[1:]}
	cmd := newCommand(head.Text, hcl.RangeBetween(head.Range, tokens[len(tokens)-1].Range))
	rule(cmd, args)
	args.finish()

	if args.diags.HasErrors() {
		st.diags = append(st.diags, args.diags...)
		return next
	}
	for _, def := range args.defs {
		st.symbols.Define(def.name, def.kind, def.payload...)
	}
	st.commands = append(st.commands, cmd)
	return next
}

// argReader walks the arguments of one command and records what went wrong.
// After the first error every read returns a zero value, so rules can be
// written without checking for errors between reads.
type argReader struct {
	op     token
	tokens []token
	pos    int
	diags  hcl.Diagnostics
	defs   []symbolDef
}

// symbolDef is a symbol binding that only takes effect if the whole command
// parses cleanly.
type symbolDef struct {
	name    string
	kind    string
	payload []any
}

func (a *argReader) define(name, kind string, payload ...any) {
	a.defs = append(a.defs, symbolDef{name: name, kind: kind, payload: payload})
}

func (a *argReader) failed() bool {
	return a.diags.HasErrors()
}

func (a *argReader) peek() (token, bool) {
	if a.pos >= len(a.tokens) {
		return token{}, false
	}
	return a.tokens[a.pos], true
}

func (a *argReader) errorf(subject hcl.Range, summary, format string, args ...any) {
	a.diags = append(a.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  subject.Ptr(),
	})
}

// endRange points just past the last token, where a missing argument belongs.
func (a *argReader) endRange() hcl.Range {
	last := a.op.Range
	if len(a.tokens) > 0 {
		last = a.tokens[len(a.tokens)-1].Range
	}
	return hcl.Range{Filename: last.Filename, Start: last.End, End: last.End}
}

func (a *argReader) number(what string) float64 {
	if a.failed() {
		return 0
	}
	tok, ok := a.peek()
	if !ok {
		a.errorf(a.endRange(), "Missing argument", "The %q command requires %s.", a.op.Text, what)
		return 0
	}
	if tok.Kind != tokenNumber {
		a.errorf(tok.Range, "Invalid argument", "The %q command expects %s here, but found %q.", a.op.Text, what, tok.Text)
		return 0
	}
	if tok.OutOfRange {
		a.errorf(tok.Range, "Number out of range", "The %q command was given a number that does not fit in a 64-bit float.", a.op.Text)
		return 0
	}
	a.pos++
	return tok.Num
}

// numbers reads n numbers and returns them as a list of float64.
func (a *argReader) numbers(n int, what string) []any {
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, a.number(what))
	}
	return out
}

// name reads a required symbol name.
func (a *argReader) name(what string) string {
	if a.failed() {
		return ""
	}
	tok, ok := a.peek()
	if !ok {
		a.errorf(a.endRange(), "Missing argument", "The %q command requires %s.", a.op.Text, what)
		return ""
	}
	if tok.Kind != tokenWord || !identifierRe.MatchString(tok.Text) {
		a.errorf(tok.Range, "Invalid name", "The %q command expects %s here, but found %q.", a.op.Text, what, tok.Text)
		return ""
	}
	a.pos++
	return tok.Text
}

// optName reads a symbol name if the next token is one. It returns nil
// otherwise, which renders as None.
func (a *argReader) optName() any {
	if a.failed() {
		return nil
	}
	tok, ok := a.peek()
	if !ok || tok.Kind != tokenWord || !identifierRe.MatchString(tok.Text) {
		return nil
	}
	a.pos++
	return tok.Text
}

// word reads any single word, such as a file name.
func (a *argReader) word(what string) string {
	if a.failed() {
		return ""
	}
	tok, ok := a.peek()
	if !ok {
		a.errorf(a.endRange(), "Missing argument", "The %q command requires %s.", a.op.Text, what)
		return ""
	}
	if tok.Kind == tokenColon {
		a.errorf(tok.Range, "Invalid argument", "The %q command expects %s here, but found %q.", a.op.Text, what, tok.Text)
		return ""
	}
	a.pos++
	return tok.Text
}

func (a *argReader) colon() {
	if a.failed() {
		return
	}
	tok, ok := a.peek()
	if !ok || tok.Kind != tokenColon {
		subject := a.endRange()
		if ok {
			subject = tok.Range
		}
		a.errorf(subject, "Missing ':'", "The %q command expects ':' before the file name.", a.op.Text)
		return
	}
	a.pos++
}

// oneOf reads a word that must be one of the allowed values.
func (a *argReader) oneOf(what string, allowed ...string) string {
	if a.failed() {
		return ""
	}
	tok, ok := a.peek()
	if !ok {
		a.errorf(a.endRange(), "Missing argument", "The %q command requires %s.", a.op.Text, what)
		return ""
	}
	for _, v := range allowed {
		if tok.Text == v {
			a.pos++
			return v
		}
	}
	a.errorf(tok.Range, "Invalid argument", "The %q command expects %s (one of %v), but found %q.", a.op.Text, what, allowed, tok.Text)
	return ""
}

// remaining reports how many tokens are left.
func (a *argReader) remaining() int {
	return len(a.tokens) - a.pos
}

// finish flags any arguments left over once the rule is done.
func (a *argReader) finish() {
	if a.failed() || a.pos >= len(a.tokens) {
		return
	}
	extra := hcl.RangeBetween(a.tokens[a.pos].Range, a.tokens[len(a.tokens)-1].Range)
	a.errorf(extra, "Too many arguments", "The %q command was given %d unexpected extra argument(s).", a.op.Text, len(a.tokens)-a.pos)
}
