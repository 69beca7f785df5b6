package mdl

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
)

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenNumber
	tokenColon
)

func (k tokenKind) String() string {
	switch k {
	case tokenNumber:
		return "number"
	case tokenColon:
		return "':'"
	default:
		return "word"
	}
}

type token struct {
	Kind       tokenKind
	Text       string
	Num        float64
	OutOfRange bool // number literal that does not fit in a float64
	Range      hcl.Range
}

var (
	numberRe     = regexp.MustCompile(`^-?(\d+\.\d*|\.\d+|\d+)$`)
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)
)

// line is one source line with its byte offset in the file.
type line struct {
	Number int
	Offset int
	Text   []byte
}

// scanLines splits src into lines, keeping track of byte offsets so that
// token ranges point at the right place even for CRLF input.
func scanLines(src []byte) []line {
	var lines []line
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), len(src)+1)
	scanner.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			return i + 1, data[:i+1], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	})

	offset := 0
	for n := 1; scanner.Scan(); n++ {
		raw := scanner.Bytes()
		text := bytes.TrimRight(raw, "\r\n")
		lines = append(lines, line{Number: n, Offset: offset, Text: append([]byte(nil), text...)})
		offset += len(raw)
	}
	return lines
}

// tokenize splits a line into tokens, dropping everything after `//`.
func tokenize(filename string, ln line) []token {
	text := ln.Text
	if i := bytes.Index(text, []byte("//")); i >= 0 {
		text = text[:i]
	}

	var tokens []token
	i := 0
	for i < len(text) {
		if isSpace(text[i]) {
			i++
			continue
		}

		start := i
		if text[i] == ':' {
			i++
		} else {
			for i < len(text) && !isSpace(text[i]) && text[i] != ':' {
				i++
			}
		}

		word := string(text[start:i])
		tok := token{
			Kind:  tokenWord,
			Text:  word,
			Range: tokenRange(filename, ln, start, i),
		}
		switch {
		case word == ":":
			tok.Kind = tokenColon
		case numberRe.MatchString(word):
			// The pattern guarantees valid syntax; the only possible error
			// is a value too large for float64, which yields ±Inf.
			f, err := strconv.ParseFloat(word, 64)
			tok.Kind = tokenNumber
			tok.Num = f
			tok.OutOfRange = err != nil
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func tokenRange(filename string, ln line, start, end int) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start: hcl.Pos{
			Line:   ln.Number,
			Column: utf8.RuneCount(ln.Text[:start]) + 1,
			Byte:   ln.Offset + start,
		},
		End: hcl.Pos{
			Line:   ln.Number,
			Column: utf8.RuneCount(ln.Text[:end]) + 1,
			Byte:   ln.Offset + end,
		},
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}
