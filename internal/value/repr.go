package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnsupportedTypeError is returned when a value outside the supported set is
// rendered or converted.
type UnsupportedTypeError struct {
	Value any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("value: unsupported type %T", e.Value)
}

// Repr renders v in Python literal syntax, e.g. ([{'op': 'push', 'args': None}], {}).
func Repr(v any) (string, error) {
	var b strings.Builder
	if err := writeRepr(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeRepr(b *strings.Builder, v any) error {
	switch t := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if t {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case int:
		b.WriteString(strconv.Itoa(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case float32:
		b.WriteString(FormatFloat(float64(t)))
	case float64:
		b.WriteString(FormatFloat(t))
	case string:
		b.WriteString(QuoteString(t))
	case List:
		return writeSeq(b, "[", "]", []any(t), false)
	case []any:
		return writeSeq(b, "[", "]", t, false)
	case Tuple:
		return writeSeq(b, "(", ")", []any(t), true)
	case *Dict:
		b.WriteByte('{')
		for i, k := range t.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(QuoteString(k))
			b.WriteString(": ")
			val, _ := t.Get(k)
			if err := writeRepr(b, val); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return &UnsupportedTypeError{Value: v}
	}
	return nil
}

func writeSeq(b *strings.Builder, open, close string, items []any, tuple bool) error {
	b.WriteString(open)
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writeRepr(b, item); err != nil {
			return err
		}
	}
	// A one-element tuple keeps its trailing comma.
	if tuple && len(items) == 1 {
		b.WriteByte(',')
	}
	b.WriteString(close)
	return nil
}

// FormatFloat renders f the way Python's repr does: the shortest string
// that round-trips, always carrying a fractional part or an exponent.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// QuoteString renders s as a Python string literal. Single quotes are
// preferred unless s contains a single quote and no double quote.
func QuoteString(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(quote)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, `\x%02x`, s[i])
			i++
			continue
		}
		i += size

		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < utf8.RuneSelf || unicode.IsPrint(r):
			b.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
