package value

// List is an ordered sequence of values.
type List []any

// Tuple is a fixed sequence of values. It differs from List only in its
// textual form.
type Tuple []any

// Dict is a string-keyed map that remembers insertion order. Setting an
// existing key replaces its value in place without moving it.
type Dict struct {
	keys []string
	vals map[string]any
}

// NewDict creates an empty Dict.
func NewDict() *Dict {
	return &Dict{vals: make(map[string]any)}
}

// DictOf builds a Dict from alternating key/value pairs. It panics when the
// arguments are malformed, as that is always a programming error.
func DictOf(kv ...any) *Dict {
	if len(kv)%2 != 0 {
		panic("value: DictOf requires an even number of arguments")
	}
	d := NewDict()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("value: DictOf keys must be strings")
		}
		d.Set(key, kv[i+1])
	}
	return d
}

// Set stores v under key.
func (d *Dict) Set(key string, v any) {
	if d.vals == nil {
		d.vals = make(map[string]any)
	}
	if _, exists := d.vals[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Clone returns a deep copy of d. Nested lists, tuples and dicts are copied
// too, so the clone shares no mutable state with the original.
func (d *Dict) Clone() *Dict {
	if d == nil {
		return nil
	}
	out := NewDict()
	for _, k := range d.keys {
		out.Set(k, Clone(d.vals[k]))
	}
	return out
}

// Clone deep-copies any supported value.
func Clone(v any) any {
	switch t := v.(type) {
	case *Dict:
		return t.Clone()
	case List:
		out := make(List, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case Tuple:
		out := make(Tuple, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}
