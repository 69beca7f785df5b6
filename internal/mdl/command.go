package mdl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/compyler/internal/value"
)

// Command is a single parsed MDL command. Its fields live in an ordered
// dictionary that always starts with "op", so the rendered form lists keys
// in the order the grammar defines them.
type Command struct {
	Op    string
	Range hcl.Range

	fields *value.Dict
}

func newCommand(op string, rng hcl.Range) *Command {
	fields := value.NewDict()
	fields.Set("op", op)
	return &Command{Op: op, Range: rng, fields: fields}
}

// NewCommand builds a command from alternating key/value pairs that follow
// "op". It is mostly useful for constructing expected results in tests.
func NewCommand(op string, kv ...any) *Command {
	c := newCommand(op, hcl.Range{})
	extra := value.DictOf(kv...)
	for _, k := range extra.Keys() {
		v, _ := extra.Get(k)
		c.fields.Set(k, v)
	}
	return c
}

func (c *Command) set(key string, v any) {
	c.fields.Set(key, v)
}

// Get returns a field of the command.
func (c *Command) Get(key string) (any, bool) {
	return c.fields.Get(key)
}

// Args returns the positional arguments, or nil when the command takes none.
func (c *Command) Args() value.List {
	raw, _ := c.fields.Get("args")
	args, _ := raw.(value.List)
	return args
}

// Knob returns the knob the command is scaled by, if any.
func (c *Command) Knob() (string, bool) {
	raw, _ := c.fields.Get("knob")
	name, ok := raw.(string)
	return name, ok
}

// Dict returns a copy of the command's fields.
func (c *Command) Dict() *value.Dict {
	return c.fields.Clone()
}

// SymbolTable maps names to [kind, payload...] entries in definition order.
type SymbolTable struct {
	entries *value.Dict
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: value.NewDict()}
}

// Define binds name to a [kind, payload...] entry, replacing any earlier
// binding in place.
func (s *SymbolTable) Define(name, kind string, payload ...any) {
	entry := make(value.List, 0, len(payload)+1)
	entry = append(entry, kind)
	entry = append(entry, payload...)
	s.entries.Set(name, entry)
}

// Lookup returns the entry bound to name and its kind.
func (s *SymbolTable) Lookup(name string) (kind string, entry value.List, ok bool) {
	raw, ok := s.entries.Get(name)
	if !ok {
		return "", nil, false
	}
	entry = raw.(value.List)
	kind, _ = entry[0].(string)
	return kind, entry, true
}

// Names returns the bound names in definition order.
func (s *SymbolTable) Names() []string {
	return s.entries.Keys()
}

// Len returns the number of bound names.
func (s *SymbolTable) Len() int {
	return s.entries.Len()
}

// Dict returns a copy of the table as an ordered dictionary.
func (s *SymbolTable) Dict() *value.Dict {
	return s.entries.Clone()
}

// SymbolTableFromDict wraps a copy of d as a symbol table without checking
// the shape of its entries. Stub parsers use it to return arbitrary tables.
func SymbolTableFromDict(d *value.Dict) *SymbolTable {
	if d == nil {
		return NewSymbolTable()
	}
	return &SymbolTable{entries: d.Clone()}
}
