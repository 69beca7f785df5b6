// Package encode renders a parse result pair to bytes in one of several
// formats. The default, repr, reproduces the Python literal form of the
// pair. The other formats exist for tooling that wants structured data.
package encode

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/hcl/v2/hclwrite"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"

	"github.com/vk/compyler/internal/value"
)

// Format names an output encoding.
type Format string

const (
	FormatRepr Format = "repr"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
	FormatYAML Format = "yaml"
	FormatSpew Format = "spew"
)

// encoderFunc writes commands and symbols to w.
type encoderFunc func(w io.Writer, commands value.List, symbols *value.Dict) error

var encoders = map[Format]encoderFunc{
	FormatRepr: encodeRepr,
	FormatJSON: encodeJSON,
	FormatHCL:  encodeHCL,
	FormatYAML: encodeYAML,
	FormatSpew: encodeSpew,
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for f := range encoders {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormat validates a format name. Matching is case-insensitive.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("unknown output format %q: must be one of %s", name, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Encode writes the (commands, symbols) pair to w in the given format.
func Encode(format Format, w io.Writer, commands value.List, symbols *value.Dict) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("unknown output format %q", format)
	}
	if symbols == nil {
		symbols = value.NewDict()
	}
	if commands == nil {
		commands = value.List{}
	}
	if err := enc(w, commands, symbols); err != nil {
		return fmt.Errorf("failed to encode %s output: %w", format, err)
	}
	return nil
}

func encodeRepr(w io.Writer, commands value.List, symbols *value.Dict) error {
	s, err := value.Repr(value.Tuple{commands, symbols})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func encodeJSON(w io.Writer, commands value.List, symbols *value.Dict) error {
	pair, err := value.ToCty(value.Tuple{commands, symbols})
	if err != nil {
		return err
	}
	buf, err := ctyjson.SimpleJSONValue{Value: pair}.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func encodeHCL(w io.Writer, commands value.List, symbols *value.Dict) error {
	cmds, err := value.ToCty(commands)
	if err != nil {
		return err
	}
	syms, err := value.ToCty(symbols)
	if err != nil {
		return err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("commands", cmds)
	body.SetAttributeValue("symbols", syms)
	_, err = f.WriteTo(w)
	return err
}

func encodeYAML(w io.Writer, commands value.List, symbols *value.Dict) error {
	cmds, err := yamlNode(commands)
	if err != nil {
		return err
	}
	syms, err := yamlNode(symbols)
	if err != nil {
		return err
	}

	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "commands"}, cmds,
			{Kind: yaml.ScalarNode, Value: "symbols"}, syms,
		},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// yamlNode builds a node tree by hand so that dict keys keep their order.
func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool, int, int64, string:
		n := &yaml.Node{}
		if err := n.Encode(t); err != nil {
			return nil, err
		}
		return n, nil
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			n := &yaml.Node{}
			if err := n.Encode(t); err != nil {
				return nil, err
			}
			return n, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: value.FormatFloat(t)}, nil
	case value.List:
		return yamlSeq([]any(t))
	case []any:
		return yamlSeq(t)
	case value.Tuple:
		return yamlSeq([]any(t))
	case *value.Dict:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range t.Keys() {
			raw, _ := t.Get(k)
			child, err := yamlNode(raw)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, child)
		}
		return n, nil
	default:
		return nil, &value.UnsupportedTypeError{Value: v}
	}
}

func yamlSeq(items []any) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, item := range items {
		child, err := yamlNode(item)
		if err != nil {
			return nil, err
		}
		// Only flat sequences read well in flow style.
		if child.Kind != yaml.ScalarNode {
			n.Style = 0
		}
		n.Content = append(n.Content, child)
	}
	return n, nil
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func encodeSpew(w io.Writer, commands value.List, symbols *value.Dict) error {
	spewConfig.Fdump(w, commands, symbols)
	return nil
}
