package value

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

// ToCty converts a supported value into its cty equivalent. Lists and tuples
// become cty tuples, since MDL sequences mix numbers and strings. Dicts become
// objects. None becomes a null string so that the JSON encoder renders a plain
// null rather than a dynamic-type wrapper.
func ToCty(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.String), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case float32:
		return floatToCty(float64(t))
	case float64:
		return floatToCty(t)
	case string:
		return cty.StringVal(t), nil
	case List:
		return seqToCty([]any(t))
	case []any:
		return seqToCty(t)
	case Tuple:
		return seqToCty([]any(t))
	case *Dict:
		if t.Len() == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, t.Len())
		for _, k := range t.Keys() {
			raw, _ := t.Get(k)
			cv, err := ToCty(raw)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, &UnsupportedTypeError{Value: v}
	}
}

func seqToCty(items []any) (cty.Value, error) {
	if len(items) == 0 {
		return cty.EmptyTupleVal, nil
	}
	out := make([]cty.Value, 0, len(items))
	for _, item := range items {
		cv, err := ToCty(item)
		if err != nil {
			return cty.NilVal, err
		}
		out = append(out, cv)
	}
	return cty.TupleVal(out), nil
}

// floatToCty rejects infinities and NaN, which have no HCL or JSON literal.
func floatToCty(f float64) (cty.Value, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return cty.NilVal, fmt.Errorf("cannot represent non-finite number %s", FormatFloat(f))
	}
	return cty.NumberFloatVal(f), nil
}
