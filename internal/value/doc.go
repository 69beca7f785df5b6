// Package value models the loosely typed data an MDL parse produces: an
// ordered dictionary, lists, tuples and scalars. Values can be rendered in
// the Python literal form the compiled-code file has always used, and
// converted to cty values for the structured encoders.
//
// The closed set of supported Go types is:
//
//   - nil (rendered as None)
//   - bool
//   - int
//   - float64
//   - string
//   - List and []any
//   - Tuple
//   - *Dict
package value
