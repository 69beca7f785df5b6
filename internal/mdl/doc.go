// Package mdl parses MDL scene-description scripts.
//
// An MDL script is line oriented: every non-blank line holds one command
// followed by its arguments, and `//` starts a comment. Parsing produces a
// list of commands and a table of named symbols (lighting constants,
// lights, knobs, saved coordinate systems). Both are kept as ordered,
// loosely typed values so they can be rendered in the same literal form
// the compiled-code file has always used.
//
// Parsing never evaluates anything. Knob values, transforms and lighting
// are left for whichever stage consumes the result.
package mdl
