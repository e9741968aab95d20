// Package repr renders Go values as readable, literal-like strings.
//
// Aggregates print as their type name followed by their members, using the
// shapes computed by the introspect package:
//
//	repr.String(point{X: 1, Y: 2})             // point{X: 1, Y: 2}
//	repr.String(point{X: 1}, repr.Positional()) // point{1, 0}
//	repr.String([]uint8{1})                     // []uint8{1U}
//	repr.String(float32(1.5))                   // 1.5F
//
// Unsigned integers carry a U suffix and float32 values an F suffix, so
// the printed literal keeps its type. Runes are indistinguishable from
// int32 at run time; WithRunes prints every int32 as a quoted rune. Maps
// print in sorted key order. Values with no literal form, such as
// channels, functions and structs that are not aggregates, print as
// Type{/*...*/}.
//
// Tuples and variants print with their own formatters:
//
//	tuple[int, bool]{3, true}
//	variant[int, string]{"x"}
//
// # Color
//
// WithColor styles type names, literals and keywords with lipgloss.
// ColorAuto enables styling only when the destination of Fprint is a
// terminal.
package repr
