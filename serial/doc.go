// Package serial encodes Go values into a compact binary form driven by
// their aggregate shapes.
//
// # Wire Format
//
//	bool                 one byte, 0 or 1
//	int, int8..int64     zigzag LEB128 varint
//	uint..uint64         LEB128 varint
//	float32, float64     IEEE 754, little endian
//	complex64/128        real then imaginary part
//	string, []byte       varint length, then bytes
//	slice                varint length, then elements
//	array                elements, no length
//	map                  varint length, then key/value pairs in key byte order
//	pointer              presence byte (0 nil, 1 set), then the value
//	struct               members in shape order, no names or tags
//
// Structs must be aggregates as defined by package introspect. Interfaces,
// channels and functions are unsupported. Both sides must agree on the Go
// type; the encoding carries no type information. TypeSignature produces a
// separate compact description of a type for that purpose.
//
//	data, err := serial.Marshal(point{X: 1, Y: -2})
//	var p point
//	err = serial.Unmarshal(data, &p)
package serial
