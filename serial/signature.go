package serial

import (
	"bytes"
	"math/bits"
	"reflect"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/typelist"
)

// Type signature bytes. The top two bits select a category; builtin
// codes set FlagsFollow when pointer flags come after them.
const (
	categoryControl byte = 0b00 << 6
	categorySpecial byte = 0b01 << 6
	categoryFloat   byte = 0b10 << 6
	categoryInteger byte = 0b11 << 6

	signedBit   byte = 1 << 2
	FlagsFollow byte = 1 << 4

	// Pointer flag bytes. HasMore marks every flag byte but the last.
	FlagPointer byte = 1 << 4
	FlagHasMore byte = 1 << 7

	CodeRecordEnd byte = 0b000
	CodeRecord    byte = 0b001
	CodeArray     byte = 0b010
	CodeMap       byte = 0b011
	withNamesBit  byte = 1 << 5
	fixedSizeBit  byte = 1 << 4
)

var specials = [...]reflect.Kind{reflect.Bool, reflect.String, reflect.Complex64, reflect.Complex128}

// TypeSignature describes t in a compact binary form. Builtins take one
// byte: integers encode signedness and log2 of their size, floats log2 of
// their size in words. Records list their members and end with
// CodeRecordEnd; with names, record and member names are included as
// length-prefixed strings. Pointers append flag bytes to the pointee's
// code, outermost pointer last.
func TypeSignature(t typelist.Type, withNames bool) ([]byte, error) {
	return TypeSignatureWith(introspect.Default(), t, withNames)
}

// TypeSignatureWith is TypeSignature using r for struct shapes.
func TypeSignatureWith(r introspect.Reflectable, t typelist.Type, withNames bool) ([]byte, error) {
	if !t.Valid() {
		return nil, errors.InvalidInput(errors.PhaseEncode, "invalid type")
	}
	s := &signer{r: r, withNames: withNames, active: map[reflect.Type]bool{}}
	if err := s.sign(t.Reflect(), nil); err != nil {
		return nil, err
	}
	return s.buf.Bytes(), nil
}

type signer struct {
	r         introspect.Reflectable
	buf       bytes.Buffer
	withNames bool
	active    map[reflect.Type]bool
}

func (s *signer) sign(rt reflect.Type, path []string) error {
	depth := 0
	base := rt
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
		depth++
	}

	if code, ok := builtinCode(base); ok {
		if depth > 0 {
			code |= FlagsFollow
		}
		s.buf.WriteByte(code)
		s.pointerFlags(depth)
		return nil
	}

	switch base.Kind() {
	case reflect.Slice, reflect.Array:
		code := categoryControl | CodeArray
		if base.Kind() == reflect.Array {
			code |= fixedSizeBit
		}
		s.buf.WriteByte(code)
		if base.Kind() == reflect.Array {
			WriteUvarint(&s.buf, uint64(base.Len()))
		}
		if err := s.sign(base.Elem(), appendPath(path, "elem")); err != nil {
			return err
		}
	case reflect.Map:
		s.buf.WriteByte(categoryControl | CodeMap)
		if err := s.sign(base.Key(), appendPath(path, "key")); err != nil {
			return err
		}
		if err := s.sign(base.Elem(), appendPath(path, "value")); err != nil {
			return err
		}
	case reflect.Struct:
		if err := s.record(base, path); err != nil {
			return err
		}
	default:
		return errors.Unsupported(errors.PhaseEncode, path, typelist.FromReflect(rt).String())
	}
	s.pointerFlags(depth)
	return nil
}

func (s *signer) record(rt reflect.Type, path []string) error {
	if s.active[rt] {
		return errors.New(errors.PhaseEncode, errors.KindUnsupported).
			Path(path...).
			GoType(typelist.FromReflect(rt).String()).
			Detail("recursive type").
			Build()
	}
	s.active[rt] = true
	defer delete(s.active, rt)

	shape, err := s.r.ShapeOf(rt)
	if err != nil {
		return errors.WithPath(errors.PhaseEncode, err, path...)
	}

	code := categoryControl | CodeRecord
	if s.withNames {
		code |= withNamesBit
	}
	s.buf.WriteByte(code)
	if s.withNames {
		s.name(typelist.FromReflect(rt).Name(typelist.Unqualified))
	}
	for _, m := range shape.Members {
		if s.withNames {
			s.name(m.Name)
		}
		if err := s.sign(m.Type.Reflect(), appendPath(path, m.Name)); err != nil {
			return err
		}
	}
	s.buf.WriteByte(categoryControl | CodeRecordEnd)
	return nil
}

func (s *signer) name(n string) {
	WriteUvarint(&s.buf, uint64(len(n)))
	s.buf.WriteString(n)
}

func (s *signer) pointerFlags(depth int) {
	for i := depth; i > 0; i-- {
		flag := FlagPointer
		if i > 1 {
			flag |= FlagHasMore
		}
		s.buf.WriteByte(flag)
	}
}

func builtinCode(rt reflect.Type) (byte, bool) {
	for i, k := range specials {
		if rt.Kind() == k {
			return categorySpecial | byte(i), true
		}
	}
	switch rt.Kind() {
	case reflect.Float32, reflect.Float64:
		return categoryFloat | signedBit | byte(bits.TrailingZeros(uint(rt.Size()>>2))), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return categoryInteger | byte(bits.TrailingZeros(uint(rt.Size()))), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return categoryInteger | signedBit | byte(bits.TrailingZeros(uint(rt.Size()))), true
	}
	return 0, false
}
