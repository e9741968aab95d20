package serial

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/typelist"
)

// Marshal encodes v.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encoder writes encoded values to a stream.
type Encoder struct {
	w         io.Writer
	inspector introspect.Reflectable
	buf       bytes.Buffer
	active    map[pointerKey]bool // pointers on the current path
}

type pointerKey struct {
	addr uintptr
	typ  reflect.Type
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, inspector: introspect.Default()}
}

// WithInspector sets the Reflectable used for struct shapes.
func (e *Encoder) WithInspector(r introspect.Reflectable) *Encoder {
	e.inspector = r
	return e
}

// Encode writes one value. Nothing is written when encoding fails.
func (e *Encoder) Encode(v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return errors.NilPointer(errors.PhaseEncode, nil, "nil")
	}
	e.buf.Reset()
	clear(e.active)
	if err := e.encode(&e.buf, rv, nil); err != nil {
		return err
	}
	n, err := e.w.Write(e.buf.Bytes())
	if err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "write")
	}
	Logger().Debug("value encoded",
		zap.Stringer("type", rv.Type()),
		zap.Int("bytes", n))
	return nil
}

func (e *Encoder) encode(buf *bytes.Buffer, v reflect.Value, path []string) error {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		WriteVarint(buf, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		WriteUvarint(buf, v.Uint())
	case reflect.Float32:
		buf.Write(binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(v.Float()))))
	case reflect.Float64:
		buf.Write(binary.LittleEndian.AppendUint64(nil, math.Float64bits(v.Float())))
	case reflect.Complex64:
		c := v.Complex()
		buf.Write(binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(real(c)))))
		buf.Write(binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(imag(c)))))
	case reflect.Complex128:
		c := v.Complex()
		buf.Write(binary.LittleEndian.AppendUint64(nil, math.Float64bits(real(c))))
		buf.Write(binary.LittleEndian.AppendUint64(nil, math.Float64bits(imag(c))))
	case reflect.String:
		WriteUvarint(buf, uint64(v.Len()))
		buf.WriteString(v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			WriteUvarint(buf, uint64(v.Len()))
			buf.Write(v.Bytes())
			return nil
		}
		WriteUvarint(buf, uint64(v.Len()))
		return e.elements(buf, v, path)
	case reflect.Array:
		return e.elements(buf, v, path)
	case reflect.Map:
		return e.mapping(buf, v, path)
	case reflect.Pointer:
		if v.IsNil() {
			buf.WriteByte(0)
			return nil
		}
		key := pointerKey{addr: v.Pointer(), typ: v.Type()}
		if e.active[key] {
			return errors.New(errors.PhaseEncode, errors.KindUnsupported).
				Path(path...).
				GoType(typelist.FromReflect(v.Type()).String()).
				Detail("pointer cycle").
				Build()
		}
		if e.active == nil {
			e.active = make(map[pointerKey]bool)
		}
		e.active[key] = true
		defer delete(e.active, key)
		buf.WriteByte(1)
		return e.encode(buf, v.Elem(), path)
	case reflect.Struct:
		return e.aggregate(buf, v, path)
	default:
		return errors.Unsupported(errors.PhaseEncode, path, typelist.FromReflect(v.Type()).String())
	}
	return nil
}

func (e *Encoder) elements(buf *bytes.Buffer, v reflect.Value, path []string) error {
	for i := 0; i < v.Len(); i++ {
		if err := e.encode(buf, v.Index(i), appendPath(path, strconv.Itoa(i))); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) aggregate(buf *bytes.Buffer, v reflect.Value, path []string) error {
	shape, err := e.inspector.ShapeOf(v.Type())
	if err != nil {
		return errors.WithPath(errors.PhaseEncode, err, path...)
	}
	for _, m := range shape.Members {
		if err := e.encode(buf, v.Field(m.Index), appendPath(path, m.Name)); err != nil {
			return err
		}
	}
	return nil
}

// mapping writes pairs ordered by their encoded keys, so equal maps
// produce equal bytes.
func (e *Encoder) mapping(buf *bytes.Buffer, v reflect.Value, path []string) error {
	type pair struct {
		key, val []byte
	}
	pairs := make([]pair, 0, v.Len())

	var scratch bytes.Buffer
	iter := v.MapRange()
	for iter.Next() {
		scratch.Reset()
		if err := e.encode(&scratch, iter.Key(), appendPath(path, "key")); err != nil {
			return err
		}
		key := bytes.Clone(scratch.Bytes())
		scratch.Reset()
		if err := e.encode(&scratch, iter.Value(), appendPath(path, "value")); err != nil {
			return err
		}
		pairs = append(pairs, pair{key: key, val: bytes.Clone(scratch.Bytes())})
	}

	sort.Slice(pairs, func(i, j int) bool { return bytes.Compare(pairs[i].key, pairs[j].key) < 0 })
	WriteUvarint(buf, uint64(len(pairs)))
	for _, p := range pairs {
		buf.Write(p.key)
		buf.Write(p.val)
	}
	return nil
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}
