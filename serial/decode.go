package serial

import (
	"bufio"
	"bytes"
	"encoding/binary"
	goerrors "errors"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/typelist"
)

// MaxLength bounds decoded string, slice and map lengths.
const MaxLength = 1 << 28

// Unmarshal decodes data into the value ptr points to. All of data must
// be consumed.
func Unmarshal(data []byte, ptr any) error {
	r := bytes.NewReader(data)
	d := NewDecoder(r)
	if err := d.Decode(ptr); err != nil {
		return err
	}
	if r.Len() > 0 {
		return errors.InvalidData(errors.PhaseDecode, nil,
			strconv.Itoa(r.Len())+" trailing bytes")
	}
	return nil
}

// byteStream is what the decoder reads from.
type byteStream interface {
	io.Reader
	io.ByteReader
}

// Decoder reads encoded values from a stream.
type Decoder struct {
	r         byteStream
	inspector introspect.Reflectable
	read      int
}

// NewDecoder returns a decoder reading from r. Readers without ReadByte
// are buffered, so the decoder may read past the last value.
func NewDecoder(r io.Reader) *Decoder {
	bs, ok := r.(byteStream)
	if !ok {
		bs = bufio.NewReader(r)
	}
	return &Decoder{r: bs, inspector: introspect.Default()}
}

// WithInspector sets the Reflectable used for struct shapes.
func (d *Decoder) WithInspector(r introspect.Reflectable) *Decoder {
	d.inspector = r
	return d
}

// Decode reads one value into the value ptr points to.
func (d *Decoder) Decode(ptr any) error {
	rv := reflect.ValueOf(ptr)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NilPointer(errors.PhaseDecode, nil, typeName(rv))
	}
	d.read = 0
	if err := d.decode(rv.Elem(), nil); err != nil {
		return err
	}
	Logger().Debug("value decoded",
		zap.Stringer("type", rv.Type().Elem()),
		zap.Int("bytes", d.read))
	return nil
}

func typeName(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}
	return rv.Type().String()
}

func (d *Decoder) ReadByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == nil {
		d.read++
	}
	return b, err
}

func (d *Decoder) fail(path []string, err error) error {
	if goerrors.Is(err, io.EOF) || goerrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).
			Detail("unexpected end of input").
			Cause(err).
			Build()
	}
	if goerrors.Is(err, ErrOverflow) {
		return errors.New(errors.PhaseDecode, errors.KindOverflow).
			Path(path...).
			Detail("varint exceeds 64 bits").
			Cause(err).
			Build()
	}
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).Path(path...).Cause(err).Build()
}

// readChunk bounds how far the buffer grows ahead of the data actually
// read, so a forged length fails at end of input instead of allocating.
const readChunk = 64 << 10

func (d *Decoder) bytes(n int, path []string) ([]byte, error) {
	out := make([]byte, 0, min(n, readChunk))
	for len(out) < n {
		step := min(n-len(out), readChunk)
		out = slices.Grow(out, step)
		m, err := io.ReadFull(d.r, out[len(out):len(out)+step])
		d.read += m
		out = out[:len(out)+m]
		if err != nil {
			return nil, d.fail(path, err)
		}
	}
	return out, nil
}

func (d *Decoder) length(path []string) (int, error) {
	n, err := ReadUvarint(d)
	if err != nil {
		return 0, d.fail(path, err)
	}
	if n > MaxLength {
		return 0, errors.Overflow(errors.PhaseDecode, path, n, "length")
	}
	return int(n), nil
}

func (d *Decoder) decode(v reflect.Value, path []string) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := d.ReadByte()
		if err != nil {
			return d.fail(path, err)
		}
		if b > 1 {
			return errors.InvalidData(errors.PhaseDecode, path, "bool byte "+strconv.Itoa(int(b)))
		}
		v.SetBool(b == 1)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := ReadVarint(d)
		if err != nil {
			return d.fail(path, err)
		}
		if v.OverflowInt(n) {
			return errors.Overflow(errors.PhaseDecode, path, n, v.Type().String())
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := ReadUvarint(d)
		if err != nil {
			return d.fail(path, err)
		}
		if v.OverflowUint(n) {
			return errors.Overflow(errors.PhaseDecode, path, n, v.Type().String())
		}
		v.SetUint(n)
	case reflect.Float32:
		b, err := d.bytes(4, path)
		if err != nil {
			return err
		}
		v.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(b))))
	case reflect.Float64:
		b, err := d.bytes(8, path)
		if err != nil {
			return err
		}
		v.SetFloat(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	case reflect.Complex64:
		b, err := d.bytes(8, path)
		if err != nil {
			return err
		}
		re := math.Float32frombits(binary.LittleEndian.Uint32(b[:4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
		v.SetComplex(complex(float64(re), float64(im)))
	case reflect.Complex128:
		b, err := d.bytes(16, path)
		if err != nil {
			return err
		}
		re := math.Float64frombits(binary.LittleEndian.Uint64(b[:8]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(b[8:]))
		v.SetComplex(complex(re, im))
	case reflect.String:
		n, err := d.length(path)
		if err != nil {
			return err
		}
		b, err := d.bytes(n, path)
		if err != nil {
			return err
		}
		v.SetString(string(b))
	case reflect.Slice:
		return d.slice(v, path)
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := d.decode(v.Index(i), appendPath(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
	case reflect.Map:
		return d.mapping(v, path)
	case reflect.Pointer:
		b, err := d.ReadByte()
		if err != nil {
			return d.fail(path, err)
		}
		switch b {
		case 0:
			v.SetZero()
		case 1:
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			return d.decode(v.Elem(), path)
		default:
			return errors.InvalidData(errors.PhaseDecode, path, "presence byte "+strconv.Itoa(int(b)))
		}
	case reflect.Struct:
		shape, err := d.inspector.ShapeOf(v.Type())
		if err != nil {
			return errors.WithPath(errors.PhaseDecode, err, path...)
		}
		for _, m := range shape.Members {
			if err := d.decode(v.Field(m.Index), appendPath(path, m.Name)); err != nil {
				return err
			}
		}
	default:
		return errors.Unsupported(errors.PhaseDecode, path, typelist.FromReflect(v.Type()).String())
	}
	return nil
}

func (d *Decoder) slice(v reflect.Value, path []string) error {
	n, err := d.length(path)
	if err != nil {
		return err
	}
	if n == 0 {
		v.SetZero()
		return nil
	}
	if v.Type().Elem().Kind() == reflect.Uint8 {
		b, err := d.bytes(n, path)
		if err != nil {
			return err
		}
		v.SetBytes(b)
		return nil
	}
	// Grow as elements arrive so a forged length cannot force a huge
	// allocation up front.
	out := reflect.MakeSlice(v.Type(), 0, min(n, 1024))
	elem := reflect.New(v.Type().Elem()).Elem()
	for i := 0; i < n; i++ {
		elem.SetZero()
		if err := d.decode(elem, appendPath(path, strconv.Itoa(i))); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	v.Set(out)
	return nil
}

func (d *Decoder) mapping(v reflect.Value, path []string) error {
	n, err := d.length(path)
	if err != nil {
		return err
	}
	m := reflect.MakeMapWithSize(v.Type(), min(n, 1024))
	key := reflect.New(v.Type().Key()).Elem()
	val := reflect.New(v.Type().Elem()).Elem()
	for i := 0; i < n; i++ {
		key.SetZero()
		val.SetZero()
		if err := d.decode(key, appendPath(path, "key")); err != nil {
			return err
		}
		if err := d.decode(val, appendPath(path, "value")); err != nil {
			return err
		}
		m.SetMapIndex(key, val)
	}
	v.Set(m)
	return nil
}
