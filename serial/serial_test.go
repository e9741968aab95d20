package serial

import (
	"bytes"
	goerrors "errors"
	"reflect"
	"runtime"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/typelist"
)

type point struct {
	X, Y int32
}

type document struct {
	Title   string `rsl:"title"`
	Version uint16
	Score   float64
	Ratio   float32
	Flags   [3]bool
	Tags    []string
	Points  []point
	Attrs   map[string]int
	Origin  *point
	Parent  *point
	Blob    []byte
	Scratch int `rsl:"-"`
}

type withChan struct {
	C chan int
}

type hidden struct {
	n int
}

func TestPointBytes(t *testing.T) {
	data, err := Marshal(point{X: 1, Y: -2})
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x02, 0x03}; !bytes.Equal(data, want) {
		t.Errorf("Marshal = %x, want %x", data, want)
	}
}

func TestRoundTrip(t *testing.T) {
	in := document{
		Title:   "spec",
		Version: 3,
		Score:   -1.5,
		Ratio:   0.25,
		Flags:   [3]bool{true, false, true},
		Tags:    []string{"a", "bc"},
		Points:  []point{{1, 2}, {-3, 4}},
		Attrs:   map[string]int{"x": -1, "y": 1 << 40},
		Origin:  &point{7, 8},
		Blob:    []byte{0xde, 0xad},
		Scratch: 99,
	}
	data, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out document
	if err := Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	in.Scratch = 0 // skipped members are not encoded
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip\n got  %+v\n want %+v", out, in)
	}
}

func TestMapEncodingIsDeterministic(t *testing.T) {
	m := map[string]int{}
	for _, k := range []string{"d", "a", "c", "b", "e"} {
		m[k] = len(k)
	}
	first, _ := Marshal(m)
	for i := 0; i < 10; i++ {
		again, _ := Marshal(m)
		if !bytes.Equal(first, again) {
			t.Fatal("map encoding differs between runs")
		}
	}
}

func TestScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		out  any
	}{
		{"int", -12345, new(int)},
		{"uint64", uint64(1 << 63), new(uint64)},
		{"bool", true, new(bool)},
		{"complex", complex(1.5, -2), new(complex128)},
		{"complex64", complex64(complex(0.5, 1)), new(complex64)},
		{"string", "héllo", new(string)},
		{"nested_pointer", &[]int{1}, new(*[]int)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Marshal(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if err := Unmarshal(data, tc.out); err != nil {
				t.Fatal(err)
			}
			if got := reflect.ValueOf(tc.out).Elem().Interface(); !reflect.DeepEqual(got, tc.in) {
				t.Errorf("got %v, want %v", got, tc.in)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind errors.Kind
	}{
		{"nil", nil, errors.KindNilPointer},
		{"chan_member", withChan{}, errors.KindUnsupported},
		{"interface_slice", []any{1}, errors.KindUnsupported},
		{"not_aggregate", hidden{}, errors.KindNotAggregate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Marshal(tc.in)
			var e *errors.Error
			if !goerrors.As(err, &e) || e.Kind != tc.kind {
				t.Errorf("err = %v, want %s", err, tc.kind)
			}
		})
	}
}

func TestEncodeErrorPath(t *testing.T) {
	type outer struct {
		Inner withChan
	}
	_, err := Marshal(outer{})
	var e *errors.Error
	if !goerrors.As(err, &e) || len(e.Path) != 2 || e.Path[0] != "Inner" || e.Path[1] != "C" {
		t.Errorf("err = %v", err)
	}
}

type ring struct {
	V    int
	Next *ring
}

type shared struct {
	A, B *point
}

func TestEncodePointerCycle(t *testing.T) {
	r := &ring{V: 1}
	r.Next = &ring{V: 2, Next: r}

	_, err := Marshal(r)
	if !goerrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindUnsupported}) {
		t.Fatalf("err = %v, want unsupported", err)
	}
	var e *errors.Error
	if goerrors.As(err, &e) && e.Detail != "pointer cycle" {
		t.Errorf("detail = %q", e.Detail)
	}
}

func TestEncodeSharedPointer(t *testing.T) {
	p := &point{X: 1, Y: 2}
	data, err := Marshal(shared{A: p, B: p})
	if err != nil {
		t.Fatal(err)
	}
	var got shared
	if err := Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if *got.A != *p || *got.B != *p {
		t.Errorf("got %+v %+v", *got.A, *got.B)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		into any
		kind errors.Kind
	}{
		{"nil_target", nil, nil, errors.KindNilPointer},
		{"non_pointer", []byte{1}, 5, errors.KindNilPointer},
		{"truncated", []byte{0x02}, new(point), errors.KindInvalidData},
		{"trailing", []byte{0x02, 0x03, 0x00}, new(point), errors.KindInvalidData},
		{"bad_bool", []byte{0x02}, new(bool), errors.KindInvalidData},
		{"bad_presence", []byte{0x05}, new(*int), errors.KindInvalidData},
		{"int8_overflow", []byte{0x80, 0x04}, new(int8), errors.KindOverflow},
		{"varint_overflow", bytes.Repeat([]byte{0xff}, 11), new(uint64), errors.KindOverflow},
		{"huge_length", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, new(string), errors.KindOverflow},
		{"short_string", []byte{0x05, 'a'}, new(string), errors.KindInvalidData},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Unmarshal(tc.data, tc.into)
			var e *errors.Error
			if !goerrors.As(err, &e) || e.Kind != tc.kind {
				t.Errorf("err = %v, want %s", err, tc.kind)
			}
		})
	}
}

// A length prefix near MaxLength with no payload must fail at end of
// input without reserving the claimed size.
func TestDecodeForgedLength(t *testing.T) {
	data := []byte{0x80, 0x80, 0x80, 0x80, 0x01}
	tests := []struct {
		name string
		into any
	}{
		{"string", new(string)},
		{"bytes", new([]byte)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			err := Unmarshal(data, tc.into)
			runtime.ReadMemStats(&after)

			if !goerrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}) {
				t.Fatalf("err = %v, want invalid_data", err)
			}
			if n := after.TotalAlloc - before.TotalAlloc; n > 1<<20 {
				t.Errorf("allocated %d bytes for a truncated input", n)
			}
		})
	}
}

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for i := int32(0); i < 3; i++ {
		if err := enc.Encode(point{X: i, Y: -i}); err != nil {
			t.Fatal(err)
		}
	}

	dec := NewDecoder(&buf)
	for i := int32(0); i < 3; i++ {
		var p point
		if err := dec.Decode(&p); err != nil {
			t.Fatal(err)
		}
		if p.X != i || p.Y != -i {
			t.Errorf("value %d = %+v", i, p)
		}
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	data, _ := Marshal(point{1, 2})
	var p point
	_ = Unmarshal(data, &p)

	entries := logs.FilterMessage("value decoded").All()
	if len(entries) != 1 {
		t.Fatalf("got %d decode entries", len(entries))
	}
	if n := entries[0].ContextMap()["bytes"]; n != int64(2) {
		t.Errorf("bytes = %v", n)
	}
	if logs.FilterMessage("value encoded").Len() != 1 {
		t.Error("missing encode entry")
	}
}

func TestTypeSignatureBuiltins(t *testing.T) {
	tests := []struct {
		typ  typelist.Type
		want byte
	}{
		{typelist.TypeOf[uint8](), 0b1100_0000},
		{typelist.TypeOf[uint16](), 0b1100_0001},
		{typelist.TypeOf[uint32](), 0b1100_0010},
		{typelist.TypeOf[uint64](), 0b1100_0011},
		{typelist.TypeOf[int8](), 0b1100_0100},
		{typelist.TypeOf[int16](), 0b1100_0101},
		{typelist.TypeOf[int32](), 0b1100_0110},
		{typelist.TypeOf[int64](), 0b1100_0111},
		{typelist.TypeOf[float32](), 0b1000_0100},
		{typelist.TypeOf[float64](), 0b1000_0101},
		{typelist.TypeOf[bool](), 0b0100_0000},
		{typelist.TypeOf[string](), 0b0100_0001},
	}
	for _, tc := range tests {
		sig, err := TypeSignature(tc.typ, false)
		if err != nil {
			t.Fatalf("%v: %v", tc.typ, err)
		}
		if len(sig) != 1 || sig[0] != tc.want {
			t.Errorf("%v: signature %08b, want %08b", tc.typ, sig, tc.want)
		}
	}
}

func TestTypeSignaturePointers(t *testing.T) {
	sig, _ := TypeSignature(typelist.TypeOf[*bool](), false)
	if !bytes.Equal(sig, []byte{0b0101_0000, FlagPointer}) {
		t.Errorf("*bool = %08b", sig)
	}
	sig, _ = TypeSignature(typelist.TypeOf[**bool](), false)
	if !bytes.Equal(sig, []byte{0b0101_0000, FlagHasMore | FlagPointer, FlagPointer}) {
		t.Errorf("**bool = %08b", sig)
	}
}

func TestTypeSignatureRecord(t *testing.T) {
	sig, err := TypeSignature(typelist.TypeOf[point](), false)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{CodeRecord, 0b1100_0110, 0b1100_0110, CodeRecordEnd}
	if !bytes.Equal(sig, want) {
		t.Errorf("point = %x, want %x", sig, want)
	}

	named, _ := TypeSignature(typelist.TypeOf[point](), true)
	wantNamed := []byte{CodeRecord | 1<<5, 5, 'p', 'o', 'i', 'n', 't', 1, 'X', 0xc6, 1, 'Y', 0xc6, CodeRecordEnd}
	if !bytes.Equal(named, wantNamed) {
		t.Errorf("named point = %x, want %x", named, wantNamed)
	}

	arr, _ := TypeSignature(typelist.TypeOf[[4]uint8](), false)
	if !bytes.Equal(arr, []byte{CodeArray | 1<<4, 4, 0xc0}) {
		t.Errorf("[4]uint8 = %x", arr)
	}
}

func TestTypeSignatureRejects(t *testing.T) {
	type node struct {
		Next *node
	}
	if _, err := TypeSignature(typelist.TypeOf[node](), false); err == nil {
		t.Error("recursive type should be rejected")
	}
	if _, err := TypeSignature(typelist.TypeOf[chan int](), false); err == nil {
		t.Error("chan should be unsupported")
	}
	if _, err := TypeSignature(typelist.Type{}, false); err == nil {
		t.Error("invalid type should fail")
	}
}
