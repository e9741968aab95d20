package introspect

import (
	goerrors "errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/typelist"
)

type pair struct {
	A int
	B float64
}

type padded struct {
	Flag  bool
	_     [3]byte
	Count int32
	Name  string
	Blob  []byte `rsl:"-"`
	Score float32 `rsl:"score"`
}

type Base struct {
	ID int
}

type Meta struct {
	Version int
}

type withBase struct {
	Base
	Meta
	Label string
}

type Left struct{ X, L int }
type Right struct{ X, R int }

type ambiguous struct {
	Left
	Right
}

type shadowed struct {
	Left
	Right
	X int
}

type withPointerBase struct {
	*Base
	N int
}

type withInterface struct {
	error
	N int
}

type withPrivate struct {
	Public  int
	private int
}

type renamedTwice struct {
	A int `rsl:"x"`
	B int `rsl:"x"`
}

var notAggregate = &errors.Error{Phase: errors.PhaseIntrospect, Kind: errors.KindNotAggregate}

func TestShapeOfPair(t *testing.T) {
	shape, err := ShapeOf[pair]()
	if err != nil {
		t.Fatalf("ShapeOf: %v", err)
	}

	if shape.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", shape.Len())
	}
	m0 := shape.Members[0]
	if m0.Name != "A" || m0.Type != typelist.TypeOf[int]() || m0.Offset != 0 {
		t.Errorf("member 0 = %+v", m0)
	}
	if !m0.HasName() {
		t.Error("member 0 should have a name")
	}
	m1 := shape.Members[1]
	if m1.Name != "B" || m1.Type != typelist.TypeOf[float64]() {
		t.Errorf("member 1 = %+v", m1)
	}
	if shape.Type != typelist.TypeOf[pair]() {
		t.Errorf("shape type = %v", shape.Type)
	}
}

func TestShapeOfEmpty(t *testing.T) {
	shape, err := ShapeOf[struct{}]()
	if err != nil {
		t.Fatalf("ShapeOf: %v", err)
	}
	if shape.Len() != 0 {
		t.Errorf("Len() = %d, want 0", shape.Len())
	}
}

func TestShapeOffsetsMatchDeclaration(t *testing.T) {
	shape, err := ShapeOf[padded]()
	if err != nil {
		t.Fatalf("ShapeOf: %v", err)
	}

	wantNames := []string{"Flag", "Count", "Name", "score"}
	if shape.Len() != len(wantNames) {
		t.Fatalf("Len() = %d, want %d", shape.Len(), len(wantNames))
	}

	rt := reflect.TypeOf(padded{})
	var prev uintptr
	for i, m := range shape.Members {
		if m.Name != wantNames[i] {
			t.Errorf("member %d name = %q, want %q", i, m.Name, wantNames[i])
		}
		if m.Offset < prev {
			t.Errorf("member %d offset %d decreases (prev %d)", i, m.Offset, prev)
		}
		prev = m.Offset
		if m.Offset != rt.Field(m.Index).Offset {
			t.Errorf("member %d offset %d, reflect says %d", i, m.Offset, rt.Field(m.Index).Offset)
		}
	}

	if _, ok := shape.Lookup("Blob"); ok {
		t.Error("skipped member must not be found")
	}
	if m, ok := shape.Lookup("score"); !ok || m.Type != typelist.TypeOf[float32]() {
		t.Errorf("Lookup(score) = %+v, %v", m, ok)
	}
}

func TestShapeOfPointerDereferences(t *testing.T) {
	a, err := ShapeOf[*pair]()
	if err != nil {
		t.Fatalf("ShapeOf: %v", err)
	}
	b, _ := ShapeOf[pair]()
	if a != b {
		t.Error("pointer and value should share the cached shape")
	}
}

func TestShapeOfEmbedded(t *testing.T) {
	shape, err := ShapeOf[withBase]()
	if err != nil {
		t.Fatalf("ShapeOf: %v", err)
	}
	if shape.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", shape.Len())
	}
	if !shape.Members[0].Embedded || shape.Members[0].Name != "Base" {
		t.Errorf("member 0 = %+v", shape.Members[0])
	}
	if shape.Members[2].Embedded {
		t.Error("Label is not embedded")
	}
}

func TestShapeOfShadowedCollision(t *testing.T) {
	if _, err := ShapeOf[shadowed](); err != nil {
		t.Errorf("outer field shadows collision, got %v", err)
	}
}

func TestShapeOfRejects(t *testing.T) {
	tests := []struct {
		name   string
		typ    reflect.Type
		reason string
	}{
		{"int", reflect.TypeOf(0), "not a struct"},
		{"slice", reflect.TypeOf([]pair{}), "not a struct"},
		{"pointer_to_int", reflect.TypeOf(new(int)), "not a struct"},
		{"ambiguous", reflect.TypeOf(ambiguous{}), "ambiguous promoted field"},
		{"embedded_pointer", reflect.TypeOf(withPointerBase{}), "embedded pointer"},
		{"embedded_interface", reflect.TypeOf(withInterface{}), "embedded interface"},
		{"unexported", reflect.TypeOf(withPrivate{}), "unexported field"},
		{"duplicate_rename", reflect.TypeOf(renamedTwice{}), "duplicate member name"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shape, err := NewInspector().ShapeOf(tc.typ)
			if err == nil {
				t.Fatalf("expected error, got shape %+v", shape)
			}
			if !goerrors.Is(err, notAggregate) {
				t.Errorf("err = %v, want not_aggregate", err)
			}
			if !strings.Contains(err.Error(), tc.reason) {
				t.Errorf("err = %v, want reason %q", err, tc.reason)
			}
		})
	}
}

func TestShapeOfReportsEveryProblem(t *testing.T) {
	type broken struct {
		*Base
		error
		hidden int
	}

	_, err := NewInspector().ShapeOf(reflect.TypeOf(broken{}))
	if got := len(multierr.Errors(err)); got != 3 {
		t.Errorf("got %d problems, want 3: %v", got, err)
	}

	var e *errors.Error
	if !goerrors.As(err, &e) || !strings.Contains(e.GoType, "broken") {
		t.Errorf("diagnostic should name the type, got %v", err)
	}
}

func TestSkipUnexported(t *testing.T) {
	in := NewInspector().WithSkipUnexported(true)
	shape, err := in.ShapeOf(reflect.TypeOf(withPrivate{}))
	if err != nil {
		t.Fatalf("ShapeOf: %v", err)
	}
	if shape.Len() != 1 || shape.Members[0].Name != "Public" {
		t.Errorf("members = %+v", shape.Members)
	}
}

func TestWithTagKey(t *testing.T) {
	type tagged struct {
		A int `json:"alpha" rsl:"ignored"`
		B int `json:"-"`
	}
	shape, err := NewInspector().WithTagKey("json").ShapeOf(reflect.TypeOf(tagged{}))
	if err != nil {
		t.Fatalf("ShapeOf: %v", err)
	}
	if shape.Len() != 1 || shape.Members[0].Name != "alpha" {
		t.Errorf("members = %+v", shape.Members)
	}
}

func TestShapeOfNil(t *testing.T) {
	if _, err := NewInspector().ShapeOf(nil); err == nil {
		t.Error("expected error for nil type")
	}
	if _, err := ShapeOfValue(nil); err == nil {
		t.Error("expected error for nil value")
	}
}

func TestShapeOfValue(t *testing.T) {
	shape, err := ShapeOfValue(&pair{A: 1})
	if err != nil {
		t.Fatalf("ShapeOfValue: %v", err)
	}
	if shape.Type != typelist.TypeOf[pair]() {
		t.Errorf("type = %v", shape.Type)
	}
}

func TestShapeTypes(t *testing.T) {
	shape := MustShapeOf[pair]()
	want := typelist.Of(typelist.TypeOf[int](), typelist.TypeOf[float64]())
	if !shape.Types().Equal(want) {
		t.Errorf("Types() = %v, want %v", shape.Types(), want)
	}
}

func TestSummary(t *testing.T) {
	sum := MustShapeOf[pair]().Summary()
	if sum.Name != "introspect.pair" {
		t.Errorf("Name = %q", sum.Name)
	}
	if sum.Size != 16 || sum.Align != 8 {
		t.Errorf("size/align = %d/%d", sum.Size, sum.Align)
	}
	if len(sum.Members) != 2 || sum.Members[1].Type != "float64" || sum.Members[1].Offset != 8 {
		t.Errorf("members = %+v", sum.Members)
	}
}

func TestInspectorLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	in := NewInspector().WithLogger(zap.New(core))

	_, _ = in.ShapeOf(reflect.TypeOf(pair{}))
	_, _ = in.ShapeOf(reflect.TypeOf(pair{})) // cached, no log
	_, _ = in.ShapeOf(reflect.TypeOf(0))

	if n := logs.FilterMessage("shape built").Len(); n != 1 {
		t.Errorf("shape built logged %d times, want 1", n)
	}
	if n := logs.FilterMessage("type rejected").Len(); n != 1 {
		t.Errorf("type rejected logged %d times, want 1", n)
	}
}

func TestInspectorConcurrent(t *testing.T) {
	in := NewInspector()
	var wg sync.WaitGroup
	shapes := make([]*Shape, 16)
	for i := range shapes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := in.ShapeOf(reflect.TypeOf(withBase{}))
			if err != nil {
				t.Error(err)
				return
			}
			shapes[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(shapes); i++ {
		if shapes[i] != shapes[0] {
			t.Fatal("concurrent callers must observe one cached shape")
		}
	}
}

func TestMustShapeOfPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustShapeOf[int] should panic")
		}
	}()
	MustShapeOf[int]()
}
