package errors

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseIntrospect,
				Kind:   KindNotAggregate,
				Path:   []string{"Config", "Inner"},
				GoType: "*Inner",
				Detail: "embedded pointer",
			},
			contains: []string{"introspect: not_aggregate at Config.Inner (type *Inner): embedded pointer"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"decode: out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "load packages",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"load: invalid_data: load packages: underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseAccess,
		Kind:  KindBadAccess,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseAccess, Kind: KindBadAccess}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindBadAccess}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseAccess, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseAccess, Kind: KindBadAccess}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}

	if !errors.Is(err, &Error{Kind: KindBadAccess}) {
		t.Error("empty phase should match any phase")
	}
	if !errors.Is(err, &Error{Phase: PhaseAccess}) {
		t.Error("empty kind should match any kind")
	}
	if errors.Is(err, &Error{Kind: KindValueless}) {
		t.Error("kind-only target should still compare kinds")
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"Addr", "Port"}, "Addr.Port"},
		{[]string{"Items", "2", "Name"}, "Items[2].Name"},
		{[]string{"1"}, "[1]"},
		{[]string{"m", "0", "1"}, "m[0][1]"},
	}
	for _, tt := range tests {
		if got := FormatPath(tt.path); got != tt.want {
			t.Errorf("FormatPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	a := NotAggregate(PhaseIntrospect, []string{"T", "x"}, "T", "unexported field")
	b := NotAggregate(PhaseIntrospect, []string{"T", "y"}, "T", "unexported field")
	plain := errors.New("plain")

	got := Diagnostics(multierr.Combine(a, plain, b))
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Diagnostics = %v", got)
	}
	if got := Diagnostics(nil); got != nil {
		t.Errorf("Diagnostics(nil) = %v", got)
	}
	if got := Diagnostics(a); len(got) != 1 || got[0] != a {
		t.Errorf("Diagnostics(single) = %v", got)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseIntrospect, KindNotAggregate).
		Path("outer", "inner").
		GoType("chan int").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "struct", "chan").
		Build()

	if err.Phase != PhaseIntrospect {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseIntrospect)
	}
	if err.Kind != KindNotAggregate {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNotAggregate)
	}
	if len(err.Path) != 2 || err.Path[0] != "outer" || err.Path[1] != "inner" {
		t.Errorf("Path = %v, want [outer inner]", err.Path)
	}
	if err.GoType != "chan int" {
		t.Errorf("GoType = %v, want 'chan int'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected struct, got chan" {
		t.Errorf("Detail = %v, want 'expected struct, got chan'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseAccess, []string{"[1]"}, "string", "int")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.GoType != "string" || !strings.Contains(err.Detail, "int") {
			t.Errorf("GoType=%v Detail=%v", err.GoType, err.Detail)
		}
	})

	t.Run("BadAccess", func(t *testing.T) {
		err := BadAccess(nil, "bool", 0)
		if err.Kind != KindBadAccess || err.Phase != PhaseAccess {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Value != 0 {
			t.Errorf("Value = %v, want 0", err.Value)
		}
	})

	t.Run("Valueless", func(t *testing.T) {
		if err := Valueless(nil); err.Kind != KindValueless {
			t.Errorf("Kind = %v, want %v", err.Kind, KindValueless)
		}
	})

	t.Run("Ambiguous", func(t *testing.T) {
		err := Ambiguous(PhaseTypeList, "int", 2)
		if err.Kind != KindAmbiguous || err.Value != 2 {
			t.Errorf("got %v value %v", err.Kind, err.Value)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseAccess, []string{"tuple"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseDecode, []string{"val"}, uint64(300), "uint8")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})

	t.Run("NotAggregate", func(t *testing.T) {
		err := NotAggregate(PhaseIntrospect, nil, "int", "not a struct")
		if err.Kind != KindNotAggregate || err.GoType != "int" {
			t.Errorf("got %v %v", err.Kind, err.GoType)
		}
	})
}

func TestWithPath(t *testing.T) {
	inner := OutOfBounds(PhaseDecode, []string{"[3]"}, 3, 2)
	got := WithPath(PhaseDecode, inner, "outer", "items")

	if strings.Join(got.Path, ".") != "outer.items.[3]" {
		t.Errorf("Path = %v", got.Path)
	}
	if strings.Join(inner.Path, ".") != "[3]" {
		t.Errorf("original path mutated: %v", inner.Path)
	}

	plain := errors.New("boom")
	wrapped := WithPath(PhaseVisit, plain, "a")
	if !errors.Is(wrapped, plain) {
		t.Error("plain error should be reachable through Unwrap")
	}
}
