package visit

import (
	"reflect"
	"strconv"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/typelist"
)

// Visitor receives each member of an aggregate.
type Visitor interface {
	VisitMember(m introspect.Member, v reflect.Value) error
}

// Func adapts a function to a Visitor.
type Func func(m introspect.Member, v reflect.Value) error

func (f Func) VisitMember(m introspect.Member, v reflect.Value) error {
	return f(m, v)
}

// On returns a Visitor that calls fn for members of type F and ignores
// every other member.
func On[F any](fn func(m introspect.Member, v F) error) Visitor {
	want := typelist.TypeOf[F]()
	return Func(func(m introspect.Member, v reflect.Value) error {
		if m.Type != want {
			return nil
		}
		// A nil interface member yields the zero F.
		val, _ := v.Interface().(F)
		return fn(m, val)
	})
}

// Aggregate is implemented by containers that expose their storage as a
// shape, such as *tuple.Tuple.
type Aggregate interface {
	Shape() *introspect.Shape
	Field(i int) (reflect.Value, error)
}

// Fields calls vis for every member of v in declaration order. v is a
// struct, a pointer to a struct, or an Aggregate.
func Fields(v any, vis Visitor) error {
	return FieldsWith(introspect.Default(), v, vis)
}

// FieldsWith is Fields using the given Reflectable to compute shapes.
func FieldsWith(r introspect.Reflectable, v any, vis Visitor) error {
	if agg, ok := v.(Aggregate); ok {
		return visitAggregate(agg, vis)
	}
	rv, shape, err := resolve(r, v)
	if err != nil {
		return err
	}
	return visitShape(shape, rv, vis, nil)
}

func resolve(r introspect.Reflectable, v any) (reflect.Value, *introspect.Shape, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Value{}, nil, errors.NilPointer(errors.PhaseVisit, nil, "nil")
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, nil, errors.NilPointer(errors.PhaseVisit, nil, rv.Type().String())
		}
		rv = rv.Elem()
	}
	shape, err := r.ShapeOf(rv.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv, shape, nil
}

func visitShape(shape *introspect.Shape, rv reflect.Value, vis Visitor, prefix []string) error {
	for i, m := range shape.Members {
		if err := vis.VisitMember(m, rv.Field(m.Index)); err != nil {
			return errors.WithPath(errors.PhaseVisit, err, append(prefix, memberLabel(m, i))...)
		}
	}
	return nil
}

func visitAggregate(agg Aggregate, vis Visitor) error {
	shape := agg.Shape()
	for i, m := range shape.Members {
		fv, err := agg.Field(i)
		if err != nil {
			return err
		}
		if err := vis.VisitMember(m, fv); err != nil {
			return errors.WithPath(errors.PhaseVisit, err, memberLabel(m, i))
		}
	}
	return nil
}

// memberLabel names a member in paths; unnamed members use their position.
func memberLabel(m introspect.Member, i int) string {
	if m.HasName() {
		return m.Name
	}
	return strconv.Itoa(i)
}
