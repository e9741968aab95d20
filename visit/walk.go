package visit

import (
	"reflect"
	"strings"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
)

// WalkFunc is called for every member reached by Walk. path is the dotted
// member path from the root, e.g. "Server.Addr".
type WalkFunc func(path string, m introspect.Member, v reflect.Value) error

// SkipMember returned by a WalkFunc stops descent into the current member
// without stopping the walk.
var SkipMember = errors.New(errors.PhaseVisit, errors.KindInvalidInput).Detail("skip member").Build()

// Walk calls fn for every member of v and then descends into members that
// are aggregates themselves, including through non-nil pointers. Members
// that are not aggregates are leaves.
func Walk(v any, fn WalkFunc) error {
	return WalkWith(introspect.Default(), v, fn)
}

// WalkWith is Walk using the given Reflectable.
func WalkWith(r introspect.Reflectable, v any, fn WalkFunc) error {
	rv, shape, err := resolve(r, v)
	if err != nil {
		return err
	}
	w := &walker{r: r, fn: fn, seen: map[uintptr]struct{}{}}
	return w.walk(rv, shape, nil)
}

type walker struct {
	r    introspect.Reflectable
	fn   WalkFunc
	seen map[uintptr]struct{} // pointers already descended into
}

func (w *walker) walk(rv reflect.Value, shape *introspect.Shape, path []string) error {
	for i, m := range shape.Members {
		fv := rv.Field(m.Index)
		memberPath := append(append([]string{}, path...), memberLabel(m, i))

		err := w.fn(strings.Join(memberPath, "."), m, fv)
		if err == SkipMember {
			continue
		}
		if err != nil {
			return errors.WithPath(errors.PhaseVisit, err, memberPath...)
		}

		target := fv
		if target.Kind() == reflect.Pointer {
			if target.IsNil() {
				continue
			}
			if _, cycle := w.seen[target.Pointer()]; cycle {
				continue
			}
			w.seen[target.Pointer()] = struct{}{}
			target = target.Elem()
		}
		if target.Kind() != reflect.Struct {
			continue
		}
		nested, err := w.r.ShapeOf(target.Type())
		if err != nil {
			// Opaque structs are leaves.
			continue
		}
		if err := w.walk(target, nested, memberPath); err != nil {
			return err
		}
	}
	return nil
}
