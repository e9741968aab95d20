package variant

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/internal/equal"
	"github.com/wippyai/rsl/internal/lifecycle"
	"github.com/wippyai/rsl/typelist"
)

// Variant is a type-safe tagged union.
type Variant struct {
	alts  typelist.List
	slots []reflect.Value // slot k holds alternative k while it is active
	index int
}

// New returns a variant over the deduplicated alternatives of l holding a
// default-constructed first alternative.
func New(l typelist.List) *Variant {
	v := newEmpty(l)
	if v.alts.Len() > 0 {
		// A failed Init leaves the variant valueless, which New reports
		// through Index rather than an error.
		_ = v.construct(0, reflect.Value{})
	}
	return v
}

// Of returns a variant over l holding val, which must match one of the
// alternatives.
func Of(l typelist.List, val any) (*Variant, error) {
	v := newEmpty(l)
	if err := v.Set(val); err != nil {
		return nil, err
	}
	return v, nil
}

func newEmpty(l typelist.List) *Variant {
	return withSlots(typelist.Dedupe(l))
}

// withSlots allocates one slot per entry of alts, duplicates included.
func withSlots(alts typelist.List) *Variant {
	v := &Variant{
		alts:  alts,
		slots: make([]reflect.Value, alts.Len()),
		index: typelist.NotFound,
	}
	for k := range v.slots {
		t := alts.At(k)
		if !t.Valid() {
			panic(errors.InvalidInput(errors.PhaseAccess,
				"variant alternative "+strconv.Itoa(k)+" has no type"))
		}
		v.slots[k] = reflect.New(t.Reflect()).Elem()
	}
	return v
}

// Alternatives returns the deduplicated alternative list.
func (v *Variant) Alternatives() typelist.List {
	return v.alts
}

func (v *Variant) Len() int {
	return v.alts.Len()
}

// Index returns the active alternative, or typelist.NotFound when the
// variant is valueless.
func (v *Variant) Index() int {
	return v.index
}

// Valueless reports whether the variant holds no alternative.
func (v *Variant) Valueless() bool {
	return v.index == typelist.NotFound
}

// Emplace destroys the current alternative and stores val as alternative k.
// A nil val default-constructs the alternative.
func (v *Variant) Emplace(k int, val any) error {
	if k < 0 || k >= v.alts.Len() {
		return errors.OutOfBounds(errors.PhaseAccess, nil, k, v.alts.Len())
	}
	rv, err := v.convert(k, val)
	if err != nil {
		return err
	}
	v.destroy()
	return v.construct(k, rv)
}

// Set stores val as the alternative of its dynamic type. When no
// alternative has exactly that type, the first interface alternative val
// implements is chosen.
func (v *Variant) Set(val any) error {
	if val == nil {
		return errors.InvalidInput(errors.PhaseAccess, "nil value has no alternative")
	}
	rt := reflect.TypeOf(val)
	k := typelist.IndexOf(v.alts, typelist.FromReflect(rt))
	if k == typelist.NotFound {
		for i := 0; i < v.alts.Len(); i++ {
			alt := v.alts.At(i)
			if alt.Kind() == reflect.Interface && rt.Implements(alt.Reflect()) {
				k = i
				break
			}
		}
	}
	if k == typelist.NotFound {
		return errors.NotFound(errors.PhaseAccess, "alternative", typelist.FromReflect(rt).String())
	}
	v.destroy()
	return v.construct(k, reflect.ValueOf(val))
}

// Get returns alternative k.
func (v *Variant) Get(k int) (any, error) {
	rv, err := v.slot(k)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

// Field returns the addressable storage of alternative k.
func (v *Variant) Field(k int) (reflect.Value, error) {
	return v.slot(k)
}

func (v *Variant) slot(k int) (reflect.Value, error) {
	if k < 0 || k >= v.alts.Len() {
		return reflect.Value{}, errors.OutOfBounds(errors.PhaseAccess, nil, k, v.alts.Len())
	}
	if v.Valueless() {
		return reflect.Value{}, errors.Valueless(nil)
	}
	if k != v.index {
		return reflect.Value{}, errors.BadAccess(nil, v.alts.At(k).String(), v.index)
	}
	return v.slots[k], nil
}

// Value returns the active alternative, or nil when valueless.
func (v *Variant) Value() any {
	if v.Valueless() {
		return nil
	}
	return v.slots[v.index].Interface()
}

// GetAs returns the active alternative as T. T must be one of the
// alternatives and must be active.
func GetAs[T any](v *Variant) (T, error) {
	var zero T
	t := typelist.TypeOf[T]()
	k := typelist.IndexOf(v.alts, t)
	if k == typelist.NotFound {
		return zero, errors.NotFound(errors.PhaseAccess, "alternative", t.String())
	}
	rv, err := v.slot(k)
	if err != nil {
		return zero, err
	}
	val, _ := rv.Interface().(T) // nil interface alternatives yield zero
	return val, nil
}

// HoldsAlternative reports whether T is the active alternative.
func HoldsAlternative[T any](v *Variant) bool {
	k := typelist.IndexOf(v.alts, typelist.TypeOf[T]())
	return k != typelist.NotFound && k == v.index
}

// Visit calls fn with the active alternative.
func (v *Variant) Visit(fn func(k int, val any) error) error {
	if v.Valueless() {
		return errors.Valueless(nil)
	}
	return fn(v.index, v.slots[v.index].Interface())
}

// VisitAll calls fn with the active index and value of every variant.
// It fails without calling fn if any variant is nil or valueless.
func VisitAll(fn func(ks []int, vals []any) error, vs ...*Variant) error {
	ks := make([]int, len(vs))
	vals := make([]any, len(vs))
	for i, v := range vs {
		if v == nil {
			return errors.NilPointer(errors.PhaseAccess, []string{strconv.Itoa(i)}, "*variant.Variant")
		}
		if v.Valueless() {
			return errors.Valueless([]string{strconv.Itoa(i)})
		}
		ks[i] = v.index
		vals[i] = v.slots[v.index].Interface()
	}
	return fn(ks, vals)
}

// Reset destroys the current alternative and default-constructs the first.
func (v *Variant) Reset() error {
	if v.alts.Len() == 0 {
		return nil
	}
	v.destroy()
	return v.construct(0, reflect.Value{})
}

// Destroy destroys the current alternative and leaves the variant valueless.
func (v *Variant) Destroy() {
	v.destroy()
}

// Equal reports whether both variants have the same alternatives, the same
// active index, and equal values. Two valueless variants are equal.
func (v *Variant) Equal(o *Variant) bool {
	if v == o {
		return true
	}
	if o == nil || !v.alts.Equal(o.alts) || v.index != o.index {
		return false
	}
	if v.Valueless() {
		return true
	}
	return equal.Values(v.slots[v.index], o.slots[o.index])
}

func (v *Variant) convert(k int, val any) (reflect.Value, error) {
	if val == nil {
		return reflect.Value{}, nil
	}
	want := v.alts.At(k)
	rv := reflect.ValueOf(val)
	if rv.Type() == want.Reflect() {
		return rv, nil
	}
	if want.Kind() == reflect.Interface && rv.Type().Implements(want.Reflect()) {
		return rv, nil
	}
	return reflect.Value{}, errors.TypeMismatch(errors.PhaseAccess, []string{strconv.Itoa(k)},
		typelist.FromReflect(rv.Type()).String(), want.String())
}

// construct makes alternative k active. An invalid val default-constructs.
func (v *Variant) construct(k int, val reflect.Value) (err error) {
	slot := v.slots[k]
	defer func() {
		if r := recover(); r != nil {
			slot.SetZero()
			v.index = typelist.NotFound
			err = errors.New(errors.PhaseAccess, errors.KindValueless).
				Path(strconv.Itoa(k)).
				GoType(v.alts.At(k).String()).
				Detail("construction panicked: %v", r).
				Value(r).
				Build()
		}
	}()
	if val.IsValid() {
		slot.Set(val)
	} else {
		slot.SetZero()
		lifecycle.Construct(slot)
	}
	v.index = k
	return nil
}

func (v *Variant) destroy() {
	if v.Valueless() {
		return
	}
	slot := v.slots[v.index]
	v.index = typelist.NotFound
	lifecycle.Destruct(slot)
	slot.SetZero()
}

func (v *Variant) String() string {
	if v.Valueless() {
		return "variant<" + v.alts.String() + ">{valueless}"
	}
	return fmt.Sprintf("variant<%s>{%d: %v}", v.alts.String(), v.index, v.slots[v.index].Interface())
}
