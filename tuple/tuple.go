package tuple

import (
	"reflect"
	"strconv"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/internal/equal"
	"github.com/wippyai/rsl/internal/lifecycle"
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/typelist"
)

// Tuple is a dynamically typed tuple over a Type List.
type Tuple struct {
	types     typelist.List
	storage   reflect.Value // addressable struct, field i holds element i
	destroyed bool
}

// StorageType returns the struct type used to hold a tuple over l.
// Element i lives in field "Fi". It panics if l holds an invalid Type.
func StorageType(l typelist.List) reflect.Type {
	fields := make([]reflect.StructField, l.Len())
	for i := range fields {
		t := l.At(i)
		if !t.Valid() {
			panic(errors.InvalidInput(errors.PhaseAccess,
				"tuple element "+strconv.Itoa(i)+" has no type"))
		}
		fields[i] = reflect.StructField{
			Name: "F" + strconv.Itoa(i),
			Type: t.Reflect(),
		}
	}
	return reflect.StructOf(fields)
}

// New builds a tuple holding the zero value of each type in l, running
// Init hooks in list order.
func New(l typelist.List) *Tuple {
	tp := &Tuple{
		types:   l,
		storage: reflect.New(StorageType(l)).Elem(),
	}
	for i := 0; i < l.Len(); i++ {
		lifecycle.Construct(tp.storage.Field(i))
	}
	return tp
}

// Make builds a tuple from values. The element types are the dynamic
// types of the values; Init hooks are not run on copied values.
func Make(values ...any) (*Tuple, error) {
	for i, v := range values {
		if v == nil {
			return nil, errors.NilPointer(errors.PhaseAccess, []string{strconv.Itoa(i)}, "nil")
		}
	}
	l := typelist.TypesOf(values...)
	tp := &Tuple{
		types:   l,
		storage: reflect.New(StorageType(l)).Elem(),
	}
	for i, v := range values {
		tp.storage.Field(i).Set(reflect.ValueOf(v))
	}
	return tp, nil
}

func (tp *Tuple) Len() int {
	return tp.types.Len()
}

// Types returns the tuple's Type List.
func (tp *Tuple) Types() typelist.List {
	return tp.types
}

func (tp *Tuple) check(i int) error {
	if tp.destroyed {
		return errors.Valueless([]string{strconv.Itoa(i)})
	}
	if i < 0 || i >= tp.types.Len() {
		return errors.OutOfBounds(errors.PhaseAccess, nil, i, tp.types.Len())
	}
	return nil
}

// Get returns element i.
func (tp *Tuple) Get(i int) (any, error) {
	if err := tp.check(i); err != nil {
		return nil, err
	}
	return tp.storage.Field(i).Interface(), nil
}

// Field returns the addressable storage of element i.
func (tp *Tuple) Field(i int) (reflect.Value, error) {
	if err := tp.check(i); err != nil {
		return reflect.Value{}, err
	}
	return tp.storage.Field(i), nil
}

// Set stores v as element i. The dynamic type of v must be the element type.
func (tp *Tuple) Set(i int, v any) error {
	if err := tp.check(i); err != nil {
		return err
	}
	want := tp.types.At(i)
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		// nil is accepted for element types that have a nil value.
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			tp.storage.Field(i).SetZero()
			return nil
		}
		return errors.TypeMismatch(errors.PhaseAccess, []string{strconv.Itoa(i)}, "nil", want.String())
	}
	if got := typelist.FromReflect(rv.Type()); got != want {
		if want.Kind() != reflect.Interface || !rv.Type().Implements(want.Reflect()) {
			return errors.TypeMismatch(errors.PhaseAccess, []string{strconv.Itoa(i)}, got.String(), want.String())
		}
	}
	tp.storage.Field(i).Set(rv)
	return nil
}

// Index returns the position of t, or typelist.NotFound when t is absent
// or appears more than once.
func (tp *Tuple) Index(t typelist.Type) int {
	return typelist.IndexOfUnique(tp.types, t)
}

// GetAs returns element i as a T.
func GetAs[T any](tp *Tuple, i int) (T, error) {
	var zero T
	if err := tp.check(i); err != nil {
		return zero, err
	}
	v, ok := tp.storage.Field(i).Interface().(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseAccess, []string{strconv.Itoa(i)},
			tp.types.At(i).String(), typelist.TypeOf[T]().String())
	}
	return v, nil
}

// GetByType returns the unique element of type T.
func GetByType[T any](tp *Tuple) (T, error) {
	var zero T
	t := typelist.TypeOf[T]()
	i, err := typelist.Lookup(tp.types, t)
	if err != nil {
		return zero, err
	}
	return GetAs[T](tp, i)
}

// Shape describes the tuple storage as an aggregate. Tuple elements have
// no names, so every Member carries introspect.NameUnavailable.
func (tp *Tuple) Shape() *introspect.Shape {
	st := tp.storage.Type()
	members := make([]introspect.Member, st.NumField())
	for i := range members {
		f := st.Field(i)
		members[i] = introspect.Member{
			Type:   tp.types.At(i),
			Name:   introspect.NameUnavailable,
			Offset: f.Offset,
			Index:  i,
		}
	}
	return &introspect.Shape{
		Type:    typelist.FromReflect(st),
		Members: members,
	}
}

// Values returns a copy of the elements in order. A destroyed tuple has none.
func (tp *Tuple) Values() []any {
	if tp.destroyed {
		return nil
	}
	out := make([]any, tp.types.Len())
	for i := range out {
		out[i] = tp.storage.Field(i).Interface()
	}
	return out
}

// Equal reports whether o has the same types and equal elements.
func (tp *Tuple) Equal(o *Tuple) bool {
	if tp == o {
		return true
	}
	if o == nil || tp.destroyed != o.destroyed || !tp.types.Equal(o.types) {
		return false
	}
	if tp.destroyed {
		return true
	}
	for i := 0; i < tp.types.Len(); i++ {
		if !equal.Values(tp.storage.Field(i), o.storage.Field(i)) {
			return false
		}
	}
	return true
}

// Destroy runs Destroy hooks in reverse list order. Later calls do nothing.
func (tp *Tuple) Destroy() {
	if tp.destroyed {
		return
	}
	tp.destroyed = true
	for i := tp.types.Len() - 1; i >= 0; i-- {
		lifecycle.Destruct(tp.storage.Field(i))
	}
}

// Destroyed reports whether Destroy has run.
func (tp *Tuple) Destroyed() bool {
	return tp.destroyed
}
