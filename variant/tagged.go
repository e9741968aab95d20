package variant

import (
	"fmt"
	"reflect"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/typelist"
)

// Tagged is a variant whose alternatives are the members of an aggregate
// shape. Alternatives are addressed by member name; member types are not
// deduplicated.
type Tagged struct {
	shape *introspect.Shape
	tags  map[string]int
	v     *Variant
}

// NewTagged returns a tagged variant over the members of shape holding a
// default-constructed first member. Every member must be named.
func NewTagged(shape *introspect.Shape) (*Tagged, error) {
	if shape == nil {
		return nil, errors.InvalidInput(errors.PhaseAccess, "tagged variant needs a shape")
	}
	tags := make(map[string]int, len(shape.Members))
	for k, m := range shape.Members {
		if !m.HasName() {
			return nil, errors.New(errors.PhaseAccess, errors.KindInvalidInput).
				GoType(shape.Type.String()).
				Detail("member %d has no name to tag", k).
				Build()
		}
		tags[m.Name] = k
	}
	t := &Tagged{
		shape: shape,
		tags:  tags,
		v:     withSlots(shape.Types()),
	}
	if len(shape.Members) > 0 {
		_ = t.v.construct(0, reflect.Value{})
	}
	return t, nil
}

// TaggedOf returns a tagged variant over the members of struct T.
func TaggedOf[T any]() (*Tagged, error) {
	shape, err := introspect.ShapeOf[T]()
	if err != nil {
		return nil, err
	}
	return NewTagged(shape)
}

// Shape returns the shape the tags come from.
func (t *Tagged) Shape() *introspect.Shape {
	return t.shape
}

// Tags returns the tag names in member order.
func (t *Tagged) Tags() []string {
	out := make([]string, len(t.shape.Members))
	for k, m := range t.shape.Members {
		out[k] = m.Name
	}
	return out
}

func (t *Tagged) Len() int {
	return len(t.shape.Members)
}

// Index returns the position of the active tag, or typelist.NotFound.
func (t *Tagged) Index() int {
	return t.v.Index()
}

// Tag returns the active tag, or "" when valueless.
func (t *Tagged) Tag() string {
	if t.v.Valueless() {
		return ""
	}
	return t.shape.Members[t.v.index].Name
}

func (t *Tagged) Valueless() bool {
	return t.v.Valueless()
}

// Emplace destroys the current value and stores val under the k-th tag.
// A nil val default-constructs it.
func (t *Tagged) Emplace(k int, val any) error {
	return t.v.Emplace(k, val)
}

// EmplaceTag is Emplace addressed by tag name.
func (t *Tagged) EmplaceTag(name string, val any) error {
	k, err := t.lookup(name)
	if err != nil {
		return err
	}
	return t.v.Emplace(k, val)
}

// Get returns the value of the k-th tag, which must be active.
func (t *Tagged) Get(k int) (any, error) {
	if k >= 0 && k < t.Len() && !t.v.Valueless() && k != t.v.index {
		return nil, errors.BadAccess(nil, t.shape.Members[k].Name, t.v.index)
	}
	return t.v.Get(k)
}

// GetTag returns the value stored under name, which must be active.
func (t *Tagged) GetTag(name string) (any, error) {
	k, err := t.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.Get(k)
}

// GetTagAs returns the value stored under name as T.
func GetTagAs[T any](t *Tagged, name string) (T, error) {
	var zero T
	val, err := t.GetTag(name)
	if err != nil {
		return zero, err
	}
	if val == nil {
		return zero, nil
	}
	out, ok := val.(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseAccess, []string{name},
			typelist.FromReflect(reflect.TypeOf(val)).String(), typelist.TypeOf[T]().String())
	}
	return out, nil
}

// Value returns the active value, or nil when valueless.
func (t *Tagged) Value() any {
	return t.v.Value()
}

// Visit calls fn with the active tag and its value.
func (t *Tagged) Visit(fn func(tag string, val any) error) error {
	return t.v.Visit(func(k int, val any) error {
		return fn(t.shape.Members[k].Name, val)
	})
}

// Reset destroys the current value and default-constructs the first tag.
func (t *Tagged) Reset() error {
	return t.v.Reset()
}

// Destroy destroys the current value and leaves the variant valueless.
func (t *Tagged) Destroy() {
	t.v.Destroy()
}

// Equal reports whether both variants share a shape, the same active tag
// and equal values.
func (t *Tagged) Equal(o *Tagged) bool {
	if t == o {
		return true
	}
	if o == nil || t.shape.Type != o.shape.Type {
		return false
	}
	return t.v.Equal(o.v)
}

func (t *Tagged) lookup(name string) (int, error) {
	k, ok := t.tags[name]
	if !ok {
		return 0, errors.NotFound(errors.PhaseAccess, "tag", name)
	}
	return k, nil
}

func (t *Tagged) String() string {
	if t.v.Valueless() {
		return "tagged<" + t.shape.Type.String() + ">{valueless}"
	}
	return fmt.Sprintf("tagged<%s>{%s: %v}", t.shape.Type.String(), t.Tag(), t.v.slots[t.v.index].Interface())
}
