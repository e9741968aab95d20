package introspect

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/typelist"
)

// DefaultTagKey is the struct tag consulted for member renames and skips.
const DefaultTagKey = "rsl"

// Inspector is the reflection-based Reflectable.
type Inspector struct {
	logger         *zap.Logger
	cache          sync.Map // reflect.Type -> *Shape
	tagKey         string
	skipUnexported bool
}

func NewInspector() *Inspector {
	return &Inspector{tagKey: DefaultTagKey}
}

// WithTagKey sets the struct tag key used for renames ("name") and skips ("-").
func (in *Inspector) WithTagKey(key string) *Inspector {
	in.tagKey = key
	in.cache.Clear()
	return in
}

// WithSkipUnexported drops unexported fields instead of rejecting the type.
func (in *Inspector) WithSkipUnexported(skip bool) *Inspector {
	in.skipUnexported = skip
	in.cache.Clear()
	return in
}

// WithLogger sets the logger; nil falls back to the package logger.
func (in *Inspector) WithLogger(l *zap.Logger) *Inspector {
	in.logger = l
	return in
}

func (in *Inspector) log() *zap.Logger {
	if in.logger != nil {
		return in.logger
	}
	return Logger()
}

// ShapeOf returns the Aggregate Shape of rt. A pointer to a struct is
// dereferenced once.
func (in *Inspector) ShapeOf(rt reflect.Type) (*Shape, error) {
	if rt == nil {
		return nil, errors.InvalidInput(errors.PhaseIntrospect, "type cannot be nil")
	}
	if rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Struct {
		rt = rt.Elem()
	}

	if cached, ok := in.cache.Load(rt); ok {
		return cached.(*Shape), nil
	}

	shape, err := in.build(rt)
	if err != nil {
		in.log().Debug("type rejected",
			zap.Stringer("type", rt),
			zap.Error(err))
		return nil, err
	}

	in.log().Debug("shape built",
		zap.Stringer("type", rt),
		zap.Int("members", len(shape.Members)))

	actual, _ := in.cache.LoadOrStore(rt, shape)
	return actual.(*Shape), nil
}

func (in *Inspector) build(rt reflect.Type) (*Shape, error) {
	typeName := typelist.FromReflect(rt).String()

	if rt.Kind() != reflect.Struct {
		return nil, errors.NotAggregate(errors.PhaseIntrospect, nil, typeName,
			fmt.Sprintf("kind %s is not a struct", rt.Kind()))
	}

	var problems error
	reject := func(field, reason string) {
		problems = multierr.Append(problems,
			errors.NotAggregate(errors.PhaseIntrospect, []string{typeName, field}, typeName, reason))
	}

	members := make([]Member, 0, rt.NumField())
	declared := make(map[string]struct{}, rt.NumField())
	var embeds []reflect.StructField

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Name == "_" {
			continue
		}
		declared[f.Name] = struct{}{}

		tag := f.Tag.Get(in.tagKey)
		if tag == "-" {
			continue
		}

		if f.Anonymous {
			switch f.Type.Kind() {
			case reflect.Pointer:
				reject(f.Name, "embedded pointer "+f.Type.String())
				continue
			case reflect.Interface:
				reject(f.Name, "embedded interface "+f.Type.String())
				continue
			case reflect.Struct:
				embeds = append(embeds, f)
			}
		}

		if !f.IsExported() {
			if in.skipUnexported {
				continue
			}
			reject(f.Name, "unexported field")
			continue
		}

		name := f.Name
		if tag != "" {
			name = tag
		}

		members = append(members, Member{
			Type:     typelist.FromReflect(f.Type),
			Tag:      f.Tag,
			Name:     name,
			Offset:   f.Offset,
			Index:    i,
			Embedded: f.Anonymous,
		})
	}

	for _, name := range promotedCollisions(embeds, declared) {
		reject(name, "ambiguous promoted field")
	}

	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m.Name]; dup {
			reject(m.Name, "duplicate member name")
		}
		seen[m.Name] = struct{}{}
	}

	if problems != nil {
		return nil, problems
	}

	return &Shape{
		Type:    typelist.FromReflect(rt),
		Members: members,
	}, nil
}

// promotedCollisions returns field names promoted from more than one
// embedded struct and not shadowed by a field of the outer struct.
func promotedCollisions(embeds []reflect.StructField, declared map[string]struct{}) []string {
	if len(embeds) < 2 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, e := range embeds {
		for j := 0; j < e.Type.NumField(); j++ {
			name := e.Type.Field(j).Name
			if name == "_" {
				continue
			}
			if counts[name] == 0 {
				order = append(order, name)
			}
			counts[name]++
		}
	}
	var out []string
	for _, name := range order {
		if _, shadowed := declared[name]; shadowed {
			continue
		}
		if counts[name] > 1 {
			out = append(out, name)
		}
	}
	return out
}

var defaultInspector = NewInspector()

// Default returns the package-level Inspector used by ShapeOf and ShapeOfValue.
func Default() *Inspector {
	return defaultInspector
}

// ShapeOf returns the Aggregate Shape of T using the default Inspector.
func ShapeOf[T any]() (*Shape, error) {
	return defaultInspector.ShapeOf(reflect.TypeFor[T]())
}

// ShapeOfValue returns the Aggregate Shape of v's dynamic type.
func ShapeOfValue(v any) (*Shape, error) {
	if v == nil {
		return nil, errors.NilPointer(errors.PhaseIntrospect, nil, "nil")
	}
	return defaultInspector.ShapeOf(reflect.TypeOf(v))
}

// MustShapeOf is like ShapeOf but panics on error. It is intended for
// package-level variables over types known to be aggregates.
func MustShapeOf[T any]() *Shape {
	s, err := ShapeOf[T]()
	if err != nil {
		panic(err)
	}
	return s
}
