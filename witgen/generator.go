package witgen

import (
	"reflect"
	"sync"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/typelist"
)

// Generator converts Go types to WIT types. Named definitions are
// cached, so a Go type maps to one *wit.TypeDef per Generator.
type Generator struct {
	inspector introspect.Reflectable
	mu        sync.Mutex
	defs      map[reflect.Type]*wit.TypeDef
	building  map[reflect.Type]bool
}

func NewGenerator() *Generator {
	return &Generator{
		inspector: introspect.Default(),
		defs:      make(map[reflect.Type]*wit.TypeDef),
		building:  make(map[reflect.Type]bool),
	}
}

// WithInspector sets the Reflectable used for record members.
func (g *Generator) WithInspector(r introspect.Reflectable) *Generator {
	g.inspector = r
	return g
}

// TypeOf returns the WIT type of t.
func (g *Generator) TypeOf(t typelist.Type) (wit.Type, error) {
	if !t.Valid() {
		return nil, errors.InvalidInput(errors.PhaseRender, "invalid type")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.convert(t.Reflect(), nil)
}

// Record returns the record definition of an aggregate shape.
func (g *Generator) Record(shape *introspect.Shape) (*wit.TypeDef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.record(shape, nil)
}

// Tuple returns an anonymous tuple of the list's types.
func (g *Generator) Tuple(l typelist.List) (*wit.TypeDef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	types, err := g.list(l, nil)
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil
}

// Variant returns an anonymous variant with one case per distinct type in
// l, named after the type.
func (g *Generator) Variant(l typelist.List) (*wit.TypeDef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	alts := typelist.Dedupe(l)
	types, err := g.list(alts, nil)
	if err != nil {
		return nil, err
	}
	cases := make([]wit.Case, len(types))
	seen := make(map[string]int, len(types))
	for i, t := range types {
		name := caseName(alts.At(i))
		if n := seen[name]; n > 0 {
			name += "-" + kebabIndex(n)
		}
		seen[caseName(alts.At(i))]++
		cases[i] = wit.Case{Name: name, Type: t}
	}
	return &wit.TypeDef{Kind: &wit.Variant{Cases: cases}}, nil
}

func caseName(t typelist.Type) string {
	rt := t.Reflect()
	if rt.Name() != "" {
		return Kebab(rt.Name())
	}
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "map"
	case reflect.Pointer:
		return "option"
	case reflect.Struct:
		return "record"
	}
	return Kebab(rt.Kind().String())
}

func kebabIndex(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{letters[n%26]}, out...)
		n /= 26
	}
	return string(out)
}

func (g *Generator) list(l typelist.List, path []string) ([]wit.Type, error) {
	types := make([]wit.Type, l.Len())
	for i := range types {
		t := l.At(i)
		if !t.Valid() {
			return nil, errors.InvalidInput(errors.PhaseRender, "invalid type in list")
		}
		wt, err := g.convert(t.Reflect(), path)
		if err != nil {
			return nil, err
		}
		types[i] = wt
	}
	return types, nil
}

func (g *Generator) convert(rt reflect.Type, path []string) (wit.Type, error) {
	switch rt.Kind() {
	case reflect.Bool:
		return wit.Bool{}, nil
	case reflect.Int8:
		return wit.S8{}, nil
	case reflect.Int16:
		return wit.S16{}, nil
	case reflect.Int32:
		return wit.S32{}, nil
	case reflect.Int64:
		return wit.S64{}, nil
	case reflect.Int:
		if rt.Size() == 4 {
			return wit.S32{}, nil
		}
		return wit.S64{}, nil
	case reflect.Uint8:
		return wit.U8{}, nil
	case reflect.Uint16:
		return wit.U16{}, nil
	case reflect.Uint32:
		return wit.U32{}, nil
	case reflect.Uint64:
		return wit.U64{}, nil
	case reflect.Uint, reflect.Uintptr:
		if rt.Size() == 4 {
			return wit.U32{}, nil
		}
		return wit.U64{}, nil
	case reflect.Float32:
		return wit.F32{}, nil
	case reflect.Float64:
		return wit.F64{}, nil
	case reflect.String:
		return wit.String{}, nil
	case reflect.Pointer:
		inner, err := g.convert(rt.Elem(), path)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: inner}}, nil
	case reflect.Slice, reflect.Array:
		inner, err := g.convert(rt.Elem(), path)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: inner}}, nil
	case reflect.Map:
		key, err := g.convert(rt.Key(), path)
		if err != nil {
			return nil, err
		}
		val, err := g.convert(rt.Elem(), path)
		if err != nil {
			return nil, err
		}
		pair := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{key, val}}}
		return &wit.TypeDef{Kind: &wit.List{Type: pair}}, nil
	case reflect.Struct:
		if td, ok := g.defs[rt]; ok {
			return td, nil
		}
		if g.building[rt] {
			return nil, errors.New(errors.PhaseRender, errors.KindUnsupported).
				Path(path...).
				GoType(typelist.FromReflect(rt).String()).
				Detail("recursive type").
				Build()
		}
		shape, err := g.inspector.ShapeOf(rt)
		if err != nil {
			return nil, errors.WithPath(errors.PhaseRender, err, path...)
		}
		return g.record(shape, path)
	default:
		return nil, errors.Unsupported(errors.PhaseRender, path, typelist.FromReflect(rt).String())
	}
}

func (g *Generator) record(shape *introspect.Shape, path []string) (*wit.TypeDef, error) {
	rt := shape.Type.Reflect()
	if td, ok := g.defs[rt]; ok {
		return td, nil
	}
	g.building[rt] = true
	defer delete(g.building, rt)

	fields := make([]wit.Field, len(shape.Members))
	for i, m := range shape.Members {
		label := m.Name
		if !m.HasName() {
			label = "f" + kebabIndex(i+1)
		}
		ft, err := g.convert(m.Type.Reflect(), append(append([]string{}, path...), label))
		if err != nil {
			return nil, err
		}
		fields[i] = wit.Field{Name: Kebab(label), Type: ft}
	}

	td := &wit.TypeDef{Kind: &wit.Record{Fields: fields}}
	if rt.Name() != "" {
		name := Kebab(rt.Name())
		td.Name = &name
	}
	g.defs[rt] = td
	return td, nil
}
