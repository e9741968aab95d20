package witgen

import (
	"go/types"
	"runtime"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect/static"
)

// StaticGenerator converts type-checked Go types to WIT types, following
// the same mapping as Generator. Struct members come from a
// static.Inspector, so renames and skips match its summaries.
type StaticGenerator struct {
	inspector *static.Inspector
	sizes     types.Sizes
	defs      map[*types.Named]*wit.TypeDef
	building  map[*types.Named]bool
}

// NewStaticGenerator creates a StaticGenerator. sizes decides the width of
// int, uint and uintptr; nil means the running architecture.
func NewStaticGenerator(in *static.Inspector, sizes types.Sizes) *StaticGenerator {
	if in == nil {
		in = static.NewInspector(sizes)
	}
	if sizes == nil {
		sizes = types.SizesFor("gc", runtime.GOARCH)
	}
	return &StaticGenerator{
		inspector: in,
		sizes:     sizes,
		defs:      make(map[*types.Named]*wit.TypeDef),
		building:  make(map[*types.Named]bool),
	}
}

// TypeOf returns the WIT type of t.
func (g *StaticGenerator) TypeOf(t types.Type) (wit.Type, error) {
	return g.convert(t, nil)
}

func (g *StaticGenerator) convert(t types.Type, path []string) (wit.Type, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return g.basic(t, path)
	case *types.Pointer:
		inner, err := g.convert(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: inner}}, nil
	case *types.Slice:
		return g.list(t.Elem(), path)
	case *types.Array:
		return g.list(t.Elem(), path)
	case *types.Map:
		key, err := g.convert(t.Key(), path)
		if err != nil {
			return nil, err
		}
		val, err := g.convert(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		pair := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{key, val}}}
		return &wit.TypeDef{Kind: &wit.List{Type: pair}}, nil
	case *types.Named:
		if _, ok := t.Underlying().(*types.Struct); !ok {
			return g.convert(t.Underlying(), path)
		}
		return g.record(t, path)
	default:
		return nil, errors.Unsupported(errors.PhaseRender, path, t.String())
	}
}

func (g *StaticGenerator) list(elem types.Type, path []string) (wit.Type, error) {
	inner, err := g.convert(elem, path)
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: &wit.List{Type: inner}}, nil
}

func (g *StaticGenerator) basic(t *types.Basic, path []string) (wit.Type, error) {
	switch t.Kind() {
	case types.Bool:
		return wit.Bool{}, nil
	case types.Int8:
		return wit.S8{}, nil
	case types.Int16:
		return wit.S16{}, nil
	case types.Int32:
		return wit.S32{}, nil
	case types.Int64:
		return wit.S64{}, nil
	case types.Int:
		if g.sizes.Sizeof(t) == 4 {
			return wit.S32{}, nil
		}
		return wit.S64{}, nil
	case types.Uint8:
		return wit.U8{}, nil
	case types.Uint16:
		return wit.U16{}, nil
	case types.Uint32:
		return wit.U32{}, nil
	case types.Uint64:
		return wit.U64{}, nil
	case types.Uint, types.Uintptr:
		if g.sizes.Sizeof(t) == 4 {
			return wit.U32{}, nil
		}
		return wit.U64{}, nil
	case types.Float32:
		return wit.F32{}, nil
	case types.Float64:
		return wit.F64{}, nil
	case types.String:
		return wit.String{}, nil
	}
	return nil, errors.Unsupported(errors.PhaseRender, path, t.Name())
}

func (g *StaticGenerator) record(named *types.Named, path []string) (wit.Type, error) {
	if td, ok := g.defs[named]; ok {
		return td, nil
	}
	if g.building[named] {
		return nil, errors.New(errors.PhaseRender, errors.KindUnsupported).
			Path(path...).
			GoType(named.String()).
			Detail("recursive type").
			Build()
	}
	g.building[named] = true
	defer delete(g.building, named)

	members, err := g.inspector.FieldsOf(named)
	if err != nil {
		return nil, errors.WithPath(errors.PhaseRender, err, path...)
	}

	fields := make([]wit.Field, len(members))
	for i, m := range members {
		ft, err := g.convert(m.Type, append(append([]string{}, path...), m.Name))
		if err != nil {
			return nil, err
		}
		fields[i] = wit.Field{Name: Kebab(m.Name), Type: ft}
	}

	name := Kebab(named.Obj().Name())
	td := &wit.TypeDef{Name: &name, Kind: &wit.Record{Fields: fields}}
	g.defs[named] = td
	return td, nil
}
