// Package static computes aggregate shapes from Go source.
//
// It is the go/types counterpart of introspect.Inspector: the same domain
// rules, the same tag handling, the same Summary output, but driven by
// type-checked packages instead of a running program. Offsets come from a
// types.Sizes for the target platform, so shapes for another GOARCH can be
// computed without cross-compiling.
//
//	in := static.NewInspector(nil) // gc sizes for runtime.GOARCH
//	sums, err := in.Load(ctx, static.LoadConfig{
//	    Patterns: []string{"./..."},
//	    Types:    []string{"Point"},
//	})
package static

import (
	"fmt"
	"go/types"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
)

// Inspector builds introspect.Summary values from go/types objects.
type Inspector struct {
	sizes          types.Sizes
	explicitSizes  bool
	logger         *zap.Logger
	tagKey         string
	skipUnexported bool
}

// NewInspector creates an Inspector using sizes for layout. A nil sizes
// selects the gc compiler sizes of the running architecture, and Load
// then uses the sizes the build system reports for each package.
// Explicit sizes take precedence over the build system's.
func NewInspector(sizes types.Sizes) *Inspector {
	explicit := sizes != nil
	if sizes == nil {
		sizes = types.SizesFor("gc", runtime.GOARCH)
	}
	return &Inspector{
		sizes:         sizes,
		explicitSizes: explicit,
		tagKey:        introspect.DefaultTagKey,
	}
}

// WithTagKey sets the struct tag key used for renames ("name") and skips ("-").
func (in *Inspector) WithTagKey(key string) *Inspector {
	in.tagKey = key
	return in
}

// WithSkipUnexported drops unexported fields instead of rejecting the type.
func (in *Inspector) WithSkipUnexported(skip bool) *Inspector {
	in.skipUnexported = skip
	return in
}

func (in *Inspector) WithLogger(l *zap.Logger) *Inspector {
	in.logger = l
	return in
}

func (in *Inspector) log() *zap.Logger {
	if in.logger != nil {
		return in.logger
	}
	return introspect.Logger()
}

// Field is a summarized member together with its source type.
type Field struct {
	Name     string
	Type     types.Type
	Embedded bool
}

// SummaryOf returns the shape summary of a named struct type.
func (in *Inspector) SummaryOf(named *types.Named) (introspect.Summary, error) {
	sum, _, err := in.summarize(named, in.sizes)
	return sum, err
}

// FieldsOf returns the members of a named struct type in the order
// SummaryOf reports them, with their go/types types.
func (in *Inspector) FieldsOf(named *types.Named) ([]Field, error) {
	_, fields, err := in.summarize(named, in.sizes)
	return fields, err
}

func (in *Inspector) summarize(named *types.Named, sizes types.Sizes) (introspect.Summary, []Field, error) {
	typeName := qualifiedName(named)

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return introspect.Summary{}, nil, errors.NotAggregate(errors.PhaseIntrospect, nil, typeName,
			fmt.Sprintf("underlying type %s is not a struct", typeString(named.Underlying())))
	}

	var problems error
	reject := func(field, reason string) {
		problems = multierr.Append(problems,
			errors.NotAggregate(errors.PhaseIntrospect, []string{typeName, field}, typeName, reason))
	}

	fields := make([]*types.Var, st.NumFields())
	for i := range fields {
		fields[i] = st.Field(i)
	}
	offsets := sizes.Offsetsof(fields)

	members := make([]introspect.MemberSummary, 0, len(fields))
	kept := make([]Field, 0, len(fields))
	declared := make(map[string]struct{}, len(fields))
	var embeds []*types.Struct

	for i, f := range fields {
		if f.Name() == "_" {
			continue
		}
		declared[f.Name()] = struct{}{}

		tag := reflect.StructTag(st.Tag(i)).Get(in.tagKey)
		if tag == "-" {
			continue
		}

		if f.Embedded() {
			switch u := f.Type().Underlying().(type) {
			case *types.Pointer:
				reject(f.Name(), "embedded pointer "+typeString(f.Type()))
				continue
			case *types.Interface:
				reject(f.Name(), "embedded interface "+typeString(f.Type()))
				continue
			case *types.Struct:
				embeds = append(embeds, u)
			}
		}

		if !f.Exported() {
			if in.skipUnexported {
				continue
			}
			reject(f.Name(), "unexported field")
			continue
		}

		name := f.Name()
		if tag != "" {
			name = tag
		}

		members = append(members, introspect.MemberSummary{
			Name:     name,
			Type:     typeString(f.Type()),
			Offset:   uintptr(offsets[i]),
			Size:     uintptr(sizes.Sizeof(f.Type())),
			Align:    uintptr(sizes.Alignof(f.Type())),
			Embedded: f.Embedded(),
		})
		kept = append(kept, Field{Name: name, Type: f.Type(), Embedded: f.Embedded()})
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
		return introspect.Summary{}, nil, problems
	}

	return introspect.Summary{
		Name:    typeName,
		Members: members,
		Size:    uintptr(sizes.Sizeof(named)),
		Align:   uintptr(sizes.Alignof(named)),
	}, kept, nil
}

func promotedCollisions(embeds []*types.Struct, declared map[string]struct{}) []string {
	if len(embeds) < 2 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, e := range embeds {
		for j := 0; j < e.NumFields(); j++ {
			name := e.Field(j).Name()
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

func qualifiedName(named *types.Named) string {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Name() + "." + obj.Name()
}

// typeString renders t the way typelist names runtime types in
// Qualified mode, so summaries from both mechanisms compare equal.
func typeString(t types.Type) string {
	switch t := t.(type) {
	case *types.Basic:
		return types.Typ[t.Kind()].Name()
	case *types.Named:
		if t.TypeArgs().Len() > 0 {
			return types.TypeString(t, packageName)
		}
		return qualifiedName(t)
	case *types.Alias:
		return typeString(types.Unalias(t))
	case *types.Pointer:
		return "*" + typeString(t.Elem())
	case *types.Slice:
		return "[]" + typeString(t.Elem())
	case *types.Array:
		return "[" + strconv.FormatInt(t.Len(), 10) + "]" + typeString(t.Elem())
	case *types.Map:
		return "map[" + typeString(t.Key()) + "]" + typeString(t.Elem())
	case *types.Chan:
		switch t.Dir() {
		case types.RecvOnly:
			return "<-chan " + typeString(t.Elem())
		case types.SendOnly:
			return "chan<- " + typeString(t.Elem())
		default:
			return "chan " + typeString(t.Elem())
		}
	case *types.Struct:
		var b strings.Builder
		b.WriteString("struct{")
		for i := 0; i < t.NumFields(); i++ {
			if i > 0 {
				b.WriteString("; ")
			}
			f := t.Field(i)
			if !f.Embedded() {
				b.WriteString(f.Name())
				b.WriteByte(' ')
			}
			b.WriteString(typeString(f.Type()))
		}
		b.WriteByte('}')
		return b.String()
	default:
		return types.TypeString(t, packageName)
	}
}

func packageName(p *types.Package) string {
	return p.Name()
}
