package repr

import (
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/tuple"
	"github.com/wippyai/rsl/typelist"
	"github.com/wippyai/rsl/variant"
)

// String renders v.
func String(v any, opts ...Option) string {
	o := buildOptions(opts)
	p := newPrinter(o, newPalette(io.Discard, o.Color))
	p.value(reflect.ValueOf(v))
	return p.out.String()
}

// Fprint renders v to w followed by a newline. With ColorAuto, styling is
// enabled when w is a terminal.
func Fprint(w io.Writer, v any, opts ...Option) error {
	o := buildOptions(opts)
	p := newPrinter(o, newPalette(w, o.Color))
	p.value(reflect.ValueOf(v))
	p.out.WriteByte('\n')
	if _, err := io.WriteString(w, p.out.String()); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindInvalidData, err, "write repr")
	}
	return nil
}

var (
	tupleType   = reflect.TypeFor[*tuple.Tuple]()
	variantType = reflect.TypeFor[*variant.Variant]()
)

type printer struct {
	out      strings.Builder
	opts     Options
	pal      palette
	visiting map[uintptr]struct{} // pointers on the current path
	level    int
	separate bool
}

func newPrinter(o Options, pal palette) *printer {
	return &printer{opts: o, pal: pal, visiting: map[uintptr]struct{}{}}
}

func (p *printer) indent() {
	if p.opts.Indent {
		p.out.WriteByte('\n')
		p.out.WriteString(strings.Repeat("  ", p.level))
	}
}

func (p *printer) separator() {
	if p.separate {
		p.out.WriteByte(',')
		if !p.opts.Indent {
			p.out.WriteByte(' ')
		}
	} else {
		p.separate = true
	}
	if p.level > 0 {
		p.indent()
	}
}

func (p *printer) open() {
	p.separate = false
	p.out.WriteByte('{')
	p.level++
}

func (p *printer) close(empty bool) {
	p.level--
	if !empty {
		p.indent()
	}
	p.out.WriteByte('}')
	p.separate = true
}

func (p *printer) typeName(rt reflect.Type) {
	p.out.WriteString(p.pal.render(p.pal.typ, typelist.FromReflect(rt).Name(p.opts.Names)))
}

func (p *printer) keyword(s string) {
	p.out.WriteString(p.pal.render(p.pal.keyword, s))
}

func (p *printer) number(s string) {
	p.out.WriteString(p.pal.render(p.pal.number, s))
}

func (p *printer) str(s string) {
	p.out.WriteString(p.pal.render(p.pal.str, s))
}

func (p *printer) opaque(rt reflect.Type) {
	p.typeName(rt)
	p.out.WriteString("{/*...*/}")
}

func (p *printer) value(v reflect.Value) {
	if !v.IsValid() {
		p.keyword("nil")
		return
	}

	switch v.Type() {
	case tupleType:
		if !v.IsNil() {
			p.tuple(v.Interface().(*tuple.Tuple))
			return
		}
	case variantType:
		if !v.IsNil() {
			p.variant(v.Interface().(*variant.Variant))
			return
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		p.keyword(strconv.FormatBool(v.Bool()))
	case reflect.Int32:
		if p.opts.Runes {
			p.str(strconv.QuoteRune(rune(v.Int())))
			return
		}
		p.number(strconv.FormatInt(v.Int(), 10))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int64:
		p.number(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		p.number(strconv.FormatUint(v.Uint(), 10) + "U")
	case reflect.Float32:
		p.number(formatFloat(v.Float(), 32) + "F")
	case reflect.Float64:
		p.number(formatFloat(v.Float(), 64))
	case reflect.Complex64:
		p.number(strconv.FormatComplex(v.Complex(), 'g', -1, 64))
	case reflect.Complex128:
		p.number(strconv.FormatComplex(v.Complex(), 'g', -1, 128))
	case reflect.String:
		p.str(strconv.Quote(v.String()))
	case reflect.Pointer:
		p.pointer(v)
	case reflect.Interface:
		if v.IsNil() {
			p.keyword("nil")
			return
		}
		p.value(v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			p.keyword("nil")
			return
		}
		p.sequence(v)
	case reflect.Array:
		p.sequence(v)
	case reflect.Map:
		if v.IsNil() {
			p.keyword("nil")
			return
		}
		p.mapping(v)
	case reflect.Struct:
		p.aggregate(v)
	default:
		p.opaque(v.Type())
	}
}

// formatFloat keeps a decimal point on integral values so 2.0 does not
// read as an integer literal.
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

func (p *printer) pointer(v reflect.Value) {
	if v.IsNil() {
		p.keyword("nil")
		return
	}
	addr := v.Pointer()
	if _, cycle := p.visiting[addr]; cycle {
		p.out.WriteString("&/*cycle*/")
		return
	}
	p.visiting[addr] = struct{}{}
	defer delete(p.visiting, addr)

	p.out.WriteByte('&')
	p.value(v.Elem())
}

func (p *printer) sequence(v reflect.Value) {
	p.typeName(v.Type())
	p.open()
	for i := 0; i < v.Len(); i++ {
		p.separator()
		p.value(v.Index(i))
	}
	p.close(v.Len() == 0)
}

func (p *printer) mapping(v reflect.Value) {
	type entry struct {
		key string
		k   reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		kp := newPrinter(p.opts, palette{})
		kp.value(iter.Key())
		entries = append(entries, entry{key: kp.out.String(), k: iter.Key()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	p.typeName(v.Type())
	p.open()
	for _, e := range entries {
		p.separator()
		p.value(e.k)
		p.out.WriteString(": ")
		p.nested(v.MapIndex(e.k))
	}
	p.close(len(entries) == 0)
}

// nested prints v as a member value, keeping the separator state of the
// enclosing aggregate.
func (p *printer) nested(v reflect.Value) {
	sep := p.separate
	p.value(v)
	p.separate = sep
}

func (p *printer) aggregate(v reflect.Value) {
	shape, err := p.opts.inspector.ShapeOf(v.Type())
	if err != nil {
		p.opaque(v.Type())
		return
	}

	p.typeName(v.Type())
	p.open()
	for _, m := range shape.Members {
		p.separator()
		if !p.opts.Positional && m.HasName() {
			p.out.WriteString(p.pal.render(p.pal.member, m.Name))
			p.out.WriteString(": ")
		}
		p.nested(v.Field(m.Index))
	}
	p.close(shape.Len() == 0)
}

func (p *printer) typeList(prefix string, l typelist.List) {
	names := make([]string, l.Len())
	for i := range names {
		names[i] = l.At(i).Name(p.opts.Names)
	}
	p.out.WriteString(p.pal.render(p.pal.typ, prefix+"["+strings.Join(names, ", ")+"]"))
}

func (p *printer) tuple(tp *tuple.Tuple) {
	p.typeList("tuple", tp.Types())
	values := tp.Values()
	p.open()
	for _, val := range values {
		p.separator()
		p.nested(reflect.ValueOf(val))
	}
	p.close(len(values) == 0)
}

func (p *printer) variant(v *variant.Variant) {
	p.typeList("variant", v.Alternatives())
	p.open()
	if !v.Valueless() {
		p.separator()
		rv, _ := v.Field(v.Index())
		p.nested(rv)
	}
	p.close(v.Valueless())
}
