package witgen

import (
	"sync"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/rsl/internal/layout"
)

// Layout is the canonical ABI memory layout of a WIT type.
type Layout struct {
	// Offsets holds record field or tuple element offsets in order; it is
	// nil for other types.
	Offsets []uintptr
	Size    uintptr
	Align   uintptr
	// PayloadOffset is the payload position of variants, options, results
	// and enums after the discriminant.
	PayloadOffset uintptr
}

// Calculator computes canonical ABI layouts, caching type definitions.
type Calculator struct {
	mu    sync.Mutex
	cache map[*wit.TypeDef]Layout
}

func NewCalculator() *Calculator {
	return &Calculator{cache: make(map[*wit.TypeDef]Layout)}
}

var defaultCalculator = NewCalculator()

// LayoutOf computes the layout of t with a shared Calculator.
func LayoutOf(t wit.Type) Layout {
	return defaultCalculator.Calculate(t)
}

func (c *Calculator) Calculate(t wit.Type) Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calculate(t)
}

func (c *Calculator) calculate(t wit.Type) Layout {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return scalar(1)
	case wit.U16, wit.S16:
		return scalar(2)
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return scalar(4)
	case wit.U64, wit.S64, wit.F64:
		return scalar(8)
	case wit.String:
		return Layout{Size: 8, Align: 4} // ptr, len
	case *wit.TypeDef:
		return c.typeDef(typ)
	default:
		return Layout{Align: 1}
	}
}

func scalar(n uintptr) Layout {
	return Layout{Size: n, Align: n}
}

func (c *Calculator) info(t wit.Type) layout.Info {
	l := c.calculate(t)
	return layout.Info{Size: l.Size, Align: l.Align}
}

func (c *Calculator) typeDef(t *wit.TypeDef) Layout {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var out Layout
	switch kind := t.Kind.(type) {
	case *wit.Record:
		members := make([]layout.Info, len(kind.Fields))
		for i, f := range kind.Fields {
			members[i] = c.info(f.Type)
		}
		out = fromRecord(layout.Sequential(members))
	case *wit.Tuple:
		members := make([]layout.Info, len(kind.Types))
		for i, typ := range kind.Types {
			members[i] = c.info(typ)
		}
		out = fromRecord(layout.Sequential(members))
	case *wit.Variant:
		cases := make([]layout.Info, 0, len(kind.Cases))
		for _, cs := range kind.Cases {
			if cs.Type != nil {
				cases = append(cases, c.info(cs.Type))
			}
		}
		out = c.tagged(len(kind.Cases), cases)
	case *wit.Enum:
		size := layout.DiscriminantSize(len(kind.Cases))
		out = Layout{Size: size, Align: size}
	case *wit.Option:
		out = c.tagged(2, []layout.Info{c.info(kind.Type)})
	case *wit.Result:
		var cases []layout.Info
		if kind.OK != nil {
			cases = append(cases, c.info(kind.OK))
		}
		if kind.Err != nil {
			cases = append(cases, c.info(kind.Err))
		}
		out = c.tagged(2, cases)
	case *wit.List:
		out = Layout{Size: 8, Align: 4}
	case *wit.Flags:
		out = flags(len(kind.Flags))
	case wit.Type:
		out = c.calculate(kind)
	default:
		out = Layout{Align: 1}
	}

	c.cache[t] = out
	return out
}

func (c *Calculator) tagged(numCases int, payloads []layout.Info) Layout {
	disc := layout.DiscriminantSize(numCases)
	if len(payloads) == 0 {
		return Layout{Size: disc, Align: disc, PayloadOffset: disc}
	}
	u := layout.Union(disc, payloads)
	return Layout{Size: u.Size, Align: u.Align, PayloadOffset: u.PayloadOffset}
}

func fromRecord(r layout.Record) Layout {
	return Layout{Offsets: r.Offsets, Size: r.Size, Align: r.Align}
}

func flags(n int) Layout {
	switch {
	case n == 0:
		return Layout{Align: 1}
	case n <= 8:
		return scalar(1)
	case n <= 16:
		return scalar(2)
	default:
		return Layout{Size: uintptr((n+31)/32) * 4, Align: 4}
	}
}
