package introspect

import (
	"reflect"

	"github.com/wippyai/rsl/typelist"
)

// NameUnavailable is the Name of a Member whose name could not be recovered.
const NameUnavailable = ""

// Member describes one data member of an aggregate.
type Member struct {
	Type     typelist.Type
	Tag      reflect.StructTag
	Name     string
	Offset   uintptr
	Index    int // position in the struct's declared field list
	Embedded bool
}

// HasName reports whether the member's name was recovered.
func (m Member) HasName() bool {
	return m.Name != NameUnavailable
}

// Shape is the ordered member list of an aggregate type.
type Shape struct {
	Type    typelist.Type
	Members []Member
}

// Reflectable produces Aggregate Shapes.
type Reflectable interface {
	ShapeOf(rt reflect.Type) (*Shape, error)
}

func (s *Shape) Len() int {
	return len(s.Members)
}

// Member returns the i-th member. It panics if i is out of range.
func (s *Shape) Member(i int) Member {
	return s.Members[i]
}

// Lookup finds a member by name.
func (s *Shape) Lookup(name string) (Member, bool) {
	if name == NameUnavailable {
		return Member{}, false
	}
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Types returns the member types in declaration order.
func (s *Shape) Types() typelist.List {
	types := make([]typelist.Type, len(s.Members))
	for i, m := range s.Members {
		types[i] = m.Type
	}
	return typelist.Of(types...)
}

// Summary renders the shape in mechanism-independent form.
func (s *Shape) Summary() Summary {
	sum := Summary{
		Name:    s.Type.String(),
		Size:    s.Type.Size(),
		Align:   s.Type.Align(),
		Members: make([]MemberSummary, len(s.Members)),
	}
	for i, m := range s.Members {
		sum.Members[i] = MemberSummary{
			Name:     m.Name,
			Type:     m.Type.String(),
			Offset:   m.Offset,
			Size:     m.Type.Size(),
			Align:    m.Type.Align(),
			Embedded: m.Embedded,
		}
	}
	return sum
}

// Summary is a printable shape that any Reflectable mechanism can produce.
type Summary struct {
	Name    string
	Members []MemberSummary
	Size    uintptr
	Align   uintptr
}

type MemberSummary struct {
	Name     string
	Type     string
	Offset   uintptr
	Size     uintptr
	Align    uintptr
	Embedded bool
}
