package typelist

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// NameMode selects how much package information a canonical name carries.
type NameMode uint8

const (
	Unqualified NameMode = iota
	Qualified
	FullyQualified
)

var modeNames = [...]string{
	Unqualified:    "unqualified",
	Qualified:      "qualified",
	FullyQualified: "fully-qualified",
}

func (m NameMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// CanonicalNamer is implemented by types that choose their own canonical
// name. The method is called on the zero value, so it must not depend on
// state.
type CanonicalNamer interface {
	CanonicalName() string
}

var (
	namerType = reflect.TypeFor[CanonicalNamer]()
	overrides sync.Map // reflect.Type -> string
)

// RegisterName forces the canonical name of rt in every mode.
// Registering the same type again replaces the previous name.
func RegisterName(rt reflect.Type, name string) {
	overrides.Store(rt, name)
}

// UnregisterName removes an override installed by RegisterName.
func UnregisterName(rt reflect.Type) {
	overrides.Delete(rt)
}

func canonicalName(rt reflect.Type, mode NameMode) string {
	if name, ok := overrides.Load(rt); ok {
		return name.(string)
	}

	if rt.Kind() != reflect.Interface && rt.Kind() != reflect.Pointer && rt.Implements(namerType) {
		return reflect.Zero(rt).Interface().(CanonicalNamer).CanonicalName()
	}

	if rt.Name() != "" {
		return qualify(rt, mode)
	}

	switch rt.Kind() {
	case reflect.Pointer:
		return "*" + canonicalName(rt.Elem(), mode)
	case reflect.Slice:
		return "[]" + canonicalName(rt.Elem(), mode)
	case reflect.Array:
		return "[" + strconv.Itoa(rt.Len()) + "]" + canonicalName(rt.Elem(), mode)
	case reflect.Map:
		return "map[" + canonicalName(rt.Key(), mode) + "]" + canonicalName(rt.Elem(), mode)
	case reflect.Chan:
		switch rt.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + canonicalName(rt.Elem(), mode)
		case reflect.SendDir:
			return "chan<- " + canonicalName(rt.Elem(), mode)
		default:
			return "chan " + canonicalName(rt.Elem(), mode)
		}
	case reflect.Struct:
		return structName(rt, mode)
	default:
		return rt.String()
	}
}

func qualify(rt reflect.Type, mode NameMode) string {
	name := rt.Name()
	pkg := rt.PkgPath()
	if pkg == "" || mode == Unqualified {
		return name
	}
	if mode == FullyQualified {
		return pkg + "." + name
	}
	return pkg[strings.LastIndexByte(pkg, '/')+1:] + "." + name
}

func structName(rt reflect.Type, mode NameMode) string {
	var b strings.Builder
	b.WriteString("struct{")
	for i := 0; i < rt.NumField(); i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		f := rt.Field(i)
		if !f.Anonymous {
			b.WriteString(f.Name)
			b.WriteByte(' ')
		}
		b.WriteString(canonicalName(f.Type, mode))
	}
	b.WriteByte('}')
	return b.String()
}
