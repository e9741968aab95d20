package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Phase names the facility that failed.
type Phase string

const (
	PhaseIntrospect Phase = "introspect" // aggregate shape discovery
	PhaseTypeList   Phase = "typelist"   // type list algebra
	PhaseAccess     Phase = "access"     // tuple/variant element access
	PhaseVisit      Phase = "visit"      // structural visitation
	PhaseEncode     Phase = "encode"     // Go to binary
	PhaseDecode     Phase = "decode"     // binary to Go
	PhaseLoad       Phase = "load"       // static package loading
	PhaseRender     Phase = "render"     // repr/WIT rendering
)

// Kind categorizes the failure.
type Kind string

const (
	KindNotAggregate Kind = "not_aggregate"
	KindAmbiguous    Kind = "ambiguous"
	KindNotFound     Kind = "not_found"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindTypeMismatch Kind = "type_mismatch"
	KindBadAccess    Kind = "bad_access"
	KindValueless    Kind = "valueless"
	KindInvalidData  Kind = "invalid_data"
	KindOverflow     Kind = "overflow"
	KindUnsupported  Kind = "unsupported"
	KindNilPointer   Kind = "nil_pointer"
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error returned by every rsl package.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error renders as "phase: kind at path (type T): detail: cause".
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Phase))
	b.WriteString(": ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(FormatPath(e.Path))
	}
	if e.GoType != "" {
		b.WriteString(" (type ")
		b.WriteString(e.GoType)
		b.WriteByte(')')
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// FormatPath joins member names with dots and renders positional
// elements as indices: ["Items", "2", "Name"] becomes "Items[2].Name".
func FormatPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if _, err := strconv.Atoi(p); err == nil {
			b.WriteByte('[')
			b.WriteString(p)
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Phase and Kind. An empty Phase or Kind in target matches
// any value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return (t.Phase == "" || e.Phase == t.Phase) && (t.Kind == "" || e.Kind == t.Kind)
}

// Diagnostics flattens err, which may combine several errors with
// multierr, into its structured errors. Errors that are not *Error are
// dropped.
func Diagnostics(err error) []*Error {
	var out []*Error
	for _, e := range multierr.Errors(err) {
		var se *Error
		if stderrors.As(e, &se) {
			out = append(out, se)
		}
	}
	return out
}

// Builder assembles an Error field by field.
type Builder struct {
	err Error
}

func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the message, formatting it when args are given.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// NotAggregate reports a type outside the introspectable domain.
func NotAggregate(phase Phase, path []string, goType, reason string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotAggregate,
		Path:   path,
		GoType: goType,
		Detail: reason,
	}
}

// TypeMismatch reports a value of type got where want was required.
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: got,
		Detail: fmt.Sprintf("expected %s", want),
	}
}

// BadAccess reports a variant queried as an alternative that is not active.
func BadAccess(path []string, requested string, active int) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindBadAccess,
		Path:   path,
		GoType: requested,
		Detail: fmt.Sprintf("wrong alternative (active index %d)", active),
		Value:  active,
	}
}

// Valueless reports access to a tuple or variant that holds no value.
func Valueless(path []string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindValueless,
		Path:   path,
		Detail: "holds no value",
	}
}

func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Ambiguous reports a by-type lookup that matched more than one position.
func Ambiguous(phase Phase, goType string, count int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAmbiguous,
		GoType: goType,
		Detail: fmt.Sprintf("type occurs %d times", count),
		Value:  count,
	}
}

// Unsupported reports a Go kind the facility cannot handle.
func Unsupported(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: "unsupported kind",
	}
}

func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// Overflow reports a decoded value too large for its target type.
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		GoType: targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput reports a bad argument to an API call.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap attaches phase, kind and detail to an error from another package.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns a copy of err with prefix prepended to its path.
// Errors that are not *Error are wrapped as invalid data.
func WithPath(phase Phase, err error, prefix ...string) *Error {
	e, ok := err.(*Error)
	if !ok {
		return &Error{
			Phase: phase,
			Kind:  KindInvalidData,
			Path:  prefix,
			Cause: err,
		}
	}
	cp := *e
	cp.Path = append(append([]string{}, prefix...), e.Path...)
	return &cp
}
