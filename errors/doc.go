// Package errors provides structured error types for the rsl module.
//
// Errors are categorized by Phase (the facility that failed) and Kind. An
// Error also carries the member path, the Go type name and a cause chain.
//
//	err := errors.New(errors.PhaseIntrospect, errors.KindNotAggregate).
//		Path("Config", "Inner").
//		GoType("*Inner").
//		Detail("embedded pointer").
//		Build()
//	// introspect: not_aggregate at Config.Inner (type *Inner): embedded pointer
//
// Convenience constructors cover the common cases:
//
//	err := errors.OutOfBounds(errors.PhaseAccess, path, 3, 2)
//	err := errors.BadAccess(path, "int", 1)
//
// Is matches on Phase and Kind only, so a template error works as a
// target. Leave either field empty to match any value:
//
//	errors.Is(err, &errors.Error{Phase: errors.PhaseAccess, Kind: errors.KindBadAccess})
//	errors.Is(err, &errors.Error{Kind: errors.KindNotAggregate})
//
// Introspection reports every rejected member at once, combined with
// go.uber.org/multierr. Diagnostics splits such an error back apart.
package errors
