package repr

import (
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/typelist"
)

// ColorMode selects when output is styled.
type ColorMode uint8

const (
	ColorNever ColorMode = iota
	ColorAlways
	ColorAuto
)

// Options controls rendering.
type Options struct {
	inspector  introspect.Reflectable
	Names      typelist.NameMode
	Color      ColorMode
	Indent     bool
	Positional bool
	Runes      bool
}

// Option configures Options.
type Option func(*Options)

// WithNames selects how type names are qualified.
func WithNames(mode typelist.NameMode) Option {
	return func(o *Options) { o.Names = mode }
}

// WithIndent puts every member on its own line, two spaces per level.
func WithIndent() Option {
	return func(o *Options) { o.Indent = true }
}

// Positional omits member names from aggregates.
func Positional() Option {
	return func(o *Options) { o.Positional = true }
}

// WithRunes prints int32 values as quoted runes.
func WithRunes() Option {
	return func(o *Options) { o.Runes = true }
}

func WithColor(mode ColorMode) Option {
	return func(o *Options) { o.Color = mode }
}

// WithInspector computes aggregate shapes with r instead of the default
// introspect Inspector.
func WithInspector(r introspect.Reflectable) Option {
	return func(o *Options) { o.inspector = r }
}

func buildOptions(opts []Option) Options {
	o := Options{inspector: introspect.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
