package static

import (
	"context"
	"go/types"
	"runtime"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
)

// LoadConfig selects the packages and types to summarize.
type LoadConfig struct {
	// Dir is the working directory for the build system; empty means the
	// current directory.
	Dir string
	// Patterns are package patterns as accepted by go list.
	Patterns []string
	// Types restricts the result to these type names. When empty every
	// aggregate struct type declared at package scope is summarized and
	// non-aggregates are skipped.
	Types []string
	// Tests includes test packages.
	Tests bool
}

const loadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedTypesSizes

type job struct {
	named *types.Named
	sizes types.Sizes
}

// Resolve type-checks the configured packages and returns the selected
// named types without summarizing them.
func (in *Inspector) Resolve(ctx context.Context, cfg LoadConfig) ([]*types.Named, error) {
	jobs, err := in.resolve(ctx, cfg)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Named, len(jobs))
	for i, j := range jobs {
		out[i] = j.named
	}
	return out, nil
}

func (in *Inspector) resolve(ctx context.Context, cfg LoadConfig) ([]job, error) {
	if len(cfg.Patterns) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "no package patterns")
	}

	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Dir:     cfg.Dir,
		Mode:    loadMode,
		Tests:   cfg.Tests,
	}, cfg.Patterns...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "load packages")
	}

	var loadErrs error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErrs = multierr.Append(loadErrs, e)
		}
	}
	if loadErrs != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, loadErrs, "type-check packages")
	}

	wanted := make(map[string]bool, len(cfg.Types))
	for _, name := range cfg.Types {
		wanted[name] = false
	}

	var jobs []job
	for _, pkg := range pkgs {
		sizes := pkg.TypesSizes
		if sizes == nil || in.explicitSizes {
			sizes = in.sizes
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok {
				continue
			}
			if len(cfg.Types) > 0 {
				if _, want := wanted[name]; !want {
					continue
				}
				wanted[name] = true
			} else if _, isStruct := named.Underlying().(*types.Struct); !isStruct {
				continue
			}
			jobs = append(jobs, job{named: named, sizes: sizes})
		}
		in.log().Debug("package loaded",
			zap.String("package", pkg.PkgPath),
			zap.Int("types", scope.Len()))
	}

	for _, name := range cfg.Types {
		if !wanted[name] {
			return nil, errors.NotFound(errors.PhaseLoad, "type", name)
		}
	}
	return jobs, nil
}

// Loaded is a summarized type together with its declaration.
type Loaded struct {
	Named   *types.Named
	Summary introspect.Summary
}

// PkgPath returns the import path of the declaring package.
func (l Loaded) PkgPath() string {
	if pkg := l.Named.Obj().Pkg(); pkg != nil {
		return pkg.Path()
	}
	return ""
}

// Load type-checks the configured packages and summarizes the selected
// struct types. Summaries are ordered by package, then by type name.
func (in *Inspector) Load(ctx context.Context, cfg LoadConfig) ([]introspect.Summary, error) {
	loaded, err := in.LoadTypes(ctx, cfg)
	if err != nil {
		return nil, err
	}
	out := make([]introspect.Summary, len(loaded))
	for i, l := range loaded {
		out[i] = l.Summary
	}
	return out, nil
}

// LoadTypes is Load keeping each summary paired with its named type, so
// types from same-named packages stay distinct.
func (in *Inspector) LoadTypes(ctx context.Context, cfg LoadConfig) ([]Loaded, error) {
	jobs, err := in.resolve(ctx, cfg)
	if err != nil {
		return nil, err
	}

	results := make([]introspect.Summary, len(jobs))
	failed := make([]error, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, _, err := in.summarize(j.named, j.sizes)
			if err != nil {
				failed[i] = err
				return nil
			}
			results[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Loaded, 0, len(jobs))
	var rejected error
	for i := range jobs {
		if failed[i] == nil {
			out = append(out, Loaded{Named: jobs[i].named, Summary: results[i]})
			continue
		}
		if len(cfg.Types) == 0 {
			in.log().Debug("type skipped",
				zap.String("type", qualifiedName(jobs[i].named)),
				zap.Error(failed[i]))
			continue
		}
		rejected = multierr.Append(rejected, failed[i])
	}
	if rejected != nil {
		return nil, rejected
	}
	return out, nil
}
