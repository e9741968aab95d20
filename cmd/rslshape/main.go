package main

import (
	"context"
	"flag"
	"fmt"
	"go/types"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	rslerrors "github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/introspect/static"
	"github.com/wippyai/rsl/repr"
	"github.com/wippyai/rsl/witgen"
)

func main() {
	var (
		pkgPatterns = flag.String("pkg", "", "Package patterns (comma-separated)")
		typeNames   = flag.String("type", "", "Type names to inspect (comma-separated, default all structs)")
		dir         = flag.String("dir", "", "Working directory for package loading")
		goarch      = flag.String("arch", "", "Target GOARCH for sizes (default host)")
		tests       = flag.Bool("tests", false, "Include test packages")
		showWIT     = flag.Bool("wit", false, "Print the WIT record and its canonical ABI layout")
		dump        = flag.Bool("dump", false, "Dump raw summaries")
		format      = flag.String("format", "table", "Output format: table or yaml")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Development logging to stderr")
	)
	flag.Parse()

	if *pkgPatterns == "" {
		fmt.Fprintln(os.Stderr, "Usage: rslshape -pkg <patterns> [-type A,B] [-arch amd64] [-format yaml] [-wit] [-dump] [-v]")
		fmt.Fprintln(os.Stderr, "       rslshape -pkg <patterns> -i  (interactive mode)")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()
	introspect.SetLogger(logger)

	cfg := options{
		load: static.LoadConfig{
			Dir:      *dir,
			Patterns: splitList(*pkgPatterns),
			Types:    splitList(*typeNames),
			Tests:    *tests,
		},
		arch:   *goarch,
		wit:    *showWIT,
		dump:   *dump,
		format: *format,
	}
	if cfg.format != "table" && cfg.format != "yaml" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", cfg.format)
		os.Exit(1)
	}

	entries, err := load(context.Background(), cfg, logger)
	if err != nil {
		fail(err)
	}

	if *interactive {
		if err := runInteractive(entries, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := report(os.Stdout, entries, cfg); err != nil {
		fail(err)
	}
}

// fail prints one line per structured diagnostic and exits.
func fail(err error) {
	diags := rslerrors.Diagnostics(err)
	if len(diags) <= 1 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %d problems\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "  %v\n", d)
	}
	os.Exit(1)
}

type options struct {
	load   static.LoadConfig
	arch   string
	format string
	wit    bool
	dump   bool
}

// entry is one inspected type.
type entry struct {
	summary introspect.Summary
	pkgPath string
	named   *types.Named
	wit     wit.Type
	layout  witgen.Layout
	witErr  error
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func load(ctx context.Context, cfg options, logger *zap.Logger) ([]entry, error) {
	var sizes types.Sizes
	if cfg.arch != "" {
		sizes = types.SizesFor("gc", cfg.arch)
		if sizes == nil {
			return nil, fmt.Errorf("unknown GOARCH %q", cfg.arch)
		}
	}
	in := static.NewInspector(sizes).WithLogger(logger)

	loaded, err := in.LoadTypes(ctx, cfg.load)
	if err != nil {
		return nil, err
	}
	entries := make([]entry, len(loaded))
	for i, l := range loaded {
		entries[i] = entry{summary: l.Summary, pkgPath: l.PkgPath(), named: l.Named}
	}
	if !cfg.wit {
		return entries, nil
	}

	gen := witgen.NewStaticGenerator(in, sizes)
	calc := witgen.NewCalculator()
	for i := range entries {
		n := entries[i].named
		wt, err := gen.TypeOf(n)
		if err != nil {
			logger.Debug("no WIT form",
				zap.String("package", entries[i].pkgPath),
				zap.String("type", entries[i].summary.Name),
				zap.Error(err))
			entries[i].witErr = err
			continue
		}
		entries[i].wit = wt
		entries[i].layout = calc.Calculate(wt)
	}
	return entries, nil
}

func report(w io.Writer, entries []entry, cfg options) error {
	if cfg.format == "yaml" {
		return reportYAML(w, entries, cfg)
	}
	width := terminalWidth()
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("─", min(width, 60)))
		}
		if err := repr.Table(w, e.summary, repr.WithColor(repr.ColorAuto)); err != nil {
			return err
		}
		if cfg.wit {
			fmt.Fprint(w, witSection(e))
		}
		if cfg.dump {
			pp.ColoringEnabled = false
			if _, err := pp.Fprintln(w, e.summary); err != nil {
				return err
			}
		}
	}
	return nil
}

// yamlType is the YAML form of one entry.
type yamlType struct {
	Name    string       `yaml:"name"`
	Package string       `yaml:"package,omitempty"`
	Size    uintptr      `yaml:"size"`
	Align   uintptr      `yaml:"align"`
	Members []yamlMember `yaml:"members"`
	WIT     *yamlWIT     `yaml:"wit,omitempty"`
}

type yamlMember struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Offset   uintptr `yaml:"offset"`
	Size     uintptr `yaml:"size"`
	Align    uintptr `yaml:"align"`
	Embedded bool    `yaml:"embedded,omitempty"`
}

type yamlWIT struct {
	Type    string    `yaml:"type,omitempty"`
	Size    uintptr   `yaml:"size"`
	Align   uintptr   `yaml:"align"`
	Offsets []uintptr `yaml:"offsets,flow,omitempty"`
	Error   string    `yaml:"error,omitempty"`
}

func reportYAML(w io.Writer, entries []entry, cfg options) error {
	out := make([]yamlType, len(entries))
	for i, e := range entries {
		t := yamlType{Name: e.summary.Name, Package: e.pkgPath, Size: e.summary.Size, Align: e.summary.Align}
		for _, m := range e.summary.Members {
			t.Members = append(t.Members, yamlMember(m))
		}
		switch {
		case !cfg.wit:
		case e.witErr != nil:
			t.WIT = &yamlWIT{Error: e.witErr.Error()}
		case e.wit != nil:
			t.WIT = &yamlWIT{
				Type:    witTypeStr(e.wit),
				Size:    e.layout.Size,
				Align:   e.layout.Align,
				Offsets: e.layout.Offsets,
			}
		}
		out[i] = t
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// witSection renders the WIT record and its canonical ABI layout.
func witSection(e entry) string {
	var b strings.Builder
	if e.witErr != nil {
		b.WriteString("wit: ")
		b.WriteString(e.witErr.Error())
		b.WriteByte('\n')
		return b.String()
	}
	if e.wit == nil {
		return ""
	}

	b.WriteString("wit: ")
	b.WriteString(witTypeStr(e.wit))
	b.WriteString("  size ")
	b.WriteString(strconv.FormatUint(uint64(e.layout.Size), 10))
	b.WriteString(" align ")
	b.WriteString(strconv.FormatUint(uint64(e.layout.Align), 10))
	b.WriteByte('\n')

	td, ok := e.wit.(*wit.TypeDef)
	if !ok {
		return b.String()
	}
	rec, ok := td.Kind.(*wit.Record)
	if !ok {
		return b.String()
	}
	for i, f := range rec.Fields {
		fmt.Fprintf(&b, "  %-16s %-24s @%d\n", f.Name, witTypeStr(f.Type), e.layout.Offsets[i])
	}
	return b.String()
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		switch k := v.Kind.(type) {
		case *wit.Option:
			return "option<" + witTypeStr(k.Type) + ">"
		case *wit.List:
			return "list<" + witTypeStr(k.Type) + ">"
		case *wit.Tuple:
			parts := make([]string, len(k.Types))
			for i, p := range k.Types {
				parts[i] = witTypeStr(p)
			}
			return "tuple<" + strings.Join(parts, ", ") + ">"
		case *wit.Record:
			return "record"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}
