package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/rsl/introspect"
	"github.com/wippyai/rsl/introspect/static"
	"github.com/wippyai/rsl/typelist"
	"github.com/wippyai/rsl/witgen"
)

type point struct {
	X, Y int32
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Point", "Point"},
		{" A, B ,,C ", "A|B|C"},
	}
	for _, tc := range tests {
		if got := strings.Join(splitList(tc.in), "|"); got != tc.want {
			t.Errorf("splitList(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWitTypeStr(t *testing.T) {
	name := "point"
	tests := []struct {
		typ  wit.Type
		want string
	}{
		{wit.S32{}, "s32"},
		{wit.String{}, "string"},
		{&wit.TypeDef{Name: &name, Kind: &wit.Record{}}, "point"},
		{&wit.TypeDef{Kind: &wit.Option{Type: wit.U8{}}}, "option<u8>"},
		{&wit.TypeDef{Kind: &wit.List{Type: &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.String{}, wit.U32{}}}}}}, "list<tuple<string, u32>>"},
	}
	for _, tc := range tests {
		if got := witTypeStr(tc.typ); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

func pointEntry(t *testing.T) entry {
	t.Helper()
	shape := introspect.MustShapeOf[point]()
	wt, err := witgen.NewGenerator().TypeOf(typelist.TypeOf[point]())
	if err != nil {
		t.Fatal(err)
	}
	return entry{summary: shape.Summary(), wit: wt, layout: witgen.LayoutOf(wt)}
}

func TestWitSection(t *testing.T) {
	out := witSection(pointEntry(t))
	for _, want := range []string{"wit: point  size 8 align 4", "@0", "@4"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestInteractiveFilter(t *testing.T) {
	other := entry{summary: introspect.Summary{Name: "main.config"}}
	m := newInteractiveModel([]entry{pointEntry(t), other}, options{wit: true})
	if len(m.visible) != 2 {
		t.Fatalf("visible = %v", m.visible)
	}

	for _, r := range "conf" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if len(m.visible) != 1 || m.visible[0] != 1 {
		t.Errorf("visible = %v after filter %q", m.visible, m.filter.Value())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateDetail || !strings.Contains(m.detail, "main.config") {
		t.Errorf("state = %v detail = %q", m.state, m.detail)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateBrowse {
		t.Errorf("esc should return to the list")
	}
}

func TestReportYAML(t *testing.T) {
	var b strings.Builder
	if err := report(&b, []entry{pointEntry(t)}, options{format: "yaml", wit: true}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"name: main.point",
		"type: int32",
		"offset: 4",
		"type: point",
		"offsets: [0, 4]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestLoadSameNamedPackages(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}

	entries, err := load(context.Background(), options{
		load: static.LoadConfig{
			Dir:      "testdata/twins",
			Patterns: []string{"./a", "./b"},
		},
		arch: "amd64",
		wit:  true,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	sizes := map[string]uintptr{}
	for _, e := range entries {
		if e.summary.Name != "shape.Box" {
			t.Errorf("name = %s", e.summary.Name)
		}
		if e.witErr != nil {
			t.Fatalf("%s: %v", e.pkgPath, e.witErr)
		}
		sizes[e.pkgPath[strings.LastIndex(e.pkgPath, "/")+1:]] = e.layout.Size
	}
	if sizes["a"] != 4 || sizes["b"] != 16 {
		t.Errorf("wit sizes by package = %v, want a:4 b:16", sizes)
	}
}
