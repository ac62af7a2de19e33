package rewrite_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yaklabco/gomdmath/pkg/extract"
	"github.com/yaklabco/gomdmath/pkg/mathstore"
	"github.com/yaklabco/gomdmath/pkg/mdast"
	"github.com/yaklabco/gomdmath/pkg/parser/goldmark"
	"github.com/yaklabco/gomdmath/pkg/rewrite"
)

func newRenderer(opts rewrite.Options) *rewrite.Renderer {
	if opts.NewStore == nil {
		opts.NewStore = sequentialStore
	}
	return rewrite.NewRenderer(goldmark.New(goldmark.FlavorGFM), opts)
}

func render(t *testing.T, content string) (*rewrite.Output, *mathstore.Store) {
	t.Helper()

	out, cfg, err := newRenderer(rewrite.DefaultOptions()).
		Render(context.Background(), "doc.md", []byte(content), rewrite.RenderConfig{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return out, cfg.Math
}

// expand replaces each placeholder with "<" + source + ">" so outputs can
// be compared without knowing the identifiers.
func expand(t *testing.T, text []byte, store *mathstore.Store) string {
	t.Helper()

	var b strings.Builder
	cursor := 0
	for _, m := range mathstore.FindTokens(text) {
		src, err := store.Source(m.ID)
		if err != nil {
			t.Fatalf("placeholder %q: %v", m.ID, err)
		}
		b.Write(text[cursor:m.Start])
		b.WriteString("<" + src + ">")
		cursor = m.End
	}
	b.Write(text[cursor:])
	return b.String()
}

func TestRender_ScenarioSingleBlock(t *testing.T) {
	t.Parallel()

	out, store := render(t, "Block: $$x^2$$ end")

	if got := string(out.Text); got != "Block: @math(uuid:ID0) end" {
		t.Errorf("Text = %q", got)
	}
	if src, _ := store.Source("ID0"); src != "$$x^2$$" {
		t.Errorf("store[ID0] = %q", src)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d records, want 1", store.Len())
	}
}

func TestRender_ScenarioCodeSpan(t *testing.T) {
	t.Parallel()

	input := "`$$not math$$` is text"
	out, store := render(t, input)

	if string(out.Text) != input {
		t.Errorf("Text = %q, want unchanged", out.Text)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d records, want 0", store.Len())
	}
	if out.Changed() {
		t.Error("Changed() = true for unchanged text")
	}
}

func TestRender_ScenarioTwoBlocks(t *testing.T) {
	t.Parallel()

	out, store := render(t, "$$a$$ and $$b$$")

	tokens := mathstore.FindTokens(out.Text)
	if len(tokens) != 2 {
		t.Fatalf("found %d placeholders in %q", len(tokens), out.Text)
	}

	first, _ := store.Source(tokens[0].ID)
	second, _ := store.Source(tokens[1].ID)
	if first != "$$a$$" || second != "$$b$$" {
		t.Errorf("placeholders resolve to %q, %q", first, second)
	}

	// $$b$$ was stored first.
	if records := store.Records(); records[0].Source != "$$b$$" {
		t.Errorf("first stored record = %q, want $$b$$", records[0].Source)
	}

	// Identifiers are allocated right to left, so the later block gets ID0.
	if got := string(out.Text); got != "@math(uuid:ID1) and @math(uuid:ID0)" {
		t.Errorf("Text = %q", got)
	}
}

func TestRender_SplitGraphemeClusterLeftInPlace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "combining mark after closing delimiter", input: "Block: $$x^2$$\u0301 end"},
		{name: "prepended mark before opening delimiter", input: "\u0600$$x$$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, store := render(t, tt.input)

			if string(out.Text) != tt.input {
				t.Errorf("Text = %q, want unchanged", out.Text)
			}
			if store.Len() != 0 {
				t.Errorf("store has %d records, want 0", store.Len())
			}
			if len(out.Dropped) != 1 || len(out.Applied) != 0 {
				t.Errorf("applied %d, dropped %d, want 0 and 1", len(out.Applied), len(out.Dropped))
			}
		})
	}
}

func TestRender_Laws(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expanded string
	}{
		{
			name:     "no math",
			input:    "# Title\n\nPlain *text* with `code`.\n",
			expanded: "# Title\n\nPlain *text* with `code`.\n",
		},
		{
			name:     "inline math only",
			input:    "Let $x$ and \\(y\\) be reals.\n",
			expanded: "Let $x$ and \\(y\\) be reals.\n",
		},
		{
			name:     "adjacent blocks",
			input:    "$$a$$$$b$$",
			expanded: "<$$a$$><$$b$$>",
		},
		{
			name:     "one character apart",
			input:    "$$a$$.$$b$$.$$c$$",
			expanded: "<$$a$$>.<$$b$$>.<$$c$$>",
		},
		{
			name:     "multibyte text around math",
			input:    "α $$β$$ γ $$δ²$$ ε",
			expanded: "α <$$β$$> γ <$$δ²$$> ε",
		},
		{
			name:     "code block excluded",
			input:    "$$a$$\n\n```\n$$b$$\n```\n\n$$c$$\n",
			expanded: "<$$a$$>\n\n```\n$$b$$\n```\n\n<$$c$$>\n",
		},
		{
			name:     "multi-line block",
			input:    "Intro:\n\n$$\n\\int_0^1 f\n$$\n\nDone.\n",
			expanded: "Intro:\n\n<$$\n\\int_0^1 f\n$$>\n\nDone.\n",
		},
		{
			name:     "brackets in blockquote",
			input:    "> \\[ a \\]\n",
			expanded: "> <\\[ a \\]>\n",
		},
		{
			name:     "inside directive body",
			input:    "@note(x) {\n$$a$$\n}\n",
			expanded: "@note(x) {\n<$$a$$>\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, store := render(t, tt.input)

			if got := expand(t, out.Text, store); got != tt.expanded {
				t.Errorf("expanded output = %q, want %q", got, tt.expanded)
			}
			if err := rewrite.Verify(out.Text, store); err != nil {
				t.Errorf("Verify() = %v", err)
			}

			restored, err := rewrite.Restore(out.Text, store)
			if err != nil {
				t.Fatalf("Restore() error = %v", err)
			}
			if string(restored.Text) != tt.input {
				t.Errorf("Restore() = %q, want %q", restored.Text, tt.input)
			}
			if restored.Restored != store.Len() {
				t.Errorf("Restored = %d, want %d", restored.Restored, store.Len())
			}
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	first, _ := render(t, "$$a$$\n\n@math(uuid:pre)\n")
	second, store := render(t, string(first.Text))

	if string(second.Text) != string(first.Text) {
		t.Errorf("second pass changed text: %q", second.Text)
	}
	if store.Len() != 0 {
		t.Errorf("second pass stored %d records", store.Len())
	}
}

func TestRender_DoesNotMutateInputConfig(t *testing.T) {
	t.Parallel()

	initial := sequentialStore()
	initial.AppendDisplayMath("$$old$$")
	cfg := rewrite.RenderConfig{Math: initial}

	out, next, err := newRenderer(rewrite.DefaultOptions()).
		Render(context.Background(), "doc.md", []byte("$$new$$"), cfg)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if cfg.Math.Len() != 1 {
		t.Errorf("input store has %d records, want 1", cfg.Math.Len())
	}
	if next.Math.Len() != 2 {
		t.Errorf("returned store has %d records, want 2", next.Math.Len())
	}
	if next.Math == cfg.Math {
		t.Error("returned config shares the input store")
	}
	if got := expand(t, out.Text, next.Math); got != "<$$new$$>" {
		t.Errorf("expanded = %q", got)
	}
}

func TestRender_MathFences(t *testing.T) {
	t.Parallel()

	opts := rewrite.DefaultOptions()
	opts.Extract = extract.Options{ExcludeHTML: true, MathFences: true}

	input := "```math\nx^2\n```\n\n```go\n$$y$$\n```\n"
	out, cfg, err := newRenderer(opts).Render(context.Background(), "", []byte(input), rewrite.RenderConfig{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "<```math\nx^2\n```>\n\n```go\n$$y$$\n```\n"
	if got := expand(t, out.Text, cfg.Math); got != want {
		t.Errorf("expanded = %q, want %q", got, want)
	}
	if len(out.Applied) != 1 || out.Applied[0].Origin != extract.OriginFence {
		t.Errorf("Applied = %+v", out.Applied)
	}
}

func TestRender_HTMLOption(t *testing.T) {
	t.Parallel()

	input := "<div>\n$$x$$\n</div>\n"

	out, _ := render(t, input)
	if out.Changed() {
		t.Error("math inside an HTML block was replaced with HTML excluded")
	}

	opts := rewrite.DefaultOptions()
	opts.Extract.ExcludeHTML = false
	out, _, err := newRenderer(opts).Render(context.Background(), "", []byte(input), rewrite.RenderConfig{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out.Applied) != 1 {
		t.Errorf("applied %d replacements, want 1", len(out.Applied))
	}
}

type failingParser struct{}

func (failingParser) Parse(context.Context, string, []byte) (*mdast.FileSnapshot, error) {
	return nil, errors.New("boom")
}

func TestRender_ParseError(t *testing.T) {
	t.Parallel()

	cfg := rewrite.RenderConfig{Math: sequentialStore()}
	out, got, err := rewrite.NewRenderer(failingParser{}, rewrite.DefaultOptions()).
		Render(context.Background(), "bad.md", nil, cfg)

	if err == nil || out != nil {
		t.Fatalf("expected error, got out=%v err=%v", out, err)
	}
	if got.Math != cfg.Math {
		t.Error("config must be returned unchanged on error")
	}
}

func TestRender_DefaultStoreUsesUUIDs(t *testing.T) {
	t.Parallel()

	r := rewrite.NewRenderer(goldmark.New(goldmark.FlavorCommonMark), rewrite.DefaultOptions())
	_, cfg, err := r.Render(context.Background(), "", []byte("$$x$$"), rewrite.RenderConfig{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	records := cfg.Math.Records()
	if len(records) != 1 || len(records[0].ID) != 36 {
		t.Errorf("records = %+v", records)
	}
}
