package extract_test

import (
	"context"
	"slices"
	"testing"

	"github.com/yaklabco/gomdmath/pkg/extract"
	"github.com/yaklabco/gomdmath/pkg/mathscan"
	"github.com/yaklabco/gomdmath/pkg/mdast"
	"github.com/yaklabco/gomdmath/pkg/parser/goldmark"
)

func parse(t *testing.T, content string) *mdast.FileSnapshot {
	t.Helper()

	snapshot, err := goldmark.New(goldmark.FlavorGFM).Parse(context.Background(), "test.md", []byte(content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return snapshot
}

func spanTexts(snapshot *mdast.FileSnapshot, opts extract.Options) []string {
	var out []string
	for r := range extract.ParsableSpans(snapshot.Root, len(snapshot.Content), opts) {
		out = append(out, string(snapshot.Content[r.StartOffset:r.EndOffset]))
	}
	return out
}

func TestParsableSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		opts    extract.Options
		want    []string
	}{
		{
			name:    "empty",
			content: "",
			opts:    extract.DefaultOptions(),
			want:    nil,
		},
		{
			name:    "plain paragraph",
			content: "just text\n",
			opts:    extract.DefaultOptions(),
			want:    []string{"just text\n"},
		},
		{
			name:    "code span in the middle",
			content: "a `$$x$$` b",
			opts:    extract.DefaultOptions(),
			want:    []string{"a ", " b"},
		},
		{
			name:    "code span at the edges",
			content: "`x` and `y`",
			opts:    extract.DefaultOptions(),
			want:    []string{" and "},
		},
		{
			name:    "fenced block",
			content: "top\n\n```\n$$x$$\n```\nbottom\n",
			opts:    extract.DefaultOptions(),
			want:    []string{"top\n\n", "\nbottom\n"},
		},
		{
			name:    "html excluded",
			content: "<div>\n$$x$$\n</div>\n",
			opts:    extract.DefaultOptions(),
			want:    []string{"\n"},
		},
		{
			name:    "html included",
			content: "<div>\n$$x$$\n</div>\n",
			opts:    extract.Options{},
			want:    []string{"<div>\n$$x$$\n</div>\n"},
		},
		{
			name:    "directive head",
			content: "@note($$x$$) {\n$$y$$\n}\n",
			opts:    extract.DefaultOptions(),
			want:    []string{"\n$$y$$\n}\n"},
		},
		{
			name:    "link destination",
			content: "see [$$a$$]($$b$$) now",
			opts:    extract.DefaultOptions(),
			want:    []string{"see [$$a$$", " now"},
		},
		{
			name:    "image destination and title",
			content: "![alt](img.png \"$$t$$\") $$x$$",
			opts:    extract.DefaultOptions(),
			want:    []string{"![alt", " $$x$$"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := spanTexts(parse(t, tt.content), tt.opts)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParsableSpans = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsableSpans_OrderedDisjoint(t *testing.T) {
	t.Parallel()

	snapshot := parse(t, "# `h` $$a$$\n\n> `q` <b>x</b>\n\n    code\n\n- `i` and `j`\n")

	prevEnd := 0
	for r := range extract.ParsableSpans(snapshot.Root, len(snapshot.Content), extract.DefaultOptions()) {
		if r.StartOffset < prevEnd || r.IsEmpty() {
			t.Fatalf("span %+v not after previous end %d", r, prevEnd)
		}
		for _, v := range extract.VerbatimRanges(snapshot.Root, extract.DefaultOptions()) {
			if r.Overlaps(v) {
				t.Fatalf("span %+v overlaps verbatim %+v", r, v)
			}
		}
		prevEnd = r.EndOffset
	}
}

func TestParsableSpans_EarlyBreak(t *testing.T) {
	t.Parallel()

	snapshot := parse(t, "a `b` c `d` e")
	count := 0
	for range extract.ParsableSpans(snapshot.Root, len(snapshot.Content), extract.DefaultOptions()) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("iterated %d spans, want 1", count)
	}
}

func occurrenceTexts(content []byte, occs []extract.Occurrence) []string {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, string(content[o.Start:o.End]))
	}
	return out
}

func TestCollector_Document(t *testing.T) {
	t.Parallel()

	collector := extract.NewCollector(mathscan.New(mathscan.DefaultOptions()))

	tests := []struct {
		name    string
		content string
		opts    extract.Options
		want    []string
	}{
		{
			name:    "single display",
			content: "Block: $$x^2$$ end",
			opts:    extract.DefaultOptions(),
			want:    []string{"$$x^2$$"},
		},
		{
			name:    "code span is verbatim",
			content: "`$$not math$$` is text",
			opts:    extract.DefaultOptions(),
			want:    []string{},
		},
		{
			name:    "link destination is verbatim",
			content: "[l]($$a$$) and [*$$b$$*](<$$c$$> 'x') $$d$$",
			opts:    extract.DefaultOptions(),
			want:    []string{"$$b$$", "$$d$$"},
		},
		{
			name:    "inline math is ignored",
			content: "$a$ and $$b$$",
			opts:    extract.DefaultOptions(),
			want:    []string{"$$b$$"},
		},
		{
			name:    "multi-line display block",
			content: "Intro\n\n$$\nx = 1\n$$\n",
			opts:    extract.DefaultOptions(),
			want:    []string{"$$\nx = 1\n$$"},
		},
		{
			name:    "emphasis inside math",
			content: "$$ a *b* c $$",
			opts:    extract.DefaultOptions(),
			want:    []string{"$$ a *b* c $$"},
		},
		{
			name:    "brackets inside list",
			content: "- item \\[y\\]\n",
			opts:    extract.DefaultOptions(),
			want:    []string{"\\[y\\]"},
		},
		{
			name:    "directive body",
			content: "@note($$x$$) {\n$$y$$\n}\n",
			opts:    extract.DefaultOptions(),
			want:    []string{"$$y$$"},
		},
		{
			name:    "math fence ignored by default",
			content: "```math\nx^2\n```\n",
			opts:    extract.DefaultOptions(),
			want:    []string{},
		},
		{
			name:    "math fence extracted",
			content: "```math\nx^2\n```\n",
			opts:    extract.Options{ExcludeHTML: true, MathFences: true},
			want:    []string{"```math\nx^2\n```"},
		},
		{
			name:    "non-math fence stays verbatim",
			content: "```go\n$$x$$\n```\n",
			opts:    extract.Options{ExcludeHTML: true, MathFences: true},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snapshot := parse(t, tt.content)
			got := occurrenceTexts(snapshot.Content, collector.Document(snapshot, tt.opts))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Document() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollector_FenceOrigin(t *testing.T) {
	t.Parallel()

	collector := extract.NewCollector(mathscan.New(mathscan.DefaultOptions()))
	snapshot := parse(t, "$$a$$\n\n```tex\nb\n```\n")

	occs := collector.Document(snapshot, extract.Options{MathFences: true})
	if len(occs) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(occs))
	}
	if occs[0].Origin != extract.OriginScanner || occs[1].Origin != extract.OriginFence {
		t.Errorf("origins = %s, %s", occs[0].Origin, occs[1].Origin)
	}
}

func TestCollector_NilSnapshot(t *testing.T) {
	t.Parallel()

	collector := extract.NewCollector(mathscan.New(mathscan.DefaultOptions()))
	if occs := collector.Document(nil, extract.DefaultOptions()); occs != nil {
		t.Errorf("expected nil, got %v", occs)
	}
}

type fakeScanner struct {
	calls []int
}

func (f *fakeScanner) Scan(segment []byte, base int) []mathscan.Span {
	f.calls = append(f.calls, base)
	return []mathscan.Span{
		{Start: base, End: base + 1, Kind: mathscan.KindInline},
		{Start: base + 1, End: base + len(segment), Kind: mathscan.KindDisplay},
	}
}

func TestCollector_Collect_AbsoluteOffsets(t *testing.T) {
	t.Parallel()

	content := []byte("0123456789")
	spans := func(yield func(mdast.SourceRange) bool) {
		_ = yield(mdast.Span(2, 5)) && yield(mdast.Span(7, 10))
	}

	scanner := &fakeScanner{}
	occs := extract.NewCollector(scanner).Collect(content, spans)

	if !slices.Equal(scanner.calls, []int{2, 7}) {
		t.Errorf("scanner bases = %v, want [2 7]", scanner.calls)
	}
	want := []extract.Occurrence{{Start: 3, End: 5}, {Start: 8, End: 10}}
	if !slices.Equal(occs, want) {
		t.Errorf("Collect() = %+v, want %+v", occs, want)
	}
}
