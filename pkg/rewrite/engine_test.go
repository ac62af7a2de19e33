package rewrite_test

import (
	"testing"

	"github.com/yaklabco/gomdmath/pkg/extract"
	"github.com/yaklabco/gomdmath/pkg/mathstore"
	"github.com/yaklabco/gomdmath/pkg/rewrite"
)

func sequentialStore() *mathstore.Store {
	return mathstore.New(mathstore.WithGenerator(mathstore.SequentialGenerator("ID")))
}

func TestRewrite_RightToLeftAllocation(t *testing.T) {
	t.Parallel()

	original := []byte("$$a$$ and $$b$$")
	store := sequentialStore()
	occs := []extract.Occurrence{{Start: 0, End: 5}, {Start: 10, End: 15}}

	res := rewrite.Rewrite(original, occs, store)

	// The rightmost occurrence is processed, and so numbered, first.
	if got := string(res.Text); got != "@math(uuid:ID1) and @math(uuid:ID0)" {
		t.Errorf("Text = %q", got)
	}
	if len(res.Applied) != 2 || res.Applied[0].Source != "$$a$$" || res.Applied[1].Source != "$$b$$" {
		t.Fatalf("Applied = %+v", res.Applied)
	}
	if res.Applied[0].StartOffset != 0 || res.Applied[1].StartOffset != 10 {
		t.Errorf("Applied offsets must be in original coordinates: %+v", res.Applied)
	}
	if string(original) != "$$a$$ and $$b$$" {
		t.Error("original was modified")
	}
}

func TestRewrite_UnsortedInput(t *testing.T) {
	t.Parallel()

	original := []byte("x$$1$$y$$2$$z$$3$$")
	occs := []extract.Occurrence{{Start: 7, End: 12}, {Start: 13, End: 18}, {Start: 1, End: 6}}

	store := sequentialStore()
	res := rewrite.Rewrite(original, occs, store)

	restored, err := rewrite.Restore(res.Text, store)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if string(restored.Text) != string(original) {
		t.Errorf("round trip = %q, want %q", restored.Text, original)
	}
	if len(res.Dropped) != 0 {
		t.Errorf("unexpected drops: %+v", res.Dropped)
	}
}

func TestRewrite_DropsMisaligned(t *testing.T) {
	t.Parallel()

	// "é" is two bytes; offset 1 is inside it.
	original := []byte("é$$x$$ and $$y$$")
	tests := []struct {
		name string
		occ  extract.Occurrence
	}{
		{name: "start inside rune", occ: extract.Occurrence{Start: 1, End: 7}},
		{name: "end inside rune", occ: extract.Occurrence{Start: 0, End: 1}},
		{name: "negative start", occ: extract.Occurrence{Start: -1, End: 3}},
		{name: "past end", occ: extract.Occurrence{Start: 12, End: 99}},
		{name: "empty", occ: extract.Occurrence{Start: 2, End: 2}},
		{name: "reversed", occ: extract.Occurrence{Start: 5, End: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := sequentialStore()
			res := rewrite.Rewrite(original, []extract.Occurrence{tt.occ}, store)

			if string(res.Text) != string(original) {
				t.Errorf("Text = %q, want unchanged", res.Text)
			}
			if store.Len() != 0 {
				t.Errorf("store has %d records, want 0", store.Len())
			}
			if len(res.Dropped) != 1 || res.Dropped[0] != tt.occ {
				t.Errorf("Dropped = %+v", res.Dropped)
			}
		})
	}
}

func TestRewrite_DropsSplitGraphemeClusters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		occ      extract.Occurrence
	}{
		// U+0301 COMBINING ACUTE ACCENT joins the closing "$".
		{name: "combining mark after end", original: "$$x$$\u0301 end", occ: extract.Occurrence{Start: 0, End: 5}},
		// U+0600 ARABIC NUMBER SIGN is a prepended mark and joins the opening "$".
		{name: "prepend before start", original: "\u0600$$x$$", occ: extract.Occurrence{Start: 2, End: 7}},
		{name: "zero width joiner after end", original: "$$x$$\u200d!", occ: extract.Occurrence{Start: 0, End: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := sequentialStore()
			res := rewrite.Rewrite([]byte(tt.original), []extract.Occurrence{tt.occ}, store)

			if string(res.Text) != tt.original {
				t.Errorf("Text = %q, want unchanged", res.Text)
			}
			if store.Len() != 0 {
				t.Errorf("store has %d records, want 0", store.Len())
			}
			if len(res.Dropped) != 1 || res.Dropped[0] != tt.occ {
				t.Errorf("Dropped = %+v", res.Dropped)
			}
		})
	}
}

func TestRewrite_ClusterBoundariesAccepted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		occ      extract.Occurrence
		want     string
	}{
		{name: "after precomposed letter", original: "\u00e9$$x$$", occ: extract.Occurrence{Start: 2, End: 7}, want: "\u00e9@math(uuid:ID0)"},
		{name: "after combining sequence", original: "e\u0301 $$x$$", occ: extract.Occurrence{Start: 4, End: 9}, want: "e\u0301 @math(uuid:ID0)"},
		{name: "before emoji", original: "$$x$$\U0001F600", occ: extract.Occurrence{Start: 0, End: 5}, want: "@math(uuid:ID0)\U0001F600"},
		{name: "line start after prepend line", original: "\u0600\n$$x$$", occ: extract.Occurrence{Start: 3, End: 8}, want: "\u0600\n@math(uuid:ID0)"},
		{name: "before CRLF", original: "$$x$$\r\n", occ: extract.Occurrence{Start: 0, End: 5}, want: "@math(uuid:ID0)\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := rewrite.Rewrite([]byte(tt.original), []extract.Occurrence{tt.occ}, sequentialStore())

			if string(res.Text) != tt.want {
				t.Errorf("Text = %q, want %q", res.Text, tt.want)
			}
			if len(res.Dropped) != 0 {
				t.Errorf("Dropped = %+v", res.Dropped)
			}
		})
	}
}

func TestRewrite_DropDoesNotDisturbOthers(t *testing.T) {
	t.Parallel()

	original := []byte("é$$x$$ and $$y$$")
	occs := []extract.Occurrence{{Start: 1, End: 7}, {Start: 12, End: 17}}

	store := sequentialStore()
	res := rewrite.Rewrite(original, occs, store)

	if got := string(res.Text); got != "é$$x$$ and @math(uuid:ID0)" {
		t.Errorf("Text = %q", got)
	}
	if len(res.Applied) != 1 || len(res.Dropped) != 1 {
		t.Errorf("applied %d, dropped %d", len(res.Applied), len(res.Dropped))
	}
}

func TestRewrite_OverlapDropped(t *testing.T) {
	t.Parallel()

	original := []byte("$$a$$$$b$$")
	occs := []extract.Occurrence{{Start: 0, End: 5}, {Start: 3, End: 10}, {Start: 5, End: 10}}

	store := sequentialStore()
	res := rewrite.Rewrite(original, occs, store)

	// [5,10) goes first; [3,10) reaches into it and is dropped.
	if got := string(res.Text); got != "@math(uuid:ID1)@math(uuid:ID0)" {
		t.Errorf("Text = %q", got)
	}
	if len(res.Dropped) != 1 || res.Dropped[0].Start != 3 {
		t.Errorf("Dropped = %+v", res.Dropped)
	}
	if err := rewrite.Verify(res.Text, store); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestRewrite_Empty(t *testing.T) {
	t.Parallel()

	store := sequentialStore()
	res := rewrite.Rewrite([]byte("no math"), nil, store)

	if string(res.Text) != "no math" || store.Len() != 0 || len(res.Applied) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}
