package fix

import (
	"bytes"
	"fmt"
	"strings"
)

// Diff is a unified diff between original and modified content.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Hunks contains the diff hunks.
	Hunks []DiffHunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// DiffHunk is one "@@" section of a unified diff.
type DiffHunk struct {
	// OriginalStart and ModifiedStart are 1-based line numbers.
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int

	Lines []DiffLine
}

// DiffLine is a single line in a diff hunk.
type DiffLine struct {
	Kind DiffLineKind

	// Content is the line without the diff prefix or newline.
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// Prefix returns the unified diff marker for the kind.
func (k DiffLineKind) Prefix() string {
	switch k {
	case DiffLineAdd:
		return "+"
	case DiffLineRemove:
		return "-"
	default:
		return " "
	}
}

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// GenerateDiff returns a line diff of original and modified, or nil if
// they have the same lines.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}

	hunks := buildHunks(diffLines(splitLines(original), splitLines(modified)))
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Hunks: hunks}
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineAdd:
				d.Additions++
			case DiffLineRemove:
				d.Deletions++
			case DiffLineContext:
			}
		}
	}

	return d
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// Header returns the "---"/"+++" file header lines.
func (d *Diff) Header() (string, string) {
	path := strings.TrimPrefix(d.Path, "/")
	return "--- a/" + path, "+++ b/" + path
}

// String renders the diff in unified format.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	var b strings.Builder
	from, to := d.Header()
	b.WriteString(from + "\n" + to + "\n")

	for _, hunk := range d.Hunks {
		b.WriteString(hunk.Header() + "\n")
		for _, line := range hunk.Lines {
			b.WriteString(line.Kind.Prefix() + line.Content + "\n")
		}
	}

	return b.String()
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk.
func (h DiffHunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@",
		h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// splitLines splits content into lines without their trailing newline.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

type diffOp struct {
	kind    DiffLineKind
	content string
}

// diffLines computes an edit script from a longest-common-subsequence
// table over line suffixes.
func diffLines(orig, mod []string) []diffOp {
	// lcs[i][j] is the LCS length of orig[i:] and mod[j:].
	lcs := make([][]int, len(orig)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(mod)+1)
	}
	for i := len(orig) - 1; i >= 0; i-- {
		for j := len(mod) - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]diffOp, 0, max(len(orig), len(mod)))
	i, j := 0, 0
	for i < len(orig) || j < len(mod) {
		switch {
		case i < len(orig) && j < len(mod) && orig[i] == mod[j]:
			ops = append(ops, diffOp{DiffLineContext, orig[i]})
			i++
			j++
		case j >= len(mod) || (i < len(orig) && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, diffOp{DiffLineRemove, orig[i]})
			i++
		default:
			ops = append(ops, diffOp{DiffLineAdd, mod[j]})
			j++
		}
	}

	return ops
}

// buildHunks groups changes with contextLines of context on each side.
// Changes separated by at most 2*contextLines unchanged lines share a hunk.
func buildHunks(ops []diffOp) []DiffHunk {
	type linePos struct{ orig, mod int }

	pos := make([]linePos, len(ops))
	origLine, modLine := 1, 1
	for k, op := range ops {
		pos[k] = linePos{origLine, modLine}
		if op.kind != DiffLineAdd {
			origLine++
		}
		if op.kind != DiffLineRemove {
			modLine++
		}
	}

	var hunks []DiffHunk
	for k := 0; k < len(ops); {
		if ops[k].kind == DiffLineContext {
			k++
			continue
		}

		start := max(0, k-contextLines)
		end := k + 1
		for j := k + 1; j < len(ops); j++ {
			if ops[j].kind != DiffLineContext {
				end = j + 1
				continue
			}
			if j-end >= 2*contextLines {
				break
			}
		}
		stop := min(len(ops), end+contextLines)

		hunk := DiffHunk{OriginalStart: pos[start].orig, ModifiedStart: pos[start].mod}
		for _, op := range ops[start:stop] {
			hunk.Lines = append(hunk.Lines, DiffLine{Kind: op.kind, Content: op.content})
			if op.kind != DiffLineAdd {
				hunk.OriginalCount++
			}
			if op.kind != DiffLineRemove {
				hunk.ModifiedCount++
			}
		}
		hunks = append(hunks, hunk)
		k = stop
	}

	return hunks
}
