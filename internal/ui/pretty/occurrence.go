package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ellipsis marks a truncated preview.
const ellipsis = "…"

// Occurrence is the display form of one math occurrence.
type Occurrence struct {
	Line   int
	Column int

	// ID is the placeholder identifier; empty for dropped occurrences.
	ID string

	Source string
	Origin string
}

// FormatOccurrence renders one occurrence as an indented line no wider
// than width columns. The source is shown on one line and truncated.
func (s *Styles) FormatOccurrence(occ Occurrence, width int) string {
	location := s.Location.Render(fmt.Sprintf("%d:%d", occ.Line, occ.Column))

	var marker string
	if occ.ID == "" {
		marker = s.Warning.Render("dropped")
	} else {
		marker = s.ID.Render(occ.ID)
	}

	prefix := "  " + location + "  " + marker + "  "
	if occ.Origin != "" && occ.Origin != "delimiters" {
		prefix += s.Origin.Render("("+occ.Origin+")") + " "
	}

	room := max(width-lipgloss.Width(prefix), len(ellipsis)+1)
	return prefix + s.Source.Render(Preview(occ.Source, room)) + "\n"
}

// Preview flattens source onto one line and cuts it to at most maxWidth
// display columns.
func Preview(source string, maxWidth int) string {
	flat := strings.Join(strings.Fields(source), " ")
	if lipgloss.Width(flat) <= maxWidth {
		return flat
	}

	limit := maxWidth - lipgloss.Width(ellipsis)
	var b strings.Builder
	for _, r := range flat {
		if lipgloss.Width(b.String()+string(r)) > limit {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + ellipsis
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, extracted, dropped int) string {
	header := s.FilePath.Render(path)

	var counts []string
	if extracted > 0 {
		counts = append(counts, plural(extracted, "block", "blocks"))
	}
	if dropped > 0 {
		counts = append(counts, s.Warning.Render(fmt.Sprintf("%d dropped", dropped)))
	}
	if len(counts) > 0 {
		header += s.Dim.Render(" (") + strings.Join(counts, s.Dim.Render(", ")) + s.Dim.Render(")")
	}
	return header
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
