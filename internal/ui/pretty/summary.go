package pretty

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gomdmath/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "7 blocks extracted from 3 files (12 checked), 1 dropped".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.MathExtracted == 0 && stats.MathDropped == 0 {
		return s.Success.Render("No display math found") +
			s.Dim.Render(" ("+plural(stats.FilesProcessed, "file", "files")+" checked)") + "\n"
	}

	parts := []string{
		plural(stats.MathExtracted, "block", "blocks") + " extracted from " +
			plural(stats.FilesWithMath, "file", "files") +
			s.Dim.Render(" ("+strconv.Itoa(stats.FilesProcessed)+" checked)"),
	}

	if stats.MathDropped > 0 {
		parts = append(parts, s.Warning.Render(strconv.Itoa(stats.MathDropped)+" dropped"))
	}
	if stats.FilesModified > 0 {
		parts = append(parts, s.Success.Render(plural(stats.FilesModified, "file", "files")+" rewritten"))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(strconv.Itoa(stats.FilesSkipped)+" skipped"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(strconv.Itoa(stats.FilesErrored)+" failed"))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row := func(label string, value int, emphasize bool) {
		v := strconv.Itoa(value)
		if emphasize {
			v = s.Bold.Render(v)
		}
		b.WriteString("  " + label + strings.Repeat(" ", max(1, 20-len(label))) + v + "\n")
	}

	row("Files checked:", stats.FilesProcessed, false)
	row("Files with math:", stats.FilesWithMath, false)
	if stats.FilesModified > 0 {
		row("Files rewritten:", stats.FilesModified, true)
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped:", stats.FilesSkipped, true)
	}
	if stats.FilesErrored > 0 {
		row("Files failed:", stats.FilesErrored, true)
	}
	b.WriteString("\n")
	row("Blocks extracted:", stats.MathExtracted, false)
	if stats.MathDropped > 0 {
		row("Blocks dropped:", stats.MathDropped, true)
	}
	b.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		b.WriteString(s.Failure.Render("Extraction failed for some files"))
	case stats.MathDropped > 0:
		b.WriteString(s.Warning.Render("Extraction completed with dropped blocks"))
	default:
		b.WriteString(s.Success.Render("Extraction completed"))
	}
	b.WriteString("\n")

	return b.String()
}
