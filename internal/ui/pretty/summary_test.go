package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdmath/internal/ui/pretty"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "nothing found",
			stats: runner.Stats{FilesProcessed: 4},
			want:  "No display math found (4 files checked)\n",
		},
		{
			name:  "single file",
			stats: runner.Stats{FilesProcessed: 1, FilesWithMath: 1, MathExtracted: 1},
			want:  "1 block extracted from 1 file (1 checked)\n",
		},
		{
			name: "drops and writes",
			stats: runner.Stats{
				FilesProcessed: 5, FilesWithMath: 2, MathExtracted: 7,
				MathDropped: 1, FilesModified: 2, FilesErrored: 1,
			},
			want: "7 blocks extracted from 2 files (5 checked), 1 dropped, 2 files rewritten, 1 failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	clean := styles.FormatSummary(runner.Stats{FilesProcessed: 3, FilesWithMath: 1, MathExtracted: 2})
	assert.Contains(t, clean, "Summary")
	assert.Contains(t, clean, "Files checked:")
	assert.Contains(t, clean, "Blocks extracted:")
	assert.Contains(t, clean, "Extraction completed")
	assert.NotContains(t, clean, "Blocks dropped:")

	dropped := styles.FormatSummary(runner.Stats{FilesProcessed: 1, MathDropped: 1})
	assert.Contains(t, dropped, "Blocks dropped:")
	assert.Contains(t, dropped, "with dropped blocks")

	failed := styles.FormatSummary(runner.Stats{FilesErrored: 1})
	assert.Contains(t, failed, "Extraction failed")
}
