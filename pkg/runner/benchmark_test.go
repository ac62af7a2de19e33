package runner_test

import (
	"context"
	"strings"
	"testing"
)

// benchmarkDocument repeats a section mixing display math, inline math
// and code so that every range kind is exercised.
func benchmarkDocument(sections int) []byte {
	section := `## Section

Energy is $E$ and the identity

$$
e^{i\pi} + 1 = 0
$$

holds. Brackets work too: \[ \int_0^1 x\,dx = \frac{1}{2} \]

` + "```go\nprice := \"$$5\"\n```\n\n" + `Inline ` + "`$$code$$`" + ` is left alone.

`
	return []byte("# Benchmark\n\n" + strings.Repeat(section, sections))
}

func BenchmarkProcessContent(b *testing.B) {
	pipeline, _ := newPipeline(b, sequentialConfig())
	content := benchmarkDocument(50)
	ctx := context.Background()

	b.SetBytes(int64(len(content)))
	b.ResetTimer()
	for range b.N {
		result, err := pipeline.ProcessContent(ctx, "bench.md", content, nil)
		if err != nil || result.Output == nil {
			b.Fail()
		}
	}
}
