package mathscan_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/gomdmath/pkg/mathscan"
)

func BenchmarkScan(b *testing.B) {
	line := `Text with $a+b$ and $$\sum_{i=0}^n i$$ then \[x\] and \begin{align}y\end{align} costs $5 and $6.` + "\n"
	segment := []byte(strings.Repeat(line, 200))
	scanner := mathscan.New(mathscan.Options{
		Dollars:      true,
		Brackets:     true,
		Parens:       true,
		Environments: true,
	})

	b.SetBytes(int64(len(segment)))
	b.ResetTimer()
	for range b.N {
		if len(scanner.Scan(segment, 0)) == 0 {
			b.Fail()
		}
	}
}
