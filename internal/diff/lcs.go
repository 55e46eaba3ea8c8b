package diff

import (
	"slices"

	"github.com/sokinpui/tdiff.go/model"
)

// Compute aligns the tokens of oldText and newText on their longest common
// subsequence and returns the merged span list in document order.
//
// The table is dense, (N+1)*(M+1) cells. Callers handling untrusted input
// should go through ComputeOptions, which enforces a cell budget.
func Compute(oldText, newText string) []model.Span {
	return Merge(align(Tokenize(oldText), Tokenize(newText)))
}

// align returns one span per token, unmerged.
func align(a, b []string) []model.Span {
	n, m := len(a), len(b)
	width := m + 1
	table := make([]int, (n+1)*width)
	for i := 1; i <= n; i++ {
		row := table[i*width : (i+1)*width]
		prev := table[(i-1)*width : i*width]
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				row[j] = prev[j-1] + 1
			} else {
				row[j] = max(prev[j], row[j-1])
			}
		}
	}

	spans := make([]model.Span, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			spans = append(spans, model.Span{Value: a[i-1]})
			i--
			j--
		// Ties go to the insertion.
		case j > 0 && (i == 0 || table[i*width+j-1] >= table[(i-1)*width+j]):
			spans = append(spans, model.Span{Value: b[j-1], Added: true})
			j--
		default:
			spans = append(spans, model.Span{Value: a[i-1], Removed: true})
			i--
		}
	}
	slices.Reverse(spans)
	return spans
}

// cells is the size of the table align would allocate.
func cells(n, m int) int {
	return (n + 1) * (m + 1)
}
