package diff

import (
	"strings"

	"github.com/sokinpui/tdiff.go/model"
)

// Merge joins consecutive spans that carry the same tags. Running it on
// its own output returns an equal list.
func Merge(spans []model.Span) []model.Span {
	if len(spans) == 0 {
		return nil
	}
	merged := make([]model.Span, 0, len(spans))
	for start := 0; start < len(spans); {
		end := start + 1
		for end < len(spans) && sameTags(spans[start], spans[end]) {
			end++
		}
		span := spans[start]
		if end-start > 1 {
			var b strings.Builder
			for _, s := range spans[start:end] {
				b.WriteString(s.Value)
			}
			span.Value = b.String()
		}
		merged = append(merged, span)
		start = end
	}
	return merged
}

func sameTags(a, b model.Span) bool {
	return a.Added == b.Added && a.Removed == b.Removed
}

// Count tallies tokens per tag. A merged span is a run of whole consecutive
// tokens from one side, so re-tokenizing its value recovers them.
func Count(spans []model.Span) model.Stats {
	var stats model.Stats
	for _, s := range spans {
		n := 0
		for range Tokens(s.Value) {
			n++
		}
		switch {
		case s.Added:
			stats.Added += n
		case s.Removed:
			stats.Removed += n
		default:
			stats.Unchanged += n
		}
	}
	return stats
}
