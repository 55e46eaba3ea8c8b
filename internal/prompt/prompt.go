package prompt

import (
	"fmt"
	"strings"

	"github.com/sokinpui/tdiff.go/internal/persona"
	"github.com/sokinpui/tdiff.go/model"
)

const request = "Please review the revision below. Compare the original with the modified " +
	"version, say whether the changes are improvements, and suggest anything that should be changed further."

// Build writes the review request for p. The full texts are sent rather
// than the spans; the stats only give the reader a sense of scale.
func Build(p persona.Persona, pair model.Pair, stats model.Stats) string {
	fence := fenceFor(pair.Original.Content, pair.Modified.Content)

	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.Prompt))
	b.WriteString("\n\n")
	b.WriteString(request)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Change summary: %s.\n\n", Summary(stats))
	writeBlock(&b, "Original", pair.Original, fence)
	b.WriteString("\n")
	writeBlock(&b, "Modified", pair.Modified, fence)
	return b.String()
}

// Summary describes token counts in words.
func Summary(stats model.Stats) string {
	if stats.Added == 0 && stats.Removed == 0 {
		return "no changes"
	}
	return fmt.Sprintf("%s added, %s removed, %s unchanged",
		plural(stats.Added), plural(stats.Removed), plural(stats.Unchanged))
}

func plural(n int) string {
	if n == 1 {
		return "1 token"
	}
	return fmt.Sprintf("%d tokens", n)
}

func writeBlock(b *strings.Builder, title string, text model.Text, fence string) {
	if text.Label != "" {
		fmt.Fprintf(b, "%s (%s):\n", title, text.Label)
	} else {
		fmt.Fprintf(b, "%s:\n", title)
	}
	b.WriteString(fence)
	b.WriteString("\n")
	b.WriteString(text.Content)
	if !strings.HasSuffix(text.Content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence)
	b.WriteString("\n")
}

// fenceFor returns a backtick fence longer than any backtick run in texts.
func fenceFor(texts ...string) string {
	longest := 0
	for _, t := range texts {
		run := 0
		for i := 0; i < len(t); i++ {
			if t[i] == '`' {
				run++
				longest = max(longest, run)
			} else {
				run = 0
			}
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}
