package ui

import (
	"bytes"
	"testing"
)

func TestOutputWithoutColor(t *testing.T) {
	SetColor(false)
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	Header("--- %s ---", "Reading")
	Warning("skipped %d", 2)
	Success("saved %s", "notes")
	Path("- %s", "a.txt")

	want := "--- Reading ---\nskipped 2\nsaved notes\n  - a.txt\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
