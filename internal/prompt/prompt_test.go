package prompt

import (
	"strings"
	"testing"

	"github.com/sokinpui/tdiff.go/internal/persona"
	"github.com/sokinpui/tdiff.go/model"
)

func TestBuild(t *testing.T) {
	p := persona.Persona{Name: "editor", Prompt: "  You are an editor.  "}
	pair := model.Pair{
		Original: model.Text{Label: "a.txt", Content: "the cat sat"},
		Modified: model.Text{Label: "b.txt", Content: "the dog sat\n"},
	}
	got := Build(p, pair, model.Stats{Added: 1, Removed: 1, Unchanged: 4})

	want := "You are an editor.\n\n" + request + "\n\n" +
		"Change summary: 1 token added, 1 token removed, 4 tokens unchanged.\n\n" +
		"Original (a.txt):\n```\nthe cat sat\n```\n\n" +
		"Modified (b.txt):\n```\nthe dog sat\n```\n"
	if got != want {
		t.Errorf("Build mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildFenceOutgrowsContent(t *testing.T) {
	pair := model.Pair{
		Original: model.Text{Content: "use ```go blocks```"},
		Modified: model.Text{Content: "use ````go blocks````"},
	}
	got := Build(persona.Defaults[0], pair, model.Stats{})
	if !strings.Contains(got, "Original:\n`````\n") {
		t.Errorf("expected a five-backtick fence, got:\n%s", got)
	}
	if !strings.Contains(got, "Change summary: no changes.") {
		t.Errorf("missing summary line:\n%s", got)
	}
}

func TestFenceFor(t *testing.T) {
	tests := map[string]string{
		"":       "```",
		"a`b":    "```",
		"``````": "```````",
	}
	for in, want := range tests {
		if got := fenceFor(in); got != want {
			t.Errorf("fenceFor(%q) = %q, want %q", in, got, want)
		}
	}
}
