package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokinpui/tdiff.go/cli"
	"github.com/sokinpui/tdiff.go/internal/diff"
	"github.com/sokinpui/tdiff.go/internal/render"
	"github.com/sokinpui/tdiff.go/model"
)

type fakeRunner struct {
	report model.Report
	err    error
	copied int
}

func (f *fakeRunner) Execute() (model.Report, error) { return f.report, f.err }

func (f *fakeRunner) CopyPrompt(*model.Result) error {
	f.copied++
	return nil
}

func sampleReport() model.Report {
	spans := diff.Compute("the cat sat", "the dog sat")
	return model.Report{Result: &model.Result{
		Pair: model.Pair{
			Original: model.Text{Label: "a.txt"},
			Modified: model.Text{Label: "b.txt"},
		},
		Spans:  spans,
		Stats:  diff.Count(spans),
		Engine: model.EngineLCS,
	}}
}

func newModel(r *fakeRunner) Model {
	return New(r, &cli.Config{View: cli.ViewInline}, render.PlainStyles())
}

func TestViewerFlow(t *testing.T) {
	runner := &fakeRunner{report: sampleReport()}
	var m tea.Model = newModel(runner)

	if !strings.Contains(m.View(), "Comparing...") {
		t.Fatalf("expected spinner view, got %q", m.View())
	}

	m, _ = m.Update(m.(Model).runApp())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	view := m.View()
	for _, want := range []string{"a.txt → b.txt", "+1 -1 =4 tokens (lcs)", "the [-cat-]{+dog+} sat", "[inline]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if view := m.View(); !strings.Contains(view, "the [-cat-] sat") || !strings.Contains(view, "[original]") {
		t.Errorf("tab did not switch to the original view:\n%s", view)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("expected a copy command")
	}
	m, _ = m.Update(cmd())
	if runner.copied != 1 || !strings.Contains(m.View(), "copied") {
		t.Errorf("prompt copy not reported (copied=%d):\n%s", runner.copied, m.View())
	}
}

func TestViewerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	var m tea.Model = newModel(runner)
	m, cmd := m.Update(m.(Model).runApp())
	if cmd == nil {
		t.Error("expected the program to quit")
	}
	if !strings.Contains(m.View(), "Error: boom") {
		t.Errorf("error not shown: %q", m.View())
	}
	if m.(Model).Err() == nil {
		t.Error("Err() should report the failure")
	}
}
