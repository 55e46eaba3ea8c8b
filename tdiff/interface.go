package tdiff

import (
	"github.com/sokinpui/tdiff.go/cli"
	"github.com/sokinpui/tdiff.go/internal/diff"
	"github.com/sokinpui/tdiff.go/model"
)

// Config for using tdiff as a library.
type Config struct {
	// Engine is "lcs", "myers" or "auto" (the default).
	Engine string
	// Bound on the LCS table; auto switches to myers above it. Zero means
	// diff.DefaultMaxCells, negative means unbounded.
	MaxCells int
}

// Compute returns the merged span list for two texts using the LCS engine.
// It never fails; callers are responsible for bounding input size.
func Compute(oldText, newText string) []model.Span {
	return diff.Compute(oldText, newText)
}

// Tokenize splits text into the tokens the diff aligns.
func Tokenize(text string) []string {
	return diff.Tokenize(text)
}

// Compare diffs two texts with the engine and bound in config.
func Compare(oldText, newText string, config Config) (*model.Result, error) {
	maxCells := config.MaxCells
	switch {
	case maxCells == 0:
		maxCells = diff.DefaultMaxCells
	case maxCells < 0:
		maxCells = 0
	}
	app := &App{cfg: &cli.Config{Engine: config.Engine, MaxCells: maxCells}}
	return app.Compare(model.Pair{
		Original: model.Text{Content: oldText},
		Modified: model.Text{Content: newText},
	})
}
