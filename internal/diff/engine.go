package diff

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/sokinpui/tdiff.go/model"
)

// DefaultMaxCells bounds the LCS table at roughly 32 MiB of ints.
const DefaultMaxCells = 4_000_000

// ErrTooLarge is returned when the LCS engine is forced on inputs whose
// table would exceed the cell budget.
var ErrTooLarge = errors.New("inputs too large for the LCS table")

// Options selects an engine and bounds its memory.
type Options struct {
	Engine model.Engine
	// MaxCells caps the LCS table. Zero or negative means unbounded.
	MaxCells int
}

// ParseEngine validates an engine name. The empty string means auto.
func ParseEngine(name string) (model.Engine, error) {
	switch e := model.Engine(name); e {
	case "":
		return model.EngineAuto, nil
	case model.EngineLCS, model.EngineMyers, model.EngineAuto:
		return e, nil
	default:
		return "", fmt.Errorf("unknown engine %q (want lcs, myers or auto)", name)
	}
}

// ComputeOptions diffs two texts with the engine chosen by opts and reports
// which engine actually ran.
func ComputeOptions(oldText, newText string, opts Options) ([]model.Span, model.Engine, error) {
	a, b := Tokenize(oldText), Tokenize(newText)
	fits := opts.MaxCells <= 0 || cells(len(a), len(b)) <= opts.MaxCells

	switch opts.Engine {
	case model.EngineLCS:
		if !fits {
			return nil, "", fmt.Errorf("%w: %d x %d tokens exceeds %d cells", ErrTooLarge, len(a), len(b), opts.MaxCells)
		}
		return Merge(align(a, b)), model.EngineLCS, nil
	case model.EngineMyers:
		return Merge(alignMyers(a, b)), model.EngineMyers, nil
	case model.EngineAuto, "":
		if fits {
			return Merge(align(a, b)), model.EngineLCS, nil
		}
		return Merge(alignMyers(a, b)), model.EngineMyers, nil
	default:
		return nil, "", fmt.Errorf("unknown engine %q", opts.Engine)
	}
}

// Tokens are interned as runes from the supplementary planes so that no
// surrogate or otherwise unencodable value reaches the string conversions
// inside diffmatchpatch.
const (
	runeBase = 0x10000
	runeMax  = utf8.MaxRune - runeBase + 1
)

// alignMyers aligns token sequences with diffmatchpatch's Myers
// implementation, which runs in linear space. It returns one span per
// diffmatchpatch run, unmerged.
func alignMyers(a, b []string) []model.Span {
	vocab := make([]string, 0, 64)
	index := make(map[string]rune)
	intern := func(tokens []string) ([]rune, bool) {
		out := make([]rune, len(tokens))
		for i, tok := range tokens {
			r, ok := index[tok]
			if !ok {
				if len(vocab) >= runeMax {
					return nil, false
				}
				r = rune(runeBase + len(vocab))
				index[tok] = r
				vocab = append(vocab, tok)
			}
			out[i] = r
		}
		return out, true
	}

	ra, okA := intern(a)
	rb, okB := intern(b)
	dmp := diffmatchpatch.New()
	if !okA || !okB {
		// Vocabulary overflow: fall back to a character diff of the raw text.
		return fromDiffs(dmp.DiffMain(join(a), join(b), false), nil)
	}
	return fromDiffs(dmp.DiffMainRunes(ra, rb, false), vocab)
}

// fromDiffs converts diffmatchpatch runs to spans. With a vocabulary each
// rune of a run is decoded back to its token.
func fromDiffs(diffs []diffmatchpatch.Diff, vocab []string) []model.Span {
	spans := make([]model.Span, 0, len(diffs))
	for _, d := range diffs {
		value := d.Text
		if vocab != nil {
			value = decode(d.Text, vocab)
		}
		if value == "" {
			continue
		}
		spans = append(spans, model.Span{
			Value:   value,
			Added:   d.Type == diffmatchpatch.DiffInsert,
			Removed: d.Type == diffmatchpatch.DiffDelete,
		})
	}
	return spans
}

func decode(runes string, vocab []string) string {
	n := 0
	for _, r := range runes {
		n += len(vocab[r-runeBase])
	}
	buf := make([]byte, 0, n)
	for _, r := range runes {
		buf = append(buf, vocab[r-runeBase]...)
	}
	return string(buf)
}

func join(tokens []string) string {
	n := 0
	for _, t := range tokens {
		n += len(t)
	}
	buf := make([]byte, 0, n)
	for _, t := range tokens {
		buf = append(buf, t...)
	}
	return string(buf)
}
