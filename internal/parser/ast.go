package parser

import (
	"bytes"
	"errors"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrNoPair is returned when a document holds fewer than two code blocks.
var ErrNoPair = errors.New("expected two fenced code blocks (original and modified)")

// CodeBlock represents a parsed code block from markdown content.
type CodeBlock struct {
	// Hint is the paragraph or heading immediately preceding the code block.
	Hint string
	// Info is the info string after the opening fence (e.g., "text original").
	Info string
	// Content is the raw text inside the code block.
	Content string
}

// ExtractCodeBlocks uses a markdown AST to find all fenced code blocks
// and their preceding paragraph or heading, which is treated as a hint.
func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fencedCodeBlock, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block CodeBlock
		if fencedCodeBlock.Info != nil {
			block.Info = strings.TrimSpace(string(fencedCodeBlock.Info.Text(source)))
		}

		var content bytes.Buffer
		lines := fencedCodeBlock.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.Content = content.String()

		switch prev := fencedCodeBlock.PreviousSibling().(type) {
		case *ast.Paragraph:
			block.Hint = strings.TrimSpace(string(prev.Text(source)))
		case *ast.Heading:
			block.Hint = strings.TrimSpace(string(prev.Text(source)))
		}

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	return blocks, nil
}

type role int

const (
	roleNone role = iota
	roleOriginal
	roleModified
)

var roleWords = map[string]role{
	"original": roleOriginal,
	"old":      roleOriginal,
	"before":   roleOriginal,
	"modified": roleModified,
	"new":      roleModified,
	"after":    roleModified,
	"revised":  roleModified,
}

// roleOf looks for a labelling word in the info string first, then the hint.
func roleOf(b CodeBlock) role {
	for _, s := range []string{b.Info, b.Hint} {
		words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		for _, w := range words {
			if r, ok := roleWords[w]; ok {
				return r
			}
		}
	}
	return roleNone
}

// ExtractPair picks the original and modified texts out of a markdown
// document. Blocks labelled original/old/before and modified/new/after win.
// A role left without a label takes the first other block; with no labels
// at all the first two blocks are used in order.
func ExtractPair(source []byte) (original, modified string, err error) {
	blocks, err := ExtractCodeBlocks(source)
	if err != nil {
		return "", "", err
	}
	if len(blocks) < 2 {
		return "", "", ErrNoPair
	}

	orig, mod := -1, -1
	for i, b := range blocks {
		switch roleOf(b) {
		case roleOriginal:
			if orig < 0 {
				orig = i
			}
		case roleModified:
			if mod < 0 {
				mod = i
			}
		}
	}
	if orig < 0 {
		orig = firstOther(len(blocks), mod)
	}
	if mod < 0 {
		mod = firstOther(len(blocks), orig)
	}
	return blocks[orig].Content, blocks[mod].Content, nil
}

// firstOther returns the lowest block index that is not taken.
func firstOther(n, taken int) int {
	for i := range n {
		if i != taken {
			return i
		}
	}
	return -1
}
