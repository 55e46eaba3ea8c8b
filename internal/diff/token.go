package diff

import (
	"iter"
	"slices"
	"unicode"
	"unicode/utf8"
)

// class is the token class a rune belongs to.
type class int

const (
	classWord class = iota
	classCJK
	classSpace
	classSymbol
)

// The ideograph range is U+4E00..U+9FA5 only. Extension blocks and the
// tail of the unified block are treated as symbols.
const (
	cjkFirst = 0x4E00
	cjkLast  = 0x9FA5
)

func classOf(r rune) class {
	switch {
	case r == '_',
		'a' <= r && r <= 'z',
		'A' <= r && r <= 'Z',
		'0' <= r && r <= '9':
		return classWord
	case cjkFirst <= r && r <= cjkLast:
		return classCJK
	case unicode.IsSpace(r), r == '\uFEFF':
		return classSpace
	default:
		return classSymbol
	}
}

// Tokens returns the token sequence of text. Words, whitespace and symbols
// are maximal runs; every CJK ideograph is a token of its own. The sequence
// is lazy and can be ranged over any number of times. Concatenating the
// tokens reproduces text exactly, including invalid UTF-8.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for start := 0; start < len(text); {
			r, width := utf8.DecodeRuneInString(text[start:])
			c := classOf(r)
			end := start + width
			if c != classCJK {
				for end < len(text) {
					next, w := utf8.DecodeRuneInString(text[end:])
					if classOf(next) != c {
						break
					}
					end += w
				}
			}
			if !yield(text[start:end]) {
				return
			}
			start = end
		}
	}
}

// Tokenize collects Tokens(text) into a slice.
func Tokenize(text string) []string {
	return slices.Collect(Tokens(text))
}
