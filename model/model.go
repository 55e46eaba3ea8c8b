package model

// Span is one labeled run of a diff. Added and Removed are never both set;
// both false means the text is unchanged.
type Span struct {
	Value   string
	Added   bool
	Removed bool
}

// Unchanged reports whether the span is present in both texts.
func (s Span) Unchanged() bool {
	return !s.Added && !s.Removed
}

// Engine names the alignment strategy used to produce a span list.
type Engine string

const (
	EngineLCS   Engine = "lcs"
	EngineMyers Engine = "myers"
	EngineAuto  Engine = "auto"
)

// Stats counts tokens per change tag.
type Stats struct {
	Added     int
	Removed   int
	Unchanged int
}

// Text is one side of a comparison.
type Text struct {
	Label   string
	Content string
}

// Pair holds the two texts being compared.
type Pair struct {
	Original Text
	Modified Text
}

// Result is the outcome of comparing a Pair.
type Result struct {
	Pair   Pair
	Spans  []Span
	Stats  Stats
	Engine Engine
}

// Report holds the results of an operation for display.
type Report struct {
	Result  *Result
	Prompt  string
	Lines   []string
	Message string
	// Success marks Message as reporting a completed change.
	Success bool
	// Path is the file the operation wrote, if any.
	Path    string
}
