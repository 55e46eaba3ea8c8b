package diff

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sokinpui/tdiff.go/model"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     []model.Span
	}{
		{"both empty", "", "", nil},
		{"identity", "the cat", "the cat", []model.Span{{Value: "the cat"}}},
		{"pure insertion", "", "hello", []model.Span{{Value: "hello", Added: true}}},
		{"pure deletion", "hello", "", []model.Span{{Value: "hello", Removed: true}}},
		{
			"mixed script boundary", "Hi你好", "Hi你",
			[]model.Span{{Value: "Hi你"}, {Value: "好", Removed: true}},
		},
		{
			"tie favours insertion during backtrace", "a", "b",
			[]model.Span{{Value: "a", Removed: true}, {Value: "b", Added: true}},
		},
		{
			"word replaced", "the cat sat", "the dog sat",
			[]model.Span{
				{Value: "the "},
				{Value: "cat", Removed: true},
				{Value: "dog", Added: true},
				{Value: " sat"},
			},
		},
		{
			"words are atomic", "foobar", "foobaz",
			[]model.Span{{Value: "foobar", Removed: true}, {Value: "foobaz", Added: true}},
		},
		{
			"case sensitive", "Go", "go",
			[]model.Span{{Value: "Go", Removed: true}, {Value: "go", Added: true}},
		},
		{
			"whitespace sensitive", "a b", "a  b",
			[]model.Span{{Value: "a"}, {Value: " ", Removed: true}, {Value: "  ", Added: true}, {Value: "b"}},
		},
		{
			"cjk per character", "我爱猫", "我爱狗",
			[]model.Span{{Value: "我爱"}, {Value: "猫", Removed: true}, {Value: "狗", Added: true}},
		},
		{
			"shared trailing token is matched first", "Hello.", "Hello. Bye.",
			[]model.Span{{Value: "Hello"}, {Value: ". Bye", Added: true}, {Value: "."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.old, tt.new)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Compute(%q, %q) mismatch (-want +got):\n%s", tt.old, tt.new, diff)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	raw := []model.Span{
		{Value: "a"}, {Value: " "},
		{Value: "b", Removed: true}, {Value: "c", Removed: true},
		{Value: "d", Added: true},
		{Value: "e"},
	}
	want := []model.Span{
		{Value: "a "},
		{Value: "bc", Removed: true},
		{Value: "d", Added: true},
		{Value: "e"},
	}
	got := Merge(raw)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(got, Merge(got)); diff != "" {
		t.Fatalf("Merge not idempotent (-once +twice):\n%s", diff)
	}
	if Merge(nil) != nil {
		t.Fatal("Merge(nil) should be nil")
	}
}

func TestCount(t *testing.T) {
	got := Count(Compute("the cat sat", "the dog sat"))
	want := model.Stats{Added: 1, Removed: 1, Unchanged: 4}
	if got != want {
		t.Fatalf("Count = %+v, want %+v", got, want)
	}
}

func TestComputeOptions(t *testing.T) {
	oldText, newText := "one two three", "one 2 three four"

	t.Run("lcs over budget", func(t *testing.T) {
		_, _, err := ComputeOptions(oldText, newText, Options{Engine: model.EngineLCS, MaxCells: 4})
		if !errors.Is(err, ErrTooLarge) {
			t.Fatalf("expected ErrTooLarge, got %v", err)
		}
	})

	t.Run("auto within budget matches Compute", func(t *testing.T) {
		spans, engine, err := ComputeOptions(oldText, newText, Options{MaxCells: DefaultMaxCells})
		if err != nil {
			t.Fatal(err)
		}
		if engine != model.EngineLCS {
			t.Errorf("engine = %s, want lcs", engine)
		}
		if diff := cmp.Diff(Compute(oldText, newText), spans); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("auto over budget switches to myers", func(t *testing.T) {
		spans, engine, err := ComputeOptions(oldText, newText, Options{Engine: model.EngineAuto, MaxCells: 4})
		if err != nil {
			t.Fatal(err)
		}
		if engine != model.EngineMyers {
			t.Errorf("engine = %s, want myers", engine)
		}
		checkInvariants(t, oldText, newText, spans)
	})

	t.Run("unbounded", func(t *testing.T) {
		_, engine, err := ComputeOptions(oldText, newText, Options{Engine: model.EngineLCS})
		if err != nil || engine != model.EngineLCS {
			t.Fatalf("got engine %s err %v", engine, err)
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		if _, _, err := ComputeOptions(oldText, newText, Options{Engine: "patience"}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseEngine(t *testing.T) {
	for _, name := range []string{"", "lcs", "myers", "auto"} {
		if _, err := ParseEngine(name); err != nil {
			t.Errorf("ParseEngine(%q): %v", name, err)
		}
	}
	if _, err := ParseEngine("fast"); err == nil {
		t.Error("ParseEngine(\"fast\") should fail")
	}
}

func TestMyersEdges(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     []model.Span
	}{
		{"both empty", "", "", nil},
		{"identity", "same text", "same text", []model.Span{{Value: "same text"}}},
		{"pure insertion", "", "hello", []model.Span{{Value: "hello", Added: true}}},
		{"pure deletion", "hello", "", []model.Span{{Value: "hello", Removed: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := ComputeOptions(tt.old, tt.new, Options{Engine: model.EngineMyers})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInvariants(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"", "x"},
		{"the quick brown fox", "the quick red fox jumps"},
		{"Hello你好!", "Hello 世界!"},
		{"line one\nline two\n", "line one\nline 2\nline three\n"},
		{"a a a", "a"},
		{"a", "a a a"},
		{"\xff\xfe bad", "\xff good"},
	}

	rng := rand.New(rand.NewSource(7))
	alphabet := []string{"a", "b", "cat", " ", "  ", "\n", ",", "!", "你", "好", "_"}
	randomText := func() string {
		var b strings.Builder
		for n := rng.Intn(12); n > 0; n-- {
			b.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		return b.String()
	}
	for range 200 {
		pairs = append(pairs, [2]string{randomText(), randomText()})
	}

	for _, engine := range []model.Engine{model.EngineLCS, model.EngineMyers} {
		for _, p := range pairs {
			spans, _, err := ComputeOptions(p[0], p[1], Options{Engine: engine})
			if err != nil {
				t.Fatalf("%s: %v", engine, err)
			}
			checkInvariants(t, p[0], p[1], spans)
		}
	}
}

func checkInvariants(t *testing.T, oldText, newText string, spans []model.Span) {
	t.Helper()
	var original, modified strings.Builder
	for i, s := range spans {
		if s.Added && s.Removed {
			t.Fatalf("span %d of (%q, %q) is both added and removed", i, oldText, newText)
		}
		if s.Value == "" {
			t.Fatalf("span %d of (%q, %q) is empty", i, oldText, newText)
		}
		if i > 0 && sameTags(spans[i-1], s) {
			t.Fatalf("spans %d and %d of (%q, %q) share tags", i-1, i, oldText, newText)
		}
		if !s.Added {
			original.WriteString(s.Value)
		}
		if !s.Removed {
			modified.WriteString(s.Value)
		}
	}
	if original.String() != oldText {
		t.Fatalf("original side = %q, want %q", original.String(), oldText)
	}
	if modified.String() != newText {
		t.Fatalf("modified side = %q, want %q", modified.String(), newText)
	}
}
