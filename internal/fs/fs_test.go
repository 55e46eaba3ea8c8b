package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathResolver(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(second, "b.txt"), []byte("beta"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(first, "b.txt"), []byte("alpha"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(second, "c.txt"), []byte("gamma"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewPathResolver([]string{first, second})

	t.Run("first lookup dir wins", func(t *testing.T) {
		got, err := r.ReadText("b.txt")
		if err != nil {
			t.Fatal(err)
		}
		if got != "alpha" {
			t.Errorf("got %q, want alpha", got)
		}
	})

	t.Run("falls through to later dirs", func(t *testing.T) {
		got, err := r.ReadText("c.txt")
		if err != nil {
			t.Fatal(err)
		}
		if got != "gamma" {
			t.Errorf("got %q, want gamma", got)
		}
	})

	t.Run("absolute path", func(t *testing.T) {
		abs := filepath.Join(second, "c.txt")
		got, err := r.Resolve(abs)
		if err != nil || got != abs {
			t.Errorf("Resolve(%s) = %s, %v", abs, got, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := r.ReadText("nope.txt")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected ErrNotExist, got %v", err)
		}
	})
}

func TestReadLimited(t *testing.T) {
	big := strings.NewReader(strings.Repeat("x", MaxInputBytes+1))
	if _, err := ReadLimited(big, "big"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	got, err := ReadLimited(strings.NewReader("small"), "small")
	if err != nil || got != "small" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestHashText(t *testing.T) {
	const emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := HashText(""); got != emptySHA {
		t.Errorf("HashText(\"\") = %s", got)
	}
	if HashText("a") == HashText("b") {
		t.Error("distinct inputs hashed equal")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")
	if err := WriteFileAtomic(path, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("two")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("got %q, want two", data)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}
