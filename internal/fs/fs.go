package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sokinpui/tdiff.go/internal/ui"
)

// MaxInputBytes bounds a single input text. The diff table grows with the
// product of both token counts, so inputs are capped before they get there.
const MaxInputBytes = 8 << 20

// ErrTooLarge is returned for inputs over MaxInputBytes.
var ErrTooLarge = errors.New("input exceeds size limit")

// PathResolver finds absolute paths for input files.
type PathResolver struct {
	lookupDirs []string
}

// NewPathResolver creates a new PathResolver. With no lookup dirs the
// current working directory is used.
func NewPathResolver(lookupDirs []string) *PathResolver {
	if len(lookupDirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			// This is unlikely to fail, but if it does, it's a critical error.
			panic(fmt.Sprintf("could not get current working directory: %v", err))
		}
		return &PathResolver{lookupDirs: []string{wd}}
	}

	absDirs := make([]string, 0, len(lookupDirs))
	for _, dir := range lookupDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			ui.Warning("Invalid lookup directory '%s', ignoring: %v", dir, err)
			continue
		}
		absDirs = append(absDirs, abs)
	}
	return &PathResolver{lookupDirs: absDirs}
}

// Resolve finds an existing file. Absolute paths are checked as-is;
// relative ones are tried against each lookup directory in order.
func (r *PathResolver) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	for _, dir := range r.lookupDirs {
		absPath := filepath.Join(dir, path)
		if _, err := os.Stat(absPath); err == nil {
			return absPath, nil
		}
	}
	return "", fmt.Errorf("%s: %w", path, os.ErrNotExist)
}

// ReadText resolves path and reads it, refusing files over MaxInputBytes.
func (r *PathResolver) ReadText(path string) (string, error) {
	abs, err := r.Resolve(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ReadLimited(f, abs)
}

// ReadLimited reads all of rd, failing once more than MaxInputBytes arrive.
func ReadLimited(rd io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(rd, MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > MaxInputBytes {
		return "", fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, MaxInputBytes)
	}
	return string(data), nil
}

// HashText returns the hex SHA-256 of s.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// FindRoot returns the enclosing git repository root, or the working
// directory outside of one.
func FindRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err == nil {
		return strings.TrimSpace(string(output)), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not get current working directory: %w", err)
	}
	return wd, nil
}

// Relativize makes path relative to the working directory when possible.
func Relativize(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// WriteFileAtomic writes data to a temp file beside path and renames it
// into place, creating parent directories.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
