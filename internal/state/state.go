package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sokinpui/tdiff.go/internal/fs"
	"github.com/sokinpui/tdiff.go/model"
)

const (
	stateDirName    = ".tdiff"
	historyFileName = "history"
	formatVersion   = "1"

	// MaxEntries is how many comparisons are kept.
	MaxEntries = 100
)

// linesPerEntry is timestamp, engine, two labels, two hashes and counts.
const linesPerEntry = 7

// Entry records one comparison.
type Entry struct {
	Timestamp    int64
	Engine       model.Engine
	Original     string
	Modified     string
	OriginalHash string
	ModifiedHash string
	Stats        model.Stats
}

// NewEntry summarizes r as a history entry.
func NewEntry(r *model.Result, now time.Time) Entry {
	return Entry{
		Timestamp:    now.UTC().Unix(),
		Engine:       r.Engine,
		Original:     r.Pair.Original.Label,
		Modified:     r.Pair.Modified.Label,
		OriginalHash: fs.HashText(r.Pair.Original.Content),
		ModifiedHash: fs.HashText(r.Pair.Modified.Content),
		Stats:        r.Stats,
	}
}

// Manager handles the lifecycle of the history file.
type Manager struct {
	historyPath string
	entries     []Entry // oldest first
	StateDir    string
}

// New loads the history kept at the repository root, or the working
// directory outside a repository.
func New() (*Manager, error) {
	rootDir, err := fs.FindRoot()
	if err != nil {
		return nil, err
	}
	return NewAt(filepath.Join(rootDir, stateDirName))
}

// NewAt loads the history kept in stateDir. A corrupt file is reported
// and the history starts empty.
func NewAt(stateDir string) (*Manager, error) {
	m := &Manager{
		historyPath: filepath.Join(stateDir, historyFileName),
		StateDir:    stateDir,
	}
	if err := m.load(); err != nil {
		m.entries = nil
		return m, fmt.Errorf("discarding unreadable history %s: %w", m.historyPath, err)
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.historyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	// Normalize line endings to LF
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")
	if len(blocks) == 0 || strings.TrimSpace(blocks[0]) == "" {
		return nil
	}

	// First block is the format version
	if v := strings.TrimSpace(blocks[0]); v != formatVersion {
		return fmt.Errorf("unsupported history format %q", v)
	}

	for _, block := range blocks[1:] {
		block = strings.Trim(block, "\n")
		if block == "" {
			continue
		}
		entry, err := parseEntry(strings.Split(block, "\n"))
		if err != nil {
			return err
		}
		m.entries = append(m.entries, entry)
	}
	return nil
}

func parseEntry(lines []string) (Entry, error) {
	if len(lines) != linesPerEntry {
		return Entry{}, fmt.Errorf("invalid history entry: want %d lines, got %d", linesPerEntry, len(lines))
	}
	ts, err := strconv.ParseInt(lines[0], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid history entry: could not parse timestamp from '%s': %w", lines[0], err)
	}
	counts := strings.Fields(lines[6])
	if len(counts) != 3 {
		return Entry{}, fmt.Errorf("invalid history entry: malformed counts '%s'", lines[6])
	}
	var n [3]int
	for i, c := range counts {
		if n[i], err = strconv.Atoi(c); err != nil {
			return Entry{}, fmt.Errorf("invalid history entry: could not parse count '%s': %w", c, err)
		}
	}
	return Entry{
		Timestamp:    ts,
		Engine:       model.Engine(lines[1]),
		Original:     lines[2],
		Modified:     lines[3],
		OriginalHash: lines[4],
		ModifiedHash: lines[5],
		Stats:        model.Stats{Added: n[0], Removed: n[1], Unchanged: n[2]},
	}, nil
}

func (m *Manager) save() error {
	blocks := []string{formatVersion}
	for _, e := range m.entries {
		blocks = append(blocks, strings.Join([]string{
			strconv.FormatInt(e.Timestamp, 10),
			string(e.Engine),
			oneLine(e.Original),
			oneLine(e.Modified),
			e.OriginalHash,
			e.ModifiedHash,
			fmt.Sprintf("%d %d %d", e.Stats.Added, e.Stats.Removed, e.Stats.Unchanged),
		}, "\n"))
	}
	content := strings.Join(blocks, "\n\n") + "\n"
	if err := fs.WriteFileAtomic(m.historyPath, []byte(content)); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Labels become single lines; an empty one would collapse the block.
func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "-"
	}
	return s
}

// Record appends an entry, dropping the oldest beyond MaxEntries.
func (m *Manager) Record(e Entry) error {
	m.entries = append(m.entries, e)
	if over := len(m.entries) - MaxEntries; over > 0 {
		m.entries = append([]Entry(nil), m.entries[over:]...)
	}
	return m.save()
}

// Entries returns the history, newest first.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[len(m.entries)-1-i] = e
	}
	return out
}
