package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/tdiff.go/cli"
	"github.com/sokinpui/tdiff.go/internal/fs"
	"github.com/sokinpui/tdiff.go/internal/nvim"
	"github.com/sokinpui/tdiff.go/internal/parser"
	"github.com/sokinpui/tdiff.go/internal/ui"
	"github.com/sokinpui/tdiff.go/model"
)

const stdinArg = "-"

// SourceProvider determines and retrieves the texts to compare.
type SourceProvider struct {
	resolver *fs.PathResolver

	stdin      io.Reader
	stdinPiped func() bool
	clipboard  func() (string, error)
	bufferText func(path string) (string, error)
}

// New creates a new SourceProvider reading from the process environment.
func New(resolver *fs.PathResolver) *SourceProvider {
	return &SourceProvider{
		resolver:   resolver,
		stdin:      os.Stdin,
		stdinPiped: stdinIsPiped,
		clipboard:  clipboard.ReadAll,
		bufferText: readNvimBuffer,
	}
}

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func readNvimBuffer(path string) (string, error) {
	manager, err := nvim.New()
	if err != nil {
		return "", err
	}
	defer manager.Close()
	return manager.BufferText(path)
}

// GetPair assembles the original and modified texts described by cfg.
func (sp *SourceProvider) GetPair(cfg *cli.Config) (model.Pair, error) {
	switch {
	case cfg.NvimPath != "":
		return sp.bufferPair(cfg.NvimPath)
	case len(cfg.Files) == 2:
		return sp.filePair(cfg.Files[0], cfg.Files[1])
	case len(cfg.Files) == 1:
		content, label, err := sp.read(cfg.Files[0])
		if err != nil {
			return model.Pair{}, err
		}
		return markdownPair(content, label)
	case len(cfg.Files) == 0:
		content, label, err := sp.GetContent()
		if err != nil {
			return model.Pair{}, err
		}
		return markdownPair(content, label)
	default:
		return model.Pair{}, fmt.Errorf("expected at most two inputs, got %d", len(cfg.Files))
	}
}

// GetContent retrieves content from stdin (if piped) or the clipboard.
func (sp *SourceProvider) GetContent() (content, label string, err error) {
	if sp.stdinPiped() {
		ui.Header("--- Reading from stdin ---")
		content, err := fs.ReadLimited(sp.stdin, "stdin")
		return content, "stdin", err
	}

	ui.Header("--- Reading from clipboard ---")
	content, err = sp.clipboard()
	if err != nil {
		return "", "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if len(content) > fs.MaxInputBytes {
		return "", "", fmt.Errorf("clipboard: %w", fs.ErrTooLarge)
	}
	if strings.TrimSpace(content) == "" {
		ui.Warning("Clipboard is empty. Nothing to process.")
	}
	return content, "clipboard", nil
}

func (sp *SourceProvider) read(arg string) (content, label string, err error) {
	if arg == stdinArg {
		content, err := fs.ReadLimited(sp.stdin, "stdin")
		return content, "stdin", err
	}
	content, err = sp.resolver.ReadText(arg)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return content, arg, nil
}

func (sp *SourceProvider) filePair(oldArg, newArg string) (model.Pair, error) {
	if oldArg == stdinArg && newArg == stdinArg {
		return model.Pair{}, errors.New("stdin can supply only one side")
	}
	oldContent, oldLabel, err := sp.read(oldArg)
	if err != nil {
		return model.Pair{}, err
	}
	newContent, newLabel, err := sp.read(newArg)
	if err != nil {
		return model.Pair{}, err
	}
	return model.Pair{
		Original: model.Text{Label: oldLabel, Content: oldContent},
		Modified: model.Text{Label: newLabel, Content: newContent},
	}, nil
}

func (sp *SourceProvider) bufferPair(path string) (model.Pair, error) {
	onDisk, err := sp.resolver.ReadText(path)
	if err != nil {
		return model.Pair{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	abs, err := sp.resolver.Resolve(path)
	if err != nil {
		return model.Pair{}, err
	}
	ui.Header("--- Reading buffer from Neovim ---")
	inBuffer, err := sp.bufferText(abs)
	if err != nil {
		return model.Pair{}, err
	}
	return model.Pair{
		Original: model.Text{Label: path, Content: onDisk},
		Modified: model.Text{Label: path + " (buffer)", Content: inBuffer},
	}, nil
}

func markdownPair(content, label string) (model.Pair, error) {
	original, modified, err := parser.ExtractPair([]byte(content))
	if err != nil {
		return model.Pair{}, fmt.Errorf("%s: %w", label, err)
	}
	return model.Pair{
		Original: model.Text{Label: label + " (original)", Content: original},
		Modified: model.Text{Label: label + " (modified)", Content: modified},
	}, nil
}
