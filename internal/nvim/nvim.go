package nvim

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
)

var (
	// ErrNoServer is returned when no Neovim address is configured.
	ErrNoServer = errors.New("no running Neovim found (set NVIM_LISTEN_ADDRESS)")
	// ErrBufferNotFound is returned when no loaded buffer shows the file.
	ErrBufferNotFound = errors.New("file is not loaded in any Neovim buffer")
)

// Manager handles the connection and interaction with a Neovim instance.
type Manager struct {
	nvim *nvim.Nvim
}

// Address returns the server address of the surrounding Neovim, if any.
// $NVIM is set inside :terminal buffers; NVIM_LISTEN_ADDRESS is the
// older convention.
func Address() string {
	if addr := os.Getenv("NVIM"); addr != "" {
		return addr
	}
	return os.Getenv("NVIM_LISTEN_ADDRESS")
}

// New connects to the running Neovim at Address. Unsaved buffers only
// exist in a live editor, so there is no headless fallback.
func New() (*Manager, error) {
	addr := Address()
	if addr == "" {
		return nil, ErrNoServer
	}
	return Dial(addr)
}

// Dial connects to the Neovim listening on addr.
func Dial(addr string) (*Manager, error) {
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nvim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// BufferText returns the current, possibly unsaved, contents of the buffer
// editing path.
func (m *Manager) BufferText(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	buffers, err := m.nvim.Buffers()
	if err != nil {
		return "", fmt.Errorf("failed to list buffers: %w", err)
	}

	for _, buf := range buffers {
		name, err := m.nvim.BufferName(buf)
		if err != nil || !sameFile(name, absPath) {
			continue
		}
		loaded, err := m.nvim.IsBufferLoaded(buf)
		if err != nil || !loaded {
			continue
		}

		var lines [][]byte
		var eol bool
		b := m.nvim.NewBatch()
		b.BufferLines(buf, 0, -1, true, &lines)
		b.BufferOption(buf, "eol", &eol)
		if err := b.Execute(); err != nil {
			return "", fmt.Errorf("failed to read buffer for %s: %w", path, err)
		}
		return joinLines(lines, eol), nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrBufferNotFound)
}

func sameFile(bufferName, absPath string) bool {
	if bufferName == "" {
		return false
	}
	return filepath.Clean(bufferName) == filepath.Clean(absPath)
}

// joinLines rebuilds file text from buffer lines the way :write would.
func joinLines(lines [][]byte, eol bool) string {
	text := string(bytes.Join(lines, []byte("\n")))
	if eol && len(lines) > 0 && !(len(lines) == 1 && len(lines[0]) == 0) {
		text += "\n"
	}
	return text
}
