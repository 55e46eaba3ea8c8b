// Package persona stores the reviewer personas a text pair can be sent to.
package persona

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/sokinpui/tdiff.go/internal/fs"
)

var (
	ErrNotFound = errors.New("persona not found")
	ErrInvalid  = errors.New("persona needs a name and a prompt")
)

// Persona is a named reviewer voice.
type Persona struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Prompt      string `yaml:"prompt"`
}

type file struct {
	Personas []Persona `yaml:"personas"`
}

// Defaults are used until a personas file exists.
var Defaults = []Persona{
	{
		Name:        "editor",
		Description: "Careful copy editor",
		Prompt: "You are a meticulous copy editor. Judge whether each change improves " +
			"clarity, grammar and tone, and point out anything the revision broke.",
	},
	{
		Name:        "critic",
		Description: "Blunt critic",
		Prompt: "You are a demanding critic. Say plainly which version is stronger and why, " +
			"and name the weakest remaining sentence.",
	},
}

// Store is a YAML-backed set of personas.
type Store struct {
	path     string
	personas map[string]Persona
}

// DefaultPath is <user config dir>/tdiff/personas.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not locate config directory: %w", err)
	}
	return filepath.Join(dir, "tdiff", "personas.yaml"), nil
}

// Load reads the store at path. A missing file yields the defaults.
func Load(path string) (*Store, error) {
	s := &Store{path: path, personas: make(map[string]Persona)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		for _, p := range Defaults {
			s.personas[p.Name] = p
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read personas: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid personas file %s: %w", path, err)
	}
	for _, p := range f.Personas {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("invalid personas file %s: %w", path, err)
		}
		s.personas[p.Name] = p
	}
	return s, nil
}

func validate(p Persona) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Prompt) == "" {
		return ErrInvalid
	}
	return nil
}

// Path is where Save writes.
func (s *Store) Path() string {
	return s.path
}

// List returns all personas sorted by name.
func (s *Store) List() []Persona {
	list := make([]Persona, 0, len(s.personas))
	for _, p := range s.personas {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Get looks a persona up by name.
func (s *Store) Get(name string) (Persona, error) {
	p, ok := s.personas[name]
	if !ok {
		return Persona{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return p, nil
}

// Put adds p or replaces the persona with the same name.
func (s *Store) Put(p Persona) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := validate(p); err != nil {
		return err
	}
	s.personas[p.Name] = p
	return nil
}

// Remove deletes a persona.
func (s *Store) Remove(name string) error {
	if _, ok := s.personas[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(s.personas, name)
	return nil
}

// Save writes the store back to its file.
func (s *Store) Save() error {
	data, err := yaml.Marshal(file{Personas: s.List()})
	if err != nil {
		return fmt.Errorf("failed to encode personas: %w", err)
	}
	if err := fs.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write personas: %w", err)
	}
	return nil
}
