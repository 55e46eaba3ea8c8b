package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Views a diff can be rendered in.
const (
	ViewInline   = "inline"
	ViewOriginal = "original"
	ViewModified = "modified"
	ViewSplit    = "split"
)

var views = []string{ViewInline, ViewOriginal, ViewModified, ViewSplit}

// Config holds all the command-line flag values.
type Config struct {
	// Files are the positional inputs: OLD NEW, or a single markdown document.
	Files      []string
	NvimPath   string
	LookupDirs []string

	Engine   string
	MaxCells int

	View    string
	Plain   bool
	NoColor bool

	Persona       string
	PersonasFile  string
	ListPersonas  bool
	AddPersona    string
	RemovePersona string
	Prompt        bool
	CopyPrompt    bool

	History   bool
	NoHistory bool
}

// ParseFlags parses the process arguments.
func ParseFlags() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse defines and parses command-line flags using pflag.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("tdiff", pflag.ContinueOnError)

	// Input
	flags.StringVar(&cfg.NvimPath, "nvim", "", "Compare the file on disk with its unsaved buffer in the running Neovim.")
	flags.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Directories to look for input files in (default: current directory).")

	// Engine
	flags.StringVar(&cfg.Engine, "engine", "auto", "Alignment engine: lcs, myers or auto.")
	flags.IntVar(&cfg.MaxCells, "max-cells", 4_000_000, "Largest LCS table to build; auto switches to myers above it. 0 disables the limit.")

	// Output
	flags.StringVarP(&cfg.View, "view", "v", ViewInline, "View to render: inline, original, modified or split.")
	flags.BoolVarP(&cfg.Plain, "plain", "p", false, "Print the diff instead of starting the interactive viewer.")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable colors; changes are marked with [-removed-] and {+added+}.")

	// Review
	flags.StringVar(&cfg.Persona, "persona", "editor", "Persona used for the review prompt.")
	flags.StringVar(&cfg.PersonasFile, "personas", "", "Personas file (default: <user config dir>/tdiff/personas.yaml).")
	flags.BoolVar(&cfg.ListPersonas, "list-personas", false, "List available personas.")
	flags.StringVar(&cfg.AddPersona, "add-persona", "", "Add or replace a persona, given as NAME=PROMPT.")
	flags.StringVar(&cfg.RemovePersona, "remove-persona", "", "Remove a persona.")
	flags.BoolVar(&cfg.Prompt, "prompt", false, "Print the review prompt for the chosen persona.")
	flags.BoolVarP(&cfg.CopyPrompt, "copy-prompt", "c", false, "Copy the review prompt to the clipboard.")

	// History
	flags.BoolVar(&cfg.History, "history", false, "Show recent comparisons.")
	flags.BoolVar(&cfg.NoHistory, "no-history", false, "Do not record this comparison.")

	flags.Usage = func() {
		fmt.Println("Usage: tdiff [flags] [OLD NEW | DOC.md]")
		fmt.Println("\nHighlight the differences between two texts.")
		fmt.Println("With no arguments, a markdown document holding two code blocks is read from stdin (pipe) or the clipboard.")
		fmt.Println("\nExample: tdiff draft-1.md draft-2.md")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	cfg.Files = flags.Args()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	modes := 0
	for _, set := range []bool{cfg.ListPersonas, cfg.AddPersona != "", cfg.RemovePersona != "", cfg.History} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return errors.New("error: --list-personas, --add-persona, --remove-persona and --history are mutually exclusive")
	}

	if len(cfg.Files) > 2 {
		return fmt.Errorf("error: expected at most two inputs, got %d", len(cfg.Files))
	}
	if cfg.NvimPath != "" && len(cfg.Files) > 0 {
		return errors.New("error: --nvim cannot be combined with file arguments")
	}

	if !contains(views, cfg.View) {
		return fmt.Errorf("error: unknown view %q (want %s)", cfg.View, strings.Join(views, ", "))
	}
	switch cfg.Engine {
	case "lcs", "myers", "auto":
	default:
		return fmt.Errorf("error: unknown engine %q (want lcs, myers or auto)", cfg.Engine)
	}
	if cfg.MaxCells < 0 {
		return errors.New("error: --max-cells must not be negative")
	}

	if cfg.AddPersona != "" {
		if _, _, ok := cfg.PersonaDefinition(); !ok {
			return errors.New("error: --add-persona expects NAME=PROMPT")
		}
	}
	return nil
}

// PersonaDefinition splits the --add-persona value into name and prompt.
func (cfg *Config) PersonaDefinition() (name, prompt string, ok bool) {
	name, prompt, ok = strings.Cut(cfg.AddPersona, "=")
	name, prompt = strings.TrimSpace(name), strings.TrimSpace(prompt)
	return name, prompt, ok && name != "" && prompt != ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
