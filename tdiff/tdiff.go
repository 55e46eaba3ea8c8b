package tdiff

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/tdiff.go/cli"
	"github.com/sokinpui/tdiff.go/internal/diff"
	"github.com/sokinpui/tdiff.go/internal/fs"
	"github.com/sokinpui/tdiff.go/internal/persona"
	"github.com/sokinpui/tdiff.go/internal/prompt"
	"github.com/sokinpui/tdiff.go/internal/source"
	"github.com/sokinpui/tdiff.go/internal/state"
	"github.com/sokinpui/tdiff.go/internal/ui"
	"github.com/sokinpui/tdiff.go/model"
)

// App orchestrates the entire application logic.
type App struct {
	cfg            *cli.Config
	stateManager   *state.Manager
	pathResolver   *fs.PathResolver
	sourceProvider *source.SourceProvider
	writeClipboard func(string) error
	now            func() time.Time
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	var stateManager *state.Manager
	if cfg.History || !cfg.NoHistory {
		m, err := state.New()
		if m == nil {
			return nil, fmt.Errorf("failed to initialize history: %w", err)
		}
		if err != nil {
			ui.Warning("%v", err)
		}
		stateManager = m
	}

	pathResolver := fs.NewPathResolver(cfg.LookupDirs)
	return &App{
		cfg:            cfg,
		stateManager:   stateManager,
		pathResolver:   pathResolver,
		sourceProvider: source.New(pathResolver),
		writeClipboard: clipboard.WriteAll,
		now:            time.Now,
	}, nil
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (report model.Report, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.ListPersonas:
		return a.listPersonas()
	case a.cfg.AddPersona != "":
		return a.addPersona()
	case a.cfg.RemovePersona != "":
		return a.removePersona()
	case a.cfg.History:
		return a.showHistory()
	default:
		return a.compareSource()
	}
}

// compareSource reads the configured pair, diffs it and prepares the
// review prompt when one was asked for.
func (a *App) compareSource() (model.Report, error) {
	pair, err := a.sourceProvider.GetPair(a.cfg)
	if err != nil {
		return model.Report{}, err
	}

	result, err := a.Compare(pair)
	if err != nil {
		return model.Report{}, err
	}
	report := model.Report{Result: result}

	if a.stateManager != nil && !a.cfg.NoHistory {
		if err := a.stateManager.Record(state.NewEntry(result, a.now())); err != nil {
			ui.Warning("Could not record history: %v", err)
		}
	}

	if a.cfg.Prompt || a.cfg.CopyPrompt {
		text, err := a.ReviewPrompt(result)
		if err != nil {
			return model.Report{}, err
		}
		report.Prompt = text
		if a.cfg.CopyPrompt {
			if err := a.writeClipboard(text); err != nil {
				return model.Report{}, fmt.Errorf("failed to copy prompt to clipboard: %w", err)
			}
			report.Message = "Review prompt copied to clipboard."
			report.Success = true
		}
	}
	return report, nil
}

// Compare diffs a pair with the configured engine and cell budget.
func (a *App) Compare(pair model.Pair) (*model.Result, error) {
	engine, err := diff.ParseEngine(a.cfg.Engine)
	if err != nil {
		return nil, err
	}
	spans, used, err := diff.ComputeOptions(pair.Original.Content, pair.Modified.Content, diff.Options{
		Engine:   engine,
		MaxCells: a.cfg.MaxCells,
	})
	if err != nil {
		return nil, err
	}
	return &model.Result{
		Pair:   pair,
		Spans:  spans,
		Stats:  diff.Count(spans),
		Engine: used,
	}, nil
}

// ReviewPrompt builds the review request for the configured persona.
func (a *App) ReviewPrompt(result *model.Result) (string, error) {
	store, err := a.loadPersonas()
	if err != nil {
		return "", err
	}
	p, err := store.Get(a.cfg.Persona)
	if err != nil {
		return "", err
	}
	return prompt.Build(p, result.Pair, result.Stats), nil
}

// loadPersonas opens the configured persona file, falling back to the one in
// the user's config directory.
func (a *App) loadPersonas() (*persona.Store, error) {
	path := a.cfg.PersonasFile
	if path == "" {
		p, err := persona.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return persona.Load(path)
}

// CopyPrompt puts the review request for result on the clipboard.
func (a *App) CopyPrompt(result *model.Result) error {
	text, err := a.ReviewPrompt(result)
	if err != nil {
		return err
	}
	return a.writeClipboard(text)
}

func (a *App) listPersonas() (model.Report, error) {
	store, err := a.loadPersonas()
	if err != nil {
		return model.Report{}, err
	}
	var lines []string
	for _, p := range store.List() {
		line := p.Name
		if p.Description != "" {
			line += " - " + p.Description
		}
		lines = append(lines, line)
	}
	return model.Report{Lines: lines, Message: "Personas:"}, nil
}

func (a *App) addPersona() (model.Report, error) {
	name, text, _ := a.cfg.PersonaDefinition()
	store, err := a.loadPersonas()
	if err != nil {
		return model.Report{}, err
	}
	if err := store.Put(persona.Persona{Name: name, Prompt: text}); err != nil {
		return model.Report{}, err
	}
	if err := store.Save(); err != nil {
		return model.Report{}, err
	}
	return model.Report{
		Message: fmt.Sprintf("Saved persona %q.", name),
		Success: true,
		Path:    fs.Relativize(store.Path()),
	}, nil
}

func (a *App) removePersona() (model.Report, error) {
	store, err := a.loadPersonas()
	if err != nil {
		return model.Report{}, err
	}
	if err := store.Remove(a.cfg.RemovePersona); err != nil {
		return model.Report{}, err
	}
	if err := store.Save(); err != nil {
		return model.Report{}, err
	}
	return model.Report{
		Message: fmt.Sprintf("Removed persona %q.", a.cfg.RemovePersona),
		Success: true,
		Path:    fs.Relativize(store.Path()),
	}, nil
}

func (a *App) showHistory() (model.Report, error) {
	entries := a.stateManager.Entries()
	if len(entries) == 0 {
		return model.Report{Message: "No comparisons recorded."}, nil
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s  +%d -%d =%d  %s -> %s (%s)",
			time.Unix(e.Timestamp, 0).Local().Format("2006-01-02 15:04"),
			e.Stats.Added, e.Stats.Removed, e.Stats.Unchanged,
			e.Original, e.Modified, e.Engine)
	}
	return model.Report{Lines: lines, Message: "Recent comparisons:"}, nil
}
