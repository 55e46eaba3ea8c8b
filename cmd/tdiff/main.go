package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/sokinpui/tdiff.go/cli"
	"github.com/sokinpui/tdiff.go/internal/render"
	"github.com/sokinpui/tdiff.go/internal/tui"
	"github.com/sokinpui/tdiff.go/internal/ui"
	"github.com/sokinpui/tdiff.go/model"
	"github.com/sokinpui/tdiff.go/tdiff"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		// pflag already prints parse errors; validation errors are ours.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	colored := interactive && !cfg.NoColor
	ui.SetColor(colored)
	styles := render.PlainStyles()
	if colored {
		styles = render.DefaultStyles()
	}

	app, err := tdiff.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Modes that print and exit, and non-terminal output, skip the TUI.
	if !interactive || cfg.Plain || cfg.Prompt || cfg.ListPersonas || cfg.AddPersona != "" || cfg.RemovePersona != "" || cfg.History {
		report, err := app.Execute()
		if err != nil {
			var e *tdiff.DetailedError
			if errors.As(err, &e) {
				fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
			}
			ui.Error("Error: %v", err)
			os.Exit(1)
		}
		printReport(cfg, report, styles, outputWidth(interactive))
		return
	}

	viewer := tui.New(app, cfg, styles)
	final, err := tea.NewProgram(viewer, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		ui.Error("Error: %v", m.Err())
		os.Exit(1)
	}
}

// fallbackWidth is the split view width when stdout is not a terminal.
const fallbackWidth = 120

func outputWidth(interactive bool) int {
	if !interactive {
		return fallbackWidth
	}
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return fallbackWidth
	}
	return w
}

func printReport(cfg *cli.Config, report model.Report, styles render.Styles, width int) {
	switch {
	case report.Message == "":
	case report.Success:
		ui.Success("%s", report.Message)
	default:
		ui.Header("%s", report.Message)
	}
	if report.Path != "" {
		ui.Path("%s", report.Path)
	}
	for _, line := range report.Lines {
		fmt.Println(line)
	}
	if report.Result == nil {
		return
	}

	if cfg.Prompt {
		fmt.Print(report.Prompt)
		return
	}
	ui.Info("%s", render.StatsLine(report.Result))
	fmt.Print(render.View(cfg.View, report.Result.Spans, styles, width))
}
