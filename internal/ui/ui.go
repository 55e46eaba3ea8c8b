package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

// Status lines go to stderr so stdout stays clean for rendered diffs.
var out io.Writer = os.Stderr

// SetOutput redirects status lines and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// SetColor turns colored output on or off globally.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(out, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(out, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(out, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(out, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(out, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(out, "  "+format+"\n", a...)
}
