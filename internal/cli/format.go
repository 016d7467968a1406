package cli

import (
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

func PrintSection(w io.Writer, title string) {
	headerColor.Fprintf(w, "\n%s\n", title)
}

func PrintSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func PrintWarning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "⚠ "+format+"\n", args...)
}

func PrintError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ "+format+"\n", args...)
}

func PrintInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, format+"\n", args...)
}
