package main

import (
	"fmt"
	"os"
)

// ANSI styles for human-facing status lines on stderr. Command output
// proper (entry content, reports, dates) goes to stdout unstyled so it
// pipes cleanly.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

func styled(style, text string) string {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return text
	}
	return style + text + ansiReset
}

func statusLine(style, mark, format string, args ...any) {
	fmt.Fprintln(os.Stderr, styled(style, mark+" "+fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { statusLine(ansiGreen, "✓", format, args...) }
func printError(format string, args ...any)   { statusLine(ansiRed, "✗", format, args...) }
func printWarning(format string, args ...any) { statusLine(ansiYellow, "⚠", format, args...) }
func printStep(format string, args ...any)    { statusLine(ansiCyan, "→", format, args...) }

// printStatus renders an indented "label: value" detail line.
func printStatus(label, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", styled(ansiBold, label+":"), fmt.Sprintf(format, args...))
}
