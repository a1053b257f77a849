package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
	Bold   = "\033[1m"
)

// Out receives everything the Print helpers write.
var Out io.Writer = os.Stdout

// isTTY reports whether Out is a terminal
func isTTY() bool {
	f, ok := Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorize applies color only if output is a TTY
func colorize(color, msg string) string {
	if !isTTY() {
		return msg
	}
	return color + msg + Reset
}

// OK formats a success message with [OK] prefix in green
func OK(msg string) string {
	return fmt.Sprintf("%s %s", colorize(Green, "[OK]"), msg)
}

// Error formats an error message with [ERROR] prefix in red
func Error(msg string) string {
	return fmt.Sprintf("%s %s", colorize(Red, "[ERROR]"), msg)
}

// Warn formats a warning message with [WARN] prefix in yellow
func Warn(msg string) string {
	return fmt.Sprintf("%s %s", colorize(Yellow, "[WARN]"), msg)
}

// Info formats an info message with [INFO] prefix in blue
func Info(msg string) string {
	return fmt.Sprintf("%s %s", colorize(Blue, "[INFO]"), msg)
}

// TitleWithDesc formats a section title with description
func TitleWithDesc(title, desc string) string {
	return fmt.Sprintf("%s %s", colorize(Bold+Cyan, fmt.Sprintf("[%s]", title)), desc)
}

// Done formats a completion message with [DONE] prefix in green
func Done(msg string) string {
	return fmt.Sprintf("%s %s", colorize(Green+Bold, "[DONE]"), msg)
}

// PrintOK prints a success line to Out
func PrintOK(msg string) {
	fmt.Fprintln(Out, OK(msg))
}

// PrintError prints an error line to Out
func PrintError(msg string) {
	fmt.Fprintln(Out, Error(msg))
}

// PrintWarn prints a warning line to Out
func PrintWarn(msg string) {
	fmt.Fprintln(Out, Warn(msg))
}

// PrintInfo prints an info line to Out
func PrintInfo(msg string) {
	fmt.Fprintln(Out, Info(msg))
}

// PrintDone prints a completion line to Out
func PrintDone(msg string) {
	fmt.Fprintln(Out, Done(msg))
}

// PrintTitle prints a section title
func PrintTitle(title, desc string) {
	fmt.Fprintln(Out, TitleWithDesc(title, desc))
}

// Indent returns the message with indentation
func Indent(msg string) string {
	return "     " + msg
}

// PrintIndent prints an indented message
func PrintIndent(msg string) {
	fmt.Fprintln(Out, Indent(msg))
}
