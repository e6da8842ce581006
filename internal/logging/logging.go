// Package logging provides the small tagged logger used by the packaging run.
// User-facing progress lines go to stdout, diagnostics go to stderr with a
// colored tag, and debug lines are printed only in verbose mode.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Logger writes user output and tagged diagnostics to separate streams.
type Logger struct {
	out     io.Writer
	err     io.Writer
	verbose bool
}

// DefaultLogger returns a logger on stdout/stderr with debug output disabled.
func DefaultLogger() *Logger {
	return NewLogger(os.Stdout, os.Stderr, false)
}

// NewLogger creates a logger writing user output to out and diagnostics to err.
func NewLogger(out, err io.Writer, verbose bool) *Logger {
	return &Logger{
		out:     out,
		err:     err,
		verbose: verbose,
	}
}

// Out prints a user-facing line to the output stream.
func (l *Logger) Out(f string, args ...interface{}) {
	fmt.Fprintf(l.out, f+"\n", args...)
}

// Info prints a tagged diagnostic line to the error stream.
func (l *Logger) Info(tag string, f string, args ...interface{}) {
	printTagged(l.err, color.New(color.FgHiGreen), tag, f, args...)
}

// Debug prints a tagged diagnostic line to the error stream in verbose mode.
func (l *Logger) Debug(tag string, f string, args ...interface{}) {
	if l.verbose {
		printTagged(l.err, color.New(color.FgGreen), tag, f, args...)
	}
}

func printTagged(w io.Writer, tagColor *color.Color, tag, f string, args ...interface{}) {
	str := fmt.Sprintf(f, args...)
	for _, line := range strings.Split(str, "\n") {
		fmt.Fprintf(w, "%s  %s\n",
			tagColor.Sprint(tag),
			color.WhiteString(line))
	}
}
