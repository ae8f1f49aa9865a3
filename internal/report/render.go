// Package report renders scan results and diagnostics for the terminal:
// matching file paths in the found color, highlighted matching lines
// indented beneath them, and warnings on the error stream.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/vaultgrep/vaultgrep/internal/types"
)

// Printer writes results to out and diagnostics to errOut. Color state is
// fixed at construction so output is deterministic regardless of the
// process-global color detection.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	found  *color.Color
	match  *color.Color
	warn   *color.Color
}

// NewPrinter builds a printer. noColor disables all escape sequences;
// otherwise they are emitted even when the writers are not terminals.
func NewPrinter(out, errOut io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:    out,
		errOut: errOut,
		found:  color.New(color.FgGreen, color.Bold),
		match:  color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.found, p.match, p.warn} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

// Highlight wraps a match span in the match color. It is handed to the
// search matcher as its marker function.
func (p *Printer) Highlight(s string) string {
	return p.match.Sprint(s)
}

// FileMatch prints one matching file: the path in the found color, each
// matching line indented by two spaces, then a blank separator line.
func (p *Printer) FileMatch(m types.FileMatch) {
	fmt.Fprintln(p.out, p.found.Sprint(m.Path))
	for _, line := range m.Lines {
		fmt.Fprintf(p.out, "  %s\n", line)
	}
	fmt.Fprintln(p.out)
}

// NoMatches prints the whole-run fallback message.
func (p *Printer) NoMatches(pattern string) {
	fmt.Fprintf(p.out, "No matches found for pattern: %s\n", pattern)
}

// Warnf prints one warning line to the error stream.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.warn.Sprintf("Warning: "+format, args...))
}
