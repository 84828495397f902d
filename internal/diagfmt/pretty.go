// Package diagfmt renders a diag.Bag for driftc's CLI output. The teacher's
// internal/diagfmt.Pretty resolves each diagnostic's source.Span against a
// source.FileSet to print a file:line:col caret view; driftc's input comes
// from internal/astjson fixtures carrying no real source positions (every
// Span is the zero value), so this trimmed port drops the FileSet and caret
// rendering and prints severity, code and message — the part of the
// teacher's format that still applies without a lexer in the loop.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"drift/internal/diag"
)

// PrettyOpts controls Pretty's rendering.
type PrettyOpts struct {
	Color     bool
	WithNotes bool
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.FgHiBlack)
)

// Pretty writes one line per diagnostic in bag, in the order bag.Sort left
// them, followed by a summary line.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	errs, warns := 0, 0
	for _, d := range bag.Items() {
		sev := severityLabel(d.Severity, opts.Color)
		code := d.Code.String()
		if opts.Color {
			code = codeColor.Sprint(code)
		}
		fmt.Fprintf(w, "%s[%s]: %s\n", sev, code, d.Message)
		if opts.WithNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "    note: %s\n", n.Msg)
			}
		}
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errs, warns)
}

func severityLabel(sev diag.Severity, withColor bool) string {
	label := sev.String()
	if !withColor {
		return label
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(label)
	case diag.SevWarning:
		return warningColor.Sprint(label)
	default:
		return infoColor.Sprint(label)
	}
}
