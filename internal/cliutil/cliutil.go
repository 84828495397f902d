// Package cliutil holds the CLI plumbing shared by cmd/driftc and cmd/drift:
// persistent flags, command timeout, tracing setup and teardown, and the
// version subcommand. The teacher ships a single binary (cmd/surge) and
// keeps this logic inline in cmd/surge/main.go, trace_setup.go and
// version.go; this project ships two binaries that both need it verbatim,
// so it is factored out here rather than duplicated.
package cliutil

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to an interactive terminal,
// mirroring cmd/surge/main.go's isTerminal helper.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
