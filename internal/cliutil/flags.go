package cliutil

import "github.com/spf13/cobra"

// AddPersistentFlags registers the flags every driftc/drift subcommand
// inherits: color/quiet/timings/diagnostics caps, profiling sinks, the
// command timeout, and the trace-* family, mirroring cmd/surge/main.go's
// root flag set.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	cmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	cmd.PersistentFlags().Bool("timings", false, "show per-stage timing information")
	cmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	cmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	cmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
	cmd.PersistentFlags().String("runtime-trace", "", "write Go runtime trace to file")
	cmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds")

	cmd.PersistentFlags().String("trace", "", "trace output file (- for stderr, empty to disable)")
	cmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	cmd.PersistentFlags().String("trace-mode", "ring", "storage mode (stream|ring|both)")
	cmd.PersistentFlags().String("trace-format", "auto", "output format (auto|text|ndjson|chrome) - auto detects from file extension")
	cmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer capacity for trace events")
	cmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval (0 to disable, e.g. 1s)")
}
