package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"drift/internal/astjson"
	"drift/internal/cliutil"
	"drift/internal/config"
	"drift/internal/diagfmt"
	"drift/internal/driftpipeline"
	"drift/internal/pkgfmt"
	"drift/internal/sema"
	"drift/internal/trace"
	"drift/internal/types"
)

// exit codes: 0 success, 1 internal/usage error, 2 the input program itself
// failed to compile (diagnostics contain an error). main() maps
// errDiagnosticFailure to 2 and any other returned error to 1, since cobra
// itself only distinguishes "no error" from "error".
const (
	exitOK             = 0
	exitInternal       = 1
	exitDiagnosticFail = 2
)

// errDiagnosticFailure marks a RunE failure caused by the compiled program's
// own diagnostics rather than a driftc-internal problem, so main can choose
// exit code 2 over the default 1.
var errDiagnosticFailure = errors.New("driftc: compilation reported diagnostic errors")

// IsDiagnosticFailure reports whether err (as returned from Execute) came
// from a program that failed to compile, rather than from driftc itself.
func IsDiagnosticFailure(err error) bool {
	return errors.Is(err, errDiagnosticFailure)
}

var compileFileCmd = &cobra.Command{
	Use:   "compile-file <program.json>",
	Short: "Compile one internal/astjson program document to LLVM IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompileFile,
}

var compilePackageCmd = &cobra.Command{
	Use:   "compile-package [flags] [manifest-dir]",
	Short: "Compile a drift.toml package's root module and emit a .dmp package",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompilePackage,
}

func init() {
	for _, cmd := range []*cobra.Command{compileFileCmd, compilePackageCmd} {
		cmd.Flags().String("entry", "", "required entry function name")
		cmd.Flags().String("out", "", "output path for emitted LLVM IR (default: stdout)")
	}
	compilePackageCmd.Flags().String("emit-package", "", "write a signed-ready .dmp package to this path")
	compilePackageCmd.Flags().String("package-id", "", "override the package id recorded in drift.toml")
	compilePackageCmd.Flags().String("package-version", "", "override the package version recorded in drift.toml")
	compilePackageCmd.Flags().String("target", "", "override the target triple recorded in drift.toml")
}

func runCompileFile(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("driftc: reading %s: %w", args[0], err)
	}
	doc, err := decodeDoc(raw)
	if err != nil {
		return err
	}

	res, code, err := compileDoc(cmd, doc)
	if printErr := finishCompile(cmd, res); printErr != nil {
		return printErr
	}
	return concludeRun(cmd, code, err)
}

func runCompilePackage(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	manifestPath, ok, err := config.FindManifest(dir)
	if err != nil {
		return fmt.Errorf("driftc: locating drift.toml: %w", err)
	}
	if !ok {
		return fmt.Errorf("driftc: no drift.toml found under %s", dir)
	}
	manifest, err := config.LoadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("driftc: loading %s: %w", manifestPath, err)
	}

	repoRoot := filepath.Dir(manifestPath)
	rootDir, err := config.ResolveRoot(repoRoot, manifest.Package.Root)
	if err != nil {
		return fmt.Errorf("driftc: %w", err)
	}

	raw, err := os.ReadFile(filepath.Join(rootDir, "main.json"))
	if err != nil {
		return fmt.Errorf("driftc: reading package root module: %w", err)
	}
	doc, err := decodeDoc(raw)
	if err != nil {
		return err
	}

	res, code, runErr := compileDoc(cmd, doc)
	if printErr := finishCompile(cmd, res); printErr != nil {
		return printErr
	}

	if code == exitOK {
		if emitPath, _ := cmd.Flags().GetString("emit-package"); emitPath != "" {
			packageID, _ := cmd.Flags().GetString("package-id")
			if packageID == "" {
				packageID = manifest.Package.Name
			}
			packageVersion, _ := cmd.Flags().GetString("package-version")
			if packageVersion == "" {
				packageVersion = manifest.Package.Version
			}
			target, _ := cmd.Flags().GetString("target")
			if target == "" {
				target = manifest.Package.Target
			}
			if err := writePackage(emitPath, packageID, packageVersion, target, res); err != nil {
				return fmt.Errorf("driftc: emitting package: %w", err)
			}
		}
	}

	return concludeRun(cmd, code, runErr)
}

// concludeRun turns compileDoc's (code, err) pair into RunE's return value.
// A non-OK exit means PersistentPostRun will not fire, so the tracer is
// flushed and closed here explicitly before returning, mirroring the
// teacher's diag command's explicit cleanup on its own non-zero exit paths.
func concludeRun(cmd *cobra.Command, code int, runErr error) error {
	if code == exitOK {
		return nil
	}
	if tracer := trace.FromContext(cmd.Context()); tracer != nil && tracer != trace.Nop {
		_ = tracer.Flush()
		_ = tracer.Close()
	}
	cmd.SilenceUsage = true
	if code == exitDiagnosticFail {
		cmd.SilenceErrors = true
		return errDiagnosticFailure
	}
	if runErr != nil {
		return runErr
	}
	return fmt.Errorf("driftc: compilation failed")
}

func decodeDoc(raw []byte) (*astjson.ProgramDoc, error) {
	doc, err := astjson.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("driftc: %w", err)
	}
	return doc, nil
}

// compileDoc runs the pipeline and decides the process exit code from its
// outcome, but leaves printing and os.Exit to the caller.
func compileDoc(cmd *cobra.Command, doc *astjson.ProgramDoc) (driftpipeline.Result, int, error) {
	entry, err := cmd.Flags().GetString("entry")
	if err != nil {
		return driftpipeline.Result{}, exitInternal, err
	}
	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driftpipeline.Result{}, exitInternal, err
	}

	res, runErr := driftpipeline.Run(cmd.Context(), driftpipeline.Request{
		Source:         doc,
		Entry:          entry,
		MaxDiagnostics: maxDiag,
		Tracer:         trace.FromContext(cmd.Context()),
	})

	if res.Bag != nil && res.Bag.HasErrors() {
		return res, exitDiagnosticFail, nil
	}
	if runErr != nil {
		return res, exitInternal, runErr
	}
	return res, exitOK, nil
}

func finishCompile(cmd *cobra.Command, res driftpipeline.Result) error {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	colorMode, _ := cmd.Root().PersistentFlags().GetString("color")
	withColor := colorMode == "on" || (colorMode == "auto" && cliutil.IsTerminal(os.Stderr))

	if res.Bag != nil && res.Bag.Len() > 0 && !quiet {
		res.Bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, diagfmt.PrettyOpts{Color: withColor, WithNotes: true})
	}

	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if showTimings {
		for _, stage := range driftpipeline.Stages() {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %-12s %s\n", stage, res.Timings.Duration(stage))
		}
	}

	if res.LLVM == "" {
		return nil
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Fprint(cmd.OutOrStdout(), res.LLVM)
		return nil
	}
	return os.WriteFile(out, []byte(res.LLVM), 0o644)
}

func writePackage(path, packageID, version, target string, res driftpipeline.Result) error {
	modules := []pkgfmt.ModuleRecord{{
		ModuleID: "main",
		Iface:    pkgfmt.ModuleIface{Exports: exportedSymbols(res.Funcs, res.Types)},
	}}
	manifest := &pkgfmt.Manifest{
		PackageID:   packageID,
		Version:     version,
		Target:      target,
		CreatedUnix: time.Now().Unix(),
		Modules:     modules,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	payloads := map[string][]byte{"main": []byte(res.LLVM)}
	return pkgfmt.WriteContainer(f, manifest, payloads)
}

func exportedSymbols(funcs map[string]*sema.FuncSig, ti *types.Interner) map[string]pkgfmt.ExportedSymbol {
	out := make(map[string]pkgfmt.ExportedSymbol, len(funcs))
	for name, sig := range funcs {
		out[name] = pkgfmt.ExportedSymbol{
			Name:      name,
			Signature: signatureString(sig, ti),
			Fallible:  sig.Fallible,
		}
	}
	return out
}

func signatureString(sig *sema.FuncSig, ti *types.Interner) string {
	s := "("
	for i, p := range sig.Params {
		if i > 0 {
			s += ", "
		}
		s += typeName(p.Type, ti)
	}
	s += ") -> " + typeName(sig.Result, ti)
	return s
}

func typeName(id types.TypeID, ti *types.Interner) string {
	b := ti.Builtins()
	switch id {
	case b.Unit:
		return "Unit"
	case b.Bool:
		return "Bool"
	case b.Int:
		return "Int"
	case b.String:
		return "String"
	case b.Error:
		return "Error"
	}
	if info, ok := ti.FnResultInfo(id); ok {
		return fmt.Sprintf("Result<%s, %s>", typeName(info.Ok, ti), typeName(info.Err, ti))
	}
	return fmt.Sprintf("T%d", id)
}
