// Package cli is the command-line entry point: it loads a script, runs the
// front-end pipeline, compiles and executes.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/zenith391/rhm/internal/ast"
	"github.com/zenith391/rhm/internal/config"
	"github.com/zenith391/rhm/internal/exact"
	"github.com/zenith391/rhm/internal/lexer"
	"github.com/zenith391/rhm/internal/parser"
	"github.com/zenith391/rhm/internal/pipeline"
	"github.com/zenith391/rhm/internal/vm"
)

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("rhm", flag.ContinueOnError)
	flags.SetOutput(stderr)
	render := flags.String("render", "", "number output mode: exact or decimal (overrides rhm.yml)")
	disasm := flags.Bool("disasm", false, "dump the compiled instruction stream before running")
	trace := flags.Bool("trace", false, "log every executed instruction")
	compile := flags.Bool("compile", false, "compile to a "+config.BundleFileExt+" bundle instead of running")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: rhm [flags] <script"+config.SourceFileExt+">")
		flags.PrintDefaults()
		return 1
	}
	path := flags.Arg(0)

	if !isSourceFile(path) && !isBundleFile(path) {
		fmt.Fprintf(stderr, "%s: not a recognized source file (want %s)\n",
			path, strings.Join(config.SourceFileExtensions, ", "))
		return 1
	}

	source, err := os.ReadFile(path)
	if err != nil {
		reportf(stderr, "%s", err)
		return 1
	}

	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		reportf(stderr, "%s", err)
		return 1
	}
	if *render != "" {
		cfg.Render = config.RenderMode(*render)
	}
	if *disasm {
		cfg.Disasm = true
	}
	if *trace {
		cfg.Trace = true
	}

	mode, err := renderMode(cfg.Render)
	if err != nil {
		reportf(stderr, "%s", err)
		return 1
	}

	var compiled *vm.Program
	runID := ""

	if isBundleFile(path) {
		if *compile {
			reportf(stderr, "%s is already compiled", path)
			return 1
		}
		compiled, err = vm.Deserialize(source)
		if err != nil {
			reportf(stderr, "%s: %s", path, err)
			return 1
		}
		runID = uuid.NewString()
	} else {
		ctx := pipeline.NewPipelineContext(string(source))
		ctx.FilePath = path

		p := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{})
		ctx = p.Run(ctx)

		if ctx.HasErrors() {
			for _, diag := range ctx.Errors {
				reportf(stderr, "%s", diag.Error())
			}
			return 1
		}

		program, ok := ctx.AstRoot.(*ast.Program)
		if !ok {
			reportf(stderr, "internal: pipeline produced no program")
			return 1
		}

		compiled, err = vm.NewCompiler().Compile(program)
		if err != nil {
			reportf(stderr, "%s", err)
			return 1
		}
		runID = ctx.RunID
	}

	if *compile {
		return writeBundle(stderr, path, compiled)
	}

	if cfg.Disasm {
		fmt.Fprint(stderr, vm.Disassemble(compiled, path))
	}

	machine := vm.New()
	machine.SetOutput(stdout)
	machine.SetErrOutput(stderr)
	machine.SetRenderMode(mode)
	if cfg.Trace {
		machine.SetTrace(runID)
	}

	if err := machine.Run(compiled); err != nil {
		reportf(stderr, "%s: %s", path, err)
		return 1
	}
	return 0
}

func renderMode(m config.RenderMode) (exact.RenderMode, error) {
	switch m {
	case config.RenderExact:
		return exact.RenderExact, nil
	case config.RenderDecimal, "":
		return exact.RenderDecimal, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", m)
	}
}

// writeBundle serializes the compiled program next to its source file.
func writeBundle(stderr io.Writer, srcPath string, p *vm.Program) int {
	data, err := p.Serialize()
	if err != nil {
		reportf(stderr, "%s", err)
		return 1
	}
	out := strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + config.BundleFileExt
	if err := os.WriteFile(out, data, 0o644); err != nil {
		reportf(stderr, "%s", err)
		return 1
	}
	return 0
}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// isBundleFile checks if a file is a compiled bytecode bundle
func isBundleFile(path string) bool {
	return strings.HasSuffix(path, config.BundleFileExt)
}

// reportf writes an error line, colored red when stderr is a terminal.
func reportf(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		fmt.Fprintf(w, "\x1b[31m%s\x1b[0m\n", msg)
		return
	}
	fmt.Fprintln(w, msg)
}
