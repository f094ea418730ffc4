// Command utf8lex reads a .l specification and writes a generated Go
// lexer package next to it (spec.md §4.8, §6).
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/db47h/utf8lex/internal/diag"
	"github.com/db47h/utf8lex/internal/emit"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/match"
	"github.com/db47h/utf8lex/internal/specparse"
)

var (
	outputPath string
	pkgName    string
	tracing    bool
	verbose    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	exitCode := 0

	root := &cobra.Command{
		Use:           "utf8lex <spec.l>",
		Short:         "Generate a Go lexer from a .l specification",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := generate(args[0])
			exitCode = code
			return err
		},
	}
	root.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: <spec>_lex.go)")
	root.Flags().StringVar(&pkgName, "package", "", "package name for the generated file (default: lexer)")
	root.Flags().BoolVar(&tracing, "tracing", false, "record FSM state history while parsing (not included in diagnostics)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log generation progress")

	if err := root.Execute(); err != nil {
		if exitCode == 0 {
			exitCode = int(lexerr.ErrState)
		}
		fmt.Fprintln(os.Stderr, err)
	}
	return exitCode
}

// generate drives Parse -> Emit for one input file, returning the
// process exit code spec.md §6 ties to the failing lexerr.Code (0 on
// success).
func generate(inputPath string) (int, error) {
	if filepath.Ext(inputPath) != ".l" {
		return int(lexerr.ErrFileOpen), fmt.Errorf("%s: spec file must end in \".l\"", inputPath)
	}

	logger := newLogger(verbose)
	defer logger.Sync()
	match.SetLogger(logger)

	src, rerr := os.ReadFile(inputPath)
	if rerr != nil {
		return int(lexerr.ErrFileOpen), rerr
	}

	var diagErrs []error
	res, perr := specparse.Parse(inputPath, src,
		specparse.WithTracing(tracing),
		specparse.WithDiagnosticSink(func(d *diag.Diagnostic) {
			diagErrs = append(diagErrs, errors.New(d.Format()))
		}),
	)
	if perr != nil {
		return int(perr.Code), multierr.Append(perr, multierr.Combine(diagErrs...))
	}

	out := outputPath
	if out == "" {
		out = defaultOutputPath(inputPath)
	}

	if eerr := emit.Emit(out, emit.Input{
		Package:  pkgName,
		Graph:    res.Graph,
		HeadCode: res.HeadCode,
		TailCode: res.TailCode,
	}); eerr != nil {
		return int(eerr.Code), eerr
	}

	logger.Sugar().Infow("generated lexer",
		"input", inputPath, "output", out,
		"rules", len(res.Graph.Rules()), "definitions", len(res.Graph.Definitions()))
	return 0, nil
}

func defaultOutputPath(in string) string {
	ext := filepath.Ext(in)
	base := strings.TrimSuffix(filepath.Base(in), ext)
	return filepath.Join(filepath.Dir(in), base+"_lex.go")
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = ""
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
