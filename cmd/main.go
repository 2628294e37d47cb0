//  ____  _   _ __   __ ____  _      ____
// |  _ \| | | |\ \ / // ___|| |    / ___|
// | |_) | |_| | \ V / \___ \| |   | |
// |  __/|  _  |  | |   ___) | |___| |___
// |_|   |_| |_|  |_|  |____/|_____|\____|

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/Yeahhhh/phylanx/compiler"
	"github.com/Yeahhhh/phylanx/libs/pyparser"
	"github.com/Yeahhhh/phylanx/physl"
)

// LevelTrace logs every translation stage.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type config struct {
	source   string
	output   string
	grouping compiler.Grouping
	format   bool
	dumpAST  bool
	program  bool
	repl     bool
	debug    bool
}

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole command; main only supplies the process streams.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger := newLogger(stderr, cfg.debug)
	r := compiler.New(compiler.Options{Grouping: cfg.grouping})

	if cfg.repl {
		return runInteractive(r, stdout, logger)
	}

	name, src, err := readSource(cfg.source, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "\033[31m\033[1mError: %v\033[0m\n", err)
		return exitError
	}
	logger.Debug("translating", "source", name, "grouping", cfg.grouping, "program", cfg.program)

	text, err := translate(cfg, r, src, logger)
	if err != nil {
		reportErrors(stderr, name, src, err)
		return exitError
	}

	if cfg.output == "" {
		fmt.Fprint(stdout, text)
		return exitOK
	}
	if err := writeOutput(cfg.output, text); err != nil {
		fmt.Fprintf(stderr, "\033[31m\033[1mError: %v\033[0m\n", err)
		return exitError
	}
	logger.Debug("written", "output", cfg.output, "bytes", len(text))

	green := "\033[32m"
	bold := "\033[1m"
	reset := "\033[0m"
	checkmark := "✓"
	fmt.Fprintf(stderr, "\n%s%s%s Translation successful!%s\n", bold, green, checkmark, reset)
	fmt.Fprintf(stderr, "%s  Generated:%s %s\n", green, reset, cfg.output)
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	var grouping string

	fs := flag.NewFlagSet("physlc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.source, "source", "", "Python source file (- reads standard input)")
	fs.StringVar(&cfg.output, "output", "", "Output file (default: standard output)")
	fs.StringVar(&grouping, "group", compiler.GroupAlways.String(), "Arithmetic grouping: always, precedence")
	fs.BoolVar(&cfg.format, "fmt", false, "Pretty-print the generated IR")
	fs.BoolVar(&cfg.dumpAST, "dump-ast", false, "Print the parsed tree instead of translating")
	fs.BoolVar(&cfg.program, "program", false, "Treat the source as one decorated function and wrap it in block(...)")
	fs.BoolVar(&cfg.repl, "repl", false, "Start an interactive session")
	fs.BoolVar(&cfg.debug, "debug", false, "Enable debug output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	g, err := compiler.ParseGrouping(grouping)
	if err != nil {
		return nil, err
	}
	cfg.grouping = g

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if cfg.source == "" && !cfg.repl {
		return nil, errors.New("please provide a source file with -source, or use -repl")
	}
	return cfg, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = LevelTrace
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}))
}

func readSource(path string, stdin io.Reader) (name, src string, err error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading standard input: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, string(data), nil
}

// translate runs the requested pipeline and returns the text to write.
// Every untranslatable construct found by the checker is returned at once
// as a checkErrors.
func translate(cfg *config, r *compiler.Recompiler, src string, logger *slog.Logger) (string, error) {
	ctx := context.Background()

	if cfg.program {
		compiled, err := r.Program(src)
		if err != nil {
			return "", err
		}
		logger.Log(ctx, LevelTrace, "recompiled", "function", compiled.Name)
		if cfg.format {
			return physl.Format(strings.TrimSuffix(compiled.Source, "\n")), nil
		}
		return compiled.Source, nil
	}

	module, err := pyparser.Parse(src)
	if err != nil {
		return "", err
	}
	logger.Log(ctx, LevelTrace, "parsed", "statements", len(module.Body))

	if cfg.dumpAST {
		var b strings.Builder
		if err := pyparser.Dump(&b, module); err != nil {
			return "", err
		}
		return b.String(), nil
	}

	if errs := compiler.Check(module); len(errs) > 0 {
		logger.Log(ctx, LevelTrace, "check failed", "errors", len(errs))
		return "", checkErrors(errs)
	}
	logger.Log(ctx, LevelTrace, "check passed")

	ir, err := r.Recompile(module)
	if err != nil {
		return "", err
	}
	logger.Log(ctx, LevelTrace, "recompiled", "bytes", len(ir))
	if cfg.format {
		return physl.Format(ir), nil
	}
	return ir + "\n", nil
}

func writeOutput(path, text string) error {
	// Create output directory if it doesn't exist
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(text), 0644)
}
