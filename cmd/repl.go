package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/tebeka/atexit"

	"github.com/Yeahhhh/phylanx/compiler"
	"github.com/Yeahhhh/phylanx/libs/pyparser"
	"github.com/Yeahhhh/phylanx/physl"
)

const (
	historyFile = ".physlc_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

const helpText = `Enter one Python statement; a line ending in ':' starts a block,
which ends at the first empty line. Every entry is translated on its own.

  :fmt               toggle pretty-printing
  :group <mode>      switch grouping (always, precedence)
  :help              show this text
  :quit              leave
`

// prompter is the part of *liner.State the session reads from.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type session struct {
	in     prompter
	out    io.Writer
	r      *compiler.Recompiler
	format bool
	logger *slog.Logger
}

// runInteractive opens a terminal line editor and runs a session on it.
func runInteractive(r *compiler.Recompiler, stdout io.Writer, logger *slog.Logger) int {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	atexit.Register(func() { ln.Close() })

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := &session{in: ln, out: stdout, r: r, logger: logger}
	s.loop()

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return exitOK
}

func (s *session) loop() {
	for {
		entry, ok := s.readEntry()
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				return
			}
			continue
		}
		s.eval(entry)
	}
}

// readEntry reads one entry. It keeps reading while the last line ends
// with ':' or is indented, so a block ends at the first line that is
// neither. ok is false at end of input.
func (s *session) readEntry() (entry string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := s.in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C drops the current entry
			return "", true
		}
		if err != nil {
			s.logger.Warn("reading input", "error", err)
			return "", false
		}

		if strings.TrimSpace(line) != "" {
			s.in.AppendHistory(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if !continues(line) {
			return b.String(), true
		}
	}
}

func continues(line string) bool {
	if strings.HasSuffix(strings.TrimRight(line, " \t"), ":") {
		return true
	}
	return strings.TrimSpace(line) != "" && (line[0] == ' ' || line[0] == '\t')
}

// command handles a ':' command and reports whether the session ends.
func (s *session) command(line string) (exit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Fprint(s.out, helpText)
	case ":fmt":
		s.format = !s.format
		fmt.Fprintf(s.out, "pretty-printing %s\n", onOff(s.format))
	case ":group":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "usage: :group always|precedence")
			return false
		}
		g, err := compiler.ParseGrouping(fields[1])
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		s.r = compiler.New(compiler.Options{Grouping: g})
		fmt.Fprintf(s.out, "grouping %s\n", g)
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for help.\n", fields[0])
	}
	return false
}

// eval translates one entry as an independent unit and prints the IR or
// the errors.
func (s *session) eval(src string) {
	module, err := pyparser.Parse(src)
	if err != nil {
		reportErrors(s.out, "<input>", src, err)
		return
	}
	if errs := compiler.Check(module); len(errs) > 0 {
		reportErrors(s.out, "<input>", src, checkErrors(errs))
		return
	}
	ir, err := s.r.Recompile(module)
	if err != nil {
		reportErrors(s.out, "<input>", src, err)
		return
	}
	if s.format {
		fmt.Fprint(s.out, physl.Format(ir))
		return
	}
	fmt.Fprintln(s.out, ir)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
