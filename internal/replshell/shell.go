// Package replshell implements the interactive Read-Eval-Print loop for
// cmd/rill (SPEC_FULL.md §6.4), grounded on the teacher's
// internal/repl.REPL: readline-backed line editing and history, with
// brace-balance-driven multi-line continuation and result printing that
// suppresses the undefined value.
package replshell

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rill-lang/rill/internal/eval"
	"github.com/rill-lang/rill/internal/reader"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

const continuationPrompt = "... "

// Options configures shell behavior, set from the parsed CLI config.
type Options struct {
	Prompt      string
	NoHistory   bool
	HistoryFile string
}

// Shell is a single REPL session: one evaluator, one readline instance.
type Shell struct {
	ev  *eval.Evaluator
	rl  *readline.Instance
	out io.Writer
}

// New constructs a Shell over a fresh evaluator.
func New(opts Options, out io.Writer) (*Shell, error) {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "rill> "
	}
	cfg := &readline.Config{
		Prompt:                 prompt,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
	}
	if !opts.NoHistory && opts.HistoryFile != "" {
		cfg.HistoryFile = opts.HistoryFile
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	return &Shell{ev: eval.New(), rl: rl, out: out}, nil
}

// Run executes the read-eval-print loop until the user exits or EOF.
func (s *Shell) Run() error {
	defer s.rl.Close()
	var pending []string

	for {
		prompt := s.rl.Config.Prompt
		if len(pending) > 0 {
			s.rl.SetPrompt(continuationPrompt)
		} else {
			s.rl.SetPrompt(prompt)
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				pending = nil
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(line)
		if len(pending) == 0 && (trimmed == "exit" || trimmed == "quit") {
			return nil
		}

		pending = append(pending, line)
		source := strings.Join(pending, "\n")
		if !balanced(source) {
			continue
		}

		s.evalAndPrint(source)
		_ = s.rl.SaveHistory(source)
		pending = nil
	}
}

func (s *Shell) evalAndPrint(source string) {
	block, err := reader.Parse(source)
	if err != nil {
		fmt.Fprintln(s.out, verror.FormatErrorWithContext(err))
		return
	}
	result, err := s.ev.Run(block)
	if err != nil {
		fmt.Fprintln(s.out, verror.FormatErrorWithContext(err))
		return
	}
	if _, isNone := result.(value.OmegaValue); isNone {
		return
	}
	fmt.Fprintln(s.out, result.String())
}

// balanced reports whether src has no unterminated ( [ { grouping —
// the multi-line-continuation signal the teacher's REPL derives from
// its parser's "unexpected EOF" error.
func balanced(src string) bool {
	depth := 0
	inString := false
	for _, r := range src {
		switch {
		case r == '"':
			inString = !inString
		case inString:
			continue
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		}
	}
	return depth <= 0
}
