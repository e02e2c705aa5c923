// Package config implements the CLI configuration surface for cmd/rill
// (SPEC_FULL.md §6.4): flag parsing plus one env var override
// (RILL_HISTORY_FILE),
// narrowed to the flags this module's minimal REPL/CLI actually needs.
package config

import (
	"flag"
	"os"
)

// Config holds the resolved CLI configuration.
type Config struct {
	EvalExpr    string
	ScriptFile  string
	TraceOn     bool
	TraceFile   string
	NoHistory   bool
	HistoryFile string
	Prompt      string
}

// New returns a Config with its defaults.
func New() *Config {
	return &Config{Prompt: "rill> "}
}

// LoadFromEnv applies environment-variable overrides (RILL_HISTORY_FILE),
// consulted before flags so a flag can still win.
func (c *Config) LoadFromEnv() {
	if hf := os.Getenv("RILL_HISTORY_FILE"); hf != "" {
		c.HistoryFile = hf
	}
}

// LoadFromFlags parses args (normally os.Args[1:]) into c.
func (c *Config) LoadFromFlags(args []string) error {
	fs := flag.NewFlagSet("rill", flag.ContinueOnError)

	evalExpr := fs.String("c", "", "evaluate expression and print result, then exit")
	traceOn := fs.Bool("trace", false, "enable structured evaluator tracing")
	traceFile := fs.String("trace-file", "", "trace output file (default: stderr)")
	noHistory := fs.Bool("no-history", false, "disable REPL command history")
	historyFile := fs.String("history-file", "", "REPL history file location")
	prompt := fs.String("prompt", "", "custom REPL prompt")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c.EvalExpr = *evalExpr
	c.TraceOn = *traceOn
	c.TraceFile = *traceFile
	c.NoHistory = *noHistory
	if *historyFile != "" {
		c.HistoryFile = *historyFile
	}
	if *prompt != "" {
		c.Prompt = *prompt
	}
	if rest := fs.Args(); len(rest) > 0 {
		c.ScriptFile = rest[0]
	}
	return nil
}

// ApplyDefaults fills in any remaining defaults that depend on the
// environment (e.g. the history file's default path under $HOME).
func (c *Config) ApplyDefaults() {
	if c.HistoryFile == "" && !c.NoHistory {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = home + "/.rill_history"
		}
	}
}
