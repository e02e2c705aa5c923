// Command rill is the CLI/REPL entry point wiring the interpreter core
// together into a runnable binary (SPEC_FULL.md §6.4).
package main

import (
	"fmt"
	"os"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/eval"
	"github.com/rill-lang/rill/internal/reader"
	"github.com/rill-lang/rill/internal/replshell"
	"github.com/rill-lang/rill/internal/trace"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

func main() {
	cfg := config.New()
	cfg.LoadFromEnv()
	if err := cfg.LoadFromFlags(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, verror.FormatErrorWithContext(err))
		os.Exit(1)
	}
	cfg.ApplyDefaults()

	trace.Init(cfg.TraceFile, 50)
	if cfg.TraceOn {
		trace.Global.Enable()
	}
	defer trace.Global.Close()

	if cfg.EvalExpr != "" {
		runOnce(cfg.EvalExpr)
		return
	}
	if cfg.ScriptFile != "" {
		runScript(cfg.ScriptFile)
		return
	}

	shell, err := replshell.New(replshell.Options{
		Prompt:      cfg.Prompt,
		NoHistory:   cfg.NoHistory,
		HistoryFile: cfg.HistoryFile,
	}, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, verror.FormatErrorWithContext(err))
		os.Exit(1)
	}
	if err := shell.Run(); err != nil {
		fmt.Fprintln(os.Stderr, verror.FormatErrorWithContext(err))
		os.Exit(1)
	}
}

func runOnce(src string) {
	block, err := reader.Parse(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, verror.FormatErrorWithContext(err))
		os.Exit(1)
	}
	result, err := eval.New().Run(block)
	if err != nil {
		fmt.Fprintln(os.Stderr, verror.FormatErrorWithContext(err))
		os.Exit(1)
	}
	if _, isNone := result.(value.OmegaValue); !isNone {
		fmt.Println(result.String())
	}
}

func runScript(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, verror.FormatErrorWithContext(err))
		os.Exit(1)
	}
	runOnce(string(src))
}
