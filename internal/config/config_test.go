package config

import "testing"

func TestLoadFromFlagsDefaults(t *testing.T) {
	c := New()
	if err := c.LoadFromFlags(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.EvalExpr != "" || c.TraceOn || c.TraceFile != "" || c.NoHistory || c.ScriptFile != "" {
		t.Fatalf("expected all zero defaults with no flags, got %#v", c)
	}
	if c.Prompt != "rill> " {
		t.Fatalf("expected the default prompt to survive when -prompt is absent, got %q", c.Prompt)
	}
}

func TestLoadFromFlagsParsesEvalAndTrace(t *testing.T) {
	c := New()
	err := c.LoadFromFlags([]string{"-c", "1 + 1", "-trace", "-trace-file", "/tmp/rill.trace"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.EvalExpr != "1 + 1" {
		t.Fatalf("expected EvalExpr to be set, got %q", c.EvalExpr)
	}
	if !c.TraceOn {
		t.Fatalf("expected TraceOn to be true")
	}
	if c.TraceFile != "/tmp/rill.trace" {
		t.Fatalf("expected TraceFile to be set, got %q", c.TraceFile)
	}
}

func TestLoadFromFlagsCapturesScriptFile(t *testing.T) {
	c := New()
	if err := c.LoadFromFlags([]string{"script.rill"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ScriptFile != "script.rill" {
		t.Fatalf("expected ScriptFile to be script.rill, got %q", c.ScriptFile)
	}
}

func TestLoadFromFlagsHistoryFileOverridesDefault(t *testing.T) {
	c := New()
	if err := c.LoadFromFlags([]string{"-no-history", "-history-file", "/tmp/should-be-ignored"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.NoHistory {
		t.Fatalf("expected NoHistory to be true")
	}
	if c.HistoryFile != "/tmp/should-be-ignored" {
		t.Fatalf("expected an explicit -history-file to still be recorded, got %q", c.HistoryFile)
	}
}

func TestLoadFromFlagsCustomPrompt(t *testing.T) {
	c := New()
	if err := c.LoadFromFlags([]string{"-prompt", "> "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Prompt != "> " {
		t.Fatalf("expected the custom prompt to override the default, got %q", c.Prompt)
	}
}

func TestLoadFromEnvOverridesHistoryFile(t *testing.T) {
	t.Setenv("RILL_HISTORY_FILE", "/tmp/env-history")
	c := New()
	c.LoadFromEnv()
	if c.HistoryFile != "/tmp/env-history" {
		t.Fatalf("expected the env var to set HistoryFile, got %q", c.HistoryFile)
	}
}

func TestLoadFromFlagsWinsOverEnv(t *testing.T) {
	t.Setenv("RILL_HISTORY_FILE", "/tmp/env-history")
	c := New()
	c.LoadFromEnv()
	if err := c.LoadFromFlags([]string{"-history-file", "/tmp/flag-history"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HistoryFile != "/tmp/flag-history" {
		t.Fatalf("expected the flag to win over the env var, got %q", c.HistoryFile)
	}
}

func TestApplyDefaultsSkipsWhenNoHistory(t *testing.T) {
	c := New()
	c.NoHistory = true
	c.ApplyDefaults()
	if c.HistoryFile != "" {
		t.Fatalf("expected no default history file when history is disabled, got %q", c.HistoryFile)
	}
}

func TestApplyDefaultsLeavesExplicitHistoryFileAlone(t *testing.T) {
	c := New()
	c.HistoryFile = "/tmp/explicit"
	c.ApplyDefaults()
	if c.HistoryFile != "/tmp/explicit" {
		t.Fatalf("expected an explicitly set history file to be left alone, got %q", c.HistoryFile)
	}
}

func TestApplyDefaultsFillsHistoryFileUnderHome(t *testing.T) {
	c := New()
	c.ApplyDefaults()
	if c.HistoryFile == "" {
		t.Fatalf("expected a default history file to be derived from $HOME")
	}
}
