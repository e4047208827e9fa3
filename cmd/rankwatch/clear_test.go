package main

import (
	"errors"
	"strings"
	"testing"
)

func TestClearCmd(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		dbDir, configPath := seedHistory(t)
		_, err := executeCommand(t, "clear", "--config", configPath, "--db-dir", dbDir, "-p", "acme")
		if err == nil || !strings.Contains(err.Error(), "--force") {
			t.Errorf("expected --force error, got %v", err)
		}
		if _, err := executeCommand(t, "history", "--config", configPath, "--db-dir", dbDir, "-p", "acme"); err != nil {
			t.Errorf("history must survive, got %v", err)
		}
	})

	t.Run("deletes the session", func(t *testing.T) {
		t.Parallel()

		dbDir, configPath := seedHistory(t)
		out, err := executeCommand(t, "clear", "--config", configPath, "--db-dir", dbDir, "-p", "acme", "-f")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, `Cleared the history of session "acme"`) {
			t.Errorf("unexpected output %q", out)
		}

		_, err = executeCommand(t, "history", "--config", configPath, "--db-dir", dbDir, "-p", "acme")
		if !errors.Is(err, errNoHistory) {
			t.Errorf("expected errNoHistory after clear, got %v", err)
		}

		out, err = executeCommand(t, "clear", "--config", configPath, "--db-dir", dbDir, "-p", "acme", "-f")
		if err != nil || !strings.Contains(out, "Nothing to clear") {
			t.Errorf("expected nothing to clear, got %q, %v", out, err)
		}
	})

	t.Run("no database", func(t *testing.T) {
		t.Parallel()

		out, err := executeCommand(t, "clear", "--config", writeConfigFile(t, "{}\n"), "--db-dir", t.TempDir(), "-f")
		if err != nil || !strings.Contains(out, "Nothing to clear") {
			t.Errorf("expected nothing to clear, got %q, %v", out, err)
		}
	})
}
