package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "rankwatch" {
			t.Errorf("expected use 'rankwatch', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		for name, shorthand := range map[string]string{
			"verbose": "v",
			"config":  "c",
			"db-dir":  "",
		} {
			flag := cmd.PersistentFlags().Lookup(name)
			if flag == nil {
				t.Errorf("expected %s flag", name)
				continue
			}
			if flag.Shorthand != shorthand {
				t.Errorf("expected %s shorthand %q, got %q", name, shorthand, flag.Shorthand)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		want := map[string]bool{
			"check": false, "history": false, "export": false, "clear": false,
			"watch": false, "extract": false, "init": false, "version": false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestSubcommandFlags makes sure no subcommand shorthand collides with a
// global one, which cobra only detects at execution time.
func TestSubcommandFlags(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"check", "--help"},
		{"history", "--help"},
		{"export", "--help"},
		{"clear", "--help"},
		{"watch", "--help"},
		{"extract", "--help"},
		{"init", "--help"},
	} {
		t.Run(args[0], func(t *testing.T) {
			t.Parallel()
			if _, err := executeCommand(t, args...); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
