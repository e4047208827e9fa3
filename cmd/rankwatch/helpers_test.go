package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/rankwatch/internal/database"
	"github.com/nao1215/rankwatch/internal/model"
)

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeConfigFile writes a configuration file into a temporary directory.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".rankwatch")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// checkerFunc adapts a function to tracker.Checker.
type checkerFunc func(ctx context.Context, site, location, keyword string) (*model.RankCheck, error)

func (f checkerFunc) CheckRank(ctx context.Context, site, location, keyword string) (*model.RankCheck, error) {
	return f(ctx, site, location, keyword)
}

// positions returns a checker answering from a fixed table.
func positions(table map[string]*int) checkerFunc {
	return func(_ context.Context, _, _, keyword string) (*model.RankCheck, error) {
		return &model.RankCheck{Keyword: keyword, Position: table[keyword]}, nil
	}
}

// openTestStore opens a database in dir and closes it after the test.
func openTestStore(t *testing.T, dir string) *database.RankDB {
	t.Helper()

	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

const seededConfig = `projects:
  acme:
    domain: acme-restoration.com
    location: "Austin, TX"
    keywords:
      - flood cleanup
      - water damage
`

// seedHistory stores the "acme" session with two tracked keywords and one
// stale keyword, plus one run. It returns the database directory and a
// configuration file declaring the project.
func seedHistory(t *testing.T) (dbDir, configPath string) {
	t.Helper()

	dbDir = t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := t.Context()
	checked := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	s := model.NewSession("acme")
	s.Domain = "https://acme-restoration.com"
	s.Location = "Austin, TX"
	s.Keywords = []string{"flood cleanup", "water damage"}
	s.History = map[string][]model.RankPoint{
		"flood cleanup": {
			{Date: "2024-01-01", Position: model.IntPtr(8)},
			{Date: "2024-01-02", Position: model.IntPtr(5)},
		},
		"water damage": {
			{Date: "2024-01-02"},
		},
		"old keyword": {
			{Date: "2023-12-01", Position: model.IntPtr(2)},
		},
	}
	s.LastChecked = checked
	if err := db.SaveSession(ctx, s); err != nil {
		t.Fatal(err)
	}

	run := &model.RunRecord{
		ID:          "run-1",
		SessionID:   "acme",
		StartedAt:   checked.Add(-time.Minute),
		CompletedAt: checked,
		State:       "completed",
		Total:       2,
		Summary:     model.Summary{Total: 2, Top10: 1, NotFound: 1, AveragePosition: 52.5},
	}
	if err := db.RecordRun(ctx, run); err != nil {
		t.Fatal(err)
	}

	return dbDir, writeConfigFile(t, seededConfig)
}
