package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/rankwatch/internal/report"
)

func TestExportCmd(t *testing.T) {
	t.Parallel()

	dbDir, configPath := seedHistory(t)
	export := func(t *testing.T, args ...string) string {
		t.Helper()
		base := []string{"export", "--config", configPath, "--db-dir", dbDir, "-p", "acme"}
		out, err := executeCommand(t, append(base, args...)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out
	}

	t.Run("csv", func(t *testing.T) {
		t.Parallel()

		records, err := csv.NewReader(strings.NewReader(export(t))).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		want := [][]string{
			{"keyword", "current_rank", "change", "check_date"},
			{"flood cleanup", "5", "3", "2024-01-02"},
			{"water damage", "", "", "2024-01-02"},
		}
		if diff := cmp.Diff(want, records); diff != "" {
			t.Errorf("CSV mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var r report.Report
		if err := json.Unmarshal([]byte(export(t, "-f", "json")), &r); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if r.SessionID != "acme" || r.Summary.Top10 != 1 || len(r.Results) != 2 {
			t.Errorf("unexpected report: %+v", r)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		if out := export(t, "-f", "MARKDOWN"); !strings.Contains(out, "# Rank Report") {
			t.Errorf("expected markdown\n%s", out)
		}
	})

	t.Run("chart", func(t *testing.T) {
		t.Parallel()

		if out := export(t, "-f", "chart"); !strings.HasPrefix(out, "date,flood cleanup,water damage\n") {
			t.Errorf("expected chart rows\n%s", out)
		}
	})

	t.Run("to a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "acme.csv")
		if out := export(t, "-o", path); out != "" {
			t.Errorf("expected nothing on stdout, got %q", out)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "keyword,current_rank,change,check_date\n") {
			t.Errorf("unexpected file content:\n%s", data)
		}
	})
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	t.Parallel()

	dbDir, configPath := seedHistory(t)
	_, err := executeCommand(t, "export", "--config", configPath, "--db-dir", dbDir, "-p", "acme", "-f", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown export format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}
