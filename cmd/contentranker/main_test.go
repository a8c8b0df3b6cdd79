package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ContentRanker/internal/app"
	"ContentRanker/internal/classify"
	"ContentRanker/internal/config"
	"ContentRanker/internal/relevance"
)

const catalogJSON = `[
  {"id": "U1", "title": "January newsletter", "publishedAt": "2024-01-15T00:00:00Z",
   "themes": [{"id": "T1"}, {"id": "T2"}], "hints": {"update": {"updateType": "newsletter"}}},
  {"id": "A", "title": "February newsletter", "publishedAt": "2024-01-20T00:00:00Z",
   "themes": [{"id": "T1"}], "hints": {"update": {"updateType": "newsletter"}}},
  {"id": "B", "title": "Funding announcement", "publishedAt": "2024-06-01T00:00:00Z",
   "themes": [{"id": "T1"}, {"id": "T2"}], "hints": {"update": {"updateType": "announcement"}}},
  {"id": "K1", "title": "Mentoring worksheet", "hints": {"type": "tool"}}
]`

func newTestApp(t *testing.T) (*app.Application, string) {
	t.Helper()

	dir := t.TempDir()
	catalog := filepath.Join(dir, "content.json")
	if err := os.WriteFile(catalog, []byte(catalogJSON), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cfg := config.Config{
		Storage:    config.StorageConfig{Path: filepath.Join(dir, "content.db")},
		Sources:    []config.SourceConfig{{Name: "catalog", Loader: "json", Location: catalog}},
		Classifier: classify.DefaultConfig(),
		Scoring:    relevance.DefaultWeights(),
		Ranking:    config.RankingConfig{DefaultLimit: 3},
		Workers:    2,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return app.New(cfg, logger), dir
}

func TestRunRelated(t *testing.T) {
	t.Parallel()

	application, _ := newTestApp(t)
	var out bytes.Buffer
	if err := run(context.Background(), application, []string{"related", "-id", "U1", "-limit", "2", "-explain"}, &out, io.Discard); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	text := out.String()
	first := strings.Index(text, "February newsletter")
	second := strings.Index(text, "Funding announcement")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("unexpected ranking output:\n%s", text)
	}
	if !strings.Contains(text, "score: 25") || !strings.Contains(text, "score: 21") {
		t.Fatalf("unexpected scores:\n%s", text)
	}
	if strings.Contains(text, "Mentoring worksheet") {
		t.Fatalf("limit not applied:\n%s", text)
	}
}

func TestRunClassifyJSON(t *testing.T) {
	t.Parallel()

	application, _ := newTestApp(t)
	var out bytes.Buffer
	if err := run(context.Background(), application, []string{"classify", "-id", "K1", "-json"}, &out, io.Discard); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(out.String(), `"primaryPurpose": "tool"`) {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRunListAndImport(t *testing.T) {
	t.Parallel()

	application, dir := newTestApp(t)

	var list bytes.Buffer
	if err := run(context.Background(), application, []string{"list"}, &list, io.Discard); err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(list.String()), "\n"); len(lines) != 5 {
		t.Fatalf("expected header and 4 rows, got:\n%s", list.String())
	}

	db := filepath.Join(dir, "import.db")
	var imported bytes.Buffer
	if err := run(context.Background(), application, []string{"import", "-db", db}, &imported, io.Discard); err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if !strings.Contains(imported.String(), "imported 4 records") {
		t.Fatalf("unexpected import output: %s", imported.String())
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	application, _ := newTestApp(t)
	cases := [][]string{
		nil,
		{"unknown"},
		{"related"},
		{"classify"},
		{"classify", "-id", "missing"},
		{"related", "-bogus"},
	}
	for _, args := range cases {
		if err := run(context.Background(), application, args, io.Discard, io.Discard); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestRunPrintsUsageToErrorWriter(t *testing.T) {
	t.Parallel()

	application, _ := newTestApp(t)
	for _, args := range [][]string{nil, {"unknown"}} {
		var out, errOut bytes.Buffer
		if err := run(context.Background(), application, args, &out, &errOut); err == nil {
			t.Fatalf("expected error for %v", args)
		}
		if !strings.Contains(errOut.String(), "usage: contentranker") {
			t.Fatalf("expected usage on error writer for %v, got %q", args, errOut.String())
		}
		if out.Len() != 0 {
			t.Fatalf("usage must not go to stdout, got %q", out.String())
		}
	}

	var errOut bytes.Buffer
	if err := run(context.Background(), application, []string{"related", "-bogus"}, io.Discard, &errOut); err == nil {
		t.Fatalf("expected flag error")
	}
	if !strings.Contains(errOut.String(), "bogus") {
		t.Fatalf("expected flag error on error writer, got %q", errOut.String())
	}
}
