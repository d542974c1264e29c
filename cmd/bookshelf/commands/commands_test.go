// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const testCatalog = `[
  {"id": "1", "title": "Moby Dick", "author": "Herman Melville", "description": "A story about a whale hunt and obsession at sea."},
  {"id": "2", "title": "Pride and Prejudice", "author": "Jane Austen", "description": "A romantic novel about manners and marriage."}
]`

// setupEnv isolates the command from config files in the working directory.
func setupEnv(t *testing.T, catalogJSON string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "books.json")
	if err := os.WriteFile(path, []byte(catalogJSON), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("MODEL_NAME", "local")
	t.Setenv("BOOKS_DATA_PATH", path)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd("1.2.3")

	if cmd.Use != "bookshelf" || cmd.Version != "1.2.3" {
		t.Errorf("Use = %q, Version = %q", cmd.Use, cmd.Version)
	}

	for _, name := range []string{"recommend", "catalog", "embed"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	tests := []struct {
		flag     string
		defValue string
	}{
		{"config", ""},
		{"model", ""},
		{"data", ""},
		{"format", "text"},
		{"log-level", "warn"},
	}
	for _, tt := range tests {
		f := cmd.PersistentFlags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("--%s flag not found", tt.flag)
			continue
		}
		if f.DefValue != tt.defValue {
			t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.defValue)
		}
	}
}

func TestRecommendCmd(t *testing.T) {
	setupEnv(t, testCatalog)

	out, err := execute(t, "recommend", "hunting whales", "-k", "1")
	if err != nil {
		t.Fatalf("recommend error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Moby Dick") {
		t.Errorf("output missing Moby Dick:\n%s", out)
	}
	if strings.Contains(out, "Pride and Prejudice") {
		t.Errorf("k=1 printed more than one book:\n%s", out)
	}
}

func TestRecommendCmd_JSON(t *testing.T) {
	setupEnv(t, testCatalog)

	out, err := execute(t, "--format", "json", "recommend", "romance and marriage")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}

	var recs []struct {
		Book struct {
			Title string `json:"title"`
		} `json:"book"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want whole catalog", len(recs))
	}
	if recs[0].Book.Title != "Pride and Prejudice" || recs[0].Score < recs[1].Score {
		t.Errorf("recs = %+v", recs)
	}
}

func TestRecommendCmd_Errors(t *testing.T) {
	setupEnv(t, testCatalog)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"empty query", []string{"recommend", "   "}, "empty"},
		{"negative k", []string{"recommend", "x", "-k", "-1"}, "negative"},
		{"missing arg", []string{"recommend"}, "arg"},
		{"bad format", []string{"--format", "xml", "recommend", "x"}, "--format"},
		{"unknown model provider", []string{"--model", "openai:", "recommend", "x"}, "model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestCatalogValidateCmd(t *testing.T) {
	setupEnv(t, testCatalog)

	out, err := execute(t, "catalog", "validate")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "2 books OK") {
		t.Errorf("output = %q", out)
	}
}

func TestCatalogValidateCmd_Invalid(t *testing.T) {
	setupEnv(t, `[{"id": "1", "title": "", "description": ""}]`)

	if _, err := execute(t, "catalog", "validate"); err == nil {
		t.Error("expected error for invalid catalog")
	}
}

func TestCatalogValidateCmd_Empty(t *testing.T) {
	setupEnv(t, `[]`)

	if _, err := execute(t, "catalog", "validate"); err == nil {
		t.Error("expected error for empty catalog")
	}
}

func TestCatalogListCmd(t *testing.T) {
	setupEnv(t, testCatalog)

	out, err := execute(t, "catalog", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	moby := strings.Index(out, "Moby Dick")
	pride := strings.Index(out, "Pride and Prejudice")
	if moby < 0 || pride < 0 || moby > pride {
		t.Errorf("books missing or out of catalog order:\n%s", out)
	}
}

func TestCatalogListCmd_DataFlag(t *testing.T) {
	setupEnv(t, testCatalog)

	other := filepath.Join(t.TempDir(), "other.json")
	if err := os.WriteFile(other, []byte(`[{"id": "x", "title": "Dune", "description": "desert planet"}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--data", other, "catalog", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "Dune") || strings.Contains(out, "Moby Dick") {
		t.Errorf("--data did not override the catalog:\n%s", out)
	}
}

func TestEmbedCmd(t *testing.T) {
	setupEnv(t, testCatalog)

	out, err := execute(t, "embed", "a whale")
	if err != nil {
		t.Fatalf("embed error = %v", err)
	}
	if !strings.Contains(out, "dimensions: 384") || !strings.Contains(out, "local:hash-384") {
		t.Errorf("output = %q", out)
	}
}

func TestEmbedCmd_JSON(t *testing.T) {
	setupEnv(t, testCatalog)

	out, err := execute(t, "--format", "json", "--model", "local:hash-16", "embed", "")
	if err != nil {
		t.Fatalf("embed error = %v", err)
	}
	var res struct {
		Dimensions int       `json:"dimensions"`
		Embedding  []float32 `json:"embedding"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Dimensions != 16 || len(res.Embedding) != 16 {
		t.Fatalf("dims = %d, len = %d", res.Dimensions, len(res.Embedding))
	}
	for i, v := range res.Embedding {
		if v != 0 {
			t.Errorf("empty text component %d = %f, want 0", i, v)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("a  b\nc", 10); got != "a b c" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate() = %q", got)
	}
}
