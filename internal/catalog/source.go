// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source yields raw book records in source order.
// Records are validated by LoadFrom, not by the source.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]Book, error)
}

// Supported formats.
const (
	FormatJSON    = "json"
	FormatJSONL   = "jsonl"
	FormatYAML    = "yaml"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"
	FormatDuckDB  = "duckdb"
)

var extensionFormats = map[string]string{
	".json":    FormatJSON,
	".jsonl":   FormatJSONL,
	".ndjson":  FormatJSONL,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".csv":     FormatCSV,
	".parquet": FormatParquet,
	".db":      FormatSQLite,
	".sqlite":  FormatSQLite,
	".sqlite3": FormatSQLite,
	".duckdb":  FormatDuckDB,
}

// DetectFormat returns the catalog format implied by the file extension of path.
func DetectFormat(path string) (string, bool) {
	format, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// ValidFormat reports whether format is a supported catalog format name.
func ValidFormat(format string) bool {
	for _, f := range extensionFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Open returns the Source for path. An empty format is detected from the
// extension; table only applies to database formats.
func Open(path, format, table string) (Source, error) {
	if path == "" {
		return nil, sourceError(path, nil, "no data path configured")
	}

	if format == "" {
		detected, ok := DetectFormat(path)
		if !ok {
			return nil, sourceError(path, nil, fmt.Sprintf("cannot detect format from extension %q", filepath.Ext(path)))
		}
		format = detected
	}

	if err := statSource(path); err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		return &jsonSource{path: path}, nil
	case FormatJSONL:
		return &jsonLinesSource{path: path}, nil
	case FormatYAML:
		return &yamlSource{path: path}, nil
	case FormatCSV, FormatParquet, FormatSQLite, FormatDuckDB:
		return newSQLSource(path, strings.ToLower(format), table)
	default:
		return nil, sourceError(path, nil, fmt.Sprintf("unsupported format %q", format))
	}
}

func statSource(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return sourceError(path, err, "not found")
	case err != nil:
		return sourceError(path, err, "unreadable")
	case info.IsDir():
		return sourceError(path, nil, "is a directory")
	}
	return nil
}

func readSourceFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, sourceError(path, err, "not found")
		}
		return nil, sourceError(path, err, "unreadable")
	}
	return data, nil
}

// StaticSource serves an in-memory list of books. It is used for embedded
// fixtures and tests.
type StaticSource struct {
	Label string
	Items []Book
}

// Name implements Source.
func (s *StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Read implements Source.
func (s *StaticSource) Read(_ context.Context) ([]Book, error) {
	out := make([]Book, len(s.Items))
	copy(out, s.Items)
	return out, nil
}
