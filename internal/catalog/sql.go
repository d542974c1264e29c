// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

const defaultTable = "books"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sqlSource reads books through database/sql. SQLite files go through the
// pure-Go modernc driver; DuckDB databases, CSV and Parquet files go through
// an embedded DuckDB connection.
type sqlSource struct {
	path   string
	driver string
	dsn    string
	query  string
}

func newSQLSource(path, format, table string) (*sqlSource, error) {
	if table == "" {
		table = defaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, sourceError(path, nil, fmt.Sprintf("invalid table name %q", table))
	}

	s := &sqlSource{path: path}
	switch format {
	case FormatSQLite:
		s.driver = "sqlite"
		s.dsn = "file:" + path + "?mode=ro"
		s.query = fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", table)
	case FormatDuckDB:
		s.driver = "duckdb"
		s.dsn = path + "?access_mode=read_only"
		s.query = fmt.Sprintf("SELECT * FROM %s", table)
	case FormatCSV:
		s.driver = "duckdb"
		s.query = fmt.Sprintf("SELECT * FROM read_csv(%s, header = true, all_varchar = true)", quoteLiteral(path))
	case FormatParquet:
		s.driver = "duckdb"
		s.query = fmt.Sprintf("SELECT * FROM read_parquet(%s)", quoteLiteral(path))
	default:
		return nil, sourceError(path, nil, fmt.Sprintf("unsupported database format %q", format))
	}
	return s, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (s *sqlSource) Name() string { return s.path }

func (s *sqlSource) Read(ctx context.Context) ([]Book, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, sourceError(s.path, err, "cannot open")
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, sourceError(s.path, err, "query failed")
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, sourceError(s.path, err, "cannot read columns")
	}
	fields, err := mapColumns(columns)
	if err != nil {
		return nil, sourceError(s.path, nil, err.Error())
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	var books []Book
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, &DataSourceError{Source: s.path, Record: len(books), Reason: "cannot scan row", Err: err}
		}
		book, err := rowToBook(fields, values)
		if err != nil {
			return nil, &DataSourceError{Source: s.path, Record: len(books), Reason: err.Error()}
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, sourceError(s.path, err, "row iteration failed")
	}
	return books, nil
}

// mapColumns resolves each result column to a Book field name, or "" to ignore it.
func mapColumns(columns []string) ([]string, error) {
	fields := make([]string, len(columns))
	hasTitle, hasText := false, false
	for i, col := range columns {
		switch name := strings.ToLower(strings.TrimSpace(col)); name {
		case "id", "title", "author", "genre", "year":
			fields[i] = name
			hasTitle = hasTitle || name == "title"
		case "description", "text":
			fields[i] = "description"
			hasText = true
		}
	}
	if !hasTitle || !hasText {
		return nil, fmt.Errorf("missing required column (need title and description or text), got %v", columns)
	}
	return fields, nil
}

func rowToBook(fields []string, values []sql.NullString) (Book, error) {
	var b Book
	for i, field := range fields {
		if field == "" || !values[i].Valid {
			continue
		}
		v := values[i].String
		switch field {
		case "id":
			b.ID = v
		case "title":
			b.Title = v
		case "author":
			b.Author = v
		case "description":
			if b.Description == "" {
				b.Description = v
			}
		case "genre":
			b.Genre = v
		case "year":
			if strings.TrimSpace(v) == "" {
				continue
			}
			year, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return Book{}, fmt.Errorf("invalid year %q", v)
			}
			b.Year = year
		}
	}
	return b, nil
}
