// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// record is the on-disk shape shared by the JSON, JSON Lines and YAML formats.
// "text" is accepted as an alias for "description".
type record struct {
	ID          flexString `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Author      string     `json:"author" yaml:"author"`
	Description string     `json:"description" yaml:"description"`
	Text        string     `json:"text" yaml:"text"`
	Genre       string     `json:"genre" yaml:"genre"`
	Year        int        `json:"year" yaml:"year"`
}

func (r *record) book() Book {
	desc := r.Description
	if desc == "" {
		desc = r.Text
	}
	return Book{
		ID:          string(r.ID),
		Title:       r.Title,
		Author:      r.Author,
		Description: desc,
		Genre:       r.Genre,
		Year:        r.Year,
	}
}

// flexString accepts either a JSON string or number, so numeric IDs load as-is.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

func (f *flexString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", node.Line)
	}
	*f = flexString(node.Value)
	return nil
}

// jsonSource reads either a top-level array of books or an object with a "books" array.
type jsonSource struct {
	path string
}

func (s *jsonSource) Name() string { return s.path }

func (s *jsonSource) Read(_ context.Context) ([]Book, error) {
	data, err := readSourceFile(s.path)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, sourceError(s.path, nil, "file is empty")
	}

	var records []record
	switch data[0] {
	case '[':
		err = json.Unmarshal(data, &records)
	case '{':
		var wrapper struct {
			Books *[]record `json:"books"`
		}
		err = json.Unmarshal(data, &wrapper)
		if err == nil && wrapper.Books == nil {
			return nil, sourceError(s.path, nil, `malformed JSON: object has no "books" array`)
		}
		if wrapper.Books != nil {
			records = *wrapper.Books
		}
	default:
		return nil, sourceError(s.path, nil, "malformed JSON: expected an array or an object")
	}
	if err != nil {
		return nil, sourceError(s.path, err, "malformed JSON")
	}

	books := make([]Book, len(records))
	for i := range records {
		books[i] = records[i].book()
	}
	return books, nil
}

// jsonLinesSource reads one JSON object per line. Blank lines are ignored.
type jsonLinesSource struct {
	path string
}

func (s *jsonLinesSource) Name() string { return s.path }

func (s *jsonLinesSource) Read(ctx context.Context) ([]Book, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, sourceError(s.path, err, "unreadable")
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var books []Book
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, &DataSourceError{
				Source: s.path,
				Record: len(books),
				Reason: fmt.Sprintf("malformed JSON on line %d", line),
				Err:    err,
			}
		}
		books = append(books, r.book())
	}
	if err := scanner.Err(); err != nil {
		return nil, sourceError(s.path, err, "unreadable")
	}
	return books, nil
}

// yamlSource reads a YAML sequence of books, or a mapping with a "books" key.
type yamlSource struct {
	path string
}

func (s *yamlSource) Name() string { return s.path }

func (s *yamlSource) Read(_ context.Context) ([]Book, error) {
	data, err := readSourceFile(s.path)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, sourceError(s.path, err, "malformed YAML")
	}
	if len(root.Content) == 0 {
		return nil, sourceError(s.path, nil, "file is empty")
	}

	doc := root.Content[0]
	var records []record
	switch doc.Kind {
	case yaml.SequenceNode:
		err = doc.Decode(&records)
	case yaml.MappingNode:
		var wrapper struct {
			Books *[]record `yaml:"books"`
		}
		err = doc.Decode(&wrapper)
		if err == nil && wrapper.Books == nil {
			return nil, sourceError(s.path, nil, `malformed YAML: mapping has no "books" sequence`)
		}
		if wrapper.Books != nil {
			records = *wrapper.Books
		}
	default:
		return nil, sourceError(s.path, nil, "malformed YAML: expected a sequence or a mapping")
	}
	if err != nil {
		return nil, sourceError(s.path, err, "malformed YAML")
	}

	books := make([]Book, len(records))
	for i := range records {
		books[i] = records[i].book()
	}
	return books, nil
}
