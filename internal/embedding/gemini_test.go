// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbedRequest struct {
	Model   string `json:"model"`
	Content struct {
		Parts []geminiPart `json:"parts"`
	} `json:"content"`
	OutputDimensionality *int `json:"outputDimensionality,omitempty"`
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiEmbedding struct {
	Values []float32 `json:"values"`
}

// geminiServer answers :batchEmbedContents with [len(text), i, 0, ...] per
// request, sized by outputDimensionality when one is sent.
type geminiServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []geminiBatchRequest
	paths    []string

	// dropLast omits the final embedding of multi-text batches.
	dropLast bool
	// emptyFor answers an empty vector for this text.
	emptyFor string
}

func newGeminiServer(t *testing.T) *geminiServer {
	t.Helper()

	gs := &geminiServer{}
	gs.Server = httptest.NewServer(http.HandlerFunc(gs.handle))
	t.Cleanup(gs.Close)
	return gs
}

func (gs *geminiServer) handle(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, ":batchEmbedContents") {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("x-goog-api-key") != "test-key" && r.URL.Query().Get("key") != "test-key" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"code": 401, "message": "API key not valid", "status": "UNAUTHENTICATED"}}`))
		return
	}

	var req geminiBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	gs.mu.Lock()
	gs.requests = append(gs.requests, req)
	gs.paths = append(gs.paths, r.URL.Path)
	dropLast, emptyFor := gs.dropLast, gs.emptyFor
	gs.mu.Unlock()

	embeddings := make([]geminiEmbedding, 0, len(req.Requests))
	for i, er := range req.Requests {
		var text string
		for _, p := range er.Content.Parts {
			text += p.Text
		}
		dims := 4
		if er.OutputDimensionality != nil {
			dims = *er.OutputDimensionality
		}
		values := make([]float32, dims)
		values[0] = float32(len(text))
		values[1] = float32(i)
		if text == emptyFor {
			values = nil
		}
		embeddings = append(embeddings, geminiEmbedding{Values: values})
	}
	if dropLast && len(embeddings) > 1 {
		embeddings = embeddings[:len(embeddings)-1]
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
}

func (gs *geminiServer) batches() ([]geminiBatchRequest, []string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return append([]geminiBatchRequest(nil), gs.requests...), append([]string(nil), gs.paths...)
}

func newTestGemini(t *testing.T, gs *geminiServer, dims int) Provider {
	t.Helper()

	p, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    gs.URL,
		Model:      "text-embedding-004",
		Dimensions: dims,
		HTTPClient: gs.Client(),
	}, testRemoteOptions())
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestNewGemini_EmbedsInOrder(t *testing.T) {
	t.Parallel()

	gs := newGeminiServer(t)
	p := newTestGemini(t, gs, 3)

	if p.Dimensions() != 3 {
		t.Errorf("Dimensions() = %d, want 3 from the probe", p.Dimensions())
	}
	if p.Model() != "gemini:text-embedding-004" {
		t.Errorf("Model() = %q", p.Model())
	}

	texts := []string{"a", "bbb", "", "cc"}
	vecs, err := p.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	for i, text := range texts {
		if len(vecs[i]) != 3 {
			t.Fatalf("len(vecs[%d]) = %d, want 3", i, len(vecs[i]))
		}
		if vecs[i][0] != float32(len(text)) {
			t.Errorf("vecs[%d][0] = %f, want %d", i, vecs[i][0], len(text))
		}
	}
	// Second text of the first batch.
	if vecs[1][1] != 1 {
		t.Errorf("vecs[1][1] = %f, want its position in the batch", vecs[1][1])
	}

	reqs, paths := gs.batches()
	// Probe plus "a","bbb" and "cc"; the blank text never leaves the process.
	if len(reqs) != 3 {
		t.Fatalf("batches = %d, want 3", len(reqs))
	}
	for i, req := range reqs {
		if !strings.Contains(paths[i], "text-embedding-004") {
			t.Errorf("path = %s, want model in path", paths[i])
		}
		for _, er := range req.Requests {
			if er.OutputDimensionality == nil || *er.OutputDimensionality != 3 {
				t.Errorf("outputDimensionality = %v, want 3", er.OutputDimensionality)
			}
			if len(er.Content.Parts) != 1 {
				t.Errorf("parts = %d, want one text part", len(er.Content.Parts))
			}
		}
	}
	// Batches run concurrently, so find the pair rather than rely on order.
	var pair []geminiEmbedRequest
	for _, req := range reqs[1:] {
		if len(req.Requests) == 2 {
			pair = req.Requests
		}
	}
	if len(pair) != 2 || pair[0].Content.Parts[0].Text != "a" || pair[1].Content.Parts[0].Text != "bbb" {
		t.Errorf("two-text batch = %+v, want [a bbb]", pair)
	}
}

func TestNewGemini_ModelDefaultDimensions(t *testing.T) {
	t.Parallel()

	gs := newGeminiServer(t)
	p := newTestGemini(t, gs, 0)

	if p.Dimensions() != 4 {
		t.Errorf("Dimensions() = %d, want 4", p.Dimensions())
	}
	reqs, _ := gs.batches()
	if len(reqs) == 0 || reqs[0].Requests[0].OutputDimensionality != nil {
		t.Error("outputDimensionality must be omitted when no size is configured")
	}
}

func TestNewGemini_BadReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(*geminiServer)
		texts []string
	}{
		{"short reply", func(gs *geminiServer) { gs.dropLast = true }, []string{"a", "b"}},
		{"empty vector", func(gs *geminiServer) { gs.emptyFor = "hollow" }, []string{"a", "hollow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gs := newGeminiServer(t)
			p := newTestGemini(t, gs, 0)

			gs.mu.Lock()
			tt.setup(gs)
			gs.mu.Unlock()

			_, err := p.EmbedBatch(context.Background(), tt.texts)
			var embErr *EmbeddingError
			if !errors.As(err, &embErr) {
				t.Fatalf("expected *EmbeddingError, got %v", err)
			}
			if embErr.Model != "gemini:text-embedding-004" {
				t.Errorf("Model = %q", embErr.Model)
			}
		})
	}
}

func TestNewGemini_ProbeRejected(t *testing.T) {
	t.Parallel()

	gs := newGeminiServer(t)
	_, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:     "wrong",
		BaseURL:    gs.URL,
		Model:      "text-embedding-004",
		HTTPClient: gs.Client(),
	}, testRemoteOptions())
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestNewGemini_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  GeminiConfig
	}{
		{"missing key", GeminiConfig{Model: "text-embedding-004"}},
		{"missing model", GeminiConfig{APIKey: "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewGemini(context.Background(), tt.cfg, testRemoteOptions())
			var muErr *ModelUnavailableError
			if !errors.As(err, &muErr) {
				t.Fatalf("expected *ModelUnavailableError, got %v", err)
			}
			if muErr.Model != "gemini:"+tt.cfg.Model {
				t.Errorf("Model = %q", muErr.Model)
			}
		})
	}
}
