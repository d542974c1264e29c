// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package index ranks stored embeddings by cosine similarity to a query.
//
// The index is an exact brute-force scan over precomputed magnitudes. It is
// immutable after Build and safe for concurrent queries.
package index

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelThreshold is the index size from which Query scores in parallel.
const DefaultParallelThreshold = 4096

// ErrDimensionMismatch is matched by every *DimensionMismatchError.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// DimensionMismatchError reports vectors of different lengths being compared.
// It signals provider or model skew and is never transient.
type DimensionMismatchError struct {
	// Position of the offending embedding during Build, or -1 for a query vector.
	Position int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("embedding %d has %d dimensions, expected %d", e.Position, e.Actual, e.Expected)
	}
	return fmt.Sprintf("query vector has %d dimensions, index has %d", e.Actual, e.Expected)
}

// Is makes errors.Is(err, ErrDimensionMismatch) match.
func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// Match is one ranked result: a position in the indexed sequence and its score.
type Match struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

// Option configures an Index.
type Option func(*Index)

// WithZeroScore sets the score given when either vector has zero magnitude.
func WithZeroScore(score float64) Option {
	return func(ix *Index) { ix.zeroScore = score }
}

// WithParallelThreshold sets the size from which scoring is split across
// goroutines. Values <= 0 disable parallel scoring.
func WithParallelThreshold(n int) Option {
	return func(ix *Index) { ix.parallelThreshold = n }
}

// Index holds embeddings and their magnitudes.
type Index struct {
	vectors [][]float32
	norms   []float64
	dims    int

	zeroScore         float64
	parallelThreshold int
}

// Build retains embeddings for querying. All embeddings must share one length.
// The slice is retained, not copied; callers must not modify it afterwards.
func Build(embeddings [][]float32, opts ...Option) (*Index, error) {
	ix := &Index{
		vectors:           embeddings,
		norms:             make([]float64, len(embeddings)),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(ix)
	}

	if len(embeddings) > 0 {
		ix.dims = len(embeddings[0])
	}
	for i, vec := range embeddings {
		if len(vec) != ix.dims {
			return nil, &DimensionMismatchError{Position: i, Expected: ix.dims, Actual: len(vec)}
		}
		ix.norms[i] = magnitude(vec)
	}
	return ix, nil
}

// Len returns the number of indexed embeddings.
func (ix *Index) Len() int { return len(ix.vectors) }

// Dimensions returns the shared embedding length, or 0 for an empty index.
func (ix *Index) Dimensions() int { return ix.dims }

// Query returns the k entries most similar to vec, best first. Equal scores
// keep index order. k is clamped to [0, Len()].
func (ix *Index) Query(vec []float32, k int) ([]Match, error) {
	n := len(ix.vectors)
	if n > 0 && len(vec) != ix.dims {
		return nil, &DimensionMismatchError{Position: -1, Expected: ix.dims, Actual: len(vec)}
	}

	k = min(max(k, 0), n)
	if k == 0 {
		return []Match{}, nil
	}

	scores := ix.scoreAll(vec)

	top := newTopK(k)
	for i, s := range scores {
		top.offer(Match{Position: i, Score: s})
	}
	return top.sorted(), nil
}

func (ix *Index) scoreAll(vec []float32) []float64 {
	n := len(ix.vectors)
	scores := make([]float64, n)
	qnorm := magnitude(vec)

	workers := runtime.GOMAXPROCS(0)
	if ix.parallelThreshold <= 0 || n < ix.parallelThreshold || workers < 2 {
		for i := range scores {
			scores[i] = ix.cosine(vec, qnorm, i)
		}
		return scores
	}

	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				scores[i] = ix.cosine(vec, qnorm, i)
			}
			return nil
		})
	}
	_ = g.Wait()
	return scores
}

func (ix *Index) cosine(vec []float32, qnorm float64, i int) float64 {
	if qnorm == 0 || ix.norms[i] == 0 {
		return ix.zeroScore
	}
	var dot float64
	for j, v := range ix.vectors[i] {
		dot += float64(v) * float64(vec[j])
	}
	// Rounding can push parallel vectors just past 1.
	return math.Max(-1, math.Min(1, dot/(qnorm*ix.norms[i])))
}

func magnitude(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// topK keeps the k best matches in a min-heap whose root is the worst kept match.
type topK struct {
	k    int
	heap []Match
}

func newTopK(k int) *topK {
	return &topK{k: k, heap: make([]Match, 0, k)}
}

// better ranks by score, then by lower position.
func better(a, b Match) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Position < b.Position
}

func (t *topK) offer(m Match) {
	if len(t.heap) < t.k {
		t.heap = append(t.heap, m)
		t.bubbleUp(len(t.heap) - 1)
		return
	}
	if better(m, t.heap[0]) {
		t.heap[0] = m
		t.bubbleDown(0)
	}
}

func (t *topK) sorted() []Match {
	out := append([]Match(nil), t.heap...)
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}

func (t *topK) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !better(t.heap[parent], t.heap[i]) {
			break
		}
		t.heap[parent], t.heap[i] = t.heap[i], t.heap[parent]
		i = parent
	}
}

func (t *topK) bubbleDown(i int) {
	n := len(t.heap)
	for {
		worst := i
		left, right := 2*i+1, 2*i+2
		if left < n && better(t.heap[worst], t.heap[left]) {
			worst = left
		}
		if right < n && better(t.heap[worst], t.heap[right]) {
			worst = right
		}
		if worst == i {
			return
		}
		t.heap[i], t.heap[worst] = t.heap[worst], t.heap[i]
		i = worst
	}
}
