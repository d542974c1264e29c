// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package index

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"sync"
	"testing"
)

func mustBuild(t *testing.T, vectors [][]float32, opts ...Option) *Index {
	t.Helper()
	ix, err := Build(vectors, opts...)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ix
}

func positions(matches []Match) []int {
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Position
	}
	return out
}

func TestBuild_DimensionMismatch(t *testing.T) {
	t.Parallel()

	_, err := Build([][]float32{{1, 0}, {0, 1}, {1, 0, 0}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}

	var dmErr *DimensionMismatchError
	if !errors.As(err, &dmErr) {
		t.Fatalf("expected *DimensionMismatchError, got %T", err)
	}
	if dmErr.Position != 2 || dmErr.Expected != 2 || dmErr.Actual != 3 {
		t.Errorf("error = %+v", dmErr)
	}
}

func TestQuery_DimensionMismatch(t *testing.T) {
	t.Parallel()

	ix := mustBuild(t, [][]float32{{1, 0}, {0, 1}})
	_, err := ix.Query([]float32{1, 0, 0}, 1)

	var dmErr *DimensionMismatchError
	if !errors.As(err, &dmErr) {
		t.Fatalf("expected *DimensionMismatchError, got %v", err)
	}
	if dmErr.Position != -1 || dmErr.Expected != 2 || dmErr.Actual != 3 {
		t.Errorf("error = %+v", dmErr)
	}
}

func TestQuery_RanksByCosine(t *testing.T) {
	t.Parallel()

	ix := mustBuild(t, [][]float32{
		{0, 1},  // orthogonal
		{1, 0},  // identical direction
		{1, 1},  // 45 degrees
		{-1, 0}, // opposite
	})

	got, err := ix.Query([]float32{2, 0}, 4)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if want := []int{1, 2, 0, 3}; !reflect.DeepEqual(positions(got), want) {
		t.Errorf("positions = %v, want %v", positions(got), want)
	}

	wantScores := []float64{1, 1 / math.Sqrt2, 0, -1}
	for i, m := range got {
		if math.Abs(m.Score-wantScores[i]) > 1e-9 {
			t.Errorf("score[%d] = %f, want %f", i, m.Score, wantScores[i])
		}
	}
}

func TestQuery_KBoundaries(t *testing.T) {
	t.Parallel()

	ix := mustBuild(t, [][]float32{{1, 0}, {0, 1}, {1, 1}})

	tests := []struct {
		name string
		k    int
		want int
	}{
		{"negative", -3, 0},
		{"zero", 0, 0},
		{"one", 1, 1},
		{"exact", 3, 3},
		{"larger than index", 50, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ix.Query([]float32{1, 0}, tt.k)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if got == nil {
				t.Fatal("Query() must return a non-nil slice")
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestQuery_TiesKeepIndexOrder(t *testing.T) {
	t.Parallel()

	ix := mustBuild(t, [][]float32{{0, 1}, {1, 0}, {2, 0}, {0, 3}, {5, 0}})

	got, err := ix.Query([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if want := []int{1, 2, 4, 0, 3}; !reflect.DeepEqual(positions(got), want) {
		t.Errorf("positions = %v, want %v", positions(got), want)
	}

	top2, _ := ix.Query([]float32{1, 0}, 2)
	if want := []int{1, 2}; !reflect.DeepEqual(positions(top2), want) {
		t.Errorf("top2 = %v, want %v", positions(top2), want)
	}
}

func TestQuery_ZeroMagnitude(t *testing.T) {
	t.Parallel()

	ix := mustBuild(t, [][]float32{{0, 0}, {1, 0}})

	got, err := ix.Query([]float32{0, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for _, m := range got {
		if m.Score != 0 {
			t.Errorf("score for position %d = %f, want 0", m.Position, m.Score)
		}
	}
	if want := []int{0, 1}; !reflect.DeepEqual(positions(got), want) {
		t.Errorf("positions = %v, want %v", positions(got), want)
	}

	stored, _ := ix.Query([]float32{1, 0}, 2)
	if stored[1].Position != 0 || stored[1].Score != 0 {
		t.Errorf("zero stored vector = %+v, want score 0", stored[1])
	}
}

func TestQuery_ConfiguredZeroScore(t *testing.T) {
	t.Parallel()

	ix := mustBuild(t, [][]float32{{0, 0}, {-1, 0}}, WithZeroScore(-2))

	got, err := ix.Query([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got[0].Position != 1 || got[1].Score != -2 {
		t.Errorf("got %+v", got)
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	t.Parallel()

	ix := mustBuild(t, nil)
	got, err := ix.Query([]float32{1, 2, 3}, 5)
	if err != nil || len(got) != 0 {
		t.Errorf("Query() = %v, %v", got, err)
	}
	if ix.Len() != 0 || ix.Dimensions() != 0 {
		t.Errorf("Len/Dimensions = %d, %d", ix.Len(), ix.Dimensions())
	}
}

// bruteForce ranks every position with a full stable sort.
func bruteForce(ix *Index, vec []float32, k int) []Match {
	qnorm := magnitude(vec)
	all := make([]Match, ix.Len())
	for i := range all {
		all[i] = Match{Position: i, Score: ix.cosine(vec, qnorm, i)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	return all[:k]
}

func TestQuery_MatchesFullSort(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	vectors := make([][]float32, 500)
	for i := range vectors {
		vec := make([]float32, 8)
		for j := range vec {
			// Coarse values produce plenty of exact ties.
			vec[j] = float32(rng.Intn(3) - 1)
		}
		vectors[i] = vec
	}

	serial := mustBuild(t, vectors, WithParallelThreshold(0))
	parallel := mustBuild(t, vectors, WithParallelThreshold(16))

	for trial := 0; trial < 20; trial++ {
		query := make([]float32, 8)
		for j := range query {
			query[j] = float32(rng.Intn(5) - 2)
		}
		for _, k := range []int{1, 7, 50, 500} {
			want := bruteForce(serial, query, k)

			got, err := serial.Query(query, k)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("trial %d k=%d: serial result differs from full sort", trial, k)
			}

			got, err = parallel.Query(query, k)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("trial %d k=%d: parallel result differs from full sort", trial, k)
			}
		}
	}
}

func TestQuery_Concurrent(t *testing.T) {
	t.Parallel()

	ix := mustBuild(t, [][]float32{{1, 0}, {0, 1}, {1, 1}}, WithParallelThreshold(1))
	want, _ := ix.Query([]float32{1, 0.5}, 3)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ix.Query([]float32{1, 0.5}, 3)
			if err != nil || !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent Query() = %v, %v", got, err)
			}
		}()
	}
	wg.Wait()
}
