// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookshelf/internal/metrics"
)

const cacheKeyPrefix = "emb:v1:"

// Store persists embeddings by key. Get reports ok=false for missing keys.
type Store interface {
	Get(key string) (vec []float32, ok bool, err error)
	Put(key string, vec []float32) error
	Close() error
}

// BadgerStore keeps embeddings in a BadgerDB directory so that restarts do
// not re-embed an unchanged catalog.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens or creates the store at path. An empty path keeps
// everything in memory.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Compression = options.Snappy

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(key string) ([]float32, bool, error) {
	var vec []float32
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			vec, err = decodeVector(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

func (s *BadgerStore) Put(key string, vec []float32) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), encodeVector(vec)))
	})
}

func (s *BadgerStore) Close() error { return s.db.Close() }

// encodeVector writes vec as little-endian float32s.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector: %d bytes", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}

// CachedProvider serves embeddings from a Store before asking the wrapped
// provider. Keys include the model, so switching models never returns stale
// vectors. Store failures are logged and treated as misses.
type CachedProvider struct {
	next   Provider
	store  Store
	logger zerolog.Logger
}

// NewCachedProvider wraps next with store. Closing the result closes both.
func NewCachedProvider(next Provider, store Store, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		store:  store,
		logger: logger.With().Str("component", "embedding_cache").Logger(),
	}
}

func (c *CachedProvider) Dimensions() int { return c.next.Dimensions() }

func (c *CachedProvider) Model() string { return c.next.Model() }

func (c *CachedProvider) Close() error {
	return errors.Join(c.next.Close(), c.store.Close())
}

func (c *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return embedOne(ctx, c, text)
}

func (c *CachedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	dims := c.next.Dimensions()

	var missTexts []string
	var missPos []int
	for i, text := range texts {
		if IsBlank(text) {
			out[i] = Zero(dims)
			continue
		}
		vec, ok, err := c.store.Get(c.key(text))
		if err != nil {
			c.logger.Warn().Err(err).Msg("Embedding cache read failed")
		}
		if ok && len(vec) == dims {
			metrics.EmbeddingCacheHits.Inc()
			out[i] = vec
			continue
		}
		metrics.EmbeddingCacheMisses.Inc()
		missTexts = append(missTexts, text)
		missPos = append(missPos, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.EmbedBatch(ctx, missTexts)
	if err != nil {
		var embErr *EmbeddingError
		if errors.As(err, &embErr) && embErr.Index >= 0 && embErr.Index < len(missPos) {
			embErr.Index = missPos[embErr.Index]
		}
		return nil, err
	}

	for j, pos := range missPos {
		out[pos] = vecs[j]
		if err := c.store.Put(c.key(missTexts[j]), vecs[j]); err != nil {
			c.logger.Warn().Err(err).Msg("Embedding cache write failed")
		}
	}
	return out, nil
}

func (c *CachedProvider) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + c.next.Model() + ":" + hex.EncodeToString(sum[:])
}
