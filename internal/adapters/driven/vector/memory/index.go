// Package memory provides an in-memory brute-force cosine vector index
// with an optional snapshot file for fast restarts.
package memory

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/viant/vec/search"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Config holds configuration for the vector index.
type Config struct {
	// Path is the snapshot file location. Empty disables persistence.
	Path string

	// Dimensions fixes the vector size up front. Zero lets the first
	// insertion fix it.
	Dimensions int
}

// entry is an index entry with its precomputed vector magnitude.
type entry struct {
	domain.IndexEntry
	magnitude float32
}

// Index is a brute-force cosine similarity index. Entries keep their
// insertion order, which breaks score ties so searches are
// deterministic. Corpus sizes here do not warrant an approximate
// nearest-neighbour structure.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	dims    int
	path    string
}

// snapshot is the on-disk representation of the index.
type snapshot struct {
	Dimensions int
	Entries    []domain.IndexEntry
}

// New creates an index. When a snapshot file exists at the configured
// path it is loaded; otherwise the index starts empty and callers
// rebuild it from the document store.
func New(cfg Config) (*Index, error) {
	idx := &Index{
		dims: cfg.Dimensions,
		path: cfg.Path,
	}

	if cfg.Path != "" {
		if err := idx.load(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("load snapshot: %w", err)
			}
			logger.Debug("No vector snapshot at %s, starting empty", cfg.Path)
		}
	}

	return idx, nil
}

// Add appends entries as one atomic unit. Dimensions are validated
// before anything is inserted, so a mismatch leaves the index unchanged.
func (idx *Index) Add(_ context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	dims := idx.dims
	if dims == 0 {
		dims = len(entries[0].Vector)
	}
	for _, e := range entries {
		if len(e.Vector) != dims {
			return fmt.Errorf("entry %s has %d dimensions, index has %d: %w",
				e.ChunkID, len(e.Vector), dims, domain.ErrDimensionMismatch)
		}
	}

	idx.dims = dims
	for _, e := range entries {
		idx.entries = append(idx.entries, entry{
			IndexEntry: e,
			magnitude:  search.Float32s(e.Vector).Magnitude(),
		})
	}
	return nil
}

// Search returns the k most similar entries ordered by descending
// cosine similarity. Ties break by insertion order, earliest first.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]domain.RetrievalResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 || k <= 0 {
		return []domain.RetrievalResult{}, nil
	}
	if idx.dims != 0 && len(query) != idx.dims {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), idx.dims, domain.ErrDimensionMismatch)
	}

	qv := search.Float32s(query)
	qmag := qv.Magnitude()

	type scored struct {
		pos   int
		score float64
	}
	scores := make([]scored, len(idx.entries))
	for i, e := range idx.entries {
		scores[i] = scored{pos: i, score: cosineSimilarity(qv, qmag, e)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]domain.RetrievalResult, k)
	for i := 0; i < k; i++ {
		e := idx.entries[scores[i].pos]
		results[i] = domain.RetrievalResult{
			ChunkID:    e.ChunkID,
			DocumentID: e.DocumentID,
			Filename:   e.Filename,
			Content:    e.Content,
			Score:      scores[i].score,
			Rank:       i + 1,
		}
	}
	return results, nil
}

// cosineSimilarity scores a query against one entry. Zero-magnitude
// vectors have no direction and score 0.
func cosineSimilarity(qv search.Float32s, qmag float32, e entry) float64 {
	if qmag == 0 || e.magnitude == 0 {
		return 0
	}
	dist := qv.CosineDistanceWithMagnitude(e.Vector, qmag, e.magnitude)
	return 1 - float64(dist)
}

// RemoveDocument removes all entries belonging to the document.
// Removing an absent document is a no-op.
func (idx *Index) RemoveDocument(_ context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0]
	for _, e := range idx.entries {
		if e.DocumentID != documentID {
			kept = append(kept, e)
		}
	}
	idx.entries = kept
	return nil
}

// Size returns the total number of entries.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Save writes a snapshot so the next start loads identical entries in
// identical order. A no-op when persistence is disabled.
func (idx *Index) Save() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.path == "" {
		return nil
	}

	snap := snapshot{
		Dimensions: idx.dims,
		Entries:    make([]domain.IndexEntry, len(idx.entries)),
	}
	for i, e := range idx.entries {
		snap.Entries[i] = e.IndexEntry
	}

	if err := os.MkdirAll(filepath.Dir(idx.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	// Write to a temp file first so a crash never corrupts the snapshot.
	tmp := idx.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp, idx.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	logger.Debug("Saved vector snapshot with %d entries to %s", len(snap.Entries), idx.path)
	return nil
}

// load reads the snapshot file. Magnitudes are recomputed on load.
func (idx *Index) load() error {
	f, err := os.Open(idx.path)
	if err != nil {
		return err
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	idx.dims = snap.Dimensions
	idx.entries = make([]entry, len(snap.Entries))
	for i, e := range snap.Entries {
		idx.entries[i] = entry{
			IndexEntry: e,
			magnitude:  search.Float32s(e.Vector).Magnitude(),
		}
	}

	logger.Debug("Loaded vector snapshot with %d entries from %s", len(idx.entries), idx.path)
	return nil
}

// Close persists the index if a snapshot path is configured.
func (idx *Index) Close() error {
	return idx.Save()
}
