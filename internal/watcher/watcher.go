// Package watcher ingests files dropped into a watched directory.
// Create and write events schedule an ingest after a settle delay so
// partially written files are not picked up; remove and rename events
// delete the matching documents from the collection.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is ingested.
const DefaultSettle = 500 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides the settle delay.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// Watcher monitors a single directory and feeds supported files into the
// ingest service.
type Watcher struct {
	ingest driving.IngestService
	dir    string
	settle time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// New validates the directory and starts watching it. Run must be called
// to process events.
func New(dir string, ingest driving.IngestService, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("watch path error: %s does not exist", dir)
		}
		return nil, fmt.Errorf("watch path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path error: %s is not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		ingest:  ingest,
		dir:     dir,
		settle:  DefaultSettle,
		fsw:     fsw,
		pending: make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger.Info("watching %s for new documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return
		}
		if _, err := domain.FileKindFromName(name); err != nil {
			logger.Debug("ignoring %s: unsupported file type", name)
			return
		}
		w.schedule(ctx, event.Name)
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		w.cancel(event.Name)
		w.removeByFilename(ctx, name)
	}
}

// schedule resets the settle timer for a path. Repeated writes keep
// pushing the ingest back until the file goes quiet.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		closed := w.closed
		w.mu.Unlock()
		if closed || ctx.Err() != nil {
			return
		}
		w.ingestPath(ctx, path)
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) ingestPath(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("read %s: %v", path, err)
		return
	}
	if len(data) == 0 {
		return
	}

	filename := filepath.Base(path)
	doc, err := w.ingest.Ingest(ctx, filename, data)
	if err != nil {
		logger.Warn("ingest %s: %v", filename, err)
		return
	}
	logger.Info("ingested %s (%d chunks)", doc.Filename, doc.ChunkCount)
}

// removeByFilename deletes every document record matching the removed
// file's name. The document ID is content-derived, so the name is the
// only link back from a deletion event.
func (w *Watcher) removeByFilename(ctx context.Context, filename string) {
	docs, err := w.ingest.List(ctx)
	if err != nil {
		logger.Warn("list documents: %v", err)
		return
	}
	for _, doc := range docs {
		if doc.Filename != filename {
			continue
		}
		if err := w.ingest.Delete(ctx, doc.ID); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Warn("delete %s: %v", doc.ID, err)
			}
			continue
		}
		logger.Info("removed %s from the collection", filename)
	}
}

// Close stops the watcher and cancels pending ingests. Safe to call
// more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	return w.fsw.Close()
}
