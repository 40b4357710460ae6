package mcp

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/codeshape/internal/project"
	"github.com/mvp-joe/codeshape/internal/search"
	"github.com/mvp-joe/codeshape/internal/watcher"
)

// projectEntry is one analyzed project held by the server.
type projectEntry struct {
	analysis *project.Analysis
	watcher  *watcher.Watcher

	mu    sync.Mutex
	index *search.Index

	closeOnce sync.Once
}

// searchIndex builds the keyword index on first use.
func (e *projectEntry) searchIndex(ctx context.Context) (*search.Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.index != nil {
		return e.index, nil
	}

	idx, err := search.NewIndex(ctx, e.analysis.View)
	if err != nil {
		return nil, err
	}
	e.index = idx
	return idx, nil
}

// close stops the watcher and releases the index and any archive workspace.
func (e *projectEntry) close() {
	e.closeOnce.Do(func() {
		if e.watcher != nil {
			if err := e.watcher.Stop(); err != nil {
				log.Printf("Warning: failed to stop watcher for %s: %v", e.analysis.Root, err)
			}
		}

		e.mu.Lock()
		if e.index != nil {
			_ = e.index.Close()
			e.index = nil
		}
		e.mu.Unlock()

		if err := e.analysis.Close(); err != nil {
			log.Printf("Warning: failed to remove workspace for %s: %v", e.analysis.ID, err)
		}
	})
}

// projectStore is the subset of the otter cache API the server uses.
type projectStore interface {
	Get(id string) (*projectEntry, bool)
	Set(id string, entry *projectEntry) bool
	Delete(id string)
	Range(f func(id string, entry *projectEntry) bool)
	Close()
}

// projectCache holds analyzed projects keyed by analysis ID. Evicted,
// expired and invalidated entries are closed.
type projectCache struct {
	cache projectStore
}

func newProjectCache(capacity int, ttl time.Duration) (*projectCache, error) {
	onDelete := func(id string, entry *projectEntry, cause otter.DeletionCause) {
		entry.close()
	}

	var (
		cache otter.Cache[string, *projectEntry]
		err   error
	)
	if ttl > 0 {
		cache, err = otter.MustBuilder[string, *projectEntry](capacity).
			WithTTL(ttl).
			DeletionListener(onDelete).
			Build()
	} else {
		cache, err = otter.MustBuilder[string, *projectEntry](capacity).
			DeletionListener(onDelete).
			Build()
	}
	if err != nil {
		return nil, err
	}
	return &projectCache{cache: &cache}, nil
}

func (c *projectCache) get(id string) (*projectEntry, bool) {
	return c.cache.Get(id)
}

// put stores entry under its analysis ID. An entry the cache rejects is
// closed and put reports false.
func (c *projectCache) put(entry *projectEntry) bool {
	if !c.cache.Set(entry.analysis.ID, entry) {
		entry.close()
		return false
	}
	return true
}

// invalidate drops id, closing its entry.
func (c *projectCache) invalidate(id string) {
	c.cache.Delete(id)
}

// close closes every remaining entry and the cache itself.
func (c *projectCache) close() {
	var entries []*projectEntry
	c.cache.Range(func(_ string, entry *projectEntry) bool {
		entries = append(entries, entry)
		return true
	})
	for _, entry := range entries {
		entry.close()
	}
	c.cache.Close()
}
