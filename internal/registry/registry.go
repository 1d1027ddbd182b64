// Package registry maintains the set of discovered documentation pages
// and notifies interested parties (the builder and the development
// server) when pages are added, updated, or removed.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/docsmith/docsmith/internal/types"
)

// PageRegistry manages all discovered pages, keyed by slug.
type PageRegistry struct {
	pages    map[string]*types.PageInfo
	mutex    sync.RWMutex
	watchers []chan types.PageEvent
}

// NewPageRegistry creates a new page registry
func NewPageRegistry() *PageRegistry {
	return &PageRegistry{
		pages:    make(map[string]*types.PageInfo),
		watchers: make([]chan types.PageEvent, 0),
	}
}

// Register adds or updates a page in the registry
func (r *PageRegistry) Register(page *types.PageInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := types.EventTypeAdded
	if existing, exists := r.pages[page.Slug]; exists {
		if existing.Hash == page.Hash {
			// Unchanged content; keep the existing entry and stay quiet
			return
		}
		eventType = types.EventTypeUpdated
	}

	r.pages[page.Slug] = page

	r.notify(types.PageEvent{
		Type:      eventType,
		Page:      page,
		Timestamp: time.Now(),
	})
}

// Get retrieves a page by slug
func (r *PageRegistry) Get(slug string) (*types.PageInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	page, exists := r.pages[slug]
	return page, exists
}

// GetAll returns all registered pages sorted by section, position, and
// slug, which is the order pages appear in the sidebar.
func (r *PageRegistry) GetAll() []*types.PageInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.PageInfo, 0, len(r.pages))
	for _, page := range r.pages {
		result = append(result, page)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Section != result[j].Section {
			return result[i].Section < result[j].Section
		}
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return result[i].Slug < result[j].Slug
	})

	return result
}

// Remove removes a page from the registry
func (r *PageRegistry) Remove(slug string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	page, exists := r.pages[slug]
	if !exists {
		return
	}

	delete(r.pages, slug)

	r.notify(types.PageEvent{
		Type:      types.EventTypeRemoved,
		Page:      page,
		Timestamp: time.Now(),
	})
}

// Watch returns a channel that receives page events
func (r *PageRegistry) Watch() <-chan types.PageEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.PageEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *PageRegistry) UnWatch(ch <-chan types.PageEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered pages
func (r *PageRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.pages)
}

// notify fans an event out to watchers without blocking; callers must
// hold the write lock.
func (r *PageRegistry) notify(event types.PageEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
