package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/curator-dev/curator/internal/types"
)

// DocumentRegistry manages all discovered catalog documents
type DocumentRegistry struct {
	documents map[string]*types.DocumentInfo
	mutex     sync.RWMutex
	watchers  []chan DocumentEvent
}

// DocumentEvent represents a change in the document registry
type DocumentEvent struct {
	Type      EventType
	Document  *types.DocumentInfo
	Timestamp time.Time
}

// EventType represents the type of document event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

// NewDocumentRegistry creates a new document registry
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		documents: make(map[string]*types.DocumentInfo),
		watchers:  make([]chan DocumentEvent, 0),
	}
}

// Register adds or updates a document in the registry, keyed by its
// catalog-relative path.
func (r *DocumentRegistry) Register(doc *types.DocumentInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.documents[doc.Path]; exists {
		eventType = EventTypeUpdated
	}

	r.documents[doc.Path] = doc

	r.notify(DocumentEvent{
		Type:      eventType,
		Document:  doc,
		Timestamp: time.Now(),
	})
}

// Get retrieves a document by catalog-relative path
func (r *DocumentRegistry) Get(path string) (*types.DocumentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	doc, exists := r.documents[path]
	return doc, exists
}

// GetAll returns all registered documents sorted by path
func (r *DocumentRegistry) GetAll() []*types.DocumentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.DocumentInfo, 0, len(r.documents))
	for _, doc := range r.documents {
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}

// ByTopic returns all documents in a topic directory, sorted by path
func (r *DocumentRegistry) ByTopic(topic string) []*types.DocumentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*types.DocumentInfo
	for _, doc := range r.documents {
		if doc.Topic == topic {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}

// ByKind returns all documents of the given kind, sorted by path
func (r *DocumentRegistry) ByKind(kind types.DocumentKind) []*types.DocumentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*types.DocumentInfo
	for _, doc := range r.documents {
		if doc.Kind == kind {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}

// Topics returns the sorted set of topic directories present
func (r *DocumentRegistry) Topics() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	seen := make(map[string]bool)
	for _, doc := range r.documents {
		seen[doc.Topic] = true
	}
	topics := make([]string, 0, len(seen))
	for topic := range seen {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Remove removes a document from the registry
func (r *DocumentRegistry) Remove(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc, exists := r.documents[path]
	if !exists {
		return
	}

	delete(r.documents, path)

	r.notify(DocumentEvent{
		Type:      EventTypeRemoved,
		Document:  doc,
		Timestamp: time.Now(),
	})
}

// Watch returns a channel that receives document events
func (r *DocumentRegistry) Watch() <-chan DocumentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan DocumentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *DocumentRegistry) UnWatch(ch <-chan DocumentEvent) {
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

// Count returns the number of registered documents
func (r *DocumentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.documents)
}

// notify fans an event out to watchers. Callers must hold the lock.
func (r *DocumentRegistry) notify(event DocumentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
