package internal

import (
	"sync"

	draftflow "github.com/ArmandoTL8/draftflow"
)

// CachingAnnotationLookup decorates an AnnotationLookup with a memoizing
// layer. Annotation reads are hot on every precondition check and the
// underlying metadata is immutable for the lifetime of a service session, so
// values are cached forever.
type CachingAnnotationLookup struct {
	mu        sync.RWMutex
	delegate  draftflow.AnnotationLookup
	objects   map[string]any
	metaPaths map[string]string
}

// NewCachingAnnotationLookup wraps delegate with a cache.
func NewCachingAnnotationLookup(delegate draftflow.AnnotationLookup) *CachingAnnotationLookup {
	return &CachingAnnotationLookup{
		delegate:  delegate,
		objects:   make(map[string]any),
		metaPaths: make(map[string]string),
	}
}

// MetaPath implements draftflow.AnnotationLookup.
func (c *CachingAnnotationLookup) MetaPath(contextPath string) string {
	c.mu.RLock()
	cached, ok := c.metaPaths[contextPath]
	c.mu.RUnlock()
	if ok {
		return cached
	}
	value := c.delegate.MetaPath(contextPath)
	c.mu.Lock()
	c.metaPaths[contextPath] = value
	c.mu.Unlock()
	return value
}

// Object implements draftflow.AnnotationLookup. Absent annotations (nil) are
// cached as well; the service metadata does not grow new terms mid-session.
func (c *CachingAnnotationLookup) Object(path string) any {
	c.mu.RLock()
	cached, ok := c.objects[path]
	c.mu.RUnlock()
	if ok {
		return cached
	}
	value := c.delegate.Object(path)
	c.mu.Lock()
	c.objects[path] = value
	c.mu.Unlock()
	return value
}
