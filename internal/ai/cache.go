package ai

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

type cacheEntry struct {
	annotations []intent.Annotation
	timestamp   time.Time
}

// CachingExtractor memoizes successful extractions for ttl.
// Failed extractions are never cached.
type CachingExtractor struct {
	next   intent.EntityExtractor
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

func NewCachingExtractor(next intent.EntityExtractor, ttl time.Duration, logger *zap.Logger) *CachingExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingExtractor{
		next:    next,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

func (c *CachingExtractor) EnsureModelReady(ctx context.Context) error {
	return c.next.EnsureModelReady(ctx)
}

func (c *CachingExtractor) Extract(ctx context.Context, text string) ([]intent.Annotation, error) {
	key := cacheKey(text)
	if cached, ok := c.get(key); ok {
		c.logger.Debug("Entity cache hit", zap.String("key", key))
		return cached, nil
	}

	annotations, err := c.next.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	c.set(key, annotations)
	return copyAnnotations(annotations), nil
}

// Len reports how many entries are held, including expired ones not yet evicted.
func (c *CachingExtractor) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachingExtractor) get(key string) ([]intent.Annotation, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.timestamp) >= c.ttl {
		c.mu.Lock()
		// A concurrent set may have replaced the stale entry.
		if c.entries[key] == entry {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return copyAnnotations(entry.annotations), true
}

func (c *CachingExtractor) set(key string, annotations []intent.Annotation) {
	c.mu.Lock()
	c.entries[key] = &cacheEntry{
		annotations: copyAnnotations(annotations),
		timestamp:   c.now(),
	}
	c.mu.Unlock()
}

// cacheKey only trims whitespace: entity text is case sensitive.
func cacheKey(text string) string {
	return strings.TrimSpace(text)
}

func copyAnnotations(in []intent.Annotation) []intent.Annotation {
	if in == nil {
		return nil
	}
	out := make([]intent.Annotation, len(in))
	for i, a := range in {
		out[i] = intent.Annotation{Text: a.Text, Types: append([]intent.EntityType(nil), a.Types...)}
	}
	return out
}
