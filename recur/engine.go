package recur

import (
	"time"

	"github.com/samber/mo"
)

// Engine wraps the occurrence calculator for UI preview paths, which
// recompute the same settings repeatedly while a panel is open. Results are
// optionally cached; the pure functions in this package stay cache-free.
type Engine struct {
	cache  *OccurrenceCache
	config EngineConfig
}

// EngineConfig holds tuning options for the preview engine.
type EngineConfig struct {
	CacheEnabled bool
	CacheConfig  CacheConfig

	// MaxPreview caps how many occurrences a single Preview call may expand.
	MaxPreview int
}

// DefaultEngineConfig provides sensible defaults for interactive use.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
	MaxPreview:   100,
}

// DisabledCacheConfig turns off caching entirely.
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
	MaxPreview:   1000,
}

// NewEngine creates a preview engine with default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NewEngineWithConfig creates a preview engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	var cache *OccurrenceCache
	if config.CacheEnabled {
		cache = NewOccurrenceCache(config.CacheConfig)
	}
	return &Engine{
		cache:  cache,
		config: config,
	}
}

// Next returns the next occurrence strictly after from.
func (e *Engine) Next(s Settings, from time.Time) mo.Option[time.Time] {
	occurrences := e.Preview(s, 1, from)
	if len(occurrences) == 0 {
		return mo.None[time.Time]()
	}
	return mo.Some(occurrences[0])
}

// Preview returns up to n future occurrences, consulting the cache first.
func (e *Engine) Preview(s Settings, n int, from time.Time) []time.Time {
	if n > e.config.MaxPreview {
		n = e.config.MaxPreview
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(s, n, from); ok {
			return cached
		}
	}

	occurrences := NextOccurrences(s, n, from)

	if e.cache != nil {
		e.cache.Set(s, n, from, occurrences)
	}
	return occurrences
}

// Close releases the cache's background resources. Safe to call on an
// engine without a cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// CacheStats exposes the underlying cache statistics, or zero values when
// caching is disabled.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}
