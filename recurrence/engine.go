package recurrence

import (
	"io"
	"log/slog"
	"time"

	"github.com/samber/mo"
)

// Engine computes occurrences for many descriptors, memoizing results.
//
// The engine itself is safe for concurrent use. Descriptors are not: a host
// must not call Advance on one descriptor from two goroutines.
type Engine struct {
	cache  *RecurrenceCache
	config EngineConfig
	logger *slog.Logger
}

// NewEngine creates a new recurrence engine with DefaultEngineConfig
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NewEngineWithConfig creates a new recurrence engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	var cache *RecurrenceCache
	if config.CacheEnabled {
		cache = NewRecurrenceCache(config.CacheConfig)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Next returns d.NextOccurrence(reference), served from the cache when possible
func (e *Engine) Next(d Descriptor, reference time.Time) mo.Option[time.Time] {
	if reference.IsZero() {
		reference = time.Now()
	}
	ref := StartOfDay(reference)

	if e.cache == nil {
		return d.NextOccurrence(ref)
	}

	key, err := cacheKey(d, ref)
	if err != nil {
		e.logger.Warn("recurrence cache key failed, computing directly", "error", err)
		return d.NextOccurrence(ref)
	}

	if result, ok := e.cache.Get(key); ok {
		e.logger.Debug("recurrence cache hit", "unit", d.IntervalUnit, "reference", ref)
		return result
	}

	result := d.NextOccurrence(ref)
	e.cache.Set(key, result)
	e.logger.Debug("recurrence cache miss", "unit", d.IntervalUnit, "reference", ref,
		"present", result.IsPresent())
	return result
}

// Preview lists up to n upcoming occurrences after reference, as a task would
// see them if it were completed on each due date in turn. d is not modified.
//
// The list stops early when the series ends, when MaxPreview is reached, or
// when an occurrence does not move past the previous one (a weekend policy
// can pull a date back onto its reference).
func (e *Engine) Preview(d Descriptor, reference time.Time, n int) []time.Time {
	if e.config.MaxPreview > 0 && n > e.config.MaxPreview {
		n = e.config.MaxPreview
	}

	if reference.IsZero() {
		reference = time.Now()
	}

	series := d.Clone()
	current := StartOfDay(reference)
	var out []time.Time
	for len(out) < n {
		next, ok := e.Next(series, current).Get()
		if !ok || !next.After(current) {
			break
		}
		out = append(out, next)
		series.Advance()
		current = next
	}
	return out
}

// CacheStats returns the cache statistics, or zero values when caching is off
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

// Close releases the cache
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}
