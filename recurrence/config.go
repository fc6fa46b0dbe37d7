package recurrence

import (
	"log/slog"
	"time"
)

// EngineConfig holds configuration options for the recurrence engine
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig

	// MaxPreview caps how many occurrences Preview computes in one call
	MaxPreview int

	// Logger receives cache activity at debug level; nil discards it
	Logger *slog.Logger
}

// DefaultEngineConfig provides sensible defaults for production use
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
	MaxPreview:   366, // A year of daily dates
}

// HighPerformanceConfig is optimized for hosts completing many tasks
var HighPerformanceConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             30 * time.Minute, // Longer cache TTL
		MaxEntries:      5000,             // More descriptor/day pairs kept
		CleanupInterval: 10 * time.Minute, // Less frequent cleanup
	},
	MaxPreview: 100, // Shorter previews
}

// LowMemoryConfig is optimized for memory-constrained environments
var LowMemoryConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             5 * time.Minute, // Shorter cache TTL
		MaxEntries:      100,             // Fewer cached results
		CleanupInterval: 2 * time.Minute, // More frequent cleanup
	},
	MaxPreview: 52, // A year of weekly dates
}

// DisabledCacheConfig turns off caching entirely
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
	CacheConfig:  CacheConfig{}, // Not used
	MaxPreview:   366,
}
