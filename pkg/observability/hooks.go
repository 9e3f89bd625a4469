// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about matcher searches, diff runs, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Libraries never import a metrics backend directly; package prom provides a
// Prometheus implementation that main wires in.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSearchHooks(myHooks)
//	    observability.SetCacheHooks(myHooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Search().OnSearchStart(ctx, "aco", minimal.Size(), maximal.Size())
//	// ... iterate ...
//	observability.Search().OnSearchComplete(ctx, "aco", best, iterations, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from matcher searches.
type SearchHooks interface {
	// OnSearchStart records the start of a search between graphs of the given sizes.
	OnSearchStart(ctx context.Context, algorithm string, minimal, maximal int)

	// OnIteration records one completed iteration. reward is zero for
	// algorithms without pheromone reinforcement.
	OnIteration(ctx context.Context, algorithm string, iteration, bestScore, iterationScore int, reward float64)

	// OnSearchComplete records the end of a search.
	OnSearchComplete(ctx context.Context, algorithm string, score, iterations int, duration time.Duration, err error)
}

// =============================================================================
// Run Hooks
// =============================================================================

// RunHooks receives events from diff runs (match + diff construction + rendering).
type RunHooks interface {
	OnRunStart(ctx context.Context, runID, algorithm string)
	OnRunComplete(ctx context.Context, runID, algorithm string, cached bool, duration time.Duration, err error)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnSearchStart(context.Context, string, int, int)                          {}
func (NoopSearchHooks) OnIteration(context.Context, string, int, int, int, float64)              {}
func (NoopSearchHooks) OnSearchComplete(context.Context, string, int, int, time.Duration, error) {}

// NoopRunHooks is a no-op implementation of RunHooks.
type NoopRunHooks struct{}

func (NoopRunHooks) OnRunStart(context.Context, string, string)                                {}
func (NoopRunHooks) OnRunComplete(context.Context, string, string, bool, time.Duration, error) {}
func (NoopRunHooks) OnRenderComplete(context.Context, string, int, time.Duration, error)       {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	searchHooks SearchHooks = NoopSearchHooks{}
	runHooks    RunHooks    = NoopRunHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetSearchHooks registers custom search hooks.
// This should be called once at application startup before any search.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetRunHooks registers custom run hooks.
func SetRunHooks(h RunHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Run returns the registered run hooks.
func Run() RunHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	searchHooks = NoopSearchHooks{}
	runHooks = NoopRunHooks{}
	cacheHooks = NoopCacheHooks{}
}
