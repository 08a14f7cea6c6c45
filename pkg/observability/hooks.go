// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about spec generation, layer expansion and probe-cache use.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetLayerHooks(&myLayerHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnAssembleStart(ctx, "beats", 32)
//	// ... assemble clips ...
//	observability.Pipeline().OnAssembleComplete(ctx, "beats", 33, 70, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the spec generation pipeline.
type PipelineHooks interface {
	// Assemble events
	OnAssembleStart(ctx context.Context, mode string, clips int)
	OnAssembleComplete(ctx context.Context, mode string, clips, layers int, duration time.Duration, err error)

	// Write events
	OnWriteStart(ctx context.Context, dir string)
	OnWriteComplete(ctx context.Context, paths []string, duration time.Duration, err error)
}

// =============================================================================
// Layer Hooks
// =============================================================================

// LayerHooks receives events from the layer compiler and resource picker.
type LayerHooks interface {
	// OnExpand records one template of the given type expanding into n layers.
	OnExpand(ctx context.Context, layerType string, n int)

	// OnPick records a random resource choice among candidates.
	OnPick(ctx context.Context, baseDir string, candidates int)
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

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnAssembleStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnAssembleComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnWriteStart(context.Context, string)                            {}
func (NoopPipelineHooks) OnWriteComplete(context.Context, []string, time.Duration, error) {}

// NoopLayerHooks is a no-op implementation of LayerHooks.
type NoopLayerHooks struct{}

func (NoopLayerHooks) OnExpand(context.Context, string, int) {}
func (NoopLayerHooks) OnPick(context.Context, string, int)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	layerHooks    LayerHooks    = NoopLayerHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// Runs started after the call report to h.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetLayerHooks registers custom layer hooks.
func SetLayerHooks(h LayerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Layer returns the registered layer hooks.
func Layer() LayerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layerHooks
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
	pipelineHooks = NoopPipelineHooks{}
	layerHooks = NoopLayerHooks{}
	cacheHooks = NoopCacheHooks{}
}
