package cli

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beatcut/pkg/observability"
)

// runCounters tallies layer and cache events of one gen run for the debug log.
type runCounters struct {
	expanded  atomic.Int64
	picks     atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	cacheSets atomic.Int64
}

func (r *runCounters) OnExpand(context.Context, string, int) {
	r.expanded.Add(1)
}

func (r *runCounters) OnPick(context.Context, string, int) {
	r.picks.Add(1)
}

func (r *runCounters) OnCacheHit(context.Context, string) {
	r.hits.Add(1)
}

func (r *runCounters) OnCacheMiss(context.Context, string) {
	r.misses.Add(1)
}

func (r *runCounters) OnCacheSet(context.Context, string, int) {
	r.cacheSets.Add(1)
}

// install registers r for layer and cache events and returns a function
// that restores the no-op hooks.
func (r *runCounters) install() func() {
	observability.SetLayerHooks(r)
	observability.SetCacheHooks(r)
	return func() {
		observability.SetLayerHooks(observability.NoopLayerHooks{})
		observability.SetCacheHooks(observability.NoopCacheHooks{})
	}
}

func (r *runCounters) log(l *log.Logger) {
	l.Debug("run counters",
		"templates", r.expanded.Load(),
		"picks", r.picks.Load(),
		"probe_hits", r.hits.Load(),
		"probe_misses", r.misses.Load(),
		"probe_writes", r.cacheSets.Load())
}
