package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnAssembleStart(ctx, "beats", 12)
	p.OnAssembleComplete(ctx, "beats", 13, 20, time.Second, nil)
	p.OnWriteStart(ctx, "/tmp")
	p.OnWriteComplete(ctx, []string{"spec.yml", "spec.json"}, time.Second, nil)

	l := NoopLayerHooks{}
	l.OnExpand(ctx, "random-layer", 2)
	l.OnPick(ctx, "/images", 40)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "probe")
	c.OnCacheMiss(ctx, "probe")
	c.OnCacheSet(ctx, "probe", 64)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Layer().(NoopLayerHooks); !ok {
		t.Error("Layer() should return NoopLayerHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customLayer := &testLayerHooks{}
	SetLayerHooks(customLayer)
	if Layer() != customLayer {
		t.Error("SetLayerHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Layer().(NoopLayerHooks); !ok {
		t.Error("Reset() should restore NoopLayerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testLayerHooks struct{ NoopLayerHooks }
type testCacheHooks struct{ NoopCacheHooks }
