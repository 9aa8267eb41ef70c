package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopTransformHooks{}
	p.OnDecodeComplete(ctx, "hoa", 3, time.Millisecond, nil)
	p.OnTransformStart(ctx, 3, 2)
	p.OnTransformComplete(ctx, TransformStats{States: 6}, time.Millisecond, nil)
	p.OnEncodeComplete(ctx, []string{"hoa"}, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/api/v1/convert")
	h.OnResponse(ctx, "POST", "/api/v1/convert", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Transform().(NoopTransformHooks); !ok {
		t.Error("Transform() should return NoopTransformHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customTransform := &testTransformHooks{}
	SetTransformHooks(customTransform)
	if Transform() != customTransform {
		t.Error("SetTransformHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Transform().(NoopTransformHooks); !ok {
		t.Error("Reset() should restore NoopTransformHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testTransformHooks{}
	SetTransformHooks(custom)
	SetTransformHooks(nil)

	if Transform() != custom {
		t.Error("SetTransformHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnDecodeComplete(ctx, "hoa", 2, time.Millisecond, nil)
	h.OnDecodeComplete(ctx, "hoa", 0, time.Millisecond, errors.New("bad"))
	h.OnTransformComplete(ctx, TransformStats{States: 4, Edges: 8}, time.Millisecond, nil)
	h.OnTransformComplete(ctx, TransformStats{Passthrough: true}, time.Millisecond, nil)
	h.OnCacheMiss(ctx, "result")
	h.OnCacheSet(ctx, "result", 100)
	h.OnCacheHit(ctx, "result")
	h.OnResponse(ctx, "POST", "/api/v1/convert", 200, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	totals := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				totals[mf.GetName()] += c.GetValue()
			}
		}
	}

	tests := []struct {
		name string
		want float64
	}{
		{"toparity_decode_total", 2},
		{"toparity_transform_total", 2},
		{"toparity_cache_events_total", 3},
		{"toparity_cache_written_bytes_total", 100},
		{"toparity_http_requests_total", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := totals[tt.name]; got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

type testTransformHooks struct{ NoopTransformHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
