package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "toparity"

// PrometheusHooks implements every hook interface by updating Prometheus
// metrics registered on a caller-supplied registerer.
type PrometheusHooks struct {
	decodeTotal       *prometheus.CounterVec
	transformTotal    *prometheus.CounterVec
	transformDuration prometheus.Histogram
	outputStates      prometheus.Histogram
	encodeDuration    prometheus.Histogram
	cacheEvents       *prometheus.CounterVec
	cacheBytes        prometheus.Counter
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewPrometheusHooks registers the metrics on reg. Passing the same
// registerer twice panics, as with any duplicate Prometheus registration.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		decodeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_total",
			Help:      "Decoded input automata by format and result",
		}, []string{"format", "result"}),
		transformTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_total",
			Help:      "Parity conversions by result",
		}, []string{"result"}),
		transformDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Parity conversion duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		outputStates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "output_states",
			Help:      "Number of states of produced parity automata",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		encodeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encode_duration_seconds",
			Help:      "Artifact encoding duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes by key type and event",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the result cache",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Served HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnDecodeComplete(_ context.Context, format string, _ int, _ time.Duration, err error) {
	h.decodeTotal.WithLabelValues(format, result(err)).Inc()
}

func (h *PrometheusHooks) OnTransformStart(context.Context, int, int) {}

func (h *PrometheusHooks) OnTransformComplete(_ context.Context, out TransformStats, d time.Duration, err error) {
	res := result(err)
	if err == nil && out.Passthrough {
		res = "passthrough"
	}
	h.transformTotal.WithLabelValues(res).Inc()
	if err != nil {
		return
	}
	h.transformDuration.Observe(d.Seconds())
	h.outputStates.Observe(float64(out.States))
}

func (h *PrometheusHooks) OnEncodeComplete(_ context.Context, _ []string, d time.Duration, _ error) {
	h.encodeDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ TransformHooks = (*PrometheusHooks)(nil)
	_ CacheHooks     = (*PrometheusHooks)(nil)
	_ HTTPHooks      = (*PrometheusHooks)(nil)
)
