package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/jarwalk/pkg/observability"
)

const namespace = "jarwalk"

// Collector records resolver, cache and HTTP activity as Prometheus
// metrics. It implements [observability.ResolverHooks],
// [observability.CacheHooks] and [observability.HTTPHooks].
type Collector struct {
	registry *prometheus.Registry

	resolves     *prometheus.CounterVec
	resolveTime  prometheus.Histogram
	artifacts    prometheus.Gauge
	skipped      prometheus.Gauge
	descriptors  *prometheus.CounterVec
	jars         *prometheus.CounterVec
	unresolved   prometheus.Counter
	cacheOps     *prometheus.CounterVec
	requests     *prometheus.CounterVec
	requestTime  *prometheus.HistogramVec
	requestError *prometheus.CounterVec
}

// New creates a Collector backed by its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Number of resolution runs by result.",
		}, []string{"result"}),
		resolveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Time taken to resolve a root coordinate.",
			Buckets:   prometheus.DefBuckets,
		}),
		artifacts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resolve_artifacts",
			Help:      "Number of jars collected by the last resolution.",
		}),
		skipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resolve_skipped_dependencies",
			Help:      "Number of dependencies skipped by the last resolution.",
		}),
		descriptors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptor_lookups_total",
			Help:      "POM lookups by outcome.",
		}, []string{"outcome"}),
		jars: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_lookups_total",
			Help:      "Jar lookups by outcome.",
		}, []string{"outcome"}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_versions_total",
			Help:      "Dependencies skipped because their version could not be resolved.",
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "HTTP cache operations by type and result.",
		}, []string{"type", "op"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by host and status code.",
		}, []string{"host", "code"}),
		requestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by host.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		requestError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "HTTP requests that failed without a response.",
		}, []string{"host"}),
	}
	c.registry.MustRegister(
		c.resolves, c.resolveTime, c.artifacts, c.skipped,
		c.descriptors, c.jars, c.unresolved,
		c.cacheOps, c.requests, c.requestTime, c.requestError,
	)
	return c
}

// Install registers c as the global resolver, cache and HTTP hooks.
func (c *Collector) Install() {
	observability.SetResolverHooks(c)
	observability.SetCacheHooks(c)
	observability.SetHTTPHooks(c)
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile writes the current metrics to path in the Prometheus text
// format, for node_exporter's textfile collector. The file is replaced
// atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func (c *Collector) OnResolveStart(context.Context, string) {}

func (c *Collector) OnResolveComplete(_ context.Context, _ string, artifacts, skipped int, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.resolves.WithLabelValues(result).Inc()
	c.resolveTime.Observe(d.Seconds())
	c.artifacts.Set(float64(artifacts))
	c.skipped.Set(float64(skipped))
}

func (c *Collector) OnDescriptor(_ context.Context, outcome string) {
	c.descriptors.WithLabelValues(outcome).Inc()
}

func (c *Collector) OnArtifact(_ context.Context, outcome string) {
	c.jars.WithLabelValues(outcome).Inc()
}

func (c *Collector) OnUnresolvedVersion(context.Context, string) { c.unresolved.Inc() }

func (c *Collector) OnCacheHit(_ context.Context, cacheType string) {
	c.cacheOps.WithLabelValues(cacheType, "hit").Inc()
}

func (c *Collector) OnCacheMiss(_ context.Context, cacheType string) {
	c.cacheOps.WithLabelValues(cacheType, "miss").Inc()
}

func (c *Collector) OnCacheSet(_ context.Context, cacheType string, _ int) {
	c.cacheOps.WithLabelValues(cacheType, "set").Inc()
}

func (c *Collector) OnRequest(context.Context, string, string, string) {}

func (c *Collector) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	c.requests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	c.requestTime.WithLabelValues(host).Observe(d.Seconds())
}

func (c *Collector) OnError(_ context.Context, _, host, _ string, _ error) {
	c.requestError.WithLabelValues(host).Inc()
}
