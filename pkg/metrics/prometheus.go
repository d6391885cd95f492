package metrics

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
)

// Metrics tracks judge-call execution statistics across a tournament run.
type Metrics struct {
	JudgeCallsTotal     int64
	JudgeCallsSucceeded int64
	JudgeCallsFailed    int64
	JudgeCallDurationMs int64 // cumulative, for computing a mean duration
	CacheHits           int64
	CacheMisses         int64
}

// PrometheusExporter exports metrics in Prometheus text format.
type PrometheusExporter struct {
	metrics *Metrics
}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter(m *Metrics) *PrometheusExporter {
	return &PrometheusExporter{
		metrics: m,
	}
}

// Export returns metrics in Prometheus text format.
func (e *PrometheusExporter) Export() string {
	var b strings.Builder

	callsTotal := atomic.LoadInt64(&e.metrics.JudgeCallsTotal)
	callsSucceeded := atomic.LoadInt64(&e.metrics.JudgeCallsSucceeded)
	callsFailed := atomic.LoadInt64(&e.metrics.JudgeCallsFailed)
	durationMs := atomic.LoadInt64(&e.metrics.JudgeCallDurationMs)
	cacheHits := atomic.LoadInt64(&e.metrics.CacheHits)
	cacheMisses := atomic.LoadInt64(&e.metrics.CacheMisses)

	fmt.Fprintf(&b, "qqr_judge_calls_total{status=\"success\"} %d\n", callsSucceeded)
	fmt.Fprintf(&b, "qqr_judge_calls_total{status=\"failed\"} %d\n", callsFailed)
	fmt.Fprintf(&b, "qqr_judge_calls_total %d\n", callsTotal)

	var meanDurationMs float64
	if callsTotal > 0 {
		meanDurationMs = float64(durationMs) / float64(callsTotal)
	}
	fmt.Fprintf(&b, "qqr_judge_call_duration_ms_mean %s\n", formatFloat(meanDurationMs))

	fmt.Fprintf(&b, "qqr_cache_hits_total %d\n", cacheHits)
	fmt.Fprintf(&b, "qqr_cache_misses_total %d\n", cacheMisses)

	var hitRate float64
	if cacheHits+cacheMisses > 0 {
		hitRate = float64(cacheHits) / float64(cacheHits+cacheMisses)
	}
	fmt.Fprintf(&b, "qqr_cache_hit_rate %s\n", formatFloat(hitRate))

	var failureRate float64
	if callsTotal > 0 {
		failureRate = float64(callsFailed) / float64(callsTotal)
	}
	fmt.Fprintf(&b, "qqr_judge_call_failure_rate %s\n", formatFloat(failureRate))

	return b.String()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, e.Export())
	})
}

// formatFloat formats a float64 for Prometheus (removes trailing zeros).
func formatFloat(f float64) string {
	if f == 0.0 {
		return "0"
	}
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
