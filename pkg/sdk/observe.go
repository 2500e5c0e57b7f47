package localmaps

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "localmaps"

// sdkMetrics are the collectors an SDK client reports to a caller-supplied registerer.
type sdkMetrics struct {
	calls         *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	searchOutcome *prometheus.CounterVec
	keptRatio     prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation and status.",
		}, []string{"operation", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call latency, including both provider round trips for search.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10, 20},
		}, []string{"operation"}),
		searchOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sdk",
			Name:      "search_classifications_total",
			Help:      "Successful searches by classification path (filtered, fallback, skipped).",
		}, []string{"classification"}),
		keptRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sdk",
			Name:      "search_kept_ratio",
			Help:      "Share of provider candidates left after classification and filters.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
	if err := registerOrReuse(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.latency); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.searchOutcome); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.keptRatio); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points it at the collector already registered
// under the same descriptor so several clients can share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("localmaps: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("localmaps: metric registered with incompatible type %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer reports SDK calls to the optional logger and registry.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newSDKMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, callStatus(err)).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("localmaps call failed", "op", op, "duration", dur, "error", err)
		return
	}
	o.logger.Debug("localmaps call done", "op", op, "duration", dur)
}

// observeSearch records a search call plus, on success, how it was classified
// and how much of the candidate list survived.
func (o *observer) observeSearch(start time.Time, res SearchResult, err error) {
	if o == nil {
		return
	}
	o.observe("search", start, err)
	if err != nil {
		return
	}

	if o.metrics != nil {
		o.metrics.searchOutcome.WithLabelValues(res.Classification).Inc()
		if res.Candidates > 0 {
			o.metrics.keptRatio.Observe(float64(len(res.Places)) / float64(res.Candidates))
		}
	}
	if o.logger != nil && res.Classification == ClassificationFallback {
		o.logger.Info("classifier unavailable, search returned unfiltered candidates",
			"candidates", res.Candidates,
			"places", len(res.Places),
		)
	}
}

func callStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
