package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	cacheResults  *prom.CounterVec
	documented    prom.Counter
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docgen",
			Name:      "cache_results_total",
			Help:      "Cache lookups by artifact kind and hit/miss",
		}, []string{"artifact", "result"})
		pr.documented = prom.NewCounter(prom.CounterOpts{
			Namespace: "docgen",
			Name:      "modules_documented_total",
			Help:      "Modules included in the final documented set",
		})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docgen",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docgen",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.cacheResults, pr.documented, pr.buildDuration, pr.buildOutcome)
	})
	return pr
}

func (p *PrometheusRecorder) IncCacheResult(artifact ArtifactLabel, hit bool) {
	if p == nil || p.cacheResults == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheResults.WithLabelValues(string(artifact), result).Inc()
}

func (p *PrometheusRecorder) IncModulesDocumented(n int) {
	if p == nil || p.documented == nil {
		return
	}
	p.documented.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}
