package metrics

import "time"

// ArtifactLabel enumerates the cached artifact kinds for counters.
type ArtifactLabel string

const (
	ArtifactHTML  ArtifactLabel = "html"
	ArtifactIndex ArtifactLabel = "index"
)

// Recorder defines observability hooks for build metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe
// for nil receivers when using the NoopRecorder (allowing optional
// injection).
type Recorder interface {
	IncCacheResult(artifact ArtifactLabel, hit bool)
	IncModulesDocumented(n int)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
}

// NoopRecorder is a Recorder that does nothing (default when metrics not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) IncCacheResult(ArtifactLabel, bool) {}
func (NoopRecorder) IncModulesDocumented(int)           {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
