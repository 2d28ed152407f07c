package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncCacheResult(ArtifactHTML, true)
	pr.IncCacheResult(ArtifactIndex, false)
	pr.IncModulesDocumented(3)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome("success")
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}
