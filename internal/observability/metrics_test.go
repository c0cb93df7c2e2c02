package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.LaunchesTotal.WithLabelValues("moltx", "deployed").Inc()
	m.LaunchesTotal.WithLabelValues("moltx", "deployed").Inc()
	m.LaunchesTotal.WithLabelValues("moltx", "failed").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LaunchesTotal.WithLabelValues("moltx", "deployed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LaunchesTotal.WithLabelValues("moltx", "failed")))

	count, err := testutil.GatherAndCount(reg, "test_launch_launches_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordScan_SetsLastSuccess(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.ScansTotal.WithLabelValues("success"))
	RecordScan("success", 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.ScansTotal.WithLabelValues("success")))
	assert.Greater(t, testutil.ToFloat64(DefaultMetrics.LastSuccessfulScan), 0.0)
}
