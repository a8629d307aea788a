package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { MustRegisterMetrics(reg) })
	assert.Panics(t, func() { MustRegisterMetrics(reg) }, "double registration must be rejected")
}

func TestObserveUpstreamCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(UpstreamErrorsTotal.WithLabelValues("test", "op"))

	ObserveUpstream("test", "op", time.Now(), nil)
	ObserveUpstream("test", "op", time.Now(), errors.New("boom"))

	after := testutil.ToFloat64(UpstreamErrorsTotal.WithLabelValues("test", "op"))
	assert.Equal(t, before+1, after)
}
