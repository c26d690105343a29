package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestInit_Idempotent(t *testing.T) {
	// 重复注册同名指标会panic
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
	assert.NotNil(t, CartAddsTotal)
	assert.NotNil(t, CheckoutDuration)
}

func TestCartAddsTotal_ByResult(t *testing.T) {
	Init()

	created := CartAddsTotal.WithLabelValues(ResultCreated)
	merged := CartAddsTotal.WithLabelValues(ResultMerged)
	before := counterValue(t, created)

	created.Inc()
	created.Inc()
	merged.Inc()

	assert.Equal(t, before+2, counterValue(t, created))
	assert.GreaterOrEqual(t, counterValue(t, merged), 1.0)
}

func TestCheckoutsInProgress(t *testing.T) {
	Init()

	base := gaugeValue(t, CheckoutsInProgress)
	CheckoutsInProgress.Inc()
	assert.Equal(t, base+1, gaugeValue(t, CheckoutsInProgress))
	CheckoutsInProgress.Dec()
	assert.Equal(t, base, gaugeValue(t, CheckoutsInProgress))
}

func TestCheckoutDuration_Observe(t *testing.T) {
	Init()

	CheckoutDuration.Observe(0.02)

	m := &dto.Metric{}
	require.NoError(t, CheckoutDuration.Write(m))
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}
