package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordCallIncrementsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordCall("Calculator", "add", 0.001, nil)
	m.RecordCall("Calculator", "add", 0.002, errors.New("boom"))

	assert.Equal(t, float64(2), counterValue(t, m.CallsTotal.WithLabelValues("Calculator", "add")))
	assert.Equal(t, float64(1), counterValue(t, m.CallErrorsTotal.WithLabelValues("Calculator", "add")))
}

func TestRecordDisconnectIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordDisconnect()
	m.RecordDisconnect()

	assert.Equal(t, float64(2), counterValue(t, m.DisconnectsTotal))
}

func TestNewRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
