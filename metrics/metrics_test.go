package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecorderRegistersAgainstGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)
	require.NotNil(t, r)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRecordExecuteOutcomesIncrementLabelledCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.RecordExecuteApplied()
	r.RecordExecuteApplied()
	r.RecordExecuteAlreadyApplied()
	r.RecordExecuteRejected("conservation_violation")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.executeOutcomes.WithLabelValues("applied", "")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.executeOutcomes.WithLabelValues("already_applied", "")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.executeOutcomes.WithLabelValues("rejected", "conservation_violation")))
}

func TestRecordGateEvaluationLabelsPassAndFail(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.RecordGateEvaluation("AF-YC-04", true)
	r.RecordGateEvaluation("AF-VS-02", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.gateEvaluations.WithLabelValues("AF-YC-04", "pass")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.gateEvaluations.WithLabelValues("AF-VS-02", "fail")))
}

func TestNewRecorderReturnsErrorOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}
