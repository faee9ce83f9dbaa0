package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVoteMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewVoteMetrics(reg)

	m.VotesRecorded.WithLabelValues("yes").Inc()
	m.VotesRecorded.WithLabelValues("yes").Inc()
	m.VotesRecorded.WithLabelValues("no").Inc()
	m.RecordFailures.WithLabelValues("validation").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.VotesRecorded.WithLabelValues("yes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VotesRecorded.WithLabelValues("no")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordFailures.WithLabelValues("validation")))
}

func TestNewVoteMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewVoteMetrics(reg)

	assert.Panics(t, func() { NewVoteMetrics(reg) })
}

func TestNewRegistry_IncludesRuntimeCollectors(t *testing.T) {
	reg := NewRegistry()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
}
