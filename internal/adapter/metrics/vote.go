package metrics

import "github.com/prometheus/client_golang/prometheus"

// VoteMetrics holds Prometheus metrics for the vote storage engine.
type VoteMetrics struct {
	VotesRecorded  *prometheus.CounterVec
	RecordFailures *prometheus.CounterVec
	StoreDuration  *prometheus.HistogramVec
}

// NewVoteMetrics creates and registers vote engine metrics on the given registry.
func NewVoteMetrics(reg prometheus.Registerer) *VoteMetrics {
	m := &VoteMetrics{
		VotesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_recorded_total",
			Help:      "Total number of votes recorded, by vote value.",
		}, []string{"vote"}),
		RecordFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_record_failures_total",
			Help:      "Total number of failed vote recordings, by error type.",
		}, []string{"error_type"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of vote store operations in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"operation"}),
	}

	reg.MustRegister(m.VotesRecorded, m.RecordFailures, m.StoreDuration)
	return m
}
