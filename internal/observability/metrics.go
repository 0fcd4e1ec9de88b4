package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bourse_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bourse_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// MembershipChanges counts join and leave operations by outcome.
	MembershipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bourse_membership_changes_total",
		Help: "Total membership mutations by action and outcome",
	}, []string{"action", "outcome"})

	// ReactionUpserts counts reaction set/clear operations by type.
	ReactionUpserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bourse_reaction_upserts_total",
		Help: "Total reaction mutations by action and reaction type",
	}, []string{"action", "reaction_type"})

	// MemberCountDrift is the absolute drift between stored member counts and
	// the membership ledger, observed during the last reconciliation run.
	MemberCountDrift = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bourse_member_count_drift",
		Help: "Sum of absolute differences between cached member counts and actual memberships at last reconcile",
	})

	// ReconcileRuns counts reconciliation runs by outcome.
	ReconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bourse_reconcile_runs_total",
		Help: "Total member-count reconciliation runs by outcome",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records the elapsed time into the query
// latency histogram when called. Repository methods defer it at the top:
//
//	defer observability.TrackQuery("select", "posts")()
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordMembershipChange increments the membership mutation counter.
func RecordMembershipChange(action, outcome string) {
	MembershipChanges.WithLabelValues(action, outcome).Inc()
}

// RecordReaction increments the reaction mutation counter.
func RecordReaction(action, reactionType string) {
	ReactionUpserts.WithLabelValues(action, reactionType).Inc()
}
