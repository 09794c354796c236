package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what committed transitions did. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	points           *prometheus.CounterVec
	undos            prometheus.Counter
	setsCompleted    prometheus.Counter
	matchesCreated   prometheus.Counter
	matchesCompleted prometheus.Counter
	matchesReopened  prometheus.Counter
	rejected         *prometheus.CounterVec
	guestSessions    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		points: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoretracker",
			Name:      "points_scored_total",
			Help:      "Rallies awarded, by team.",
		}, []string{"team"}),
		undos: f.NewCounter(prometheus.CounterOpts{
			Namespace: "scoretracker",
			Name:      "points_undone_total",
			Help:      "Points removed by undo.",
		}),
		setsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "scoretracker",
			Name:      "sets_completed_total",
			Help:      "Sets that reached a winning score.",
		}),
		matchesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "scoretracker",
			Name:      "matches_created_total",
			Help:      "Matches created.",
		}),
		matchesCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "scoretracker",
			Name:      "matches_completed_total",
			Help:      "Matches that reached three sets.",
		}),
		matchesReopened: f.NewCounter(prometheus.CounterOpts{
			Namespace: "scoretracker",
			Name:      "matches_reopened_total",
			Help:      "Completed matches reopened by a set correction.",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoretracker",
			Name:      "operations_rejected_total",
			Help:      "Match operations refused, by operation.",
		}, []string{"operation"}),
		guestSessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoretracker",
			Name:      "guest_sessions_total",
			Help:      "Guest session lifecycle events, by event.",
		}, []string{"event"}),
	}
}

func (m *Metrics) pointScored(team string) {
	if m == nil {
		return
	}
	m.points.WithLabelValues(team).Inc()
}

func (m *Metrics) pointUndone() {
	if m == nil {
		return
	}
	m.undos.Inc()
}

func (m *Metrics) matchCreated() {
	if m == nil {
		return
	}
	m.matchesCreated.Inc()
}

func (m *Metrics) transition(setCompleted, matchCompleted, matchReopened bool) {
	if m == nil {
		return
	}
	if setCompleted {
		m.setsCompleted.Inc()
	}
	if matchCompleted {
		m.matchesCompleted.Inc()
	}
	if matchReopened {
		m.matchesReopened.Inc()
	}
}

func (m *Metrics) operationRejected(op string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(op).Inc()
}

func (m *Metrics) guestSession(event string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.guestSessions.WithLabelValues(event).Add(float64(n))
}
