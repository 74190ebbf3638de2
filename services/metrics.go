package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	geofenceChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geofence_checks_total",
			Help: "Proximity evaluations by outcome",
		},
		[]string{"result"},
	)
	challengeTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_transitions_total",
			Help: "Lifecycle writes by target status",
		},
		[]string{"status"},
	)
	completionPushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_pushes_total",
			Help: "Completion notifications by outcome",
		},
		[]string{"result"},
	)
)

// RegisterMetrics adds the domain counters to reg. Call it once from main.go.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(geofenceChecks, challengeTransitions, completionPushes)
}
