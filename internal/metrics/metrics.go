// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Generations counts generation requests by outcome: success, failure, canceled.
	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_generations_total",
			Help: "Total number of question generation requests",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trivia_generation_duration_seconds",
			Help:    "Time spent waiting for the question generator",
			Buckets: prometheus.DefBuckets,
		},
	)

	// GamesStarted counts play-throughs by source: generated or shared.
	GamesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_games_started_total",
			Help: "Total number of started play-throughs",
		},
		[]string{"source"},
	)

	GamesCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trivia_games_completed_total",
			Help: "Total number of completed play-throughs",
		},
	)

	// SharesCreated counts shared links by kind: quiz or result.
	SharesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_shares_created_total",
			Help: "Total number of shared links created",
		},
		[]string{"kind"},
	)

	// AuthAttempts counts login and signup attempts by method and status.
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"method", "status"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
