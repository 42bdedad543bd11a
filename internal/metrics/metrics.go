package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridroom_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridroom_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gridroom_rooms_created_total",
			Help: "Total rooms created",
		},
	)

	GamesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gridroom_games_created_total",
			Help: "Total games created on room fill",
		},
	)

	GamesFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridroom_games_finished_total",
			Help: "Total games reaching a terminal status",
		},
		[]string{"outcome"}, // "win" or "draw"
	)

	MovesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridroom_moves_total",
			Help: "Total move submissions",
		},
		[]string{"result"}, // "committed" or "rejected"
	)

	QuickMatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gridroom_quick_matches_total",
			Help: "Total quick-match requests served",
		},
	)
)
