package services

import "github.com/prometheus/client_golang/prometheus"

var (
	leaderboardBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_builds_total",
			Help: "Total number of leaderboard rebuilds",
		},
		[]string{"kind"},
	)
	liveLeaderboardEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "live_leaderboard_events_total",
			Help: "Total number of live leaderboard deliveries",
		},
		[]string{"result"},
	)
)

// InitMetrics registers the service metrics. Call this from main.go
func InitMetrics() {
	prometheus.MustRegister(leaderboardBuilds)
	prometheus.MustRegister(liveLeaderboardEvents)
}
