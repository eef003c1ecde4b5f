package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	jobsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcadmin_jobs_submitted_total",
		Help: "Jobs accepted by the dispatcher, by action.",
	}, []string{"action"})

	jobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcadmin_jobs_finished_total",
		Help: "Jobs reaching a terminal status, by action and status.",
	}, []string{"action", "status"})
)

func JobSubmitted(action string) {
	jobsSubmitted.WithLabelValues(action).Inc()
}

func JobFinished(action, status string) {
	jobsFinished.WithLabelValues(action, status).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
