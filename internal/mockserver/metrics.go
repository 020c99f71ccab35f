package mockserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestsTotal counts API requests by route and outcome status.
var RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "schedge",
	Name:      "mock_requests_total",
	Help:      "Total API requests handled by the mock server.",
}, []string{"route", "status"})

// ScheduleRuns counts scheduler invocations.
var ScheduleRuns = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "schedge",
	Name:      "mock_schedule_runs_total",
	Help:      "Total scheduling runs triggered.",
})

// PushClients tracks connected SSE clients.
var PushClients = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "schedge",
	Name:      "mock_push_clients",
	Help:      "Number of connected event-stream clients.",
})

// TasksStored tracks the number of stored tasks across users.
var TasksStored = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "schedge",
	Name:      "mock_tasks_stored",
	Help:      "Number of tasks currently stored.",
})
