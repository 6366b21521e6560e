package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Counter: total HTTP requests
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Histogram: request duration
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	// Counter: application errors
	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	// Counter: classifier outcomes, labelled by invocation path (daily/weekly)
	// and resulting label. Sentinel labels show up here, so a broken model
	// is visible without digging through logs.
	PredictionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_predictions_total",
			Help: "Classifier invocations by source and label",
		},
		[]string{"source", "label"},
	)

	// Counter: advice generation outcomes (ok / fallback / no_knowledge)
	AdviceCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_advice_requests_total",
			Help: "Advice generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Counter: weekly reports persisted
	WeeklyReportCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "app_weekly_reports_total",
			Help: "Weekly reports generated",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, ErrorCount, PredictionCount, AdviceCount, WeeklyReportCount)
}
