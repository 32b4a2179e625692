package core

import "github.com/prometheus/client_golang/prometheus"

var (
	updateCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gwm",
		Name:      "updates_total",
		Help:      "Total number of status polls",
	})

	failureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gwm",
		Name:      "update_failures_total",
		Help:      "Total number of failed status polls",
	})

	lastUpdate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gwm",
		Name:      "last_update_timestamp_seconds",
		Help:      "Timestamp of the last successful status poll",
	})
)

func init() {
	prometheus.MustRegister(updateCounter, failureCounter, lastUpdate)
}
