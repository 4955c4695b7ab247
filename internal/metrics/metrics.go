// Package metrics registers the process-wide Prometheus collectors, served
// on /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linq_messages_sent_total",
		Help: "Messages durably persisted, by destination type.",
	}, []string{"destination"})

	FanoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linq_fanout_failures_total",
		Help: "Live pushes dropped because a connection could not accept them.",
	})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linq_connected_clients",
		Help: "Currently registered live connections.",
	})
)
