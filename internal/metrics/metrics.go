// Package metrics instruments connections and pools with Prometheus
// counters, histograms, and gauges. A Recorder built with nil registerer
// is a safe no-op so the core transport never requires Prometheus at the
// call site (SPEC_FULL.md §4.6).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records per-command and per-connection metrics.
type Recorder interface {
	ObserveCommand(opcode string, status string, d time.Duration)
	SetInFlight(n int)
	IncConnections()
	DecConnections()
}

type nopRecorder struct{}

func (nopRecorder) ObserveCommand(string, string, time.Duration) {}
func (nopRecorder) SetInFlight(int)                              {}
func (nopRecorder) IncConnections()                               {}
func (nopRecorder) DecConnections()                               {}

// Nop returns a Recorder that does nothing.
func Nop() Recorder { return nopRecorder{} }

// prometheusRecorder implements Recorder against a prometheus.Registerer.
type prometheusRecorder struct {
	commandDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	connections     prometheus.Gauge
}

// New registers memcake's metrics with reg and returns a Recorder backed
// by them. If reg is nil, returns Nop().
func New(reg prometheus.Registerer) Recorder {
	if reg == nil {
		return Nop()
	}
	r := &prometheusRecorder{
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "memcake",
			Name:      "command_duration_seconds",
			Help:      "Time from command submission to future completion, by opcode and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"opcode", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "memcake",
			Name:      "in_flight_commands",
			Help:      "Number of commands currently awaiting a response on this connection.",
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "memcake",
			Name:      "open_connections",
			Help:      "Number of connections currently open across the pool.",
		}),
	}
	reg.MustRegister(r.commandDuration, r.inFlight, r.connections)
	return r
}

func (r *prometheusRecorder) ObserveCommand(opcode, status string, d time.Duration) {
	r.commandDuration.WithLabelValues(opcode, status).Observe(d.Seconds())
}

func (r *prometheusRecorder) SetInFlight(n int) {
	r.inFlight.Set(float64(n))
}

func (r *prometheusRecorder) IncConnections() {
	r.connections.Inc()
}

func (r *prometheusRecorder) DecConnections() {
	r.connections.Dec()
}
