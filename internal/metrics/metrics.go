// Package metrics instruments the ampkt pipeline with Prometheus
// counters and gauges, wired to the core blocks' OnXxx callback hooks.
package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry wraps all pipeline instrumentation behind a private
// *prometheus.Registry, with every series registered through promauto.
// The counters are fed by the OnXxx callbacks below. CarrierPhase and
// ClockCountdown are registered but have no callback; nothing in the
// pipeline sets them, so they read zero unless a caller sets them.
type Registry struct {
	reg *prometheus.Registry

	FramesEncoded  prometheus.Counter
	FramesDecoded  prometheus.Counter
	FramesDropped  prometheus.Counter
	RotationLocks  prometheus.Counter
	SquelchedSyms  prometheus.Counter
	CarrierPhase   prometheus.Gauge
	ClockCountdown prometheus.Gauge
}

// New builds a Registry with all series registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		FramesEncoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ampkt",
			Name:      "frames_encoded_total",
			Help:      "Number of frames successfully queued by FrameEncoder.",
		}),
		FramesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ampkt",
			Name:      "frames_decoded_total",
			Help:      "Number of frames successfully delivered by FrameDecoder.",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ampkt",
			Name:      "frames_dropped_total",
			Help:      "Number of frames dropped by FrameEncoder due to queue overflow.",
		}),
		RotationLocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ampkt",
			Name:      "rotation_locks_total",
			Help:      "Number of SymSync rotation acquisitions.",
		}),
		SquelchedSyms: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ampkt",
			Name:      "squelched_symbols_total",
			Help:      "Number of QamDemod samples decided as None via squelch.",
		}),
		CarrierPhase: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ampkt",
			Name:      "carrier_phase_radians",
			Help:      "Current tracked carrier phase offset.",
		}),
		ClockCountdown: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ampkt",
			Name:      "clock_sync_countdown",
			Help:      "Current ClockSync emission countdown.",
		}),
	}
}

// OnEncoded is a callback suitable for FrameEncoder.OnEncoded: it
// increments FramesEncoded.
func (r *Registry) OnEncoded(int) { r.FramesEncoded.Inc() }

// OnDrop is a callback suitable for FrameEncoder.OnDrop: it increments
// FramesDropped.
func (r *Registry) OnDrop(int) { r.FramesDropped.Inc() }

// OnFrame is a callback suitable for FrameDecoder.OnFrame: it increments
// FramesDecoded.
func (r *Registry) OnFrame(int) { r.FramesDecoded.Inc() }

// OnRotation is a callback suitable for FrameDecoder.OnRotation: it
// increments RotationLocks.
func (r *Registry) OnRotation(int) { r.RotationLocks.Inc() }

// OnSquelch is a callback suitable for QamDemod.OnSquelch: it increments
// SquelchedSyms.
func (r *Registry) OnSquelch() { r.SquelchedSyms.Inc() }

// Handler returns the HTTP handler to mount at the configured listen
// address.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Serve blocks, serving the metrics handler at addr. Intended to be run
// in its own goroutine by each cmd binary.
func (r *Registry) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	log.Printf("metrics: serving on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics: server stopped: %v", err)
	}
}
