// Command ampkt-monitor is a supplementary diagnostics binary: it
// builds its own metrics registry, serves it at /metrics, and pushes
// its counter values (frames encoded, decoded and dropped, rotation
// locks, squelched symbols) to any connected browser over a websocket
// once per interval. It does not attach to another process's registry,
// so the values it pushes are those of its own registry.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/cwsl/ampkt/internal/metrics"
)

// counterValue reads the current value of a Prometheus counter or gauge
// via its wire representation, the same protobuf type client_golang
// itself uses to serialize /metrics.
func counterValue(m prometheus.Metric) float64 {
	var pb dto.Metric
	if err := m.Write(&pb); err != nil {
		return 0
	}
	if pb.Counter != nil {
		return pb.Counter.GetValue()
	}
	if pb.Gauge != nil {
		return pb.Gauge.GetValue()
	}
	return 0
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type linkEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	FramesEncoded  float64   `json:"frames_encoded"`
	FramesDecoded  float64   `json:"frames_decoded"`
	FramesDropped  float64   `json:"frames_dropped"`
	RotationLocks  float64   `json:"rotation_locks"`
	SquelchedSyms  float64   `json:"squelched_symbols"`
}

// hub fans out link events to every connected websocket client.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

func (h *hub) broadcast(ev linkEvent) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ampkt-monitor: marshaling event: %v", err)
		return
	}
	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
		}
	}
}

func main() {
	listen := flag.String("listen", ":9121", "HTTP/websocket listen address")
	interval := flag.Duration("interval", time.Second, "event push interval")
	flag.Parse()

	reg := metrics.New()
	h := newHub()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ampkt-monitor: upgrade failed: %v", err)
			return
		}
		h.add(conn)
		log.Printf("ampkt-monitor: client connected (%s)", r.RemoteAddr)
	})
	http.Handle("/metrics", reg.Handler())

	go func() {
		log.Printf("ampkt-monitor: serving on %s", *listen)
		if err := http.ListenAndServe(*listen, nil); err != nil {
			log.Fatalf("ampkt-monitor: server stopped: %v", err)
		}
	}()

	// This binary observes a registry it owns for demonstration; a real
	// deployment would scrape the link process's own /metrics endpoint
	// instead. Either way the push loop is identical.
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for range ticker.C {
		h.broadcast(linkEvent{
			Timestamp:     time.Now(),
			FramesEncoded: counterValue(reg.FramesEncoded),
			FramesDecoded: counterValue(reg.FramesDecoded),
			FramesDropped: counterValue(reg.FramesDropped),
			RotationLocks: counterValue(reg.RotationLocks),
			SquelchedSyms: counterValue(reg.SquelchedSyms),
		})
	}
}
