package alerts

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/observability/metrics"
)

const heartbeatInterval = 30 * time.Second

// SSEHandler streams alert events to dashboard clients over Server-Sent
// Events. Each connection holds its own subscription; tearing one down does
// not disturb other connected clients.
type SSEHandler struct {
	generator *Generator
}

func NewSSEHandler(g *Generator) *SSEHandler {
	return &SSEHandler{generator: g}
}

func (h *SSEHandler) Register(r *mux.Router) {
	r.HandleFunc("/events/alerts", h.handleStream).Methods(http.MethodGet)
}

func (h *SSEHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.generator.Subscribe()
	defer cancel()

	metrics.AlertStreamOpened()
	defer metrics.AlertStreamClosed()

	log := logger.WithField("remote", r.RemoteAddr)
	log.Info("alert stream opened")
	defer log.Info("alert stream closed")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, "event: heartbeat\ndata: {\"timestamp\":%q}\n\n",
				time.Now().UTC().Format(time.RFC3339))
			flusher.Flush()
		case alert, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(alert)
			if err != nil {
				log.WithError(err).Warn("dropping unencodable alert")
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", alert.Type, payload)
			flusher.Flush()
		}
	}
}
