package transport

import (
	"encoding/json"
	"net/http"

	"github.com/fitnessmcp/toolserver/internal/notify"
	"github.com/fitnessmcp/toolserver/internal/telemetry"
)

// SSE forwards events from the notification bus to connected clients as
// Server-Sent Events, per spec §4.10. Each HTTP request gets its own
// subscriber and is torn down with it when the client disconnects.
type SSE struct {
	bus    *notify.Bus
	logger telemetry.Logger
}

// NewSSE constructs an SSE forwarder over bus.
func NewSSE(bus *notify.Bus, logger telemetry.Logger) *SSE {
	return &SSE{bus: bus, logger: logger}
}

// ServeHTTP streams events to w until the client disconnects or the request
// context is cancelled.
func (s *SSE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := s.bus.Subscribe()
	defer sub.Close()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				s.logger.Warn(ctx, "sse: failed to marshal event", "error", err)
				continue
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// Mount registers the SSE handler on mux under path.
func (s *SSE) Mount(mux *http.ServeMux, path string) {
	mux.HandleFunc(path, s.ServeHTTP)
}
