package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fitnessmcp/toolserver/internal/a2a"
	"github.com/fitnessmcp/toolserver/internal/mcp"
	"github.com/fitnessmcp/toolserver/internal/protodetect"
	"github.com/fitnessmcp/toolserver/internal/telemetry"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

// Restart back-off bounds from spec §4.9: a crashed HTTP listener is
// restarted no sooner than minRestartBackoff, growing to maxRestartBackoff
// on repeated failure.
const (
	minRestartBackoff = 5 * time.Second
	maxRestartBackoff = 10 * time.Second
)

// HTTP serves the JSON-RPC endpoint and health checks over plain HTTP,
// restarting its listener with a bounded back-off if ListenAndServe returns
// unexpectedly.
type HTTP struct {
	addr     string
	registry *toolregistry.Registry
	rc       *toolregistry.Context
	logger   telemetry.Logger
	bus      healthSubscriberCounter

	srv *http.Server
}

// healthSubscriberCounter is the slice of notify.Bus that the health
// endpoint reports; kept narrow so this package does not otherwise depend on
// notify's internals.
type healthSubscriberCounter interface {
	SubscriberCount() int
}

// NewHTTP constructs an HTTP transport listening on addr (host:port). sse may
// be nil, in which case no /events endpoint is mounted.
func NewHTTP(addr string, registry *toolregistry.Registry, rc *toolregistry.Context, logger telemetry.Logger, bus healthSubscriberCounter, sse *SSE) *HTTP {
	h := &HTTP{addr: addr, registry: registry, rc: rc, logger: logger, bus: bus}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.HandleFunc("/readyz", h.handleReadyz)
	mux.HandleFunc("/rpc", h.handleRPC)
	if sse != nil {
		sse.Mount(mux, "/events")
	}
	h.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 30 * time.Second}
	return h
}

// Run serves until ctx is cancelled, restarting the listener with a growing
// back-off (bounded by [minRestartBackoff, maxRestartBackoff]) if it exits
// with an unexpected error.
func (h *HTTP) Run(ctx context.Context) error {
	backoff := minRestartBackoff
	shutdownCh := make(chan struct{})
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.srv.Shutdown(sctx)
		close(shutdownCh)
	}()

	for {
		h.logger.Info(ctx, "http transport listening", "addr", h.addr)
		err := h.srv.ListenAndServe()
		select {
		case <-shutdownCh:
			return nil
		default:
		}
		if err == http.ErrServerClosed {
			return nil
		}
		h.logger.Error(ctx, "http transport crashed, restarting", "error", err, "backoff", backoff.String())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < maxRestartBackoff {
			backoff *= 2
			if backoff > maxRestartBackoff {
				backoff = maxRestartBackoff
			}
		}
		h.srv = &http.Server{Addr: h.addr, Handler: h.srv.Handler, ReadHeaderTimeout: 30 * time.Second}
	}
}

func (h *HTTP) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
}

func (h *HTTP) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":      "ready",
		"subscribers": h.bus.SubscriberCount(),
	})
}

func (h *HTTP) handleRPC(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(mcp.ParseError())
		return
	}

	proto, err := protodetect.Detect(body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		if errors.Is(err, protodetect.ErrUnsupportedProtocol) {
			var req mcp.RPCRequest
			_ = json.Unmarshal(body, &req)
			_ = json.NewEncoder(w).Encode(mcp.HandleMethod(req, h.registry))
			return
		}
		_ = json.NewEncoder(w).Encode(mcp.ParseError())
		return
	}

	userID := r.Header.Get("X-User-ID")
	w.Header().Set("Content-Type", "application/json")

	switch proto {
	case universal.ProtocolMCP:
		h.serveMCP(r.Context(), w, body, userID)
	case universal.ProtocolA2A:
		h.serveA2A(r.Context(), w, body, userID)
	}
}

func (h *HTTP) serveMCP(ctx context.Context, w http.ResponseWriter, body []byte, userID string) {
	var req mcp.RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		_ = json.NewEncoder(w).Encode(mcp.ParseError())
		return
	}
	if req.Method != "tools/call" {
		_ = json.NewEncoder(w).Encode(mcp.HandleMethod(req, h.registry))
		return
	}
	uReq, err := mcp.DecodeToolCall(req, userID)
	if err != nil {
		_ = json.NewEncoder(w).Encode(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeInvalidParams, Message: err.Error()}})
		return
	}
	uReq.Cancel = universal.NewCancellationToken()
	resp, execErr := h.registry.Execute(ctx, h.rc, uReq)
	if execErr != nil {
		_ = json.NewEncoder(w).Encode(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeMethodNotFound, Message: execErr.Error()}})
		return
	}
	_ = json.NewEncoder(w).Encode(mcp.EncodeToolResponse(req.ID, resp))
}

func (h *HTTP) serveA2A(ctx context.Context, w http.ResponseWriter, body []byte, userID string) {
	var req a2a.RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		_ = json.NewEncoder(w).Encode(mcp.ParseError())
		return
	}
	if req.Method != "a2a/tools/call" {
		_ = json.NewEncoder(w).Encode(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeMethodNotFound, Message: a2a.ConversionFailed.Error()}})
		return
	}
	uReq, err := a2a.DecodeToolCall(req, userID)
	if err != nil {
		_ = json.NewEncoder(w).Encode(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeInvalidParams, Message: err.Error()}})
		return
	}
	uReq.Cancel = universal.NewCancellationToken()
	resp, execErr := h.registry.Execute(ctx, h.rc, uReq)
	if execErr != nil {
		_ = json.NewEncoder(w).Encode(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeMethodNotFound, Message: execErr.Error()}})
		return
	}
	_ = json.NewEncoder(w).Encode(a2a.EncodeToolResponse(req.ID, resp))
}

// Addr returns the configured listen address, used by tests and logs.
func (h *HTTP) Addr() string { return h.addr }
