// Package transport hosts the process-boundary adapters described in spec
// §4.9: a line-delimited stdio transport for direct MCP client embedding, an
// HTTP transport exposing health and JSON-RPC endpoints, an SSE forwarder
// bridging the notification bus to connected clients, and a Coordinator
// that owns the shared resources and starts whichever subset is enabled.
package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/fitnessmcp/toolserver/internal/a2a"
	"github.com/fitnessmcp/toolserver/internal/mcp"
	"github.com/fitnessmcp/toolserver/internal/protodetect"
	"github.com/fitnessmcp/toolserver/internal/telemetry"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

// Stdio reads newline-delimited JSON-RPC requests from r and writes
// newline-delimited responses to w, per spec §4.9. Each line is dispatched
// on its own goroutine so a slow tool call never blocks the next request's
// read.
type Stdio struct {
	reader   io.Reader
	writer   io.Writer
	registry *toolregistry.Registry
	rc       *toolregistry.Context
	logger   telemetry.Logger

	mu sync.Mutex // serializes writes to w
}

// NewStdio constructs a Stdio transport over r/w.
func NewStdio(r io.Reader, w io.Writer, registry *toolregistry.Registry, rc *toolregistry.Context, logger telemetry.Logger) *Stdio {
	return &Stdio{reader: r, writer: w, registry: registry, rc: rc, logger: logger}
}

// Run scans r line by line until ctx is cancelled or r is exhausted. Lines
// that look like a sampling response (they carry an id, a result or error,
// and no method) are not tool calls and are dropped: this transport has no
// outstanding sampling requests to correlate them against, but the shape is
// still recognized so a future sampling-aware caller can intercept it first.
func (s *Stdio) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var wg sync.WaitGroup
	defer wg.Wait()

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}
		if isSamplingResponse(line) {
			s.logger.Debug(ctx, "stdio: dropping unsolicited sampling response")
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleLine(ctx, line)
		}()
	}
	return scanner.Err()
}

type samplingProbe struct {
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
}

// isSamplingResponse implements the routing heuristic from spec §4.9: a
// message is a response to a server-initiated sampling request, not a tool
// call, when it has an id, no method, and a result or error.
func isSamplingResponse(line []byte) bool {
	var p samplingProbe
	if err := json.Unmarshal(line, &p); err != nil {
		return false
	}
	return len(p.ID) > 0 && p.Method == "" && (len(p.Result) > 0 || len(p.Error) > 0)
}

func (s *Stdio) handleLine(ctx context.Context, line []byte) {
	proto, err := protodetect.Detect(line)
	if err != nil {
		if errors.Is(err, protodetect.ErrUnsupportedProtocol) {
			var req mcp.RPCRequest
			_ = json.Unmarshal(line, &req)
			s.writeLine(mcp.HandleMethod(req, s.registry))
			return
		}
		s.writeLine(mcp.ParseError())
		return
	}

	switch proto {
	case universal.ProtocolMCP:
		s.handleMCP(ctx, line)
	case universal.ProtocolA2A:
		s.handleA2A(ctx, line)
	}
}

func (s *Stdio) handleMCP(ctx context.Context, line []byte) {
	var req mcp.RPCRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.writeLine(mcp.ParseError())
		return
	}
	if req.Method != "tools/call" {
		s.writeLine(mcp.HandleMethod(req, s.registry))
		return
	}
	uReq, err := mcp.DecodeToolCall(req, "")
	if err != nil {
		s.writeLine(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeInvalidParams, Message: err.Error()}})
		return
	}
	uReq.Cancel = universal.NewCancellationToken()
	resp, execErr := s.registry.Execute(ctx, s.rc, uReq)
	if execErr != nil {
		s.writeLine(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeMethodNotFound, Message: execErr.Error()}})
		return
	}
	s.writeLine(mcp.EncodeToolResponse(req.ID, resp))
}

func (s *Stdio) handleA2A(ctx context.Context, line []byte) {
	var req a2a.RPCRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.writeLine(mcp.ParseError())
		return
	}
	if req.Method != "a2a/tools/call" {
		s.writeLine(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeMethodNotFound, Message: a2a.ConversionFailed.Error()}})
		return
	}
	uReq, err := a2a.DecodeToolCall(req, "")
	if err != nil {
		s.writeLine(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeInvalidParams, Message: err.Error()}})
		return
	}
	uReq.Cancel = universal.NewCancellationToken()
	resp, execErr := s.registry.Execute(ctx, s.rc, uReq)
	if execErr != nil {
		s.writeLine(mcp.RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: mcp.CodeMethodNotFound, Message: execErr.Error()}})
		return
	}
	s.writeLine(a2a.EncodeToolResponse(req.ID, resp))
}

func (s *Stdio) writeLine(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := json.NewEncoder(s.writer)
	_ = enc.Encode(v)
}
