// Package a2a converts between Agent-to-Agent JSON-RPC messages and the
// universal request/response shape, per spec §4.8.
package a2a

import (
	"encoding/json"
	"fmt"

	"github.com/fitnessmcp/toolserver/internal/mcp"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

type (
	// RPCRequest is an incoming a2a/tools/call JSON-RPC message.
	RPCRequest struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	toolCallParams struct {
		Tool      string         `json:"tool"`
		Arguments map[string]any `json:"arguments"`
	}
)

// DecodeToolCall converts an a2a/tools/call RPCRequest into a
// universal.Request.
func DecodeToolCall(req RPCRequest, userID string) (universal.Request, error) {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return universal.Request{}, fmt.Errorf("decode a2a/tools/call params: %w", err)
	}
	return universal.Request{
		ToolName:   params.Tool,
		Parameters: params.Arguments,
		UserID:     userID,
		Protocol:   universal.ProtocolA2A,
	}, nil
}

// EncodeToolCall is the inverse of DecodeToolCall, used by round-trip tests.
func EncodeToolCall(id json.RawMessage, req universal.Request) RPCRequest {
	params, _ := json.Marshal(toolCallParams{Tool: req.ToolName, Arguments: req.Parameters})
	return RPCRequest{JSONRPC: "2.0", ID: id, Method: "a2a/tools/call", Params: params}
}

// EncodeToolResponse converts a universal.Response into an A2A JSON-RPC
// reply: a bare result on success, or a -32603 error carrying resp.Error
// verbatim on failure.
func EncodeToolResponse(id json.RawMessage, resp universal.Response) mcp.RPCResponse {
	if resp.Success {
		return mcp.RPCResponse{JSONRPC: "2.0", ID: id, Result: jsonRawOrNull(resp.Result)}
	}
	return mcp.RPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &mcp.RPCError{Code: mcp.CodeInternalError, Message: resp.Error},
	}
}

func jsonRawOrNull(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	_ = json.Unmarshal(raw, &v)
	return v
}

// ConversionFailed is returned for an a2a/-prefixed method other than
// a2a/tools/call, per spec §6.
var ConversionFailed = fmt.Errorf("conversion failed: unrecognized a2a method")
