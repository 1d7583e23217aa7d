// Package mcp converts between Model Context Protocol JSON-RPC messages and
// the universal request/response shape, per spec §4.8. It never inspects
// tool parameters; only the tool name and method drive routing.
package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/fitnessmcp/toolserver/internal/apperr"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "fitness-tool-server"
	serverVersion   = "1.0.0"
)

type (
	// RPCRequest is an incoming JSON-RPC 2.0 message.
	RPCRequest struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	// RPCResponse is an outgoing JSON-RPC 2.0 message. Exactly one of Result
	// or Error is populated, matching the universal.Response invariant one
	// layer up.
	RPCResponse struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  any             `json:"result,omitempty"`
		Error   *RPCError       `json:"error,omitempty"`
	}

	// RPCError is a JSON-RPC 2.0 error object.
	RPCError struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}

	toolsCallParams struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
)

// Canonical JSON-RPC error codes, per spec §4.8 (lifted from the protocol
// spec itself, not invented here).
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// CodeRequestCancelled follows the LSP/JSON-RPC extension convention for
	// cancellation; base JSON-RPC 2.0 has no code of its own for it.
	CodeRequestCancelled = -32800
)

// protocolErrorCodes maps a protocol-level apperr.Kind to the JSON-RPC error
// code an MCP response surfaces it as.
var protocolErrorCodes = map[apperr.Kind]int{
	apperr.InvalidParameters:   CodeInvalidParams,
	apperr.OperationCancelled:  CodeRequestCancelled,
	apperr.SerializationError:  CodeInternalError,
	apperr.UnsupportedProtocol: CodeInvalidRequest,
	apperr.ToolNotFound:        CodeMethodNotFound,
}

// DecodeToolCall converts an incoming tools/call RPCRequest into a
// universal.Request. It is the identity half of the encode/decode round
// trip required by spec §8: a later EncodeToolCall of the same tool_name,
// parameters, and user_id must reproduce this request.
func DecodeToolCall(req RPCRequest, userID string) (universal.Request, error) {
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return universal.Request{}, fmt.Errorf("decode tools/call params: %w", err)
	}
	return universal.Request{
		ToolName:   params.Name,
		Parameters: params.Arguments,
		UserID:     userID,
		Protocol:   universal.ProtocolMCP,
	}, nil
}

// EncodeToolCall is the inverse of DecodeToolCall, used by round-trip tests.
func EncodeToolCall(id json.RawMessage, req universal.Request) RPCRequest {
	params, _ := json.Marshal(toolsCallParams{Name: req.ToolName, Arguments: req.Parameters})
	return RPCRequest{JSONRPC: "2.0", ID: id, Method: "tools/call", Params: params}
}

// mcpContent is a single MCP tool-response content block.
type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolCallResult struct {
	Content           []mcpContent `json:"content"`
	IsError           bool         `json:"isError"`
	StructuredContent any          `json:"structuredContent,omitempty"`
}

// EncodeToolResponse converts a universal.Response into the MCP tools/call
// result shape: one text content block (pretty-printed result JSON on
// success, an "Error: ..." line on failure), an isError flag, and optional
// structured content mirroring the result.
func EncodeToolResponse(id json.RawMessage, resp universal.Response) RPCResponse {
	if !resp.Success && resp.Kind.IsProtocolLevel() {
		code, ok := protocolErrorCodes[resp.Kind]
		if !ok {
			code = CodeInternalError
		}
		return RPCResponse{
			JSONRPC: "2.0",
			ID:      id,
			Error:   &RPCError{Code: code, Message: resp.Error},
		}
	}

	var text string
	var structured any

	if resp.Success {
		pretty, err := json.MarshalIndent(jsonRawOrNull(resp.Result), "", "  ")
		if err != nil {
			text = fmt.Sprintf("Error: failed to serialize result: %v", err)
		} else {
			text = string(pretty)
			_ = json.Unmarshal(resp.Result, &structured)
		}
	} else {
		text = "Error: " + resp.Error
	}

	return RPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: toolCallResult{
			Content:           []mcpContent{{Type: "text", Text: text}},
			IsError:           !resp.Success,
			StructuredContent: structured,
		},
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

// HandleMethod dispatches a non-tools/call MCP method to its canned or
// registry-backed response. Unknown methods yield CodeMethodNotFound.
func HandleMethod(req RPCRequest, registry *toolregistry.Registry) RPCResponse {
	switch req.Method {
	case "initialize":
		return RPCResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo":      map[string]string{"name": serverName, "version": serverVersion},
			"capabilities": map[string]any{
				"tools": map[string]any{"listChanged": false},
			},
		}}
	case "ping":
		return RPCResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{}}
	case "tools/list":
		return RPCResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{"tools": toolsList(registry)}}
	case "prompts/list":
		return RPCResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{"prompts": []any{}}}
	case "resources/list":
		return RPCResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{"resources": []any{}}}
	default:
		return RPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("Unknown method: %s", req.Method),
		}}
	}
}

func toolsList(registry *toolregistry.Registry) []map[string]any {
	infos := registry.ListTools()
	out := make([]map[string]any, 0, len(infos))
	for _, info := range infos {
		out = append(out, map[string]any{
			"name":        string(info.Meta.ID),
			"description": info.Meta.Description,
			"inputSchema": map[string]any{"type": "object"},
		})
	}
	return out
}

// ParseError builds the malformed-JSON response required by spec §6: id is
// always null since the request could not be parsed far enough to recover
// one.
func ParseError() RPCResponse {
	return RPCResponse{JSONRPC: "2.0", ID: nil, Error: &RPCError{Code: CodeParseError, Message: "Parse error"}}
}
