package a2a

import (
	"encoding/json"
	"testing"

	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/stretchr/testify/require"
)

func TestToolCallRoundTrip(t *testing.T) {
	orig := universal.Request{
		ToolName:   "get_activities",
		Parameters: map[string]any{"limit": float64(10)},
		UserID:     "user-U",
		Protocol:   universal.ProtocolA2A,
	}
	encoded := EncodeToolCall(json.RawMessage(`1`), orig)
	decoded, err := DecodeToolCall(encoded, orig.UserID)
	require.NoError(t, err)

	require.Equal(t, orig.ToolName, decoded.ToolName)
	require.Equal(t, orig.Parameters, decoded.Parameters)
	require.Equal(t, orig.UserID, decoded.UserID)
}

func TestDecodeToolCallMatchesScenario3(t *testing.T) {
	req := RPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "a2a/tools/call",
		Params:  json.RawMessage(`{"tool":"get_activities","arguments":{"limit":10}}`),
	}
	decoded, err := DecodeToolCall(req, "U")
	require.NoError(t, err)
	require.Equal(t, "get_activities", decoded.ToolName)
	require.Equal(t, float64(10), decoded.Parameters["limit"])
	require.Equal(t, "U", decoded.UserID)
	require.Equal(t, universal.ProtocolA2A, decoded.Protocol)
}

func TestEncodeToolResponseSuccess(t *testing.T) {
	resp := universal.Success(map[string]string{"ok": "yes"}, nil)
	rpc := EncodeToolResponse(json.RawMessage(`1`), resp)
	require.Nil(t, rpc.Error)
	require.NotNil(t, rpc.Result)
}

func TestEncodeToolResponseFailureUsesInternalErrorCode(t *testing.T) {
	resp := universal.Fail("boom")
	rpc := EncodeToolResponse(json.RawMessage(`1`), resp)
	require.NotNil(t, rpc.Error)
	require.Equal(t, -32603, rpc.Error.Code)
	require.Equal(t, "boom", rpc.Error.Message)
}
