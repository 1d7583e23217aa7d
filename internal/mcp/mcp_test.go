package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fitnessmcp/toolserver/internal/apperr"
	"github.com/fitnessmcp/toolserver/internal/tools"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/stretchr/testify/require"
)

func noopSyncHandler(_ context.Context, _ *toolregistry.Context, _ universal.Request) universal.Response {
	return universal.Success(nil, nil)
}

func TestToolCallRoundTrip(t *testing.T) {
	orig := universal.Request{
		ToolName:   "get_activities",
		Parameters: map[string]any{"limit": float64(10)},
		UserID:     "user-1",
		Protocol:   universal.ProtocolMCP,
	}
	id := json.RawMessage(`1`)

	encoded := EncodeToolCall(id, orig)
	decoded, err := DecodeToolCall(encoded, orig.UserID)
	require.NoError(t, err)

	require.Equal(t, orig.ToolName, decoded.ToolName)
	require.Equal(t, orig.Parameters, decoded.Parameters)
	require.Equal(t, orig.UserID, decoded.UserID)
}

func TestHandleMethodUnknownReturnsMethodNotFound(t *testing.T) {
	resp := HandleMethod(RPCRequest{ID: json.RawMessage(`1`), Method: "foo"}, toolregistry.New())
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeMethodNotFound, resp.Error.Code)
	require.Equal(t, "Unknown method: foo", resp.Error.Message)
}

func TestHandleMethodToolsListLengthMatchesRegistry(t *testing.T) {
	reg := toolregistry.New()
	reg.RegisterSync(tools.GetConfigurationCatalog, noopSyncHandler)
	reg.RegisterSync(tools.ValidateConfiguration, noopSyncHandler)

	resp := HandleMethod(RPCRequest{ID: json.RawMessage(`2`), Method: "tools/list"}, reg)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	toolsVal, ok := result["tools"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, toolsVal, 2)
	for _, tool := range toolsVal {
		require.NotEmpty(t, tool["name"])
		schema := tool["inputSchema"].(map[string]any)
		require.Equal(t, "object", schema["type"])
	}
}

func TestEncodeToolResponseSuccess(t *testing.T) {
	resp := universal.Success(map[string]string{"ok": "yes"}, nil)
	rpc := EncodeToolResponse(json.RawMessage(`1`), resp)

	result, ok := rpc.Result.(toolCallResult)
	require.True(t, ok)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	require.Equal(t, "text", result.Content[0].Type)
}

func TestEncodeToolResponseFailure(t *testing.T) {
	resp := universal.Fail("boom")
	rpc := EncodeToolResponse(json.RawMessage(`1`), resp)

	result, ok := rpc.Result.(toolCallResult)
	require.True(t, ok)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Text, "Error: boom")
}

func TestEncodeToolResponseProtocolLevelBecomesTopLevelError(t *testing.T) {
	resp := universal.FailProtocol(apperr.InvalidParameters, "invalid parameters: user_id is not a valid UUID")
	rpc := EncodeToolResponse(json.RawMessage(`1`), resp)

	require.Nil(t, rpc.Result)
	require.NotNil(t, rpc.Error)
	require.Equal(t, CodeInvalidParams, rpc.Error.Code)
	require.Equal(t, resp.Error, rpc.Error.Message)
}

func TestEncodeToolResponseCancelledUsesCancellationCode(t *testing.T) {
	resp := universal.FailProtocol(apperr.OperationCancelled, "operation cancelled")
	rpc := EncodeToolResponse(json.RawMessage(`1`), resp)

	require.NotNil(t, rpc.Error)
	require.Equal(t, CodeRequestCancelled, rpc.Error.Code)
}

func TestParseErrorMarshalsIDAsNull(t *testing.T) {
	raw, err := json.Marshal(ParseError())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"id":null`)
}
