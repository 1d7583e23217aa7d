// Package universal defines the protocol-neutral request/response shapes
// that every transport and protocol adapter converts to and from. Tool
// handlers never see MCP or A2A vocabulary; they only see these types.
package universal

import (
	"encoding/json"

	"github.com/fitnessmcp/toolserver/internal/apperr"
	"github.com/google/uuid"
)

type (
	// Protocol tags the wire dialect a request originated from.
	Protocol string

	// Request is the internal call shape produced by a protocol adapter and
	// consumed by the executor and tool handlers.
	Request struct {
		// ToolName is the wire name resolved against the tool registry. By the
		// time a handler runs, ToolName corresponds to a registered ToolId.
		ToolName string
		// Parameters carries the free-form tool arguments as decoded JSON.
		Parameters map[string]any
		// UserID is the caller's user id, UUID-shaped.
		UserID string
		// Protocol names the originating wire dialect ("mcp", "a2a", ...).
		Protocol Protocol
		// TenantID is optional; an empty string means "no tenant".
		TenantID string
		// ProgressToken is optional; when set, handlers report progress against it.
		ProgressToken string

		// Cancel is the cancellation handle for this request. Not serialized.
		Cancel *CancellationToken
		// Progress receives progress notifications for this request. May be nil.
		Progress ProgressSink
	}

	// Response is the internal return shape every tool handler produces.
	//
	// Invariant: Success == true implies Error == ""; Success == false implies
	// Error != "". Result and Metadata may accompany either outcome.
	Response struct {
		Success  bool            `json:"success"`
		Result   json.RawMessage `json:"result,omitempty"`
		Error    string          `json:"error,omitempty"`
		Metadata map[string]any  `json:"metadata,omitempty"`

		// Kind classifies a failure per spec §7's error table. Empty on
		// success, and on a response-level failure (ExecutionFailed,
		// ConfigurationError, DatabaseError, ValidationFailed, NoToken) left
		// for the handler to tag, or left empty when no finer kind applies.
		// A protocol-level Kind (Kind.IsProtocolLevel()) tells the adapter to
		// surface this failure as a top-level JSON-RPC error instead of a
		// nested tool-result payload. Not serialized: it never reaches the
		// wire, only the adapter that builds the wire response.
		Kind apperr.Kind `json:"-"`
	}

	// ProgressSink receives progress notifications emitted by long-running
	// handlers.
	ProgressSink interface {
		Progress(n ProgressNotification)
	}

	// ProgressNotification carries a progress update for a token.
	ProgressNotification struct {
		Token   string
		Current int
		Total   *int
		Message string
	}

	// OAuthCompletedNotification is published when an OAuth callback lands for
	// some user on some provider.
	OAuthCompletedNotification struct {
		Provider string
		UserID   string
		Success  bool
	}
)

const (
	ProtocolMCP Protocol = "mcp"
	ProtocolA2A Protocol = "a2a"
)

// NilTenantID is the sentinel tenant id used in cache keys and lookups when a
// request carries no tenant. It must never be assignable as a real tenant id.
const NilTenantID = "00000000-0000-0000-0000-000000000000"

// Success builds a successful Response.
func Success(result any, metadata map[string]any) Response {
	r := Response{Success: true, Metadata: metadata}
	if result != nil {
		if raw, err := json.Marshal(result); err == nil {
			r.Result = raw
		}
	}
	return r
}

// Fail builds a failed Response. The error string is the only required field.
func Fail(err string) Response {
	return Response{Success: false, Error: err}
}

// FailWithMeta builds a failed Response carrying additional metadata, used by
// handlers that need to signal e.g. authentication_required alongside the
// error message.
func FailWithMeta(err string, metadata map[string]any) Response {
	return Response{Success: false, Error: err, Metadata: metadata}
}

// FailProtocol builds a failed Response tagged with a protocol-level error
// kind, per spec §7: invalid parameters, cancellation, and serialization
// failures are surfaced as a top-level JSON-RPC error by the adapter rather
// than a nested tool-result payload.
func FailProtocol(kind apperr.Kind, err string) Response {
	return Response{Success: false, Error: err, Kind: kind}
}

// WithMetadata returns a copy of r with additional metadata keys merged in.
// Existing keys in r.Metadata take precedence over kv on conflict.
func (r Response) WithMetadata(kv map[string]any) Response {
	merged := make(map[string]any, len(kv)+len(r.Metadata))
	for k, v := range kv {
		merged[k] = v
	}
	for k, v := range r.Metadata {
		merged[k] = v
	}
	r.Metadata = merged
	return r
}

// EffectiveTenant normalizes an optional tenant id string to the sentinel
// NilTenantID when empty.
func EffectiveTenant(tenantID string) string {
	if tenantID == "" {
		return NilTenantID
	}
	return tenantID
}

// NewProgressToken generates a random progress token suitable for
// correlating notifications with an in-flight request.
func NewProgressToken() string {
	return uuid.NewString()
}
