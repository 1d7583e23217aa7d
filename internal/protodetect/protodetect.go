// Package protodetect implements the wire-dialect detection rule from spec
// §4.8: inspect a raw JSON-RPC message's method field to decide whether it
// belongs to the MCP or A2A dialect.
package protodetect

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/fitnessmcp/toolserver/internal/universal"
)

// ErrUnsupportedProtocol is returned when a message cannot be classified.
var ErrUnsupportedProtocol = errors.New("unsupported protocol")

type probe struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
}

// Detect classifies a raw JSON-RPC message by its method field: a method
// starting with "a2a/" is A2A; "tools/call", "initialize", "ping",
// "tools/list", "prompts/list" or "resources/list" is MCP; anything else is
// ErrUnsupportedProtocol. A message that is not valid JSON returns the
// decode error.
func Detect(raw []byte) (universal.Protocol, error) {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", err
	}
	switch {
	case strings.HasPrefix(p.Method, "a2a/"):
		return universal.ProtocolA2A, nil
	case p.Method == "tools/call" || p.Method == "initialize" ||
		p.Method == "ping" || p.Method == "tools/list" ||
		p.Method == "prompts/list" || p.Method == "resources/list":
		return universal.ProtocolMCP, nil
	default:
		return "", ErrUnsupportedProtocol
	}
}
