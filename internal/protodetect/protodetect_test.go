package protodetect

import (
	"testing"

	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/stretchr/testify/require"
)

func TestDetectA2A(t *testing.T) {
	p, err := Detect([]byte(`{"jsonrpc":"2.0","method":"a2a/tools/call","id":1}`))
	require.NoError(t, err)
	require.Equal(t, universal.ProtocolA2A, p)
}

func TestDetectMCP(t *testing.T) {
	p, err := Detect([]byte(`{"jsonrpc":"2.0","method":"tools/call","id":1}`))
	require.NoError(t, err)
	require.Equal(t, universal.ProtocolMCP, p)
}

func TestDetectUnsupported(t *testing.T) {
	_, err := Detect([]byte(`{"jsonrpc":"2.0","method":"foo","id":1}`))
	require.ErrorIs(t, err, ErrUnsupportedProtocol)
}
