package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fitnessmcp/toolserver/internal/appstore"
	"github.com/fitnessmcp/toolserver/internal/auth"
	"github.com/fitnessmcp/toolserver/internal/cache"
	"github.com/fitnessmcp/toolserver/internal/config"
	"github.com/fitnessmcp/toolserver/internal/notify"
	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/telemetry"
	"github.com/fitnessmcp/toolserver/internal/tokenstore"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/tools"
	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() (*toolregistry.Registry, *toolregistry.Context) {
	r := toolregistry.New()
	r.RegisterSync(tools.GetConfigurationCatalog, func(_ context.Context, _ *toolregistry.Context, _ universal.Request) universal.Response {
		return universal.Success(map[string]any{"ok": true}, nil)
	})
	rc := &toolregistry.Context{
		Store:     tokenstore.NewMemoryStore(),
		AppStore:  appstore.NewMemoryStore(),
		Providers: provider.Default(),
		Cache:     cache.NewSafe(cache.NewMemoryCache(), telemetry.NewNoopLogger()),
		Notifier:  notify.NewBus(),
		Logger:    telemetry.NewNoopLogger(),
		Config:    toolregistry.Config{DefaultProvider: "strava"},
	}
	rc.Auth = auth.New(rc.Store, rc.Providers, nil)
	return r, rc
}

func TestIsSamplingResponseHeuristic(t *testing.T) {
	require.True(t, isSamplingResponse([]byte(`{"jsonrpc":"2.0","id":1,"result":{"ok":true}}`)))
	require.True(t, isSamplingResponse([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-1,"message":"no"}}`)))
	require.False(t, isSamplingResponse([]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call"}`)))
	require.False(t, isSamplingResponse([]byte(`not json`)))
}

func TestStdioRoundTripsToolsList(t *testing.T) {
	r, rc := newTestRegistry()
	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	out := &bytes.Buffer{}

	s := NewStdio(in, out, r, rc, telemetry.NewNoopLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.Run(ctx)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Contains(t, resp, "result")
}

func TestNewCoordinatorRejectsNoTransports(t *testing.T) {
	r, rc := newTestRegistry()
	_, err := NewCoordinator(config.TransportConfig{}, r, rc, notify.NewBus(), telemetry.NewNoopLogger())
	require.ErrorIs(t, err, ErrNoTransportsEnabled)
}

func TestNewCoordinatorRejectsSSEWithoutHTTP(t *testing.T) {
	r, rc := newTestRegistry()
	_, err := NewCoordinator(config.TransportConfig{SSE: true}, r, rc, notify.NewBus(), telemetry.NewNoopLogger())
	require.Error(t, err)
}

func TestNewCoordinatorAcceptsStdioOnly(t *testing.T) {
	r, rc := newTestRegistry()
	c, err := NewCoordinator(config.TransportConfig{Stdio: true}, r, rc, notify.NewBus(), telemetry.NewNoopLogger())
	require.NoError(t, err)
	require.NotNil(t, c.stdio)
	require.Nil(t, c.http)
}
