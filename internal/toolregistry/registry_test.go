package toolregistry

import (
	"context"
	"testing"

	"github.com/fitnessmcp/toolserver/internal/tools"
	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/stretchr/testify/require"
)

func TestResolveUnregisteredToolPerformsNoIO(t *testing.T) {
	r := New()
	called := false
	r.RegisterSync(tools.GetConfigurationCatalog, func(ctx context.Context, rc *Context, req universal.Request) universal.Response {
		called = true
		return universal.Success(nil, nil)
	})

	_, err := r.Execute(context.Background(), nil, universal.Request{ToolName: "not_a_real_tool"})
	require.ErrorIs(t, err, ErrToolNotFound)
	require.False(t, called)
}

func TestExecuteDispatchesSyncHandler(t *testing.T) {
	r := New()
	r.RegisterSync(tools.GetConfigurationCatalog, func(ctx context.Context, rc *Context, req universal.Request) universal.Response {
		return universal.Success(map[string]string{"ok": "yes"}, nil)
	})

	resp, err := r.Execute(context.Background(), nil, universal.Request{ToolName: string(tools.GetConfigurationCatalog)})
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func TestExecuteDispatchesAsyncHandler(t *testing.T) {
	r := New()
	r.RegisterAsync(tools.GetAthlete, func(ctx context.Context, rc *Context, req universal.Request) universal.Response {
		return universal.Success(map[string]string{"id": "a1"}, nil)
	})

	resp, err := r.Execute(context.Background(), nil, universal.Request{ToolName: string(tools.GetAthlete)})
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func TestRegisterSyncPanicsOnDuplicate(t *testing.T) {
	r := New()
	r.RegisterSync(tools.GetConfigurationCatalog, func(ctx context.Context, rc *Context, req universal.Request) universal.Response {
		return universal.Success(nil, nil)
	})
	require.Panics(t, func() {
		r.RegisterSync(tools.GetConfigurationCatalog, func(ctx context.Context, rc *Context, req universal.Request) universal.Response {
			return universal.Success(nil, nil)
		})
	})
}

func TestToolNamesStableOrder(t *testing.T) {
	r := New()
	r.RegisterSync(tools.ValidateConfiguration, func(ctx context.Context, rc *Context, req universal.Request) universal.Response {
		return universal.Success(nil, nil)
	})
	r.RegisterSync(tools.GetConfigurationCatalog, func(ctx context.Context, rc *Context, req universal.Request) universal.Response {
		return universal.Success(nil, nil)
	})

	names := r.ToolNames()
	require.Equal(t, []string{string(tools.GetConfigurationCatalog), string(tools.ValidateConfiguration)}, names)
}
