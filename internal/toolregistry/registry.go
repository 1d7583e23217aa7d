// Package toolregistry resolves a wire tool name to a registered ToolId,
// holds exactly one handler per ToolId, and dispatches a Request to that
// handler, per spec §4.6. It is the only place that turns a raw wire string
// into a tools.Ident.
package toolregistry

import (
	"context"
	"fmt"

	"github.com/fitnessmcp/toolserver/internal/appstore"
	"github.com/fitnessmcp/toolserver/internal/auth"
	"github.com/fitnessmcp/toolserver/internal/cache"
	"github.com/fitnessmcp/toolserver/internal/notify"
	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/telemetry"
	"github.com/fitnessmcp/toolserver/internal/tokenstore"
	"github.com/fitnessmcp/toolserver/internal/tools"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

// Context bundles the read-only, process-wide dependencies every handler may
// need. Handlers receive it alongside a Request; neither mutates it.
type Context struct {
	Store     tokenstore.Store
	AppStore  appstore.Store
	Auth      *auth.Service
	Providers *provider.Registry
	Cache     *cache.Safe
	Notifier  *notify.Bus
	Logger    telemetry.Logger
	Tracer    telemetry.Tracer
	Config    Config
}

// Config carries the server-configured parameters a handler consults, per
// spec §6 ("Server-configured parameters"): provider defaults and the
// training-zone math constants used by calculate_personalized_zones.
type Config struct {
	DefaultProvider string
	MaxActivityLimit int
	DefaultRestingHR int
	DefaultMaxHR     int
	DefaultFTP       int
}

// SyncHandler answers a tool call immediately with no async work.
type SyncHandler func(ctx context.Context, rc *Context, req universal.Request) universal.Response

// AsyncHandler answers a tool call that may perform I/O (provider calls,
// store round-trips); it receives the same context a SyncHandler does, the
// split exists purely to document intent, per spec §4.6's "exactly one of
// async/sync handler populated" invariant.
type AsyncHandler func(ctx context.Context, rc *Context, req universal.Request) universal.Response

// ToolInfo is a single registry entry. Exactly one of Sync or Async is set,
// matching the tools.Meta.IsAsync flag for the same id.
type ToolInfo struct {
	Meta  tools.Meta
	Sync  SyncHandler
	Async AsyncHandler
}

// Registry is the name -> ToolInfo lookup the executor dispatches through.
type Registry struct {
	byName map[string]ToolInfo
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{byName: make(map[string]ToolInfo)}
}

// RegisterSync adds a synchronous handler for id. It panics on a duplicate
// registration or an id with no tools.Meta entry; both are programmer
// errors caught at wiring time, not runtime input.
func (r *Registry) RegisterSync(id tools.Ident, h SyncHandler) {
	r.register(id, ToolInfo{Sync: h})
}

// RegisterAsync adds an asynchronous handler for id.
func (r *Registry) RegisterAsync(id tools.Ident, h AsyncHandler) {
	r.register(id, ToolInfo{Async: h})
}

func (r *Registry) register(id tools.Ident, info ToolInfo) {
	meta, ok := tools.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("toolregistry: %q has no tools.Meta entry", id))
	}
	if _, exists := r.byName[string(id)]; exists {
		panic(fmt.Sprintf("toolregistry: %q registered twice", id))
	}
	info.Meta = meta
	r.byName[string(id)] = info
}

// ResolveToolName resolves a raw wire name to a tools.Ident, the only
// sanctioned place in the codebase to do so.
func (r *Registry) ResolveToolName(name string) (tools.Ident, bool) {
	info, ok := r.byName[name]
	if !ok {
		return "", false
	}
	return info.Meta.ID, true
}

// GetTool returns the registered ToolInfo for id.
func (r *Registry) GetTool(id tools.Ident) (ToolInfo, bool) {
	info, ok := r.byName[string(id)]
	return info, ok
}

// ListTools returns every registered ToolInfo in a stable order, used to
// answer tools/list and equivalent introspection requests.
func (r *Registry) ListTools() []ToolInfo {
	out := make([]ToolInfo, 0, len(tools.All))
	for _, meta := range tools.All {
		if info, ok := r.byName[string(meta.ID)]; ok {
			out = append(out, info)
		}
	}
	return out
}

// ToolNames returns the wire names of every registered tool, in the stable
// order of tools.All.
func (r *Registry) ToolNames() []string {
	names := make([]string, 0, len(tools.All))
	for _, meta := range tools.All {
		if _, ok := r.byName[string(meta.ID)]; ok {
			names = append(names, string(meta.ID))
		}
	}
	return names
}

// ErrToolNotFound is returned by Execute when req.ToolName does not resolve
// against the registry. Handlers never see this error; it is produced before
// any handler runs and before any I/O occurs, matching the "unregistered
// tool performs zero I/O" property from spec §8.
var ErrToolNotFound = fmt.Errorf("tool not found")

// Execute resolves req.ToolName and dispatches to its handler. An
// unresolvable name returns ErrToolNotFound without invoking rc or
// performing any I/O. A resolved tool with neither handler populated is a
// wiring bug and produces an internal-error Response rather than a panic,
// since it can only be reached via live request traffic.
func (r *Registry) Execute(ctx context.Context, rc *Context, req universal.Request) (universal.Response, error) {
	id, ok := r.ResolveToolName(req.ToolName)
	if !ok {
		return universal.Response{}, ErrToolNotFound
	}
	info := r.byName[string(id)]
	req.ToolName = string(id)

	switch {
	case info.Async != nil:
		return info.Async(ctx, rc, req), nil
	case info.Sync != nil:
		return info.Sync(ctx, rc, req), nil
	default:
		return universal.Fail(fmt.Sprintf("tool %q is registered with no handler", id)), nil
	}
}
