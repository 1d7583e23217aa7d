// Package handlers implements one toolregistry handler per registered
// tools.Ident. Every provider-backed read follows the same shape: resolve a
// provider name, consult the cache, build an authenticated provider on a
// miss, call the capability, cache the result, and return it — the
// "authenticated cached read" helper in this file is that shape factored out
// once, per the corpus's own guidance to avoid repeating the same
// credential/fetch/cache boilerplate in every handler.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fitnessmcp/toolserver/internal/apperr"
	"github.com/fitnessmcp/toolserver/internal/auth"
	"github.com/fitnessmcp/toolserver/internal/cache"
	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/google/uuid"
)

// defaultMaxActivityLimit is used when the server configuration does not
// override it.
const defaultMaxActivityLimit = 200

// requireString extracts a required string parameter, returning ok=false if
// it is absent or not a string.
func requireString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// optionalString extracts an optional string parameter, returning def if
// absent or of the wrong type.
func optionalString(params map[string]any, key, def string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// optionalInt extracts an optional numeric parameter. JSON numbers decode to
// float64 in a map[string]any, so both float64 and int are accepted.
func optionalInt(params map[string]any, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

// optionalFloat extracts an optional float parameter.
func optionalFloat(params map[string]any, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

// missingParam builds the exact error shape spec §4.7 requires for a missing
// required field.
func missingParam(name string) universal.Response {
	return universal.Fail(fmt.Sprintf("missing required parameter: %s", name))
}

// baseMetadata builds the cross-tool metadata convention (user_id, tenant_id,
// provider) collected in one place per the corpus's own guidance, rather than
// rebuilt ad hoc by every handler.
func baseMetadata(req universal.Request, providerName string) map[string]any {
	m := map[string]any{
		"user_id":   req.UserID,
		"tenant_id": universal.EffectiveTenant(req.TenantID),
	}
	if providerName != "" {
		m["provider"] = providerName
	}
	return m
}

// resolveProviderName picks the provider named in parameters, falling back
// to the configured default.
func resolveProviderName(params map[string]any, rc *toolregistry.Context) string {
	if name, ok := requireString(params, "provider"); ok {
		return name
	}
	return rc.Config.DefaultProvider
}

// reportProgress is a no-op when req.Progress is nil, matching the optional
// progress sink contract in §3.
func reportProgress(req universal.Request, current int, total *int, message string) {
	if req.Progress == nil || req.ProgressToken == "" {
		return
	}
	req.Progress.Progress(universal.ProgressNotification{
		Token:   req.ProgressToken,
		Current: current,
		Total:   total,
		Message: message,
	})
}

// cancelled reports whether req's cancellation handle has fired.
func cancelled(req universal.Request) bool {
	return req.Cancel != nil && req.Cancel.IsCancelled()
}

// authErrorResponse maps an auth.Service error to the response shape §7
// requires, including the authentication_required metadata convention used
// by scenario 4 in spec §8.
func authErrorResponse(err error, providerName string, meta map[string]any) universal.Response {
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	switch {
	case errors.Is(err, auth.ErrNoToken):
		out["authentication_required"] = true
		return universal.FailWithMeta(fmt.Sprintf("No valid %s token for this user; please reconnect", providerName), out)
	case errors.Is(err, auth.ErrConfiguration):
		return universal.FailWithMeta(fmt.Sprintf("No OAuth client credentials configured for provider %s", providerName), out)
	case errors.Is(err, auth.ErrUnsupportedProvider):
		return universal.FailWithMeta(fmt.Sprintf("Unsupported provider: %s", providerName), out)
	default:
		return universal.FailWithMeta(fmt.Sprintf("Failed to authenticate with %s: %v", providerName, err), out)
	}
}

// cachedRead is the canonical provider-backed read pattern from spec §4.7:
// resolve provider, consult cache, authenticate on miss, fetch, cache, and
// return success with cached/user_id/tenant_id/provider metadata plus an
// optional count.
func cachedRead(
	ctx context.Context,
	rc *toolregistry.Context,
	req universal.Request,
	providerName string,
	resource cache.Resource,
	fetch func(p provider.Provider) (any, int, error),
) universal.Response {
	meta := baseMetadata(req, providerName)

	if cancelled(req) {
		return universal.FailProtocol(apperr.OperationCancelled, "operation cancelled")
	}

	key := cache.NewKey(req.TenantID, req.UserID, providerName, resource)
	if raw, hit := rc.Cache.Get(ctx, key); hit {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return universal.Response{
				Success:  true,
				Result:   raw,
				Metadata: withBool(meta, "cached", true),
			}
		}
	}

	reportProgress(req, 0, nil, "authenticating")
	if cancelled(req) {
		return universal.FailProtocol(apperr.OperationCancelled, "operation cancelled")
	}
	p, err := rc.Auth.CreateAuthenticatedProvider(ctx, req.UserID, req.TenantID, providerName)
	if err != nil {
		return authErrorResponse(err, providerName, meta)
	}
	reportProgress(req, 50, nil, "fetching")

	if cancelled(req) {
		return universal.FailProtocol(apperr.OperationCancelled, "operation cancelled")
	}
	result, count, err := fetch(p)
	if err != nil {
		if errors.Is(err, provider.ErrAuthenticationFailed) {
			return authErrorResponse(auth.ErrNoToken, providerName, meta)
		}
		return universal.FailWithMeta(fmt.Sprintf("%s request failed: %v", providerName, err), meta)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return universal.FailProtocol(apperr.SerializationError, fmt.Sprintf("failed to serialize result: %v", err))
	}

	if !cancelled(req) {
		rc.Cache.Set(ctx, key, raw, cache.TTL(resource.Kind))
	}

	reportProgress(req, 100, nil, "done")

	withCount := withBool(meta, "cached", false)
	if count >= 0 {
		withCount["count"] = count
	}
	return universal.Response{Success: true, Result: raw, Metadata: withCount}
}

func withBool(meta map[string]any, key string, value bool) map[string]any {
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out[key] = value
	return out
}

// validUUID reports whether s parses as a UUID, per §4.7's user-id parsing
// requirement.
func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func clampLimit(limit, max int) int {
	if max <= 0 {
		max = defaultMaxActivityLimit
	}
	if limit <= 0 {
		return max
	}
	if limit > max {
		return max
	}
	return limit
}
