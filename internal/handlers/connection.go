package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/fitnessmcp/toolserver/internal/auth"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/google/uuid"
)

// providerAuthHosts maps a provider name to its OAuth authorization host.
// Wire formats beyond this URL shape are out of scope.
var providerAuthHosts = map[string]string{
	"strava": "www.strava.com",
	"fitbit": "www.fitbit.com",
}

// ConnectProvider composes an OAuth2 authorization URL for the named
// provider using tenant-aware client id and a freshly generated state value,
// per spec §6's state format `<user_id>:<random-uuid>`.
func ConnectProvider(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName, ok := requireString(req.Parameters, "provider")
	if !ok {
		return missingParam("provider")
	}
	if !rc.Providers.IsSupported(providerName) {
		return universal.Fail(fmt.Sprintf("unsupported provider: %s", providerName))
	}
	host, ok := providerAuthHosts[providerName]
	if !ok {
		return universal.Fail(fmt.Sprintf("no authorization host configured for provider: %s", providerName))
	}

	creds, err := rc.Store.GetTenantOAuthCredentials(ctx, req.TenantID, providerName)
	if err != nil {
		return universal.Fail(fmt.Sprintf("failed to load oauth credentials: %v", err))
	}
	if creds == nil {
		return universal.FailWithMeta(
			fmt.Sprintf("no OAuth client credentials configured for provider %s", providerName),
			baseMetadata(req, providerName),
		)
	}

	state := fmt.Sprintf("%s:%s", req.UserID, uuid.NewString())
	authorizeURL := (&url.URL{
		Scheme: "https",
		Host:   host,
		Path:   "/oauth/authorize",
		RawQuery: url.Values{
			"client_id":     {creds.ClientID},
			"redirect_uri":  {creds.RedirectURI},
			"response_type": {"code"},
			"scope":         {creds.Scopes},
			"state":         {state},
		}.Encode(),
	}).String()

	return universal.Success(map[string]any{
		"authorization_url": authorizeURL,
		"state":             state,
		"instructions":      "Direct the user to authorization_url; the provider will redirect to redirect_uri with a code and this state value.",
	}, baseMetadata(req, providerName))
}

// DisconnectProvider removes a stored OAuth2 connection. Idempotent.
func DisconnectProvider(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName, ok := requireString(req.Parameters, "provider")
	if !ok {
		return missingParam("provider")
	}
	if err := rc.Auth.DisconnectProvider(ctx, req.UserID, req.TenantID, providerName); err != nil {
		if errors.Is(err, auth.ErrUnsupportedProvider) {
			return universal.Fail(fmt.Sprintf("unsupported provider: %s", providerName))
		}
		return universal.Fail(fmt.Sprintf("failed to disconnect provider: %v", err))
	}
	rc.Cache.InvalidateUser(ctx, universal.EffectiveTenant(req.TenantID), req.UserID)
	return universal.Success(map[string]any{"disconnected": true}, baseMetadata(req, providerName))
}

// GetConnectionStatus reports connection status for one or all registered
// providers. Empty parameters enumerate every registered provider.
func GetConnectionStatus(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	if providerName, ok := requireString(req.Parameters, "provider"); ok {
		status, err := connectionStatusFor(ctx, rc, req, providerName)
		if err != nil {
			return universal.Fail(fmt.Sprintf("failed to check connection status: %v", err))
		}
		return universal.Success(status, baseMetadata(req, providerName))
	}

	statuses := make(map[string]any, len(rc.Providers.SupportedProviders()))
	for _, name := range rc.Providers.SupportedProviders() {
		status, err := connectionStatusFor(ctx, rc, req, name)
		if err != nil {
			return universal.Fail(fmt.Sprintf("failed to check connection status: %v", err))
		}
		statuses[name] = status
	}
	return universal.Success(map[string]any{"providers": statuses}, baseMetadata(req, ""))
}

func connectionStatusFor(ctx context.Context, rc *toolregistry.Context, req universal.Request, providerName string) (map[string]any, error) {
	row, err := rc.Store.GetUserOAuthToken(ctx, req.UserID, req.TenantID, providerName)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return map[string]any{"connected": false, "status": "not_connected"}, nil
	}
	return map[string]any{"connected": true, "status": "connected"}, nil
}
