// Package auth implements the Auth Service from spec §4.5: resolving a
// stored OAuth2 token to a guaranteed-valid access token (refreshing it
// transparently when it is near expiry), turning a valid token into an
// authenticated Provider, and disconnecting a provider idempotently.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/telemetry"
	"github.com/fitnessmcp/toolserver/internal/tokenstore"
	"golang.org/x/oauth2"
)

// skew is the safety margin subtracted from a token's expiry before it is
// considered due for refresh, per spec §4.5.
const skew = 5 * time.Minute

// TokenRefresher exchanges a refresh token for a new access token. Production
// wiring uses a single instance for every provider, which selects the OAuth2
// endpoint by providerName (see EndpointRefresher); tests substitute a stub.
type TokenRefresher interface {
	Refresh(ctx context.Context, providerName, clientID, clientSecret, refreshToken string) (*oauth2.Token, error)
}

// Service is the Auth Service. It is safe for concurrent use.
type Service struct {
	store     tokenstore.Store
	providers *provider.Registry
	refresher TokenRefresher
	logger    telemetry.Logger

	// defaultCreds supplies a fallback client id/secret per provider when a
	// tenant has not configured its own, per spec §4.5.
	defaultCreds map[string]tokenstore.ClientIDSecret
}

// Option configures an optional aspect of a Service.
type Option func(*Service)

// WithLogger overrides the Service's logger.
func WithLogger(l telemetry.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithDefaultCredentials registers a process-wide fallback client id/secret
// for provider, used when no tenant-specific credentials are stored.
func WithDefaultCredentials(providerName string, creds tokenstore.ClientIDSecret) Option {
	return func(s *Service) { s.defaultCreds[providerName] = creds }
}

// New constructs a Service.
func New(store tokenstore.Store, providers *provider.Registry, refresher TokenRefresher, opts ...Option) *Service {
	s := &Service{
		store:        store,
		providers:    providers,
		refresher:    refresher,
		logger:       telemetry.NewNoopLogger(),
		defaultCreds: make(map[string]tokenstore.ClientIDSecret),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GetValidToken returns an access token for (userID, tenantID, providerName)
// guaranteed to be valid for at least skew beyond now. If the stored token is
// within skew of expiry and a refresh token is present, it transparently
// refreshes and persists the new token before returning. Returns
// ErrNoToken if the user has never connected the provider, or if the stored
// token is within skew of expiry and cannot be refreshed (no refresh token,
// or the refresh fails), and ErrConfiguration if a refresh is required but
// no client credentials are available.
func (s *Service) GetValidToken(ctx context.Context, userID, tenantID, providerName string) (string, error) {
	row, err := s.store.GetUserOAuthToken(ctx, userID, tenantID, providerName)
	if err != nil {
		return "", fmt.Errorf("load oauth token: %w", err)
	}
	if row == nil {
		return "", ErrNoToken
	}
	if row.ExpiresAt == nil || time.Until(*row.ExpiresAt) > skew {
		return row.AccessToken, nil
	}
	if row.RefreshToken == "" {
		s.logger.Warn(ctx, "oauth token near expiry with no refresh token, treating as disconnected", "user_id", userID, "provider", providerName)
		return "", ErrNoToken
	}

	creds, err := s.resolveCredentials(ctx, tenantID, providerName)
	if err != nil {
		return "", err
	}

	refreshed, err := s.refresher.Refresh(ctx, providerName, creds.ClientID, creds.ClientSecret, row.RefreshToken)
	if err != nil {
		s.logger.Warn(ctx, "oauth token refresh failed, treating as disconnected", "user_id", userID, "provider", providerName, "error", err)
		return "", fmt.Errorf("%w: refresh failed: %v", ErrNoToken, err)
	}

	newRow := *row
	newRow.AccessToken = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		newRow.RefreshToken = refreshed.RefreshToken
	}
	if !refreshed.Expiry.IsZero() {
		exp := refreshed.Expiry
		newRow.ExpiresAt = &exp
	}
	if err := s.store.UpsertUserOAuthToken(ctx, newRow); err != nil {
		return "", fmt.Errorf("persist refreshed oauth token: %w", err)
	}

	s.logger.Info(ctx, "refreshed oauth token", "user_id", userID, "provider", providerName)
	return newRow.AccessToken, nil
}

// CreateAuthenticatedProvider resolves a valid token for (userID, tenantID,
// providerName) and returns a Provider instance credentialed with it.
func (s *Service) CreateAuthenticatedProvider(ctx context.Context, userID, tenantID, providerName string) (provider.Provider, error) {
	if !s.providers.IsSupported(providerName) {
		return nil, ErrUnsupportedProvider
	}
	token, err := s.GetValidToken(ctx, userID, tenantID, providerName)
	if err != nil {
		return nil, err
	}
	p, err := s.providers.CreateProvider(providerName, provider.Credentials{AccessToken: token})
	if err != nil {
		return nil, fmt.Errorf("create provider client: %w", err)
	}
	return p, nil
}

// DisconnectProvider deletes any stored token for (userID, tenantID,
// providerName). It is idempotent: disconnecting a provider that was never
// connected succeeds.
func (s *Service) DisconnectProvider(ctx context.Context, userID, tenantID, providerName string) error {
	if err := s.store.DeleteUserOAuthToken(ctx, userID, tenantID, providerName); err != nil {
		return fmt.Errorf("delete oauth token: %w", err)
	}
	return nil
}

// resolveCredentials looks up tenant-scoped OAuth client credentials, falling
// back to the process-wide default for providerName if the tenant has none
// configured.
func (s *Service) resolveCredentials(ctx context.Context, tenantID, providerName string) (tokenstore.ClientIDSecret, error) {
	tenantCreds, err := s.store.GetTenantOAuthCredentials(ctx, tenantID, providerName)
	if err != nil {
		return tokenstore.ClientIDSecret{}, fmt.Errorf("load tenant oauth credentials: %w", err)
	}
	if tenantCreds != nil {
		return *tenantCreds, nil
	}
	if def, ok := s.defaultCreds[providerName]; ok {
		return def, nil
	}
	return tokenstore.ClientIDSecret{}, ErrConfiguration
}
