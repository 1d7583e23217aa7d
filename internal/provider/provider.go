package provider

import (
	"context"
	"errors"
	"fmt"
)

// Credentials is the OAuth2 access token handed to a Provider right after
// construction. A Provider never refreshes its own token; the Auth Service
// owns refresh and always hands a provider a token known to be valid at
// construction time.
type Credentials struct {
	AccessToken string
}

// RevokedTokenSentinel is a reserved access token value the fixture providers
// treat as rejected by the upstream API, standing in for a real revoked or
// expired token a live Strava/Fitbit would reject with 401. Tests use it to
// exercise the authentication-failure path without a real OAuth exchange.
const RevokedTokenSentinel = "revoked"

// ErrAuthenticationFailed is returned by a Provider method when the upstream
// API rejects the credentials it was constructed with, per spec §4.4. It is
// distinguishable from a generic request failure so callers can map it onto
// the same "user must reconnect" signal as having no token at all.
var ErrAuthenticationFailed = errors.New("provider: authentication failed")

// checkToken reports ErrAuthenticationFailed for an access token the fixture
// providers treat as rejected: an empty token (never credentialed) or the
// reserved RevokedTokenSentinel.
func checkToken(accessToken string) error {
	if accessToken == "" || accessToken == RevokedTokenSentinel {
		return ErrAuthenticationFailed
	}
	return nil
}

// Provider is the capability surface a connected fitness provider exposes to
// tool handlers, per spec §4.4. Every method takes a context so a slow
// upstream call can be cancelled by the caller.
type Provider interface {
	SetCredentials(creds Credentials)
	GetAthlete(ctx context.Context) (*Athlete, error)
	GetActivities(ctx context.Context, params ActivityListParams) ([]Activity, error)
	GetActivity(ctx context.Context, activityID string) (*Activity, error)
	GetStats(ctx context.Context, athleteID string) (*Stats, error)
}

// Factory constructs a fresh, credential-less Provider instance. The
// registry calls SetCredentials immediately after construction.
type Factory func() Provider

// Registry is the pluggable name -> factory lookup described in spec §4.3.
// It holds no state besides the registered factories; it is safe for
// concurrent read-only use after construction.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds a Registry with the given name -> factory bindings.
func NewRegistry(factories map[string]Factory) *Registry {
	cp := make(map[string]Factory, len(factories))
	for name, f := range factories {
		cp[name] = f
	}
	return &Registry{factories: cp}
}

// Default builds the Registry the process uses in production: Strava and
// Fitbit factories, keyed by their provider name as used in cache keys, the
// token store, and tool arguments.
func Default() *Registry {
	return NewRegistry(map[string]Factory{
		"strava": func() Provider { return newStrava() },
		"fitbit": func() Provider { return newFitbit() },
	})
}

// IsSupported reports whether name is a registered provider.
func (r *Registry) IsSupported(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// SupportedProviders lists every registered provider name.
func (r *Registry) SupportedProviders() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// CreateProvider instantiates and credentials a Provider for name. It
// returns an error if name is not registered.
func (r *Registry) CreateProvider(name string, creds Credentials) (Provider, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("provider %q is not supported", name)
	}
	p := factory()
	p.SetCredentials(creds)
	return p, nil
}
