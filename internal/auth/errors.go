package auth

import "errors"

// Sentinel errors the Auth Service returns; handlers map these to the
// structured error taxonomy from spec §7 rather than inspecting error text.
var (
	// ErrNoToken means the user has no usable token for the requested
	// provider: none was ever stored, or a token near expiry could not be
	// refreshed.
	ErrNoToken = errors.New("no oauth token stored for user and provider")
	// ErrConfiguration means no client id/secret is available for the
	// tenant (and no tenant-wide default exists either).
	ErrConfiguration = errors.New("no oauth client credentials configured for provider")
	// ErrUnsupportedProvider means the provider name is not registered.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)
