// Package tokenstore models the persistent store's OAuth token table as a
// narrow set of operations, per spec §4.2. The core never touches the store
// beyond this interface; schema, migrations, and most columns beyond those
// named here are out of scope.
package tokenstore

import (
	"context"
	"time"
)

type (
	// Row is a user_oauth_tokens row. ExpiresAt and RefreshToken are optional:
	// a provider that issues non-expiring tokens may leave ExpiresAt nil, and a
	// provider without refresh support may leave RefreshToken empty.
	Row struct {
		UserID       string
		TenantID     string
		Provider     string
		AccessToken  string
		RefreshToken string
		ExpiresAt    *time.Time
		Scope        string
	}

	// ClientIDSecret is a tenant_oauth_credentials row, minus the primary key.
	ClientIDSecret struct {
		ClientID     string
		ClientSecret string
		RedirectURI  string
		Scopes       string
	}

	// Store is the contract the Auth Service requires from the persistent
	// store. Rows are always scoped by (user, tenant, provider); no
	// implementation may return a row across tenants.
	Store interface {
		GetUserOAuthToken(ctx context.Context, userID, tenantID, provider string) (*Row, error)
		UpsertUserOAuthToken(ctx context.Context, row Row) error
		DeleteUserOAuthToken(ctx context.Context, userID, tenantID, provider string) error
		GetTenantOAuthCredentials(ctx context.Context, tenantID, provider string) (*ClientIDSecret, error)
	}
)
