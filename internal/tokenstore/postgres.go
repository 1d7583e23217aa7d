package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is a Store implementation backed by the persistent store's
// user_oauth_tokens and tenant_oauth_credentials tables (spec §6). Table
// names are configurable so the store can coexist with a larger schema owned
// by the rest of the product.
type Postgres struct {
	db   *sql.DB
	goqu *goqu.Database

	tableTokens exp.IdentifierExpression
	tableCreds  exp.IdentifierExpression
}

// PostgresOption configures an optional aspect of a Postgres store.
type PostgresOption func(*Postgres)

// WithTableNames overrides the default table names ("user_oauth_tokens",
// "tenant_oauth_credentials").
func WithTableNames(tokens, creds string) PostgresOption {
	return func(p *Postgres) {
		p.tableTokens = goqu.T(tokens)
		p.tableCreds = goqu.T(creds)
	}
}

// NewPostgres opens a connection pool against dsn and verifies connectivity.
func NewPostgres(ctx context.Context, dsn string, opts ...PostgresOption) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetMaxIdleConns(3)
	db.SetMaxOpenConns(10)

	p := &Postgres{
		db:          db,
		goqu:        goqu.New("postgres", db),
		tableTokens: goqu.T("user_oauth_tokens"),
		tableCreds:  goqu.T("tenant_oauth_credentials"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

type tokenRow struct {
	AccessToken  string
	RefreshToken sql.NullString
	ExpiresAt    sql.NullTime
	Scope        sql.NullString
}

func (p *Postgres) GetUserOAuthToken(ctx context.Context, userID, tenantID, provider string) (*Row, error) {
	query, _, err := p.goqu.From(p.tableTokens).
		Select("access_token", "refresh_token", "expires_at", "scope").
		Where(
			goqu.I("user_id").Eq(userID),
			goqu.I("tenant_id").Eq(tenantID),
			goqu.I("provider").Eq(provider),
		).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build token query: %w", err)
	}

	var row tokenRow
	err = p.db.QueryRowContext(ctx, query).Scan(&row.AccessToken, &row.RefreshToken, &row.ExpiresAt, &row.Scope)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user oauth token: %w", err)
	}

	out := &Row{
		UserID:      userID,
		TenantID:    tenantID,
		Provider:    provider,
		AccessToken: row.AccessToken,
	}
	if row.RefreshToken.Valid {
		out.RefreshToken = row.RefreshToken.String
	}
	if row.ExpiresAt.Valid {
		t := row.ExpiresAt.Time
		out.ExpiresAt = &t
	}
	if row.Scope.Valid {
		out.Scope = row.Scope.String
	}
	return out, nil
}

func (p *Postgres) UpsertUserOAuthToken(ctx context.Context, row Row) error {
	record := goqu.Record{
		"user_id":       row.UserID,
		"tenant_id":     row.TenantID,
		"provider":      row.Provider,
		"access_token":  row.AccessToken,
		"refresh_token": nullableString(row.RefreshToken),
		"expires_at":    nullableTime(row.ExpiresAt),
		"scope":         nullableString(row.Scope),
	}

	query, _, err := p.goqu.Insert(p.tableTokens).
		Rows(record).
		OnConflict(goqu.DoUpdate("user_id,tenant_id,provider", record)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert token query: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("upsert user oauth token: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteUserOAuthToken(ctx context.Context, userID, tenantID, provider string) error {
	query, _, err := p.goqu.Delete(p.tableTokens).
		Where(
			goqu.I("user_id").Eq(userID),
			goqu.I("tenant_id").Eq(tenantID),
			goqu.I("provider").Eq(provider),
		).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete token query: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("delete user oauth token: %w", err)
	}
	return nil
}

func (p *Postgres) GetTenantOAuthCredentials(ctx context.Context, tenantID, provider string) (*ClientIDSecret, error) {
	query, _, err := p.goqu.From(p.tableCreds).
		Select("client_id", "client_secret", "redirect_uri", "scopes").
		Where(
			goqu.I("tenant_id").Eq(tenantID),
			goqu.I("provider").Eq(provider),
		).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build tenant credentials query: %w", err)
	}

	var out ClientIDSecret
	err = p.db.QueryRowContext(ctx, query).Scan(&out.ClientID, &out.ClientSecret, &out.RedirectURI, &out.Scopes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant oauth credentials: %w", err)
	}
	return &out, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
