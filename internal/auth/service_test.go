package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/tokenstore"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type stubRefresher struct {
	calls int
	token *oauth2.Token
	err   error
}

func (s *stubRefresher) Refresh(_ context.Context, _, _, _, _ string) (*oauth2.Token, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.token, nil
}

func TestGetValidTokenNoTokenStored(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	svc := New(store, provider.Default(), &stubRefresher{})

	_, err := svc.GetValidToken(context.Background(), "user-1", "", "strava")
	require.ErrorIs(t, err, ErrNoToken)
}

func TestGetValidTokenReturnsStoredTokenWhenFarFromExpiry(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	exp := time.Now().Add(time.Hour)
	require.NoError(t, store.UpsertUserOAuthToken(context.Background(), tokenstore.Row{
		UserID: "user-1", TenantID: "", Provider: "strava",
		AccessToken: "tok-valid", ExpiresAt: &exp,
	}))
	refresher := &stubRefresher{}
	svc := New(store, provider.Default(), refresher)

	token, err := svc.GetValidToken(context.Background(), "user-1", "", "strava")
	require.NoError(t, err)
	require.Equal(t, "tok-valid", token)
	require.Zero(t, refresher.calls, "must not refresh when far from expiry")
}

func TestGetValidTokenRefreshesWithinSkew(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	exp := time.Now().Add(time.Minute)
	require.NoError(t, store.UpsertUserOAuthToken(context.Background(), tokenstore.Row{
		UserID: "user-1", TenantID: "", Provider: "strava",
		AccessToken: "tok-stale", RefreshToken: "refresh-1", ExpiresAt: &exp,
	}))
	newExp := time.Now().Add(6 * time.Hour)
	refresher := &stubRefresher{token: &oauth2.Token{AccessToken: "tok-fresh", RefreshToken: "refresh-2", Expiry: newExp}}
	svc := New(store, provider.Default(), refresher, WithDefaultCredentials("strava", tokenstore.ClientIDSecret{ClientID: "id", ClientSecret: "secret"}))

	token, err := svc.GetValidToken(context.Background(), "user-1", "", "strava")
	require.NoError(t, err)
	require.Equal(t, "tok-fresh", token)
	require.Equal(t, 1, refresher.calls)

	row, err := store.GetUserOAuthToken(context.Background(), "user-1", "", "strava")
	require.NoError(t, err)
	require.Equal(t, "tok-fresh", row.AccessToken)
	require.Equal(t, "refresh-2", row.RefreshToken)
}

func TestGetValidTokenRefreshFailureIsNoToken(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	exp := time.Now().Add(time.Minute)
	require.NoError(t, store.UpsertUserOAuthToken(context.Background(), tokenstore.Row{
		UserID: "user-1", TenantID: "", Provider: "strava",
		AccessToken: "tok-stale", RefreshToken: "refresh-1", ExpiresAt: &exp,
	}))
	refresher := &stubRefresher{err: errors.New("provider rejected refresh token")}
	svc := New(store, provider.Default(), refresher, WithDefaultCredentials("strava", tokenstore.ClientIDSecret{ClientID: "id", ClientSecret: "secret"}))

	_, err := svc.GetValidToken(context.Background(), "user-1", "", "strava")
	require.ErrorIs(t, err, ErrNoToken)
}

func TestGetValidTokenMissingCredentialsIsConfigurationError(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	exp := time.Now().Add(time.Minute)
	require.NoError(t, store.UpsertUserOAuthToken(context.Background(), tokenstore.Row{
		UserID: "user-1", TenantID: "", Provider: "strava",
		AccessToken: "tok-stale", RefreshToken: "refresh-1", ExpiresAt: &exp,
	}))
	svc := New(store, provider.Default(), &stubRefresher{})

	_, err := svc.GetValidToken(context.Background(), "user-1", "", "strava")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestCreateAuthenticatedProviderUnsupported(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	svc := New(store, provider.Default(), &stubRefresher{})

	_, err := svc.CreateAuthenticatedProvider(context.Background(), "user-1", "", "garmin")
	require.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestDisconnectProviderIsIdempotent(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	svc := New(store, provider.Default(), &stubRefresher{})

	require.NoError(t, svc.DisconnectProvider(context.Background(), "user-1", "", "strava"))
	require.NoError(t, svc.DisconnectProvider(context.Background(), "user-1", "", "strava"))
}

func TestResolveCredentialsPrefersTenantOverDefault(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	store.SetTenantOAuthCredentials("tenant-a", "strava", tokenstore.ClientIDSecret{ClientID: "tenant-id"})
	svc := New(store, provider.Default(), &stubRefresher{}, WithDefaultCredentials("strava", tokenstore.ClientIDSecret{ClientID: "default-id"}))

	creds, err := svc.resolveCredentials(context.Background(), "tenant-a", "strava")
	require.NoError(t, err)
	require.Equal(t, "tenant-id", creds.ClientID)
}
