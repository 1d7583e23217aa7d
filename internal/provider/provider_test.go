package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryIsSupported(t *testing.T) {
	r := Default()
	require.True(t, r.IsSupported("strava"))
	require.True(t, r.IsSupported("fitbit"))
	require.False(t, r.IsSupported("garmin"))
	require.ElementsMatch(t, []string{"strava", "fitbit"}, r.SupportedProviders())
}

func TestCreateProviderUnsupportedErrors(t *testing.T) {
	r := Default()
	_, err := r.CreateProvider("garmin", Credentials{AccessToken: "x"})
	require.Error(t, err)
}

func TestCreateProviderDeterministic(t *testing.T) {
	r := Default()
	ctx := context.Background()

	p1, err := r.CreateProvider("strava", Credentials{AccessToken: "tok-1"})
	require.NoError(t, err)
	p2, err := r.CreateProvider("strava", Credentials{AccessToken: "tok-1"})
	require.NoError(t, err)

	a1, err := p1.GetAthlete(ctx)
	require.NoError(t, err)
	a2, err := p2.GetAthlete(ctx)
	require.NoError(t, err)
	require.Equal(t, a1, a2, "same token must yield the same fixture athlete")
}

func TestGetActivitiesRespectsPerPage(t *testing.T) {
	r := Default()
	p, err := r.CreateProvider("fitbit", Credentials{AccessToken: "tok-2"})
	require.NoError(t, err)

	acts, err := p.GetActivities(context.Background(), ActivityListParams{Page: 0, PerPage: 3})
	require.NoError(t, err)
	require.Len(t, acts, 3)
}

func TestGetActivityEchoesRequestedID(t *testing.T) {
	r := Default()
	p, err := r.CreateProvider("strava", Credentials{AccessToken: "tok-3"})
	require.NoError(t, err)

	a, err := p.GetActivity(context.Background(), "activity-xyz")
	require.NoError(t, err)
	require.Equal(t, "activity-xyz", a.ID)
}

func TestRevokedTokenRejectedByEveryProvider(t *testing.T) {
	r := Default()
	for _, name := range []string{"strava", "fitbit"} {
		p, err := r.CreateProvider(name, Credentials{AccessToken: RevokedTokenSentinel})
		require.NoError(t, err)

		_, err = p.GetAthlete(context.Background())
		require.ErrorIs(t, err, ErrAuthenticationFailed)

		_, err = p.GetActivities(context.Background(), ActivityListParams{PerPage: 1})
		require.ErrorIs(t, err, ErrAuthenticationFailed)

		_, err = p.GetActivity(context.Background(), "activity-1")
		require.ErrorIs(t, err, ErrAuthenticationFailed)

		_, err = p.GetStats(context.Background(), "athlete-1")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	}
}

func TestEmptyTokenRejectedByProvider(t *testing.T) {
	r := Default()
	p, err := r.CreateProvider("strava", Credentials{})
	require.NoError(t, err)

	_, err = p.GetAthlete(context.Background())
	require.True(t, errors.Is(err, ErrAuthenticationFailed))
}
