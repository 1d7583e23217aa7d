package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fitnessmcp/toolserver/internal/appstore"
	"github.com/fitnessmcp/toolserver/internal/auth"
	"github.com/fitnessmcp/toolserver/internal/cache"
	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/tokenstore"
	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type noRefresher struct{}

func (noRefresher) Refresh(context.Context, string, string, string, string) (*oauth2.Token, error) {
	panic("refresh should not be called in these tests")
}

func newTestContext() *toolregistry.Context {
	store := tokenstore.NewMemoryStore()
	providers := provider.Default()
	return &toolregistry.Context{
		Store:     store,
		AppStore:  appstore.NewMemoryStore(),
		Auth:      auth.New(store, providers, noRefresher{}),
		Providers: providers,
		Cache:     cache.NewSafe(cache.NewMemoryCache(), nil),
		Config:    toolregistry.Config{DefaultProvider: "strava", MaxActivityLimit: 50},
	}
}

func connectTestUser(t *testing.T, rc *toolregistry.Context, userID, providerName string) {
	t.Helper()
	require.NoError(t, rc.Store.UpsertUserOAuthToken(context.Background(), tokenstore.Row{
		UserID: userID, TenantID: "", Provider: providerName, AccessToken: "tok-" + userID,
	}))
}

func TestGetActivitiesNoTokenPath(t *testing.T) {
	rc := newTestContext()
	userID := uuid.NewString()
	req := universal.Request{ToolName: "get_activities", UserID: userID, Parameters: map[string]any{"provider": "strava"}}

	resp := GetActivities(context.Background(), rc, req)
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "No valid strava token")
	require.Equal(t, true, resp.Metadata["authentication_required"])
	require.Equal(t, "strava", resp.Metadata["provider"])
}

func TestGetActivitiesRevokedTokenMapsToAuthenticationRequired(t *testing.T) {
	rc := newTestContext()
	userID := uuid.NewString()
	require.NoError(t, rc.Store.UpsertUserOAuthToken(context.Background(), tokenstore.Row{
		UserID: userID, TenantID: "", Provider: "strava", AccessToken: provider.RevokedTokenSentinel,
	}))
	req := universal.Request{ToolName: "get_activities", UserID: userID, Parameters: map[string]any{"provider": "strava"}}

	resp := GetActivities(context.Background(), rc, req)
	require.False(t, resp.Success)
	require.Equal(t, true, resp.Metadata["authentication_required"])
}

func TestGetAthleteCacheHit(t *testing.T) {
	rc := newTestContext()
	userID := uuid.NewString()
	connectTestUser(t, rc, userID, "strava")
	req := universal.Request{ToolName: "get_athlete", UserID: userID, Parameters: map[string]any{"provider": "strava"}}

	first := GetAthlete(context.Background(), rc, req)
	require.True(t, first.Success)
	require.Equal(t, false, first.Metadata["cached"])

	second := GetAthlete(context.Background(), rc, req)
	require.True(t, second.Success)
	require.Equal(t, true, second.Metadata["cached"])
	require.JSONEq(t, string(first.Result), string(second.Result))
}

func TestGetActivitiesLimitClamped(t *testing.T) {
	rc := newTestContext()
	userID := uuid.NewString()
	connectTestUser(t, rc, userID, "strava")
	req := universal.Request{ToolName: "get_activities", UserID: userID, Parameters: map[string]any{"provider": "strava", "limit": 9999.0}}

	resp := GetActivities(context.Background(), rc, req)
	require.True(t, resp.Success)

	var acts []provider.Activity
	require.NoError(t, json.Unmarshal(resp.Result, &acts))
	require.Len(t, acts, rc.Config.MaxActivityLimit)
}

func TestGetConnectionStatusEmptyParamsEnumeratesAll(t *testing.T) {
	rc := newTestContext()
	userID := uuid.NewString()
	req := universal.Request{ToolName: "get_connection_status", UserID: userID, Parameters: map[string]any{}}

	resp := GetConnectionStatus(context.Background(), rc, req)
	require.True(t, resp.Success)

	var body struct {
		Providers map[string]any `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &body))
	require.ElementsMatch(t, []string{"strava", "fitbit"}, keysOf(body.Providers))
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestDisconnectProviderIdempotent(t *testing.T) {
	rc := newTestContext()
	userID := uuid.NewString()
	connectTestUser(t, rc, userID, "strava")
	req := universal.Request{ToolName: "disconnect_provider", UserID: userID, Parameters: map[string]any{"provider": "strava"}}

	first := DisconnectProvider(context.Background(), rc, req)
	require.True(t, first.Success)
	second := DisconnectProvider(context.Background(), rc, req)
	require.True(t, second.Success)
}

func TestValidateConfigurationBoundaries(t *testing.T) {
	rc := newTestContext()
	req := universal.Request{Parameters: map[string]any{"configuration": map[string]any{
		"resting_hr": 70.0, "max_hr": 190.0, "threshold_hr": 160.0, "vo2_max": 45.0, "ftp": 220.0,
	}}}
	resp := ValidateConfiguration(context.Background(), rc, req)
	require.True(t, resp.Success)
	var body struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &body))
	require.True(t, body.Valid)

	bad := universal.Request{Parameters: map[string]any{"configuration": map[string]any{
		"resting_hr": 180.0, "max_hr": 190.0,
	}}}
	resp2 := ValidateConfiguration(context.Background(), rc, bad)
	require.True(t, resp2.Success)
	var body2 struct {
		Valid      bool     `json:"valid"`
		Violations []string `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(resp2.Result, &body2))
	require.False(t, body2.Valid)
	require.NotEmpty(t, body2.Violations)
}

func TestCalculatePersonalizedZonesMonotonicity(t *testing.T) {
	rc := newTestContext()
	req := universal.Request{Parameters: map[string]any{"vo2_max": 50.0}}
	resp := CalculatePersonalizedZones(context.Background(), rc, req)
	require.True(t, resp.Success)

	var body struct {
		HRZones map[string]struct {
			MinBPM float64 `json:"min_bpm"`
			MaxBPM float64 `json:"max_bpm"`
		} `json:"hr_zones"`
		PaceZones map[string]struct {
			MinPace string `json:"min_pace"`
		} `json:"pace_zones"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &body))

	require.Less(t, body.HRZones["zone_1_easy"].MinBPM, body.HRZones["zone_5_repetition"].MinBPM)
	require.Less(t, body.HRZones["zone_1_easy"].MaxBPM, body.HRZones["zone_5_repetition"].MaxBPM)

	easyPace := parsePaceSeconds(t, body.PaceZones["zone_1_easy"].MinPace)
	repPace := parsePaceSeconds(t, body.PaceZones["zone_5_repetition"].MinPace)
	require.Greater(t, easyPace, repPace, "easy zone pace should be slower (larger) than repetition zone pace")
}

func parsePaceSeconds(t *testing.T, label string) int {
	t.Helper()
	var m, s int
	_, err := fmt.Sscanf(label, "%d:%d", &m, &s)
	require.NoError(t, err)
	return m*60 + s
}

func TestSetGoalAndTrackProgress(t *testing.T) {
	rc := newTestContext()
	userID := uuid.NewString()
	setReq := universal.Request{UserID: userID, Parameters: map[string]any{
		"goal_type": "distance",
		"target":    map[string]any{"distance_meters": 10000.0},
		"timeframe": "4_weeks",
	}}
	resp := SetGoal(context.Background(), rc, setReq)
	require.True(t, resp.Success)

	var body struct {
		GoalID string `json:"goal_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &body))
	require.NotEmpty(t, body.GoalID)

	trackReq := universal.Request{UserID: userID, Parameters: map[string]any{
		"goal_id":       body.GoalID,
		"current_value": 4200.0,
	}}
	trackResp := TrackProgress(context.Background(), rc, trackReq)
	require.True(t, trackResp.Success)
}

func TestCalculateDailyNutritionRequiresWeight(t *testing.T) {
	rc := newTestContext()
	resp := CalculateDailyNutrition(context.Background(), rc, universal.Request{Parameters: map[string]any{}})
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "missing required parameter")
}

func TestSuggestStretchesForActivity(t *testing.T) {
	rc := newTestContext()
	resp := SuggestStretchesForActivity(context.Background(), rc, universal.Request{Parameters: map[string]any{"sport_type": "Run"}})
	require.True(t, resp.Success)
}
