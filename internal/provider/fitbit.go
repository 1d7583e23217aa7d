package provider

import (
	"context"
	"fmt"
)

// fitbit is a deterministic stand-in for a Fitbit API client, mirroring
// strava's fixture strategy. Fitbit's real API models heart-rate/sleep data
// more richly than activities; for the capability surface this server
// exposes, the two providers are shape-compatible.
type fitbit struct {
	creds Credentials
}

func newFitbit() *fitbit { return &fitbit{} }

func (f *fitbit) SetCredentials(creds Credentials) { f.creds = creds }

func (f *fitbit) GetAthlete(ctx context.Context) (*Athlete, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkToken(f.creds.AccessToken); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("fitbit-%d", seed(f.creds.AccessToken))
	return &Athlete{
		ID:        id,
		Username:  "fitbit_" + id,
		FirstName: "Fitbit",
		LastName:  "User",
		CreatedAt: fixtureEpoch(),
	}, nil
}

func (f *fitbit) GetActivities(ctx context.Context, params ActivityListParams) ([]Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkToken(f.creds.AccessToken); err != nil {
		return nil, err
	}
	n := params.PerPage
	if n <= 0 {
		n = 10
	}
	base := seed(f.creds.AccessToken) + 1
	out := make([]Activity, 0, n)
	for i := 0; i < n; i++ {
		idx := uint64(params.Page*n + i)
		out = append(out, syntheticActivity("fitbit", base+idx, i))
	}
	return out, nil
}

func (f *fitbit) GetActivity(ctx context.Context, activityID string) (*Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkToken(f.creds.AccessToken); err != nil {
		return nil, err
	}
	a := syntheticActivity("fitbit", seed(activityID), 0)
	a.ID = activityID
	return &a, nil
}

func (f *fitbit) GetStats(ctx context.Context, athleteID string) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkToken(f.creds.AccessToken); err != nil {
		return nil, err
	}
	n := int(seed(athleteID)%25) + 5
	return &Stats{
		TotalActivities:    n,
		TotalDistanceM:     float64(n) * 6100,
		TotalMovingTimeSec: n * 2000,
		TotalElevationM:    float64(n) * 40,
	}, nil
}
