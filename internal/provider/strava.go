package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"
)

// strava is a deterministic stand-in for a Strava API client. It never makes
// a network call: every method derives fixture data from the access token
// and requested id so the same inputs always produce the same outputs,
// which keeps handler and cache tests reproducible without mocking an HTTP
// server. A production deployment would replace this file with a client
// against the real Strava REST API; that wire format is out of scope here.
type strava struct {
	creds Credentials
}

func newStrava() *strava { return &strava{} }

func (s *strava) SetCredentials(creds Credentials) { s.creds = creds }

func (s *strava) athleteID() string {
	return fmt.Sprintf("strava-%d", seed(s.creds.AccessToken))
}

func (s *strava) GetAthlete(ctx context.Context) (*Athlete, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkToken(s.creds.AccessToken); err != nil {
		return nil, err
	}
	id := s.athleteID()
	return &Athlete{
		ID:        id,
		Username:  "strava_" + id,
		FirstName: "Strava",
		LastName:  "Athlete",
		City:      "Boulder",
		Country:   "USA",
		Sex:       "",
		CreatedAt: fixtureEpoch(),
	}, nil
}

func (s *strava) GetActivities(ctx context.Context, params ActivityListParams) ([]Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkToken(s.creds.AccessToken); err != nil {
		return nil, err
	}
	n := params.PerPage
	if n <= 0 {
		n = 10
	}
	out := make([]Activity, 0, n)
	base := seed(s.creds.AccessToken)
	for i := 0; i < n; i++ {
		idx := uint64(params.Page*n + i)
		out = append(out, syntheticActivity("strava", base+idx, i))
	}
	return out, nil
}

func (s *strava) GetActivity(ctx context.Context, activityID string) (*Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkToken(s.creds.AccessToken); err != nil {
		return nil, err
	}
	a := syntheticActivity("strava", seed(activityID), 0)
	a.ID = activityID
	return &a, nil
}

func (s *strava) GetStats(ctx context.Context, athleteID string) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkToken(s.creds.AccessToken); err != nil {
		return nil, err
	}
	n := int(seed(athleteID)%40) + 10
	return &Stats{
		TotalActivities:    n,
		TotalDistanceM:     float64(n) * 8200,
		TotalMovingTimeSec: n * 2400,
		TotalElevationM:    float64(n) * 65,
	}, nil
}

// seed hashes s into a stable, non-cryptographic 64-bit value used to derive
// fixture data deterministically.
func seed(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func fixtureEpoch() time.Time {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
}

// syntheticActivity builds a deterministic Activity from a seed value. It is
// shared by every provider implementation so fixture shapes stay consistent
// across providers.
func syntheticActivity(provider string, s uint64, offsetDays int) Activity {
	hr := 140.0 + float64(s%30)
	power := 180.0 + float64(s%120)
	cal := 400.0 + float64(s%600)
	return Activity{
		ID:                 fmt.Sprintf("%s-activity-%d", provider, s),
		Name:               fmt.Sprintf("Workout %d", s%1000),
		SportType:          sportTypeFor(s),
		StartDate:          fixtureEpoch().AddDate(0, 0, -offsetDays),
		DistanceMeters:     float64(3000 + s%15000),
		MovingTimeSeconds:  int(900 + s%5400),
		ElapsedTimeSeconds: int(1000 + s%6000),
		ElevationGainM:     float64(s % 500),
		AverageHeartRate:   &hr,
		MaxHeartRate:       floatPtr(hr + 25),
		AveragePowerWatts:  &power,
		AverageSpeedMPS:    float64(2+s%4) + 0.5,
		Calories:           &cal,
	}
}

func sportTypeFor(s uint64) string {
	kinds := []string{"Run", "Ride", "Swim", "Hike", "WeightTraining"}
	return kinds[s%uint64(len(kinds))]
}

func floatPtr(f float64) *float64 { return &f }
