// Sleep-domain handlers return a deterministic summary; the scoring
// algorithms themselves are out of scope. They resolve no provider and make
// no provider call: sleep data comes from a local fixture keyed by user,
// using the same seed-based approach as provider.strava/provider.fitbit's
// activity fixtures.
package handlers

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/fitnessmcp/toolserver/internal/apperr"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

// sleepFixture derives a deterministic nightly sleep record for (userID,
// dayOffset) so repeated calls for the same user return stable data without
// requiring a real sleep-tracking provider integration.
type sleepFixture struct {
	DurationMinutes int
	DeepMinutes     int
	REMMinutes      int
	Awakenings      int
	Efficiency      float64
}

func fixtureFor(userID string, dayOffset int) sleepFixture {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID))
	s := h.Sum64() + uint64(dayOffset)
	duration := 360 + int(s%150)
	return sleepFixture{
		DurationMinutes: duration,
		DeepMinutes:     duration / 5,
		REMMinutes:      duration / 4,
		Awakenings:      int(s % 4),
		Efficiency:      0.80 + float64(s%15)/100,
	}
}

// AnalyzeSleepQuality reports a fixed-shape sleep quality summary for the
// most recent night.
func AnalyzeSleepQuality(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	f := fixtureFor(req.UserID, 0)
	quality := "good"
	if f.Efficiency < 0.85 || f.Awakenings >= 3 {
		quality = "poor"
	}
	return universal.Success(map[string]any{
		"duration_minutes": f.DurationMinutes,
		"deep_minutes":     f.DeepMinutes,
		"rem_minutes":      f.REMMinutes,
		"awakenings":       f.Awakenings,
		"efficiency":       f.Efficiency,
		"quality":          quality,
	}, baseMetadata(req, ""))
}

// CalculateRecoveryScore turns last night's sleep efficiency and awakenings
// into a fixed-shape score in [0, 100]. Training load is not considered.
func CalculateRecoveryScore(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	f := fixtureFor(req.UserID, 0)
	score := 40 + f.Efficiency*60 - float64(f.Awakenings)*3
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return universal.Success(map[string]any{"recovery_score": score}, baseMetadata(req, ""))
}

// SuggestRestDay recommends whether the caller should rest today based on
// the recovery score threshold.
func SuggestRestDay(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	f := fixtureFor(req.UserID, 0)
	score := 40 + f.Efficiency*60 - float64(f.Awakenings)*3
	rest := score < 55
	return universal.Success(map[string]any{"suggest_rest": rest, "recovery_score": score}, baseMetadata(req, ""))
}

// TrackSleepTrends summarizes sleep over a recent window of nights.
func TrackSleepTrends(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	nights := optionalInt(req.Parameters, "nights", 7)
	if nights <= 0 {
		nights = 7
	}
	if nights > 90 {
		nights = 90
	}
	var totalDuration, totalEfficiency float64
	records := make([]map[string]any, 0, nights)
	for i := 0; i < nights; i++ {
		f := fixtureFor(req.UserID, i)
		totalDuration += float64(f.DurationMinutes)
		totalEfficiency += f.Efficiency
		records = append(records, map[string]any{
			"date":             time.Now().AddDate(0, 0, -i).Format("2006-01-02"),
			"duration_minutes": f.DurationMinutes,
			"efficiency":       f.Efficiency,
		})
	}
	return universal.Success(map[string]any{
		"nights":              records,
		"avg_duration_minutes": totalDuration / float64(nights),
		"avg_efficiency":      totalEfficiency / float64(nights),
	}, baseMetadata(req, ""))
}

// OptimizeSleepSchedule suggests a bed/wake window from an optional wake-up
// time and target sleep duration. Training load is not considered.
func OptimizeSleepSchedule(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	wakeTime := optionalString(req.Parameters, "target_wake_time", "06:30")
	targetDuration := optionalInt(req.Parameters, "target_duration_minutes", 480)
	wake, err := time.Parse("15:04", wakeTime)
	if err != nil {
		return universal.FailProtocol(apperr.InvalidParameters, "invalid parameters: target_wake_time must be HH:MM")
	}
	bed := wake.Add(-time.Duration(targetDuration) * time.Minute)
	return universal.Success(map[string]any{
		"suggested_bedtime":  bed.Format("15:04"),
		"suggested_wake_time": wakeTime,
		"target_duration_minutes": targetDuration,
	}, baseMetadata(req, ""))
}
