package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitnessmcp/toolserver/internal/apperr"
	"github.com/fitnessmcp/toolserver/internal/auth"
	"github.com/fitnessmcp/toolserver/internal/cache"
	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

// GetActivities is the canonical provider-backed list read.
func GetActivities(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	if !validUUID(req.UserID) {
		return universal.FailProtocol(apperr.InvalidParameters, "invalid parameters: user_id is not a valid UUID")
	}
	providerName := resolveProviderName(req.Parameters, rc)
	page := optionalInt(req.Parameters, "page", 1)
	limit := clampLimit(optionalInt(req.Parameters, "limit", rc.Config.MaxActivityLimit), rc.Config.MaxActivityLimit)

	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: page, PerPage: limit}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: page, PerPage: limit})
		if err != nil {
			return nil, 0, err
		}
		return acts, len(acts), nil
	})
}

// GetAthlete fetches the caller's profile from the connected provider.
func GetAthlete(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	if !validUUID(req.UserID) {
		return universal.FailProtocol(apperr.InvalidParameters, "invalid parameters: user_id is not a valid UUID")
	}
	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceAthleteProfile}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		a, err := p.GetAthlete(ctx)
		return a, -1, err
	})
}

// GetStats fetches aggregate activity statistics from the connected provider.
func GetStats(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	if !validUUID(req.UserID) {
		return universal.FailProtocol(apperr.InvalidParameters, "invalid parameters: user_id is not a valid UUID")
	}
	providerName := resolveProviderName(req.Parameters, rc)
	athleteID := optionalString(req.Parameters, "athlete_id", req.UserID)
	resource := cache.Resource{Kind: cache.ResourceStats, AthleteID: athleteID}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		s, err := p.GetStats(ctx, athleteID)
		return s, -1, err
	})
}

// GetActivityIntelligence computes a narrative summary for a single
// activity. The narrative text itself is out of algorithmic scope; this
// handler fixes the contract (fetch the activity, attach a fixed-shape
// summary) rather than any particular analysis model.
func GetActivityIntelligence(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	activityID, ok := requireString(req.Parameters, "activity_id")
	if !ok {
		return missingParam("activity_id")
	}
	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceActivity, AthleteID: activityID}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		a, err := p.GetActivity(ctx, activityID)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{
			"activity": a,
			"summary":  narrativeSummary(*a),
		}, -1, nil
	})
}

func narrativeSummary(a provider.Activity) string {
	km := a.DistanceMeters / 1000
	return fmt.Sprintf("%s covering %.1f km in %s", a.SportType, km, formatDuration(a.MovingTimeSeconds))
}

// AnalyzeActivity runs full analysis over a single activity. Per §9, this
// composes with the intelligence summary through the shared fetch helper
// rather than calling another handler directly.
func AnalyzeActivity(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	activityID, ok := requireString(req.Parameters, "activity_id")
	if !ok {
		return missingParam("activity_id")
	}
	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceActivity, AthleteID: activityID}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		a, err := p.GetActivity(ctx, activityID)
		if err != nil {
			return nil, 0, err
		}
		metrics := computeMetrics(*a)
		return map[string]any{
			"activity": a,
			"metrics":  metrics,
			"summary":  narrativeSummary(*a),
		}, -1, nil
	})
}

// Metrics is the derived-metrics payload shared by calculate_metrics and
// analyze_activity.
type Metrics struct {
	PaceMinPerKm    float64 `json:"pace_min_per_km"`
	SpeedKPH        float64 `json:"speed_kph"`
	ElevationPerKm  float64 `json:"elevation_gain_per_km"`
	IntensityFactor float64 `json:"intensity_factor,omitempty"`
}

func computeMetrics(a provider.Activity) Metrics {
	km := a.DistanceMeters / 1000
	m := Metrics{SpeedKPH: a.AverageSpeedMPS * 3.6}
	if km > 0 {
		m.PaceMinPerKm = float64(a.MovingTimeSeconds) / 60 / km
		m.ElevationPerKm = a.ElevationGainM / km
	}
	if a.AveragePowerWatts != nil {
		m.IntensityFactor = *a.AveragePowerWatts / 250.0
	}
	return m
}

// CalculateMetrics is a pure, synchronous computation over a caller-supplied
// activity payload; it never calls a provider.
func CalculateMetrics(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	raw, ok := req.Parameters["activity"]
	if !ok {
		return missingParam("activity")
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return universal.FailProtocol(apperr.InvalidParameters, "invalid parameters: activity must be an object")
	}
	a := provider.Activity{
		DistanceMeters:     optionalFloat(doc, "distance_meters", 0),
		MovingTimeSeconds:  optionalInt(doc, "moving_time_seconds", 0),
		ElevationGainM:     optionalFloat(doc, "elevation_gain_m", 0),
		AverageSpeedMPS:    optionalFloat(doc, "average_speed_mps", 0),
	}
	if watts := optionalFloat(doc, "average_power_watts", -1); watts >= 0 {
		a.AveragePowerWatts = &watts
	}
	return universal.Success(computeMetrics(a), nil)
}

// AnalyzePerformanceTrends fetches recent activities and reports a fixed-shape
// trend summary over them. The trend *algorithm* is out of scope; the
// summary compares average distance between the first (most recent) and
// second half of the window. Pace is not compared.
func AnalyzePerformanceTrends(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName := resolveProviderName(req.Parameters, rc)
	limit := clampLimit(optionalInt(req.Parameters, "limit", 20), rc.Config.MaxActivityLimit)
	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: 1, PerPage: limit}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: 1, PerPage: limit})
		if err != nil {
			return nil, 0, err
		}
		return trendSummary(acts), len(acts), nil
	})
}

func trendSummary(acts []provider.Activity) map[string]any {
	if len(acts) == 0 {
		return map[string]any{"trend": "insufficient_data"}
	}
	mid := len(acts) / 2
	avg := func(xs []provider.Activity) float64 {
		if len(xs) == 0 {
			return 0
		}
		var sum float64
		for _, a := range xs {
			sum += a.DistanceMeters
		}
		return sum / float64(len(xs))
	}
	recent, older := avg(acts[:mid]), avg(acts[mid:])
	trend := "stable"
	if older > 0 {
		if recent > older*1.05 {
			trend = "improving"
		} else if recent < older*0.95 {
			trend = "declining"
		}
	}
	return map[string]any{
		"trend":                 trend,
		"recent_avg_distance_m": recent,
		"older_avg_distance_m":  older,
		"sample_size":           len(acts),
	}
}

// CompareActivities fetches two activities and reports shared-metric deltas.
func CompareActivities(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	idA, ok := requireString(req.Parameters, "activity_id_a")
	if !ok {
		return missingParam("activity_id_a")
	}
	idB, ok := requireString(req.Parameters, "activity_id_b")
	if !ok {
		return missingParam("activity_id_b")
	}
	providerName := resolveProviderName(req.Parameters, rc)

	if cancelled(req) {
		return universal.FailProtocol(apperr.OperationCancelled, "operation cancelled")
	}
	p, err := rc.Auth.CreateAuthenticatedProvider(ctx, req.UserID, req.TenantID, providerName)
	if err != nil {
		return authErrorResponse(err, providerName, baseMetadata(req, providerName))
	}

	a, err := p.GetActivity(ctx, idA)
	if err != nil {
		if errors.Is(err, provider.ErrAuthenticationFailed) {
			return authErrorResponse(auth.ErrNoToken, providerName, baseMetadata(req, providerName))
		}
		return universal.FailWithMeta(fmt.Sprintf("%s request failed: %v", providerName, err), baseMetadata(req, providerName))
	}
	b, err := p.GetActivity(ctx, idB)
	if err != nil {
		if errors.Is(err, provider.ErrAuthenticationFailed) {
			return authErrorResponse(auth.ErrNoToken, providerName, baseMetadata(req, providerName))
		}
		return universal.FailWithMeta(fmt.Sprintf("%s request failed: %v", providerName, err), baseMetadata(req, providerName))
	}

	return universal.Success(map[string]any{
		"activity_a":        a,
		"activity_b":        b,
		"distance_delta_m":  a.DistanceMeters - b.DistanceMeters,
		"duration_delta_s":  a.MovingTimeSeconds - b.MovingTimeSeconds,
		"elevation_delta_m": a.ElevationGainM - b.ElevationGainM,
	}, baseMetadata(req, providerName))
}

// DetectPatterns fetches recent activities and reports a fixed-shape
// recurrence summary (most frequent sport type and per-sport counts). It does
// not report day-of-week timing.
func DetectPatterns(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName := resolveProviderName(req.Parameters, rc)
	limit := clampLimit(optionalInt(req.Parameters, "limit", 30), rc.Config.MaxActivityLimit)
	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: 1, PerPage: limit}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: 1, PerPage: limit})
		if err != nil {
			return nil, 0, err
		}
		return patternSummary(acts), len(acts), nil
	})
}

func patternSummary(acts []provider.Activity) map[string]any {
	counts := make(map[string]int)
	for _, a := range acts {
		counts[a.SportType]++
	}
	mostCommon, max := "", 0
	for sport, n := range counts {
		if n > max {
			mostCommon, max = sport, n
		}
	}
	return map[string]any{
		"most_common_sport": mostCommon,
		"sport_counts":      counts,
		"sample_size":       len(acts),
	}
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
