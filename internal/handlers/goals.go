package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/fitnessmcp/toolserver/internal/appstore"
	"github.com/fitnessmcp/toolserver/internal/cache"
	"github.com/fitnessmcp/toolserver/internal/provider"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

func appstoreGoal(userID, goalType string, target map[string]any, timeframe string) appstore.Goal {
	return appstore.Goal{
		UserID:    userID,
		GoalType:  goalType,
		Target:    target,
		Timeframe: timeframe,
		CreatedAt: time.Now(),
	}
}

// validGoalTypes mirrors the goal vocabulary the original data model
// supports: distance, time, frequency, and weight-style targets.
var validGoalTypes = map[string]bool{
	"distance":  true,
	"time":      true,
	"frequency": true,
	"weight":    true,
}

// SetGoal validates a goal document and persists it keyed by user.
func SetGoal(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	goalType, ok := requireString(req.Parameters, "goal_type")
	if !ok {
		return missingParam("goal_type")
	}
	if !validGoalTypes[goalType] {
		return universal.Fail(fmt.Sprintf("invalid goal_type: %s", goalType))
	}
	target, ok := req.Parameters["target"].(map[string]any)
	if !ok || len(target) == 0 {
		return missingParam("target")
	}
	timeframe, ok := requireString(req.Parameters, "timeframe")
	if !ok {
		return missingParam("timeframe")
	}

	id, err := rc.AppStore.CreateGoal(ctx, appstoreGoal(req.UserID, goalType, target, timeframe))
	if err != nil {
		return universal.Fail(fmt.Sprintf("failed to persist goal: %v", err))
	}
	return universal.Success(map[string]any{"goal_id": id}, baseMetadata(req, ""))
}

// TrackProgress reports progress against an existing goal. The comparison
// against the stored target is a fixed pass-through; business interpretation
// of "progress" for each goal type is out of scope.
func TrackProgress(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	goalID, ok := requireString(req.Parameters, "goal_id")
	if !ok {
		return missingParam("goal_id")
	}
	progressValue, ok := req.Parameters["current_value"]
	if !ok {
		return missingParam("current_value")
	}

	goal, err := rc.AppStore.GetGoal(ctx, req.UserID, goalID)
	if err != nil {
		return universal.Fail(fmt.Sprintf("failed to load goal: %v", err))
	}
	if goal == nil {
		return universal.Fail(fmt.Sprintf("goal not found: %s", goalID))
	}

	return universal.Success(map[string]any{
		"goal_id":       goalID,
		"goal_type":     goal.GoalType,
		"target":        goal.Target,
		"current_value": progressValue,
	}, baseMetadata(req, ""))
}

// SuggestGoals fetches recent activity history and proposes candidate goals
// from it. The proposal algorithm is out of scope; this fixes a deterministic
// contract (distance goal at 110% of the recent average).
func SuggestGoals(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: 1, PerPage: 20}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: 1, PerPage: 20})
		if err != nil {
			return nil, 0, err
		}
		avg := averageDistance(acts)
		return map[string]any{
			"suggestions": []map[string]any{
				{"goal_type": "distance", "target": map[string]any{"distance_meters": avg * 1.1}, "timeframe": "4_weeks"},
			},
		}, len(acts), nil
	})
}

func averageDistance(acts []provider.Activity) float64 {
	if len(acts) == 0 {
		return 5000
	}
	var sum float64
	for _, a := range acts {
		sum += a.DistanceMeters
	}
	return sum / float64(len(acts))
}

// AnalyzeGoalFeasibility compares a stored goal's target against the
// caller's recent training volume.
func AnalyzeGoalFeasibility(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	goalID, ok := requireString(req.Parameters, "goal_id")
	if !ok {
		return missingParam("goal_id")
	}
	goal, err := rc.AppStore.GetGoal(ctx, req.UserID, goalID)
	if err != nil {
		return universal.Fail(fmt.Sprintf("failed to load goal: %v", err))
	}
	if goal == nil {
		return universal.Fail(fmt.Sprintf("goal not found: %s", goalID))
	}

	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: 1, PerPage: 20}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: 1, PerPage: 20})
		if err != nil {
			return nil, 0, err
		}
		avg := averageDistance(acts)
		targetDistance := optionalFloat(goal.Target, "distance_meters", avg)
		ratio := targetDistance / avg
		feasible := ratio <= 1.5
		return map[string]any{
			"goal_id":  goalID,
			"feasible": feasible,
			"ratio_to_recent_average": ratio,
		}, len(acts), nil
	})
}

// GenerateRecommendations fetches recent activity history and produces a
// fixed-shape list of training recommendations.
func GenerateRecommendations(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: 1, PerPage: 20}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: 1, PerPage: 20})
		if err != nil {
			return nil, 0, err
		}
		recs := []string{}
		if len(acts) < 3 {
			recs = append(recs, "Increase training frequency to at least 3 sessions per week.")
		}
		if hasHighIntensityOveruse(acts) {
			recs = append(recs, "Add an easy recovery day between high-intensity sessions.")
		}
		if len(recs) == 0 {
			recs = append(recs, "Current training load looks balanced; maintain consistency.")
		}
		return map[string]any{"recommendations": recs}, len(acts), nil
	})
}

func hasHighIntensityOveruse(acts []provider.Activity) bool {
	consecutive := 0
	for _, a := range acts {
		if a.AverageHeartRate != nil && *a.AverageHeartRate > 165 {
			consecutive++
			if consecutive >= 3 {
				return true
			}
		} else {
			consecutive = 0
		}
	}
	return false
}

// CalculateFitnessScore computes an aggregate score from recent distance
// volume; consistency is not considered. The scoring formula is out of
// algorithmic scope; the handler fixes a deterministic placeholder in [0, 100].
func CalculateFitnessScore(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: 1, PerPage: 30}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: 1, PerPage: 30})
		if err != nil {
			return nil, 0, err
		}
		score := fitnessScore(acts)
		return map[string]any{"fitness_score": score}, len(acts), nil
	})
}

func fitnessScore(acts []provider.Activity) float64 {
	volume := 0.0
	for _, a := range acts {
		volume += a.DistanceMeters
	}
	score := 40 + volume/5000
	if score > 100 {
		score = 100
	}
	return score
}

// PredictPerformance extrapolates a future outcome from recent training
// history using a fixed, linear placeholder model.
func PredictPerformance(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: 1, PerPage: 30}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: 1, PerPage: 30})
		if err != nil {
			return nil, 0, err
		}
		avg := averageDistance(acts)
		return map[string]any{
			"predicted_next_long_run_m": avg * 1.08,
			"confidence":                confidenceFor(len(acts)),
		}, len(acts), nil
	})
}

func confidenceFor(sampleSize int) string {
	switch {
	case sampleSize >= 20:
		return "high"
	case sampleSize >= 8:
		return "medium"
	default:
		return "low"
	}
}

// AnalyzeTrainingLoad computes an acute (7-day) vs chronic (28-day) load
// ratio, a standard fixed relation even though the underlying load metric
// itself is out of algorithmic scope.
func AnalyzeTrainingLoad(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	providerName := resolveProviderName(req.Parameters, rc)
	resource := cache.Resource{Kind: cache.ResourceActivityList, Page: 1, PerPage: 60}
	return cachedRead(ctx, rc, req, providerName, resource, func(p provider.Provider) (any, int, error) {
		acts, err := p.GetActivities(ctx, provider.ActivityListParams{Page: 1, PerPage: 60})
		if err != nil {
			return nil, 0, err
		}
		acute, chronic := loadWindow(acts, 7), loadWindow(acts, 28)
		ratio := 1.0
		if chronic > 0 {
			ratio = acute / chronic
		}
		return map[string]any{
			"acute_load":    acute,
			"chronic_load":  chronic,
			"acwr":          ratio,
			"interpretation": acwrInterpretation(ratio),
		}, len(acts), nil
	})
}

func loadWindow(acts []provider.Activity, days int) float64 {
	cutoff := time.Now().AddDate(0, 0, -days)
	var total float64
	for _, a := range acts {
		if a.StartDate.After(cutoff) {
			total += float64(a.MovingTimeSeconds) / 60
		}
	}
	return total / float64(days)
}

func acwrInterpretation(ratio float64) string {
	switch {
	case ratio > 1.5:
		return "high_injury_risk"
	case ratio < 0.8:
		return "undertraining"
	default:
		return "balanced"
	}
}
