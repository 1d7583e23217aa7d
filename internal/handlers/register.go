package handlers

import (
	"github.com/fitnessmcp/toolserver/internal/tools"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
)

// RegisterAll wires every tools.Ident to its handler. It is the single place
// that must stay in sync with tools.All. Registering an id that has no
// tools.All entry, or registering one twice, panics in
// toolregistry.Registry.register at startup; a tools.All entry with no
// handler here is not detected and is simply absent from the registry.
func RegisterAll(r *toolregistry.Registry) {
	r.RegisterAsync(tools.GetActivities, GetActivities)
	r.RegisterAsync(tools.GetAthlete, GetAthlete)
	r.RegisterAsync(tools.GetStats, GetStats)
	r.RegisterAsync(tools.GetActivityIntelligence, GetActivityIntelligence)
	r.RegisterAsync(tools.AnalyzeActivity, AnalyzeActivity)
	r.RegisterSync(tools.CalculateMetrics, CalculateMetrics)
	r.RegisterAsync(tools.AnalyzePerformanceTrends, AnalyzePerformanceTrends)
	r.RegisterAsync(tools.CompareActivities, CompareActivities)
	r.RegisterAsync(tools.DetectPatterns, DetectPatterns)

	r.RegisterAsync(tools.SetGoal, SetGoal)
	r.RegisterAsync(tools.TrackProgress, TrackProgress)
	r.RegisterAsync(tools.SuggestGoals, SuggestGoals)
	r.RegisterAsync(tools.AnalyzeGoalFeasibility, AnalyzeGoalFeasibility)
	r.RegisterAsync(tools.GenerateRecommendations, GenerateRecommendations)
	r.RegisterAsync(tools.CalculateFitnessScore, CalculateFitnessScore)
	r.RegisterAsync(tools.PredictPerformance, PredictPerformance)
	r.RegisterAsync(tools.AnalyzeTrainingLoad, AnalyzeTrainingLoad)

	r.RegisterAsync(tools.ConnectProvider, ConnectProvider)
	r.RegisterAsync(tools.DisconnectProvider, DisconnectProvider)
	r.RegisterAsync(tools.GetConnectionStatus, GetConnectionStatus)

	r.RegisterSync(tools.GetConfigurationCatalog, GetConfigurationCatalog)
	r.RegisterSync(tools.GetConfigurationProfiles, GetConfigurationProfiles)
	r.RegisterAsync(tools.GetUserConfiguration, GetUserConfiguration)
	r.RegisterAsync(tools.UpdateUserConfiguration, UpdateUserConfiguration)
	r.RegisterSync(tools.CalculatePersonalizedZones, CalculatePersonalizedZones)
	r.RegisterSync(tools.ValidateConfiguration, ValidateConfiguration)

	r.RegisterAsync(tools.AnalyzeSleepQuality, AnalyzeSleepQuality)
	r.RegisterAsync(tools.CalculateRecoveryScore, CalculateRecoveryScore)
	r.RegisterAsync(tools.SuggestRestDay, SuggestRestDay)
	r.RegisterAsync(tools.TrackSleepTrends, TrackSleepTrends)
	r.RegisterAsync(tools.OptimizeSleepSchedule, OptimizeSleepSchedule)

	r.RegisterSync(tools.CalculateDailyNutrition, CalculateDailyNutrition)
	r.RegisterSync(tools.GetNutrientTiming, GetNutrientTiming)
	r.RegisterSync(tools.SearchFood, SearchFood)
	r.RegisterSync(tools.GetFoodDetails, GetFoodDetails)
	r.RegisterSync(tools.AnalyzeMealNutrition, AnalyzeMealNutrition)

	r.RegisterSync(tools.ListStretchingExercises, ListStretchingExercises)
	r.RegisterSync(tools.GetStretchingExercise, GetStretchingExercise)
	r.RegisterSync(tools.SuggestStretchesForActivity, SuggestStretchesForActivity)
	r.RegisterSync(tools.ListYogaPoses, ListYogaPoses)
	r.RegisterSync(tools.GetYogaPose, GetYogaPose)
	r.RegisterSync(tools.SuggestYogaSequence, SuggestYogaSequence)
}
