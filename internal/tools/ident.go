// Package tools defines the closed enumeration of tools the server offers
// and the compile-time metadata attached to each one. ToolId is the only
// type downstream code is allowed to branch on; no code outside the
// registry's name resolver parses a raw wire string into a tool identity.
package tools

// Ident is the strong type for a registered tool identifier. Using a
// dedicated type (rather than a bare string) keeps maps and function
// signatures from accidentally accepting an unresolved wire name.
type Ident string

const (
	GetActivities             Ident = "get_activities"
	GetAthlete                Ident = "get_athlete"
	GetStats                  Ident = "get_stats"
	GetActivityIntelligence   Ident = "get_activity_intelligence"
	AnalyzeActivity           Ident = "analyze_activity"
	CalculateMetrics          Ident = "calculate_metrics"
	AnalyzePerformanceTrends  Ident = "analyze_performance_trends"
	CompareActivities         Ident = "compare_activities"
	DetectPatterns            Ident = "detect_patterns"

	SetGoal                   Ident = "set_goal"
	TrackProgress             Ident = "track_progress"
	SuggestGoals              Ident = "suggest_goals"
	AnalyzeGoalFeasibility    Ident = "analyze_goal_feasibility"
	GenerateRecommendations   Ident = "generate_recommendations"
	CalculateFitnessScore     Ident = "calculate_fitness_score"
	PredictPerformance        Ident = "predict_performance"
	AnalyzeTrainingLoad       Ident = "analyze_training_load"

	ConnectProvider       Ident = "connect_provider"
	DisconnectProvider    Ident = "disconnect_provider"
	GetConnectionStatus   Ident = "get_connection_status"

	GetConfigurationCatalog    Ident = "get_configuration_catalog"
	GetConfigurationProfiles   Ident = "get_configuration_profiles"
	GetUserConfiguration       Ident = "get_user_configuration"
	UpdateUserConfiguration    Ident = "update_user_configuration"
	CalculatePersonalizedZones Ident = "calculate_personalized_zones"
	ValidateConfiguration      Ident = "validate_configuration"

	AnalyzeSleepQuality    Ident = "analyze_sleep_quality"
	CalculateRecoveryScore Ident = "calculate_recovery_score"
	SuggestRestDay         Ident = "suggest_rest_day"
	TrackSleepTrends       Ident = "track_sleep_trends"
	OptimizeSleepSchedule  Ident = "optimize_sleep_schedule"

	CalculateDailyNutrition Ident = "calculate_daily_nutrition"
	GetNutrientTiming       Ident = "get_nutrient_timing"
	SearchFood              Ident = "search_food"
	GetFoodDetails          Ident = "get_food_details"
	AnalyzeMealNutrition    Ident = "analyze_meal_nutrition"

	ListStretchingExercises      Ident = "list_stretching_exercises"
	GetStretchingExercise        Ident = "get_stretching_exercise"
	SuggestStretchesForActivity  Ident = "suggest_stretches_for_activity"
	ListYogaPoses                Ident = "list_yoga_poses"
	GetYogaPose                  Ident = "get_yoga_pose"
	SuggestYogaSequence          Ident = "suggest_yoga_sequence"
)

// Meta is the compile-time metadata attached to every ToolId.
type Meta struct {
	ID            Ident
	Description   string
	RequiresAuth  bool
	IsAsync       bool
}

// All enumerates every registered tool in a stable order, used to answer
// tools/list and equivalent introspection requests.
var All = []Meta{
	{GetActivities, "List the caller's activities from a connected fitness provider.", true, true},
	{GetAthlete, "Fetch the caller's athlete profile from a connected fitness provider.", true, true},
	{GetStats, "Fetch aggregate activity statistics from a connected fitness provider.", true, true},
	{GetActivityIntelligence, "Compute a narrative intelligence summary for a single activity.", true, true},
	{AnalyzeActivity, "Run full analysis over a single activity.", true, true},
	{CalculateMetrics, "Compute derived training metrics for a given activity payload.", false, false},
	{AnalyzePerformanceTrends, "Analyze performance trends across recent activities.", true, true},
	{CompareActivities, "Compare two activities on shared metrics.", true, true},
	{DetectPatterns, "Detect recurring patterns across recent activities.", true, true},

	{SetGoal, "Create a new training goal for the caller.", false, true},
	{TrackProgress, "Report progress against an existing goal.", false, true},
	{SuggestGoals, "Suggest candidate goals based on recent activity history.", true, true},
	{AnalyzeGoalFeasibility, "Assess whether a goal is realistic given recent training load.", true, true},
	{GenerateRecommendations, "Generate training recommendations from recent activity history.", true, true},
	{CalculateFitnessScore, "Compute an aggregate fitness score from recent activity history.", true, true},
	{PredictPerformance, "Predict a future performance outcome from recent training history.", true, true},
	{AnalyzeTrainingLoad, "Analyze acute/chronic training load balance.", true, true},

	{ConnectProvider, "Start an OAuth2 connection flow for a fitness provider.", false, true},
	{DisconnectProvider, "Remove a stored OAuth2 connection for a fitness provider.", false, true},
	{GetConnectionStatus, "Report connection status for one or all fitness providers.", false, true},

	{GetConfigurationCatalog, "List configurable parameters and their valid ranges.", false, false},
	{GetConfigurationProfiles, "List named configuration presets.", false, false},
	{GetUserConfiguration, "Fetch the caller's saved configuration.", false, true},
	{UpdateUserConfiguration, "Persist the caller's configuration.", false, true},
	{CalculatePersonalizedZones, "Compute personalized heart-rate, pace, and power zones.", false, false},
	{ValidateConfiguration, "Validate a configuration document against known constraints.", false, false},

	{AnalyzeSleepQuality, "Analyze sleep quality for the most recent night.", true, true},
	{CalculateRecoveryScore, "Compute a recovery score from last night's sleep.", true, true},
	{SuggestRestDay, "Recommend whether the caller should rest today.", true, true},
	{TrackSleepTrends, "Summarize sleep trends over a recent window.", true, true},
	{OptimizeSleepSchedule, "Suggest a sleep schedule for a target wake time and sleep duration.", true, true},

	{CalculateDailyNutrition, "Compute recommended daily nutrition targets.", false, false},
	{GetNutrientTiming, "Suggest nutrient timing around a workout.", false, false},
	{SearchFood, "Search the food catalog by name.", false, false},
	{GetFoodDetails, "Fetch nutrition details for a catalog food item.", false, false},
	{AnalyzeMealNutrition, "Analyze the nutrition content of a described meal.", false, false},

	{ListStretchingExercises, "List the stretching exercise catalog.", false, false},
	{GetStretchingExercise, "Fetch a single stretching exercise by id.", false, false},
	{SuggestStretchesForActivity, "Suggest stretches appropriate for a sport type.", false, false},
	{ListYogaPoses, "List the yoga pose catalog.", false, false},
	{GetYogaPose, "Fetch a single yoga pose by id.", false, false},
	{SuggestYogaSequence, "Suggest a yoga sequence for a goal.", false, false},
}

var byID = func() map[Ident]Meta {
	m := make(map[Ident]Meta, len(All))
	for _, t := range All {
		m[t.ID] = t
	}
	return m
}()

// Lookup returns the metadata for id, if registered.
func Lookup(id Ident) (Meta, bool) {
	m, ok := byID[id]
	return m, ok
}

// String returns the wire name of the identifier.
func (i Ident) String() string { return string(i) }
