// Package provider defines the fitness-provider abstraction the tool
// registry dispatches against: a closed set of capabilities (get activities,
// get athlete, get stats) backed by a pluggable, name-keyed factory registry.
// Wire formats for any concrete provider's API are explicitly out of scope;
// implementations here are deterministic, fixture-backed stand-ins that
// satisfy the same interface a real HTTP-calling client would.
package provider

import "time"

type (
	// Athlete is the provider-neutral athlete profile DTO.
	Athlete struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		City      string    `json:"city,omitempty"`
		Country   string    `json:"country,omitempty"`
		Sex       string    `json:"sex,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Activity is the provider-neutral activity DTO. Fields follow the
	// original_source data model: distance in meters, time in seconds,
	// elevation in meters.
	Activity struct {
		ID                 string    `json:"id"`
		Name               string    `json:"name"`
		SportType          string    `json:"sport_type"`
		StartDate          time.Time `json:"start_date"`
		DistanceMeters     float64   `json:"distance_meters"`
		MovingTimeSeconds  int       `json:"moving_time_seconds"`
		ElapsedTimeSeconds int       `json:"elapsed_time_seconds"`
		ElevationGainM     float64   `json:"elevation_gain_m"`
		AverageHeartRate   *float64  `json:"average_heart_rate,omitempty"`
		MaxHeartRate       *float64  `json:"max_heart_rate,omitempty"`
		AveragePowerWatts  *float64  `json:"average_power_watts,omitempty"`
		AverageSpeedMPS    float64   `json:"average_speed_mps"`
		Calories           *float64  `json:"calories,omitempty"`
	}

	// Stats is an aggregate summary over a caller's activity history.
	Stats struct {
		TotalActivities    int     `json:"total_activities"`
		TotalDistanceM     float64 `json:"total_distance_meters"`
		TotalMovingTimeSec int     `json:"total_moving_time_seconds"`
		TotalElevationM    float64 `json:"total_elevation_gain_meters"`
	}

	// ActivityListParams bounds a get_activities call. PerPage is clamped by
	// the handler before it reaches a Provider implementation.
	ActivityListParams struct {
		Page    int
		PerPage int
		Before  *time.Time
		After   *time.Time
	}
)
