package handlers

import (
	"context"
	"fmt"

	"github.com/fitnessmcp/toolserver/internal/appstore"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

// configRange describes the valid bounds for one validate_configuration
// field, per spec §8.
type configRange struct {
	Min, Max float64
}

var configRanges = map[string]configRange{
	"max_hr":      {120, 230},
	"resting_hr":  {30, 100},
	"threshold_hr": {100, 200},
	"vo2_max":     {20, 90},
	"ftp":         {50, 500},
}

// GetConfigurationCatalog lists configurable parameters and their valid
// ranges, a pure synchronous catalog lookup.
func GetConfigurationCatalog(_ context.Context, _ *toolregistry.Context, _ universal.Request) universal.Response {
	catalog := make(map[string]any, len(configRanges))
	for field, r := range configRanges {
		catalog[field] = map[string]float64{"min": r.Min, "max": r.Max}
	}
	return universal.Success(catalog, nil)
}

// configProfiles maps each preset name to its configuration values.
var configProfiles = map[string]map[string]float64{
	"beginner":     {"resting_hr": 70, "max_hr": 185, "threshold_hr": 160, "vo2_max": 35, "ftp": 150},
	"intermediate": {"resting_hr": 60, "max_hr": 190, "threshold_hr": 170, "vo2_max": 45, "ftp": 220},
	"advanced":     {"resting_hr": 48, "max_hr": 195, "threshold_hr": 180, "vo2_max": 60, "ftp": 300},
}

// GetConfigurationProfiles lists named configuration presets.
func GetConfigurationProfiles(_ context.Context, _ *toolregistry.Context, _ universal.Request) universal.Response {
	return universal.Success(configProfiles, nil)
}

// GetUserConfiguration fetches the caller's saved configuration document.
func GetUserConfiguration(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	cfg, err := rc.AppStore.GetUserConfiguration(ctx, req.UserID)
	if err != nil {
		return universal.Fail(fmt.Sprintf("failed to load configuration: %v", err))
	}
	if cfg == nil {
		return universal.Success(map[string]any{}, baseMetadata(req, ""))
	}
	return universal.Success(cfg.Document, baseMetadata(req, ""))
}

// UpdateUserConfiguration validates then persists the caller's configuration
// document.
func UpdateUserConfiguration(ctx context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	doc, ok := req.Parameters["configuration"].(map[string]any)
	if !ok {
		return missingParam("configuration")
	}
	if violations := validateConfigDocument(doc); len(violations) > 0 {
		return universal.FailWithMeta("configuration validation failed: "+violations[0], map[string]any{"violations": violations})
	}
	if err := rc.AppStore.PutUserConfiguration(ctx, appstore.Configuration{UserID: req.UserID, Document: doc}); err != nil {
		return universal.Fail(fmt.Sprintf("failed to persist configuration: %v", err))
	}
	return universal.Success(map[string]any{"saved": true}, baseMetadata(req, ""))
}

// ValidateConfiguration performs a structural check plus the range checks
// from spec §8 against a caller-supplied configuration document, without
// persisting anything.
func ValidateConfiguration(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	doc, ok := req.Parameters["configuration"].(map[string]any)
	if !ok {
		return missingParam("configuration")
	}
	violations := validateConfigDocument(doc)
	if len(violations) > 0 {
		return universal.Success(map[string]any{"valid": false, "violations": violations}, nil)
	}
	return universal.Success(map[string]any{"valid": true, "violations": []string{}}, nil)
}

func validateConfigDocument(doc map[string]any) []string {
	var violations []string
	for field, r := range configRanges {
		v, present := doc[field]
		if !present {
			continue
		}
		f, ok := v.(float64)
		if !ok {
			violations = append(violations, fmt.Sprintf("%s must be numeric", field))
			continue
		}
		if f < r.Min || f > r.Max {
			violations = append(violations, fmt.Sprintf("%s must be between %g and %g", field, r.Min, r.Max))
		}
	}

	maxHR, hasMax := doc["max_hr"].(float64)
	restingHR, hasResting := doc["resting_hr"].(float64)
	thresholdHR, hasThreshold := doc["threshold_hr"].(float64)

	if hasResting && hasMax && restingHR >= maxHR {
		violations = append(violations, "resting_hr must be less than max_hr")
	}
	if hasThreshold && hasMax && thresholdHR >= maxHR {
		violations = append(violations, "threshold_hr must be less than max_hr")
	}
	if hasResting && hasThreshold && restingHR >= thresholdHR {
		violations = append(violations, "resting_hr must be less than threshold_hr")
	}
	return violations
}
