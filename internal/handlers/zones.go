package handlers

import (
	"context"
	"fmt"

	"github.com/fitnessmcp/toolserver/internal/apperr"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

// hrZoneFractions gives the [min, max] fraction-of-heart-rate-reserve bounds
// per zone, per spec §4.7's fixed relation table.
var hrZoneFractions = [5][2]float64{
	{0.50, 0.60},
	{0.60, 0.70},
	{0.70, 0.80},
	{0.80, 0.90},
	{0.90, 1.00},
}

// paceZoneCenters gives the approximate percentage of VO2max velocity each
// pace zone targets, per spec §4.7.
var paceZoneCenters = [5]float64{0.70, 0.82, 0.88, 0.98, 1.10}

// paceZoneBand is the fractional width around each center used to derive a
// min/max pace range; it is not part of the spec's fixed table, only a
// presentation choice for reporting a range instead of one point estimate.
const paceZoneBand = 0.04

// powerZoneFractions gives the [min, max] fraction-of-FTP bounds per zone.
var powerZoneFractions = [5][2]float64{
	{0.00, 0.55},
	{0.55, 0.75},
	{0.75, 0.90},
	{0.90, 1.05},
	{1.05, 1.20},
}

var zoneNames = [5]string{"zone_1_easy", "zone_2_marathon", "zone_3_threshold", "zone_4_interval", "zone_5_repetition"}

// CalculatePersonalizedZones is a pure computation from VO2max plus optional
// resting HR, max HR, and FTP. It performs no I/O.
func CalculatePersonalizedZones(_ context.Context, rc *toolregistry.Context, req universal.Request) universal.Response {
	vo2Max, ok := req.Parameters["vo2_max"]
	if !ok {
		return missingParam("vo2_max")
	}
	vo2, ok := vo2Max.(float64)
	if !ok {
		return universal.FailProtocol(apperr.InvalidParameters, "invalid parameters: vo2_max must be numeric")
	}

	defaultRestingHR, defaultMaxHR, defaultFTP := 60.0, 190.0, 200.0
	if rc != nil {
		if rc.Config.DefaultRestingHR > 0 {
			defaultRestingHR = float64(rc.Config.DefaultRestingHR)
		}
		if rc.Config.DefaultMaxHR > 0 {
			defaultMaxHR = float64(rc.Config.DefaultMaxHR)
		}
		if rc.Config.DefaultFTP > 0 {
			defaultFTP = float64(rc.Config.DefaultFTP)
		}
	}

	restingHR := optionalFloat(req.Parameters, "resting_hr", defaultRestingHR)
	maxHR := optionalFloat(req.Parameters, "max_hr", defaultMaxHR)
	ftp := optionalFloat(req.Parameters, "ftp", defaultFTP)

	hrReserve := maxHR - restingHR
	velocity := (vo2 + 4.60) / 0.182258 // metres per minute, VDOT-style

	hrZones := make(map[string]any, 5)
	paceZones := make(map[string]any, 5)
	powerZones := make(map[string]any, 5)

	for i := 0; i < 5; i++ {
		name := zoneNames[i]

		lo, hi := hrZoneFractions[i][0], hrZoneFractions[i][1]
		hrZones[name] = map[string]any{
			"min_bpm": restingHR + lo*hrReserve,
			"max_bpm": restingHR + hi*hrReserve,
		}

		center := paceZoneCenters[i]
		lowPct, highPct := center*(1-paceZoneBand), center*(1+paceZoneBand)
		paceZones[name] = map[string]any{
			"min_pace": paceLabel(velocity * highPct),
			"max_pace": paceLabel(velocity * lowPct),
		}

		plo, phi := powerZoneFractions[i][0], powerZoneFractions[i][1]
		powerZones[name] = map[string]any{
			"min_watts": plo * ftp,
			"max_watts": phi * ftp,
		}
	}

	return universal.Success(map[string]any{
		"hr_zones":            hrZones,
		"pace_zones":          paceZones,
		"power_zones":         powerZones,
		"vo2max_velocity_mpm": velocity,
	}, nil)
}

// paceLabel converts a velocity in metres per minute to a "mm:ss" pace per
// kilometre label.
func paceLabel(velocityMPM float64) string {
	if velocityMPM <= 0 {
		return "0:00"
	}
	minPerKm := 1000 / velocityMPM
	totalSeconds := int(minPerKm*60 + 0.5)
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
