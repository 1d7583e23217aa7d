// Mobility-domain handlers (stretching, yoga) serve a small seeded,
// read-only catalog, per spec §1's "mobility catalogs" out-of-scope note on
// algorithms — the catalog contract itself is in scope.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

type stretch struct {
	ID          string
	Name        string
	TargetArea  string
	ForSports   []string
}

var stretchCatalog = []stretch{
	{"hip_flexor_lunge", "Kneeling Hip Flexor Stretch", "hips", []string{"Run", "Hike"}},
	{"calf_wall_stretch", "Wall Calf Stretch", "calves", []string{"Run", "Hike"}},
	{"shoulder_cross_body", "Cross-Body Shoulder Stretch", "shoulders", []string{"Swim", "Ride"}},
	{"quad_standing", "Standing Quad Stretch", "quads", []string{"Run", "Ride"}},
	{"lower_back_childs_pose", "Child's Pose", "lower_back", []string{"WeightTraining", "Ride"}},
}

type yogaPose struct {
	ID       string
	Name     string
	Focus    string
}

var yogaCatalog = []yogaPose{
	{"downward_dog", "Downward-Facing Dog", "full_body"},
	{"pigeon", "Pigeon Pose", "hips"},
	{"warrior_two", "Warrior II", "legs_balance"},
	{"cat_cow", "Cat-Cow", "spine_mobility"},
	{"legs_up_wall", "Legs Up the Wall", "recovery"},
}

// ListStretchingExercises lists the full stretching catalog.
func ListStretchingExercises(_ context.Context, _ *toolregistry.Context, _ universal.Request) universal.Response {
	return universal.Success(map[string]any{"exercises": stretchCatalog}, nil)
}

// GetStretchingExercise fetches a single stretching exercise by id.
func GetStretchingExercise(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	id, ok := requireString(req.Parameters, "exercise_id")
	if !ok {
		return missingParam("exercise_id")
	}
	for _, s := range stretchCatalog {
		if s.ID == id {
			return universal.Success(s, nil)
		}
	}
	return universal.Fail(fmt.Sprintf("stretching exercise not found: %s", id))
}

// SuggestStretchesForActivity suggests catalog stretches appropriate for a
// sport type.
func SuggestStretchesForActivity(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	sport, ok := requireString(req.Parameters, "sport_type")
	if !ok {
		return missingParam("sport_type")
	}
	var matches []stretch
	for _, s := range stretchCatalog {
		for _, sp := range s.ForSports {
			if strings.EqualFold(sp, sport) {
				matches = append(matches, s)
				break
			}
		}
	}
	return universal.Success(map[string]any{"suggestions": matches}, nil)
}

// ListYogaPoses lists the full yoga pose catalog.
func ListYogaPoses(_ context.Context, _ *toolregistry.Context, _ universal.Request) universal.Response {
	return universal.Success(map[string]any{"poses": yogaCatalog}, nil)
}

// GetYogaPose fetches a single yoga pose by id.
func GetYogaPose(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	id, ok := requireString(req.Parameters, "pose_id")
	if !ok {
		return missingParam("pose_id")
	}
	for _, p := range yogaCatalog {
		if p.ID == id {
			return universal.Success(p, nil)
		}
	}
	return universal.Fail(fmt.Sprintf("yoga pose not found: %s", id))
}

// SuggestYogaSequence suggests a fixed sequence of catalog poses for a named
// goal ("recovery", "flexibility", "balance").
func SuggestYogaSequence(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	goal := optionalString(req.Parameters, "goal", "recovery")
	var focus string
	switch goal {
	case "flexibility":
		focus = "hips"
	case "balance":
		focus = "legs_balance"
	default:
		focus = "recovery"
	}
	sequence := make([]yogaPose, 0, 3)
	for _, p := range yogaCatalog {
		if p.Focus == focus || p.Focus == "full_body" {
			sequence = append(sequence, p)
		}
	}
	if len(sequence) == 0 {
		sequence = yogaCatalog
	}
	return universal.Success(map[string]any{"goal": goal, "sequence": sequence}, nil)
}
