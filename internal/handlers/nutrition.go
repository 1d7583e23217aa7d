// Nutrition-domain handlers implement the fixed contract over a small
// seeded food catalog; nutrition science itself is out of scope, per spec §1.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/fitnessmcp/toolserver/internal/apperr"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
	"github.com/fitnessmcp/toolserver/internal/universal"
)

// foodItem is a row in the seeded, read-only food catalog.
type foodItem struct {
	ID           string
	Name         string
	CaloriesPer100g float64
	ProteinG     float64
	CarbsG       float64
	FatG         float64
}

var foodCatalog = []foodItem{
	{"banana", "Banana", 89, 1.1, 22.8, 0.3},
	{"chicken_breast", "Chicken Breast", 165, 31, 0, 3.6},
	{"brown_rice", "Brown Rice (cooked)", 112, 2.6, 23.5, 0.9},
	{"oats", "Rolled Oats", 389, 16.9, 66.3, 6.9},
	{"greek_yogurt", "Greek Yogurt", 59, 10, 3.6, 0.4},
	{"almonds", "Almonds", 579, 21.2, 21.6, 49.9},
	{"sweet_potato", "Sweet Potato", 86, 1.6, 20.1, 0.1},
	{"salmon", "Salmon", 208, 20.4, 0, 13.4},
}

func findFood(id string) *foodItem {
	for i := range foodCatalog {
		if foodCatalog[i].ID == id {
			return &foodCatalog[i]
		}
	}
	return nil
}

// CalculateDailyNutrition computes recommended daily macro targets from body
// weight and activity level using a fixed, commonly used multiplier table.
func CalculateDailyNutrition(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	weightKg, ok := req.Parameters["weight_kg"]
	if !ok {
		return missingParam("weight_kg")
	}
	weight, ok := weightKg.(float64)
	if !ok {
		return universal.FailProtocol(apperr.InvalidParameters, "invalid parameters: weight_kg must be numeric")
	}
	activityLevel := optionalString(req.Parameters, "activity_level", "moderate")

	multiplier := map[string]float64{"sedentary": 28, "light": 32, "moderate": 36, "high": 42, "very_high": 48}[activityLevel]
	if multiplier == 0 {
		multiplier = 36
	}
	calories := weight * multiplier
	return universal.Success(map[string]any{
		"calories_kcal": calories,
		"protein_g":     weight * 1.8,
		"carbs_g":       calories * 0.5 / 4,
		"fat_g":         calories * 0.25 / 9,
	}, baseMetadata(req, ""))
}

// GetNutrientTiming suggests pre/during/post workout nutrient timing using a
// fixed rule of thumb relative to workout duration.
func GetNutrientTiming(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	durationMin := optionalInt(req.Parameters, "workout_duration_minutes", 60)
	needsMidWorkoutFuel := durationMin >= 90
	return universal.Success(map[string]any{
		"pre_workout":  "Carbohydrate-focused meal 2-3 hours before, 30-60g carbs.",
		"during_workout": map[string]any{
			"recommended": needsMidWorkoutFuel,
			"guidance":    "30-60g carbs per hour for sessions beyond 90 minutes.",
		},
		"post_workout": "20-30g protein plus carbs within 60 minutes of finishing.",
	}, baseMetadata(req, ""))
}

// SearchFood searches the seeded food catalog by name substring.
func SearchFood(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	query, ok := requireString(req.Parameters, "query")
	if !ok {
		return missingParam("query")
	}
	query = strings.ToLower(query)
	var matches []foodItem
	for _, f := range foodCatalog {
		if strings.Contains(strings.ToLower(f.Name), query) {
			matches = append(matches, f)
		}
	}
	return universal.Success(map[string]any{"results": matches}, baseMetadata(req, ""))
}

// GetFoodDetails fetches nutrition details for a catalog food item by id.
func GetFoodDetails(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	id, ok := requireString(req.Parameters, "food_id")
	if !ok {
		return missingParam("food_id")
	}
	food := findFood(id)
	if food == nil {
		return universal.Fail(fmt.Sprintf("food not found: %s", id))
	}
	return universal.Success(food, baseMetadata(req, ""))
}

// AnalyzeMealNutrition sums nutrition for a described meal: a list of
// {food_id, grams} entries.
func AnalyzeMealNutrition(_ context.Context, _ *toolregistry.Context, req universal.Request) universal.Response {
	rawItems, ok := req.Parameters["items"].([]any)
	if !ok || len(rawItems) == 0 {
		return missingParam("items")
	}

	var totalCal, totalProtein, totalCarbs, totalFat float64
	resolved := make([]map[string]any, 0, len(rawItems))
	for _, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id, _ := item["food_id"].(string)
		grams := optionalFloat(item, "grams", 0)
		food := findFood(id)
		if food == nil || grams <= 0 {
			continue
		}
		factor := grams / 100
		totalCal += food.CaloriesPer100g * factor
		totalProtein += food.ProteinG * factor
		totalCarbs += food.CarbsG * factor
		totalFat += food.FatG * factor
		resolved = append(resolved, map[string]any{"food_id": id, "grams": grams})
	}

	return universal.Success(map[string]any{
		"items":         resolved,
		"calories_kcal": totalCal,
		"protein_g":     totalProtein,
		"carbs_g":       totalCarbs,
		"fat_g":         totalFat,
	}, baseMetadata(req, ""))
}
