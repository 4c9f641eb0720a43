// Package nutrition holds the pure nutrient-level logic of NutriMood:
// ordinal feature encoding, the rule-based mood classifier, food
// recommendation filtering and free-text nutrient advice. Nothing in
// this package touches the model runtime, so it is usable (and testable)
// without a loaded artifact.
package nutrition

// Mood labels shared between the neural classifier and the rule-based one.
// The neural side gets its labels from metadata.json; these constants exist
// for the rule classifier and the recommendation sort keys.
const (
	MoodEnergizing    = "energizing"
	MoodRelaxing      = "relaxing"
	MoodFocusing      = "focusing"
	MoodMultiCategory = "multi_category"
	MoodUncategorized = "uncategorized"
)

// FoodItem is one entry of the static food catalog (food_data.json).
// The catalog is read-only after load.
type FoodItem struct {
	Name         string  `json:"name"`
	Calories     float64 `json:"calories"`
	Proteins     float64 `json:"proteins"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
	PrimaryMood  string  `json:"primary_mood"`
}
