package model

import (
	"fmt"

	"github.com/nutrimood/nutrimood-api/internal/nutrition"
)

// Metadata is the typed schema of metadata.json. It is validated once at
// load time so a malformed artifact fails fast instead of surfacing as a
// confusing shape error deep in the forward pass.
type Metadata struct {
	Labels        Labels        `json:"labels"`
	Preprocessing Preprocessing `json:"preprocessing"`
	ModelInfo     ModelInfo     `json:"model_info"`
}

// Labels carries the ordered class names and their descriptions. Index
// position is the identity contract between network output and label.
type Labels struct {
	Classes     []string          `json:"classes"`
	Description map[string]string `json:"description"`
}

// Preprocessing holds the training-time standardization statistics.
// They are applied verbatim at inference time, never recomputed.
type Preprocessing struct {
	ScalerMean  []float64 `json:"scaler_mean"`
	ScalerScale []float64 `json:"scaler_scale"`
}

// ModelInfo describes the expected model shape.
type ModelInfo struct {
	InputSize int `json:"input_size"`
}

// Validate checks the cross-field consistency the inference engine relies
// on. Returns a plain error; the loader wraps it in ErrModelLoad.
func (m Metadata) Validate() error {
	if len(m.Labels.Classes) == 0 {
		return fmt.Errorf("metadata has no label classes")
	}
	if m.ModelInfo.InputSize <= 0 {
		return fmt.Errorf("metadata input_size must be positive, got %d", m.ModelInfo.InputSize)
	}
	if len(m.Preprocessing.ScalerMean) != m.ModelInfo.InputSize {
		return fmt.Errorf("scaler_mean has %d entries, want %d",
			len(m.Preprocessing.ScalerMean), m.ModelInfo.InputSize)
	}
	if len(m.Preprocessing.ScalerScale) != m.ModelInfo.InputSize {
		return fmt.Errorf("scaler_scale has %d entries, want %d",
			len(m.Preprocessing.ScalerScale), m.ModelInfo.InputSize)
	}
	for i, s := range m.Preprocessing.ScalerScale {
		if s == 0 {
			return fmt.Errorf("scaler_scale[%d] is zero", i)
		}
	}
	return nil
}

// Artifact bundles everything loaded from the artifact directory: the
// network, its metadata and the food catalog. It is immutable after Load
// and safe for concurrent reads; the caller constructs it once and
// injects it wherever predictions are made.
type Artifact struct {
	Network  Network
	Metadata Metadata
	Foods    []nutrition.FoodItem
}

// Close releases the network's native resources, if any.
func (a *Artifact) Close() {
	if a != nil && a.Network != nil {
		a.Network.Close()
	}
}

// NutrientCategories names the four encoder buckets that went into a
// prediction, for explainability.
type NutrientCategories struct {
	Calories     string `json:"calories"`
	Proteins     string `json:"proteins"`
	Fat          string `json:"fat"`
	Carbohydrate string `json:"carbohydrate"`
}

// InputValues echoes the raw reading a prediction was made from.
type InputValues struct {
	Calories     float64 `json:"calories"`
	Proteins     float64 `json:"proteins"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
}

// PredictionResult is the outcome of one inference call.
type PredictionResult struct {
	PredictedMood      string             `json:"predicted_mood"`
	Confidence         float64            `json:"confidence"`
	AllProbabilities   map[string]float64 `json:"all_probabilities"`
	RuleBasedMood      string             `json:"rule_based_mood"`
	NutrientCategories NutrientCategories `json:"nutrient_categories"`
	InputValues        InputValues        `json:"input_values"`
	IsRuleMatch        bool               `json:"is_rule_match"`
}

// AnalysisResult is the convenience composition of prediction,
// recommendations, advice and the balance check.
type AnalysisResult struct {
	MoodAnalysis        *PredictionResult          `json:"mood_analysis"`
	FoodRecommendations []nutrition.Recommendation `json:"food_recommendations"`
	NutritionalAdvice   []string                   `json:"nutritional_advice"`
	MoodDescription     string                     `json:"mood_description"`
	IsBalanced          bool                       `json:"is_balanced"`
}

// Info is a summary of the loaded artifact, served on /model/info.
type Info struct {
	AvailableMoods []string `json:"available_moods"`
	InputSize      int      `json:"input_size"`
	FoodCount      int      `json:"food_count"`
}
