package model

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/nutrimood/nutrimood-api/internal/nutrition"
)

// Predictor is the inference engine over a loaded artifact. The artifact
// is injected at construction and read-only, so one Predictor serves
// concurrent calls.
type Predictor struct {
	artifact *Artifact
}

// NewPredictor wraps a loaded artifact. A nil artifact yields a predictor
// whose every call fails with ErrNotLoaded.
func NewPredictor(artifact *Artifact) *Predictor {
	return &Predictor{artifact: artifact}
}

func (p *Predictor) ready() bool {
	return p != nil && p.artifact != nil && p.artifact.Network != nil
}

// infer encodes the shared path between the self-test and real
// predictions: standardize the category vector with the training-time
// statistics and run the forward pass. Errors are returned raw; callers
// wrap them in their stage's sentinel.
func (a *Artifact) infer(ctx context.Context, categories []int) ([]float64, error) {
	inputSize := a.Metadata.ModelInfo.InputSize
	if len(categories) != inputSize {
		return nil, fmt.Errorf("got %d features, model expects %d", len(categories), inputSize)
	}

	features := make([]float64, inputSize)
	for i, c := range categories {
		features[i] = float64(c)
	}
	floats.Sub(features, a.Metadata.Preprocessing.ScalerMean)
	floats.Div(features, a.Metadata.Preprocessing.ScalerScale)

	return a.Network.Predict(ctx, features)
}

// Predict runs one reading through the full pipeline: encode to ordinal
// categories, standardize, forward pass, decode, plus the independent
// rule-based label over the raw values. Deterministic for identical
// artifact and inputs. Ties on the maximum probability resolve to the
// lowest class index.
func (p *Predictor) Predict(ctx context.Context, calories, proteins, fat, carbohydrate float64) (*PredictionResult, error) {
	if !p.ready() {
		return nil, ErrNotLoaded
	}

	buckets := nutrition.Categorize(calories, proteins, fat, carbohydrate)
	probabilities, err := p.artifact.infer(ctx, buckets[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	classes := p.artifact.Metadata.Labels.Classes
	if len(probabilities) != len(classes) {
		return nil, fmt.Errorf("%w: got %d probabilities for %d classes", ErrInference, len(probabilities), len(classes))
	}

	// floats.MaxIdx returns the first index of the maximum, which is the
	// documented tie-break.
	best := floats.MaxIdx(probabilities)
	allProbabilities := make(map[string]float64, len(classes))
	for i, class := range classes {
		allProbabilities[class] = probabilities[i]
	}

	predicted := classes[best]
	ruleBased := nutrition.ClassifyByRules(calories, proteins, fat, carbohydrate)

	log.Debug().
		Str("predicted", predicted).
		Str("rule_based", ruleBased).
		Float64("confidence", probabilities[best]).
		Ints("categories", buckets[:]).
		Msg("prediction")

	return &PredictionResult{
		PredictedMood:    predicted,
		Confidence:       probabilities[best],
		AllProbabilities: allProbabilities,
		RuleBasedMood:    ruleBased,
		NutrientCategories: NutrientCategories{
			Calories:     nutrition.CategoryName(buckets[0]),
			Proteins:     nutrition.CategoryName(buckets[1]),
			Fat:          nutrition.CategoryName(buckets[2]),
			Carbohydrate: nutrition.CategoryName(buckets[3]),
		},
		InputValues: InputValues{
			Calories:     calories,
			Proteins:     proteins,
			Fat:          fat,
			Carbohydrate: carbohydrate,
		},
		IsRuleMatch: predicted == ruleBased,
	}, nil
}

// Recommend filters and ranks the loaded food catalog.
func (p *Predictor) Recommend(mood string, limit int, healthConditions []string) ([]nutrition.Recommendation, error) {
	if !p.ready() {
		return nil, ErrNotLoaded
	}
	return nutrition.Recommend(p.artifact.Foods, mood, limit, healthConditions), nil
}

// MoodDescription returns the metadata description for a mood, or a
// fallback for unknown labels.
func (p *Predictor) MoodDescription(mood string) string {
	if !p.ready() {
		return ""
	}
	if description, ok := p.artifact.Metadata.Labels.Description[mood]; ok {
		return description
	}
	return "no description available"
}

// Analyze is the convenience composition: prediction, recommendations for
// the predicted mood, nutrient advice and the macro balance check.
func (p *Predictor) Analyze(ctx context.Context, calories, proteins, fat, carbohydrate float64) (*AnalysisResult, error) {
	prediction, err := p.Predict(ctx, calories, proteins, fat, carbohydrate)
	if err != nil {
		return nil, err
	}
	recommendations, err := p.Recommend(prediction.PredictedMood, nutrition.DefaultRecommendationLimit, nil)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		MoodAnalysis:        prediction,
		FoodRecommendations: recommendations,
		NutritionalAdvice:   nutrition.Advice(calories, proteins, fat, carbohydrate),
		MoodDescription:     p.MoodDescription(prediction.PredictedMood),
		IsBalanced:          nutrition.IsBalanced(calories, proteins, fat, carbohydrate),
	}, nil
}

// Info summarizes the loaded artifact.
func (p *Predictor) Info() (*Info, error) {
	if !p.ready() {
		return nil, ErrNotLoaded
	}
	return &Info{
		AvailableMoods: p.artifact.Metadata.Labels.Classes,
		InputSize:      p.artifact.Metadata.ModelInfo.InputSize,
		FoodCount:      len(p.artifact.Foods),
	}, nil
}
