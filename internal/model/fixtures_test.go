package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nutrimood/nutrimood-api/internal/nutrition"
)

const fixtureMetadata = `{
	"labels": {
		"classes": ["energizing", "relaxing", "focusing", "uncategorized"],
		"description": {
			"energizing": "boosts energy",
			"relaxing": "calms you down",
			"focusing": "sharpens focus",
			"uncategorized": "no clear mood effect"
		}
	},
	"preprocessing": {
		"scaler_mean": [0, 0, 0, 0],
		"scaler_scale": [1, 1, 1, 1]
	},
	"model_info": {"input_size": 4}
}`

const fixtureFoods = `[
	{"name": "Nasi Putih", "calories": 130, "proteins": 2.7, "fat": 0.3, "carbohydrate": 28, "primary_mood": "energizing"},
	{"name": "Ayam Panggang", "calories": 165, "proteins": 31, "fat": 3.6, "carbohydrate": 0, "primary_mood": "focusing"},
	{"name": "Sayur Bayam", "calories": 23, "proteins": 2.9, "fat": 0.4, "carbohydrate": 3.6, "primary_mood": "relaxing"}
]`

// fixtureModel ignores its input: zero weights, softmax over fixed logits
// ln(0.7), ln(0.1), ln(0.1), ln(0.1) always yields [0.7, 0.1, 0.1, 0.1].
const fixtureModel = `{
	"layers": [{
		"weights": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,0]],
		"bias": [-0.35667494393873245, -2.302585092994046, -2.302585092994046, -2.302585092994046],
		"activation": "softmax"
	}]
}`

// brokenModel parses fine but fails on its first forward pass, so only
// the self-test catches it.
const brokenModel = `{
	"layers": [{
		"weights": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,0]],
		"bias": [0, 0, 0, 0],
		"activation": "swish"
	}]
}`

// writeFixtureDir lays out a complete artifact directory in a temp dir.
func writeFixtureDir(t *testing.T, modelJSON string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"model.json":     modelJSON,
		"metadata.json":  fixtureMetadata,
		"food_data.json": fixtureFoods,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// stubNetwork returns a canned output (or error) for every call.
type stubNetwork struct {
	out    []float64
	err    error
	inSize int
	calls  int
}

func (s *stubNetwork) Predict(_ context.Context, _ []float64) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(s.out))
	copy(out, s.out)
	return out, nil
}

func (s *stubNetwork) InputSize() int  { return s.inSize }
func (s *stubNetwork) OutputSize() int { return len(s.out) }
func (s *stubNetwork) Close()          {}

func fixtureArtifact(t *testing.T, network Network) *Artifact {
	t.Helper()
	return &Artifact{
		Network: network,
		Metadata: Metadata{
			Labels: Labels{
				Classes: []string{"energizing", "relaxing", "focusing", "uncategorized"},
				Description: map[string]string{
					"energizing": "boosts energy",
				},
			},
			Preprocessing: Preprocessing{
				ScalerMean:  []float64{0, 0, 0, 0},
				ScalerScale: []float64{1, 1, 1, 1},
			},
			ModelInfo: ModelInfo{InputSize: 4},
		},
		Foods: []nutrition.FoodItem{
			{Name: "Nasi Putih", Calories: 130, Proteins: 2.7, Fat: 0.3, Carbohydrate: 28, PrimaryMood: "energizing"},
			{Name: "Ayam Panggang", Calories: 165, Proteins: 31, Fat: 3.6, Carbohydrate: 0, PrimaryMood: "focusing"},
		},
	}
}
