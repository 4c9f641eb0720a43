package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrimood/nutrimood-api/internal/metrics"
	"github.com/nutrimood/nutrimood-api/internal/model"
	"github.com/nutrimood/nutrimood-api/internal/nutrition"
)

// fixedNetwork always predicts the same distribution, regardless of input.
type fixedNetwork struct {
	out []float64
}

func (f *fixedNetwork) Predict(_ context.Context, _ []float64) ([]float64, error) {
	return append([]float64(nil), f.out...), nil
}

func (f *fixedNetwork) InputSize() int  { return 4 }
func (f *fixedNetwork) OutputSize() int { return len(f.out) }
func (f *fixedNetwork) Close()          {}

func setupRouter(t *testing.T, artifact *model.Artifact) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(model.NewPredictor(artifact), metrics.New(prometheus.NewRegistry()))
	handler.Register(router)
	return router
}

func testArtifact() *model.Artifact {
	return &model.Artifact{
		Network: &fixedNetwork{out: []float64{0.7, 0.1, 0.1, 0.1}},
		Metadata: model.Metadata{
			Labels: model.Labels{
				Classes:     []string{"energizing", "relaxing", "focusing", "uncategorized"},
				Description: map[string]string{"energizing": "boosts energy"},
			},
			Preprocessing: model.Preprocessing{
				ScalerMean:  []float64{0, 0, 0, 0},
				ScalerScale: []float64{1, 1, 1, 1},
			},
			ModelInfo: model.ModelInfo{InputSize: 4},
		},
		Foods: []nutrition.FoodItem{
			{Name: "Nasi Putih", Calories: 130, Proteins: 2.7, Fat: 0.3, Carbohydrate: 28, PrimaryMood: "energizing"},
			{Name: "Sayur Bayam", Calories: 23, Proteins: 2.9, Fat: 0.4, Carbohydrate: 3.6, PrimaryMood: "relaxing"},
		},
	}
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, testArtifact())

	w := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHealthWithoutModel(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPredict(t *testing.T) {
	router := setupRouter(t, testArtifact())

	w := doJSON(router, http.MethodPost, "/predict",
		`{"calories": 300, "proteins": 10, "fat": 10, "carbohydrate": 40}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result model.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "energizing", result.PredictedMood)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Equal(t, "medium", result.NutrientCategories.Calories)
	assert.Equal(t, "energizing", result.RuleBasedMood)
}

func TestPredictBadRequest(t *testing.T) {
	router := setupRouter(t, testArtifact())

	w := doJSON(router, http.MethodPost, "/predict", `{"calories": "many"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictBeforeLoad(t *testing.T) {
	router := setupRouter(t, nil)

	w := doJSON(router, http.MethodPost, "/predict",
		`{"calories": 300, "proteins": 10, "fat": 10, "carbohydrate": 40}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRecommend(t *testing.T) {
	router := setupRouter(t, testArtifact())

	w := doJSON(router, http.MethodPost, "/recommend",
		`{"mood": "energizing", "limit": 3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Mood            string                     `json:"mood"`
		Recommendations []nutrition.Recommendation `json:"recommendations"`
		Total           int                        `json:"total_recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "energizing", resp.Mood)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Nasi Putih", resp.Recommendations[0].Name)
}

func TestRecommendRequiresMood(t *testing.T) {
	router := setupRouter(t, testArtifact())

	w := doJSON(router, http.MethodPost, "/recommend", `{"limit": 3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvice(t *testing.T) {
	router := setupRouter(t, testArtifact())

	w := doJSON(router, http.MethodPost, "/advice",
		`{"calories": 50, "proteins": 2, "fat": 1, "carbohydrate": 5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Advice     []string `json:"advice"`
		IsBalanced bool     `json:"is_balanced"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Advice, 4)
	assert.False(t, resp.IsBalanced)
}

func TestAnalyze(t *testing.T) {
	router := setupRouter(t, testArtifact())

	w := doJSON(router, http.MethodPost, "/analyze",
		`{"calories": 300, "proteins": 10, "fat": 10, "carbohydrate": 40}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.MoodAnalysis)
	assert.Equal(t, "energizing", result.MoodAnalysis.PredictedMood)
	assert.Equal(t, "boosts energy", result.MoodDescription)
	assert.True(t, result.IsBalanced)
}

func TestModelInfo(t *testing.T) {
	router := setupRouter(t, testArtifact())

	w := doJSON(router, http.MethodGet, "/model/info", "")
	require.Equal(t, http.StatusOK, w.Code)

	var info model.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, 4, info.InputSize)
	assert.Equal(t, 2, info.FoodCount)
}
