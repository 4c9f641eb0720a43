package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nutrimood/nutrimood-api/internal/metrics"
	"github.com/nutrimood/nutrimood-api/internal/model"
	"github.com/nutrimood/nutrimood-api/internal/nutrition"
)

// Handler holds the shared dependencies of all routes.
type Handler struct {
	predictor *model.Predictor
	metrics   *metrics.Metrics
}

func NewHandler(predictor *model.Predictor, m *metrics.Metrics) *Handler {
	return &Handler{predictor: predictor, metrics: m}
}

// Register mounts all API routes on the engine.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/model/info", h.ModelInfo)
	router.POST("/predict", h.Predict)
	router.POST("/recommend", h.Recommend)
	router.POST("/advice", h.Advice)
	router.POST("/analyze", h.Analyze)
}

// readingRequest is the body of every nutrient-reading endpoint.
type readingRequest struct {
	Calories     float64 `json:"calories"`
	Proteins     float64 `json:"proteins"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
}

type recommendRequest struct {
	Mood             string   `json:"mood" binding:"required"`
	Limit            int      `json:"limit"`
	HealthConditions []string `json:"health_conditions"`
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// status maps the core's error taxonomy onto HTTP codes.
func status(err error) int {
	switch {
	case errors.Is(err, model.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrInference):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) Health(c *gin.Context) {
	if _, err := h.predictor.Info(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) ModelInfo(c *gin.Context) {
	info, err := h.predictor.Info()
	if err != nil {
		apiError(c, status(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) Predict(c *gin.Context) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	result, err := h.predictor.Predict(c.Request.Context(), req.Calories, req.Proteins, req.Fat, req.Carbohydrate)
	if err != nil {
		log.Error().Err(err).Msg("prediction failed")
		h.metrics.Errors.WithLabelValues("predict").Inc()
		apiError(c, status(err), err.Error())
		return
	}
	h.metrics.Latency.Observe(time.Since(start).Seconds())
	h.metrics.Predictions.WithLabelValues(result.PredictedMood).Inc()

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	recommendations, err := h.predictor.Recommend(req.Mood, req.Limit, req.HealthConditions)
	if err != nil {
		h.metrics.Errors.WithLabelValues("recommend").Inc()
		apiError(c, status(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mood":                  req.Mood,
		"recommendations":       recommendations,
		"total_recommendations": len(recommendations),
	})
}

func (h *Handler) Advice(c *gin.Context) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"advice":      nutrition.Advice(req.Calories, req.Proteins, req.Fat, req.Carbohydrate),
		"is_balanced": nutrition.IsBalanced(req.Calories, req.Proteins, req.Fat, req.Carbohydrate),
	})
}

func (h *Handler) Analyze(c *gin.Context) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.predictor.Analyze(c.Request.Context(), req.Calories, req.Proteins, req.Fat, req.Carbohydrate)
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		h.metrics.Errors.WithLabelValues("analyze").Inc()
		apiError(c, status(err), err.Error())
		return
	}
	h.metrics.Predictions.WithLabelValues(result.MoodAnalysis.PredictedMood).Inc()

	c.JSON(http.StatusOK, result)
}
