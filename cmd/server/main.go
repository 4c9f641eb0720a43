package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nutrimood/nutrimood-api/internal/handlers"
	"github.com/nutrimood/nutrimood-api/internal/metrics"
	"github.com/nutrimood/nutrimood-api/internal/model"
)

// corsMiddleware mirrors the frontend-facing CORS policy of the original
// deployment: the web app may live on a different origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	modelDir := envOr("MODEL_DIR", "models")
	port := envOr("PORT", "8080")

	var opts []model.Option
	if envOr("MODEL_BACKEND", "dense") == "onnx" {
		opts = append(opts, model.WithONNXNetwork())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	artifact, err := model.Load(ctx, modelDir, opts...)
	if err != nil {
		log.Fatal().Err(err).Str("model_dir", modelDir).Msg("failed to load model")
	}
	defer artifact.Close()

	registry := prometheus.NewRegistry()
	handler := handlers.NewHandler(model.NewPredictor(artifact), metrics.New(registry))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())
	handler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	log.Info().Str("port", port).Msg("server starting")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
