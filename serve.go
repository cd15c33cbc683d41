package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kube-rca/incident-classifier/internal/config"
	"github.com/kube-rca/incident-classifier/internal/db"
	"github.com/kube-rca/incident-classifier/internal/handler"
	"github.com/kube-rca/incident-classifier/internal/logging"
	"github.com/kube-rca/incident-classifier/internal/metrics"
	"github.com/kube-rca/incident-classifier/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// loadConfig - .env 가 있으면 먼저 환경변수로 로드
func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return config.Load(configPath)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	m := metrics.New("incident_classifier")
	artifacts := service.NewArtifacts(service.NewFileArtifactLoader(cfg.Artifacts), cfg.Artifacts.RetryInterval, m, logger)
	if cfg.Artifacts.EagerLoad {
		// 실패해도 서버는 기동 (/health 유지, /predict 는 500)
		if err := artifacts.Warm(); err != nil {
			logger.Error("Model artifacts unavailable at startup",
				zap.String("vocabulary_path", cfg.Artifacts.VocabularyPath),
				zap.String("model_path", cfg.Artifacts.ModelPath),
				zap.Error(err))
		}
	}

	var recorder service.PredictionRecorder
	if cfg.PredictionLog.Enabled {
		pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		pg := db.NewPostgres(pool)
		if err := pg.EnsurePredictionSchema(ctx); err != nil {
			return err
		}
		recorder = pg
		logger.Info("Prediction log enabled")
	}

	svc := service.NewPredictService(artifacts, recorder, m, logger)
	router := handler.NewRouter(handler.RouterConfig{
		ServiceName:        cfg.Server.ServiceName,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		JWTSecret:          cfg.Auth.JWTSecret,
		APIKeyHash:         cfg.Auth.APIKeyHash,
		Predictor:          svc,
		Artifacts:          artifacts,
		Metrics:            m.Handler(),
		Logger:             logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("service", cfg.Server.ServiceName),
			zap.String("addr", server.Addr),
			zap.Bool("auth", cfg.Auth.Enabled()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
