package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"deepfake-detector/internal/cache"
	"deepfake-detector/internal/config"
	"deepfake-detector/internal/core"
	"deepfake-detector/internal/detector"
	"deepfake-detector/internal/handlers"
	"deepfake-detector/internal/logging"
	"deepfake-detector/internal/scratch"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// checkModelArtifact verifies the model file exists before the server
// binds its port. On failure it logs the alternative artifacts found next
// to the configured path.
func checkModelArtifact(logger *zap.Logger, modelPath string) error {
	if _, err := os.Stat(modelPath); err == nil {
		return nil
	}

	logger.Error("Model file not found", zap.String("path", modelPath))

	alternatives, _ := filepath.Glob(filepath.Join(filepath.Dir(modelPath), "*.onnx"))
	if len(alternatives) == 0 {
		logger.Error("No model artifacts available", zap.String("dir", filepath.Dir(modelPath)))
	} else {
		for _, alt := range alternatives {
			logger.Error("Available model file", zap.String("path", alt))
		}
	}

	return fmt.Errorf("model file not found at %s", modelPath)
}

func buildCache(cfg *config.Config, logger *zap.Logger) (core.ResultCache, time.Duration, error) {
	cacheCfg := cfg.GetCache()
	if !cacheCfg.Enabled {
		return nil, 0, nil
	}

	ttl, err := cfg.GetDuration("cache.ttl")
	if err != nil {
		return nil, 0, fmt.Errorf("invalid cache.ttl: %w", err)
	}
	cleanupFreq, err := cfg.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return nil, 0, fmt.Errorf("invalid cache.cleanup_frequency: %w", err)
	}

	switch cacheCfg.Type {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0o755); err != nil {
			return nil, 0, fmt.Errorf("failed to create cache directory: %w", err)
		}
		c, err := cache.NewSQLiteCache(cacheCfg.SQLitePath, logger, cleanupFreq)
		if err != nil {
			return nil, 0, err
		}
		return c, ttl, nil
	case "memory":
		return cache.NewMemoryCache(logger, cleanupFreq), ttl, nil
	default:
		return nil, 0, fmt.Errorf("unknown cache type %q", cacheCfg.Type)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	modelCfg := cfg.GetModel()
	if err := checkModelArtifact(logger, modelCfg.Path); err != nil {
		return err
	}

	logger.Info("Loading model",
		zap.String("path", modelCfg.Path),
		zap.Float64("threshold", modelCfg.Threshold))

	det, err := detector.New(modelCfg.Path, modelCfg.MetadataPath, modelCfg.Threshold, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize detector: %w", err)
	}
	defer det.Close()

	resultCache, cacheTTL, err := buildCache(cfg, logger)
	if err != nil {
		return err
	}
	if resultCache != nil {
		defer resultCache.Stop()
	}

	service := core.NewDetectionService(det, resultCache, logger, resultCache != nil, cacheTTL)
	store := scratch.NewStore(cfg.GetScratch().Dir)

	serverCfg := cfg.GetServer()
	handler := handlers.NewHandler(service, store, logger, serverCfg.MaxUploadBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.Index)
	mux.HandleFunc("/detect", handler.Detect)
	mux.HandleFunc("/health", handler.Health)

	server := &http.Server{
		Addr:    serverCfg.ListenAddress,
		Handler: enableCORS(mux),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("address", serverCfg.ListenAddress),
			zap.String("device", det.Device()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownTimeout, err := cfg.GetDuration("server.shutdown_timeout")
	if err != nil {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
		return err
	}

	logger.Info("Shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "deepfake-detector: %v\n", err)
		os.Exit(1)
	}
}
