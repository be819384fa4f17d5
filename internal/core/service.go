package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// DetectionService coordinates the detector and the optional result cache.
// It is safe for concurrent use.
type DetectionService struct {
	detector     Detector
	cache        ResultCache
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewDetectionService creates a new detection service. cache may be nil
// when cacheEnabled is false.
func NewDetectionService(
	detector Detector,
	cache ResultCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *DetectionService {
	return &DetectionService{
		detector:     detector,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
	}
}

// Detect analyzes the image at path. When caching is enabled the image
// content hash is used as the key, so re-uploading an identical image
// skips inference.
func (s *DetectionService) Detect(ctx context.Context, path string) (*DetectionResult, error) {
	var key string
	if s.cacheEnabled {
		h, err := hashFile(path)
		if err != nil {
			s.logger.Warn("Failed to hash upload, skipping cache", zap.Error(err))
		} else {
			key = h
			if result, ok := s.cache.Get(ctx, key); ok {
				s.logger.Debug("Cache hit", zap.String("image_hash", key))
				return result, nil
			}
		}
	}

	result, err := s.detector.Predict(ctx, path)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled && key != "" {
		s.cache.Set(ctx, key, result, s.cacheTTL)
	}

	return result, nil
}

// Threshold reports the detector's decision threshold.
func (s *DetectionService) Threshold() float64 {
	return s.detector.Threshold()
}

// Device reports the detector's compute device.
func (s *DetectionService) Device() string {
	return s.detector.Device()
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
