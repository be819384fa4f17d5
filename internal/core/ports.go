package core

import (
	"context"
	"time"
)

// Detector runs inference on an image file.
type Detector interface {
	// Predict analyzes the image at path and returns a verdict. It may
	// fail on unreadable or corrupt images.
	Predict(ctx context.Context, path string) (*DetectionResult, error)

	// Threshold is the fake-probability cutoff the detector decides with.
	Threshold() float64

	// Device names the compute device inference runs on.
	Device() string
}

// ResultCache stores detection results keyed by image content hash.
type ResultCache interface {
	// Get retrieves a cached result, reporting whether it was found and
	// not expired.
	Get(ctx context.Context, key string) (*DetectionResult, bool)

	// Set stores a result under key for ttl.
	Set(ctx context.Context, key string, result *DetectionResult, ttl time.Duration)

	// Stop releases cache resources and stops background cleanup.
	Stop()
}
