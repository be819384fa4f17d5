package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"deepfake-detector/internal/core"
)

// SQLiteCache is a SQLite implementation of core.ResultCache. Results
// survive process restarts.
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewSQLiteCache opens (or creates) the cache database at dbPath.
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS detection_cache (
			image_hash TEXT PRIMARY KEY,
			prediction TEXT,
			confidence REAL,
			fake_probability REAL,
			real_probability REAL,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_expires_at ON detection_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	c := &SQLiteCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go c.startCleanupTask()

	return c, nil
}

// Get retrieves a cached result for an image hash.
func (c *SQLiteCache) Get(ctx context.Context, key string) (*core.DetectionResult, bool) {
	var prediction string
	var confidence, fakeProb, realProb float64

	err := c.db.QueryRowContext(ctx, `
		SELECT prediction, confidence, fake_probability, real_probability
		FROM detection_cache
		WHERE image_hash = ? AND expires_at > ?
	`, key, time.Now().UTC().Format(time.RFC3339)).Scan(&prediction, &confidence, &fakeProb, &realProb)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to query cache", zap.Error(err), zap.String("image_hash", key))
		}
		return nil, false
	}

	return &core.DetectionResult{
		Status:          core.StatusSuccess,
		Prediction:      prediction,
		Confidence:      confidence,
		FakeProbability: fakeProb,
		RealProbability: realProb,
	}, true
}

// Set stores a result under key for ttl.
func (c *SQLiteCache) Set(ctx context.Context, key string, result *core.DetectionResult, ttl time.Duration) {
	expiresAt := time.Now().UTC().Add(ttl)

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO detection_cache
			(image_hash, prediction, confidence, fake_probability, real_probability, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, key, result.Prediction, result.Confidence, result.FakeProbability,
		result.RealProbability, expiresAt.Format(time.RFC3339))

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("image_hash", key))
	}
}

// Cleanup removes expired entries.
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM detection_cache WHERE expires_at <= ?
	`, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to clean up cache: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", n))
	}
	return nil
}

// Stop terminates background cleanup and closes the database.
func (c *SQLiteCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close cache database", zap.Error(err))
		}
	})
}

func (c *SQLiteCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Cache cleanup failed", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}
