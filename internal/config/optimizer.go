package config

import (
	"errors"
	"strconv"
)

func getEnvOrDefaultInt(key string, def int) int {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// OptimizerConfig carries the split-search and batching knobs. Defaults are
// the reference values; callers tune MaxRoutes and StepBps together so the
// grid's call count stays within the read endpoint's capacity.
type OptimizerConfig struct {
	// MaxRoutes caps how many routes a split may span (1..4).
	MaxRoutes int

	// StepBps is the grid step for 3+ route splits, a multiple of 100.
	StepBps int

	// MinImprovementBps is the advantage a split must show over the best
	// single route before a multi estimate is published.
	MinImprovementBps int64

	// BatchCeil is the per-aggregate call ceiling.
	BatchCeil int

	// Retry policy for failed sub-batches.
	RetryAttempts int
	BaseDelayMs   int
	MaxDelayMs    int

	// DebounceMs is the input-coalescing window for streaming callers.
	DebounceMs int
}

func (c *OptimizerConfig) Key() string {
	return OPTIMIZER_CONFIG_KEY
}

func (c *OptimizerConfig) Load() error {
	c.MaxRoutes = getEnvOrDefaultInt("OPTIMIZER_MAX_ROUTES", 4)
	c.StepBps = getEnvOrDefaultInt("OPTIMIZER_STEP_BPS", 500)
	c.MinImprovementBps = int64(getEnvOrDefaultInt("OPTIMIZER_MIN_IMPROVEMENT_BPS", 10))
	c.BatchCeil = getEnvOrDefaultInt("OPTIMIZER_BATCH_CEIL", 100)
	c.RetryAttempts = getEnvOrDefaultInt("OPTIMIZER_RETRY_ATTEMPTS", 4)
	c.BaseDelayMs = getEnvOrDefaultInt("OPTIMIZER_BASE_DELAY_MS", 1000)
	c.MaxDelayMs = getEnvOrDefaultInt("OPTIMIZER_MAX_DELAY_MS", 10000)
	c.DebounceMs = getEnvOrDefaultInt("OPTIMIZER_DEBOUNCE_MS", 1000)
	return c.Validate()
}

func (c *OptimizerConfig) Validate() error {
	if c.MaxRoutes < 1 || c.MaxRoutes > 4 {
		return errors.New("optimizer config: maxRoutes must be 1..4")
	}
	if c.StepBps <= 0 || c.StepBps%100 != 0 || c.StepBps > 10000 {
		return errors.New("optimizer config: stepBps must be a positive multiple of 100")
	}
	if c.MinImprovementBps < 0 {
		return errors.New("optimizer config: minImprovementBps must be nonnegative")
	}
	if c.BatchCeil <= 0 {
		return errors.New("optimizer config: batchCeil must be positive")
	}
	if c.RetryAttempts < 1 {
		return errors.New("optimizer config: retryAttempts must be at least 1")
	}
	return nil
}

// PriceConfig configures the USD price feed for the two reference tokens.
type PriceConfig struct {
	FeedURL           string
	RefreshIntervalMs int
}

func (c *PriceConfig) Key() string {
	return PRICE_CONFIG_KEY
}

func (c *PriceConfig) Load() error {
	c.FeedURL = getEnvOrDefault("PRICE_FEED_URL", "")
	c.RefreshIntervalMs = getEnvOrDefaultInt("PRICE_REFRESH_MS", 15000)
	return nil
}

func (c *PriceConfig) Validate() error {
	return nil
}
