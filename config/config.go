package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration. It is built once at
// startup and passed explicitly to every component that needs it.
type Config struct {
	// Listing page to scrape
	OffersURL string

	// Browser automation
	Headless         bool
	UseBrowser       bool
	OperationTimeout time.Duration
	ScrollDelay      time.Duration
	ScrollIdleRounds int

	// Snapshot storage
	DataDir string

	// Optional run-frequency guard (disabled when MemcacheAddr is empty)
	MemcacheAddr string
	BlockKey     string
	BlockTime    time.Duration

	// Optional change-event stream (disabled when RedisAddr is empty)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	timeoutMs, _ := strconv.Atoi(getEnv("OPERATION_TIMEOUT_MS", "30000"))
	scrollDelayMs, _ := strconv.Atoi(getEnv("SCROLL_DELAY_MS", "900"))
	idleRounds, _ := strconv.Atoi(getEnv("SCROLL_IDLE_ROUNDS", "4"))
	blockSeconds, _ := strconv.Atoi(getEnv("RUN_BLOCK_SECONDS", "0"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAXLEN", "500"))

	return Config{
		OffersURL:            getEnv("OFFERS_URL", "https://www.mcarthurglen.com/en/outlets/ca/designer-outlet-vancouver/offers/"),
		Headless:             getEnv("HEADLESS", "true") != "false",
		UseBrowser:           getEnv("USE_BROWSER", "true") != "false",
		OperationTimeout:     time.Duration(timeoutMs) * time.Millisecond,
		ScrollDelay:          time.Duration(scrollDelayMs) * time.Millisecond,
		ScrollIdleRounds:     idleRounds,
		DataDir:              getEnv("DATA_DIR", "."),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		BlockKey:             getEnv("RUN_BLOCK_KEY", "offers_run_block"),
		BlockTime:            time.Duration(blockSeconds) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "offerchanges"),
		RedisStreamMaxLength: streamMaxLen,
		Environment:          getEnv("OFFERWATCH_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values that would make a run
// impossible before any browser is launched.
func (c *Config) Validate() error {
	if c.OffersURL == "" {
		return fmt.Errorf("offers URL must not be empty")
	}
	if _, err := url.Parse(c.OffersURL); err != nil {
		return fmt.Errorf("invalid offers URL %q: %w", c.OffersURL, err)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("operation timeout must be positive, got %s", c.OperationTimeout)
	}
	if c.ScrollDelay <= 0 {
		return fmt.Errorf("scroll delay must be positive, got %s", c.ScrollDelay)
	}
	if c.ScrollIdleRounds <= 0 {
		return fmt.Errorf("scroll idle rounds must be positive, got %d", c.ScrollIdleRounds)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
