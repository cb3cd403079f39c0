package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// RPC settings
	RPCUrl     string
	RPCRateRPS float64

	// Aggregator (Jupiter) settings
	JupiterBaseURL string
	JupiterAPIKey  string

	// Relay providers (comma-separated block engine URLs)
	JitoBlockEngineURLs []string

	// MEV-protected endpoints: "url@apiKey@thresholdUSD" comma list,
	// ordered smallest threshold first
	PrivateEndpoints string

	// Priority fee settings (micro-lamports per compute unit)
	BaseFee uint64
	MinFee  uint64
	MaxFee  uint64

	// Sniper settings
	TargetLatencyMs  int64
	MaxSlippageBps   uint16
	RaceGuardTimeout time.Duration
	SniperEnabled    bool

	// Orca settings
	OrcaPoolConfigPath string

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// HTTP client settings
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// API server settings
	APIAddr string
	APIKey  string
	DevMode bool
}

func Load() *Config {
	return &Config{
		// RPC
		RPCUrl:     getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		RPCRateRPS: getFloatEnv("SOLANA_RPC_RATE_RPS", 10),

		// Jupiter
		JupiterBaseURL: getEnv("JUPITER_BASE_URL", "https://api.jup.ag/swap/v1"),
		JupiterAPIKey:  getEnv("JUPITER_API_KEY", ""),

		// Relays
		JitoBlockEngineURLs: getListEnv("JITO_BLOCK_ENGINE_URLS",
			"https://mainnet.block-engine.jito.wtf/api/v1"),

		// MEV protection
		PrivateEndpoints: getEnv("PRIVATE_ENDPOINTS", ""),

		// Fees
		BaseFee: getUint64Env("PRIORITY_FEE_BASE", 10_000),
		MinFee:  getUint64Env("PRIORITY_FEE_MIN", 1_000),
		MaxFee:  getUint64Env("PRIORITY_FEE_MAX", 2_000_000),

		// Sniper
		TargetLatencyMs:  int64(getIntEnv("TARGET_LATENCY_MS", 200)),
		MaxSlippageBps:   uint16(getIntEnv("MAX_SLIPPAGE_BPS", 500)),
		RaceGuardTimeout: getDurationEnv("RACE_GUARD_TIMEOUT", 10*time.Second),
		SniperEnabled:    getBoolEnv("SNIPER_ENABLED", true),

		// Orca (direct venue disabled when no pool config is given)
		OrcaPoolConfigPath: getEnv("ORCA_POOL_CONFIG", ""),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "solana"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 5),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", 2*time.Second),

		// API server
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),
	}
}

// Validate checks configuration consistency before anything connects
func (c *Config) Validate() error {
	if c.RPCUrl == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}
	if c.MinFee > c.MaxFee {
		return fmt.Errorf("PRIORITY_FEE_MIN (%d) must not exceed PRIORITY_FEE_MAX (%d)", c.MinFee, c.MaxFee)
	}
	if c.MaxSlippageBps > 10_000 {
		return fmt.Errorf("MAX_SLIPPAGE_BPS must be <= 10000")
	}
	if len(c.JitoBlockEngineURLs) == 0 {
		return fmt.Errorf("at least one Jito block engine URL is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getUint64Env(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseUint(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getListEnv(key, defaultVal string) []string {
	raw := getEnv(key, defaultVal)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
