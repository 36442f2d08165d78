package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Logging
	LogLevel  string
	LogFormat string

	// Ratio sources
	FMP       FMPConfig
	Yahoo     YahooConfig
	Investing InvestingConfig
	Ratios    RatiosConfig

	// Redis
	Redis RedisConfig

	// Chat
	Telegram TelegramConfig

	// Valuation policy (YAML). Empty means built-in defaults.
	PolicyFile string

	// Export
	ExportDir string

	// Scheduled digest
	Digest DigestConfig
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit int // requests per second
}

// YahooConfig holds Yahoo Finance configuration
type YahooConfig struct {
	BaseURL string
}

// InvestingConfig holds Investing.com scraper configuration
type InvestingConfig struct {
	BaseURL string
	Slugs   map[string]string // ticker -> URL slug (e.g. GOOGL -> google-inc)
}

// RatiosConfig controls how per-ticker metrics are gathered
type RatiosConfig struct {
	Sources     []string // ordered; later sources win on merge
	Workers     int
	RequireAll  bool
	MergePolicy string // last_writer_wins, error_on_conflict
	CacheTTL    time.Duration
	MaxTickers  int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// TelegramConfig holds Telegram Bot API configuration
type TelegramConfig struct {
	BotToken    string
	BaseURL     string
	PollTimeout time.Duration
}

// DigestConfig holds the scheduled digest configuration
type DigestConfig struct {
	Enabled  bool
	Schedule string // cron with seconds
	Tickers  string
	ChatIDs  []int64
}

// Known ratio sources and merge policies
var (
	KnownSources       = []string{"fmp", "yahoo", "investing"}
	KnownMergePolicies = []string{"last_writer_wins", "error_on_conflict"}
)

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	chatIDs, err := parseChatIDs(getEnv("DIGEST_CHAT_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("parse DIGEST_CHAT_IDS: %w", err)
	}

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		FMP: FMPConfig{
			APIKey:    getEnv("FMP_API_KEY", ""),
			BaseURL:   getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
			RateLimit: getEnvAsInt("FMP_RATE_LIMIT", 5),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com"),
		},

		Investing: InvestingConfig{
			BaseURL: getEnv("INVESTING_BASE_URL", "https://www.investing.com"),
			Slugs:   parsePairs(getEnv("INVESTING_SLUGS", "")),
		},

		Ratios: RatiosConfig{
			Sources:     splitList(getEnv("RATIO_SOURCES", "fmp")),
			Workers:     getEnvAsInt("RATIO_WORKERS", 4),
			RequireAll:  getEnvAsBool("RATIO_REQUIRE_ALL", true),
			MergePolicy: getEnv("RATIO_MERGE_POLICY", "last_writer_wins"),
			CacheTTL:    getEnvAsDuration("RATIO_CACHE_TTL", "1h"),
			MaxTickers:  getEnvAsInt("MAX_TICKERS", 10),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			BaseURL:     getEnv("TELEGRAM_BASE_URL", "https://api.telegram.org"),
			PollTimeout: getEnvAsDuration("TELEGRAM_POLL_TIMEOUT", "30s"),
		},

		PolicyFile: getEnv("VALUATION_POLICY_FILE", ""),
		ExportDir:  getEnv("EXPORT_DIR", "data"),

		Digest: DigestConfig{
			Enabled:  getEnvAsBool("DIGEST_ENABLED", false),
			Schedule: getEnv("DIGEST_SCHEDULE", "0 0 22 * * 1-5"),
			Tickers:  getEnv("DIGEST_TICKERS", ""),
			ChatIDs:  chatIDs,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Ratios.Sources) == 0 {
		return fmt.Errorf("RATIO_SOURCES must name at least one source")
	}
	for _, src := range c.Ratios.Sources {
		if !contains(KnownSources, src) {
			return fmt.Errorf("unknown ratio source %q (known: %s)", src, strings.Join(KnownSources, ", "))
		}
	}
	if c.HasSource("fmp") && c.FMP.APIKey == "" {
		return fmt.Errorf("FMP_API_KEY is required when fmp is a ratio source")
	}

	if !contains(KnownMergePolicies, c.Ratios.MergePolicy) {
		return fmt.Errorf("RATIO_MERGE_POLICY must be one of: %s", strings.Join(KnownMergePolicies, ", "))
	}

	if c.Ratios.Workers < 1 {
		return fmt.Errorf("RATIO_WORKERS must be positive")
	}
	if c.Ratios.MaxTickers < 1 {
		return fmt.Errorf("MAX_TICKERS must be positive")
	}

	if c.Digest.Enabled {
		if strings.TrimSpace(c.Digest.Tickers) == "" {
			return fmt.Errorf("DIGEST_TICKERS is required when the digest is enabled")
		}
		if len(c.Digest.ChatIDs) == 0 {
			return fmt.Errorf("DIGEST_CHAT_IDS is required when the digest is enabled")
		}
	}

	return nil
}

// HasSource reports whether the named ratio source is configured
func (c *Config) HasSource(name string) bool {
	return contains(c.Ratios.Sources, name)
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// splitList splits "a, b ,c" into ["a","b","c"], lowercased
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePairs parses "GOOGL:google-inc,AAPL:apple-computer-inc"
func parsePairs(s string) map[string]string {
	pairs := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			pairs[key] = value
		}
	}
	return pairs
}

func parseChatIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
