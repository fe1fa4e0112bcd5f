// README: Config loader; .env via godotenv, optional rideinsight.yaml via viper, env vars win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type DataConfig struct {
	CSVPath             string
	SampleSize          int
	SampleSeed          int64
	LargeGroupThreshold int
}

type AIConfig struct {
	Enabled         bool
	Provider        string
	Model           string
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	MaxOutputTokens int
	Temperature     float64
	// ProbeTTL is how long one availability probe serves new sessions.
	ProbeTTL time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Data DataConfig
	// DB is optional; an empty DSN skips the Postgres trip source.
	DB struct {
		DSN string
	}
	// Redis is optional; an empty Addr disables the aggregate cache.
	Redis struct {
		Addr string
		TTL  time.Duration
	}
	AI  AIConfig
	Log struct {
		Level  string
		Format string
	}
	Chat struct {
		MaxSessions int
		SessionTTL  time.Duration
	}
}

// Options locate the optional files. Zero values use the defaults below.
type Options struct {
	EnvFiles    []string
	ConfigName  string
	ConfigPaths []string
}

var defaultOptions = Options{
	EnvFiles:    []string{".env", "../.env", "../../.env"},
	ConfigName:  "rideinsight",
	ConfigPaths: []string{".", "./configs"},
}

func Load() (Config, error) {
	return LoadWith(defaultOptions)
}

func LoadWith(opts Options) (Config, error) {
	if opts.ConfigName == "" {
		opts.ConfigName = defaultOptions.ConfigName
	}
	loadEnvFiles(opts.EnvFiles)

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(opts.ConfigName)
	v.SetConfigType("yaml")
	for _, p := range opts.ConfigPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("RIDEINSIGHT_HTTP_ADDR", v.GetString("http.addr"))

	cfg.Data.CSVPath = envOrDefault("RIDEINSIGHT_DATA_CSV", v.GetString("data.csv_path"))
	cfg.Data.SampleSize = envOrDefaultInt("RIDEINSIGHT_SAMPLE_SIZE", v.GetInt("data.sample_size"))
	cfg.Data.SampleSeed = int64(envOrDefaultInt("RIDEINSIGHT_SAMPLE_SEED", v.GetInt("data.sample_seed")))
	cfg.Data.LargeGroupThreshold = envOrDefaultInt("RIDEINSIGHT_LARGE_GROUP_THRESHOLD", v.GetInt("data.large_group_threshold"))

	cfg.DB.DSN = envOrDefault("RIDEINSIGHT_DB_DSN", v.GetString("db.dsn"))
	cfg.Redis.Addr = envOrDefault("RIDEINSIGHT_REDIS_ADDR", v.GetString("redis.addr"))
	cfg.Redis.TTL = envOrDefaultDuration("RIDEINSIGHT_REDIS_TTL", v.GetDuration("redis.ttl"))

	cfg.AI.Enabled = envOrDefaultBool("RIDEINSIGHT_AI_ENABLED", v.GetBool("ai.enabled"))
	cfg.AI.Provider = strings.ToLower(envOrDefault("RIDEINSIGHT_AI_PROVIDER", v.GetString("ai.provider")))
	cfg.AI.Model = envOrDefault("RIDEINSIGHT_AI_MODEL", v.GetString("ai.model"))
	cfg.AI.BaseURL = envOrDefault("RIDEINSIGHT_AI_BASE_URL", v.GetString("ai.base_url"))
	cfg.AI.APIKey = envOrDefault("RIDEINSIGHT_AI_API_KEY", providerKey(cfg.AI.Provider))
	cfg.AI.Timeout = envOrDefaultDuration("RIDEINSIGHT_AI_TIMEOUT", v.GetDuration("ai.timeout"))
	cfg.AI.MaxOutputTokens = envOrDefaultInt("RIDEINSIGHT_AI_MAX_TOKENS", v.GetInt("ai.max_output_tokens"))
	cfg.AI.ProbeTTL = envOrDefaultDuration("RIDEINSIGHT_AI_PROBE_TTL", v.GetDuration("ai.probe_ttl"))
	cfg.AI.Temperature = envOrDefaultFloat("RIDEINSIGHT_AI_TEMPERATURE", v.GetFloat64("ai.temperature"))

	cfg.Log.Level = envOrDefault("RIDEINSIGHT_LOG_LEVEL", v.GetString("log.level"))
	cfg.Log.Format = envOrDefault("RIDEINSIGHT_LOG_FORMAT", v.GetString("log.format"))

	cfg.Chat.MaxSessions = envOrDefaultInt("RIDEINSIGHT_MAX_SESSIONS", v.GetInt("chat.max_sessions"))
	cfg.Chat.SessionTTL = envOrDefaultDuration("RIDEINSIGHT_SESSION_TTL", v.GetDuration("chat.session_ttl"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("data.csv_path", "data/trips.csv")
	v.SetDefault("data.sample_size", 2000)
	v.SetDefault("data.sample_seed", 42)
	v.SetDefault("data.large_group_threshold", 6)
	v.SetDefault("redis.ttl", "10m")
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.timeout", "10s")
	v.SetDefault("ai.max_output_tokens", 500)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.probe_ttl", "1m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("chat.max_sessions", 1000)
	v.SetDefault("chat.session_ttl", "30m")
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var problems []string
	if c.Data.LargeGroupThreshold < 1 {
		problems = append(problems, "large group threshold must be at least 1")
	}
	if c.Data.SampleSize < 0 {
		problems = append(problems, "sample size must not be negative")
	}
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		problems = append(problems, fmt.Sprintf("unknown ai provider %q", c.AI.Provider))
	}
	if c.AI.Timeout <= 0 {
		problems = append(problems, "ai timeout must be positive")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		problems = append(problems, "ai temperature must be within 0..2")
	}
	if c.Chat.MaxSessions < 1 {
		problems = append(problems, "max sessions must be at least 1")
	}
	if c.Chat.SessionTTL <= 0 {
		problems = append(problems, "session ttl must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func providerKey(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

// loadEnvFiles loads the first .env found; existing env vars are kept.
func loadEnvFiles(paths []string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			return
		}
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
