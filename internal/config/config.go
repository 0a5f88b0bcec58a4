package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	GenAI    GenAIConfig
	Insights InsightsConfig
	Sweep    SweepConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

func (c AppConfig) IsDevelopment() bool {
	env := strings.ToLower(c.Environment)
	return env == "development" || env == "dev" || env == "local"
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	// AutoMigrate applies embedded migrations when the server starts.
	AutoMigrate bool

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// JWTConfig holds the shared secret used to verify identity provider tokens.
type JWTConfig struct {
	Secret    string
	Issuer    string
	ExpiresIn time.Duration
}

type GenAIConfig struct {
	APIKey            string
	Model             string
	Temperature       float32
	RequestsPerMinute int
}

type InsightsConfig struct {
	FreshnessWindow   time.Duration
	MaxAttempts       int
	AttemptTimeout    time.Duration
	BackoffStep       time.Duration
	DefaultGrowthRate float64
	Market            string
	Currency          string
	AllowPlaceholder  bool
}

type SweepConfig struct {
	Enabled           bool
	Weekday           time.Weekday
	Hour              int
	Minute            int
	Concurrency       int
	RequestsPerSecond int
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// policyFile is the optional YAML overlay. Environment variables take precedence over it.
type policyFile struct {
	Insights struct {
		FreshnessWindow   string   `yaml:"freshness_window"`
		MaxAttempts       int      `yaml:"max_attempts"`
		AttemptTimeout    string   `yaml:"attempt_timeout"`
		BackoffStep       string   `yaml:"backoff_step"`
		DefaultGrowthRate *float64 `yaml:"default_growth_rate"`
		Market            string   `yaml:"market"`
		Currency          string   `yaml:"currency"`
		AllowPlaceholder  *bool    `yaml:"allow_placeholder"`
	} `yaml:"insights"`
	Sweep struct {
		Enabled           *bool  `yaml:"enabled"`
		Weekday           string `yaml:"weekday"`
		Hour              *int   `yaml:"hour"`
		Minute            *int   `yaml:"minute"`
		Concurrency       int    `yaml:"concurrency"`
		RequestsPerSecond int    `yaml:"requests_per_second"`
	} `yaml:"sweep"`
	GenAI struct {
		Model             string   `yaml:"model"`
		Temperature       *float32 `yaml:"temperature"`
		RequestsPerMinute int      `yaml:"requests_per_minute"`
	} `yaml:"genai"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
}

func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			DBHost:         "localhost",
			DBPort:         "5432",
			DBSSLMode:      "disable",
			AutoMigrate:    true,
			ConnectTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
			TTL:  10 * time.Minute,
		},
		JWT: JWTConfig{
			ExpiresIn: 24 * time.Hour,
		},
		GenAI: GenAIConfig{
			Model:             "gemini-2.5-flash",
			Temperature:       0.7,
			RequestsPerMinute: 60,
		},
		Insights: InsightsConfig{
			FreshnessWindow:   7 * 24 * time.Hour,
			MaxAttempts:       3,
			AttemptTimeout:    15 * time.Second,
			BackoffStep:       time.Second,
			DefaultGrowthRate: 15,
			Market:            "India",
			Currency:          "INR",
		},
		Sweep: SweepConfig{
			Enabled:           true,
			Weekday:           time.Sunday,
			Hour:              0,
			Minute:            0,
			Concurrency:       2,
			RequestsPerSecond: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyPolicyFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	optInt := func(key string, def int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optFloat := func(key string, def float64) float64 {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	db := cfg.Database
	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST", db.DBHost),
		DBPort:                opt("DB_PORT", db.DBPort),
		DBName:                opt("DB_NAME", db.DBName),
		DBUser:                opt("DB_USER", db.DBUser),
		DBPassword:            strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBSSLMode:             opt("DB_SSL_MODE", db.DBSSLMode),
		AutoMigrate:           optBool("DB_AUTO_MIGRATE", db.AutoMigrate),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", db.ConnectTimeout),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", int(db.PoolMaxConns))),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", int(db.PoolMinConns))),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", db.PoolMaxConnLifetime),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", db.PoolMaxConnIdleTime),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", db.PoolHealthCheckPeriod),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", cfg.Redis.Host),
		Port:     opt("REDIS_PORT", cfg.Redis.Port),
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DB:       optInt("REDIS_DB", cfg.Redis.DB),
		TTL:      optDuration("REDIS_TTL", cfg.Redis.TTL),
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		Issuer:    opt("JWT_ISSUER", cfg.JWT.Issuer),
		ExpiresIn: optDuration("JWT_EXPIRES_IN", cfg.JWT.ExpiresIn),
	}

	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	}
	cfg.GenAI = GenAIConfig{
		APIKey:            apiKey,
		Model:             opt("GENAI_MODEL", cfg.GenAI.Model),
		Temperature:       float32(optFloat("GENAI_TEMPERATURE", float64(cfg.GenAI.Temperature))),
		RequestsPerMinute: optInt("GENAI_REQUESTS_PER_MINUTE", cfg.GenAI.RequestsPerMinute),
	}

	ins := cfg.Insights
	cfg.Insights = InsightsConfig{
		FreshnessWindow:   optDuration("INSIGHTS_FRESHNESS_WINDOW", ins.FreshnessWindow),
		MaxAttempts:       optInt("INSIGHTS_MAX_ATTEMPTS", ins.MaxAttempts),
		AttemptTimeout:    optDuration("INSIGHTS_ATTEMPT_TIMEOUT", ins.AttemptTimeout),
		BackoffStep:       optDuration("INSIGHTS_BACKOFF_STEP", ins.BackoffStep),
		DefaultGrowthRate: optFloat("INSIGHTS_DEFAULT_GROWTH_RATE", ins.DefaultGrowthRate),
		Market:            opt("INSIGHTS_MARKET", ins.Market),
		Currency:          opt("INSIGHTS_CURRENCY", ins.Currency),
		AllowPlaceholder:  optBool("INSIGHTS_ALLOW_PLACEHOLDER", ins.AllowPlaceholder),
	}

	sw := cfg.Sweep
	weekday := sw.Weekday
	if raw := strings.TrimSpace(os.Getenv("SWEEP_WEEKDAY")); raw != "" {
		wd, ok := ParseWeekday(raw)
		if !ok {
			invalid = append(invalid, "SWEEP_WEEKDAY")
		} else {
			weekday = wd
		}
	}
	cfg.Sweep = SweepConfig{
		Enabled:           optBool("SWEEP_ENABLED", sw.Enabled),
		Weekday:           weekday,
		Hour:              optInt("SWEEP_HOUR", sw.Hour),
		Minute:            optInt("SWEEP_MINUTE", sw.Minute),
		Concurrency:       optInt("SWEEP_CONCURRENCY", sw.Concurrency),
		RequestsPerSecond: optInt("SWEEP_REQUESTS_PER_SECOND", sw.RequestsPerSecond),
	}

	cfg.Log = LogConfig{
		Level:  opt("LOG_LEVEL", cfg.Log.Level),
		Format: opt("LOG_FORMAT", cfg.Log.Format),
		File:   opt("LOG_FILE", cfg.Log.File),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func applyPolicyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var pf policyFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return err
	}

	dur := func(raw string, dst *time.Duration) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}

	in := pf.Insights
	if err := dur(in.FreshnessWindow, &cfg.Insights.FreshnessWindow); err != nil {
		return fmt.Errorf("insights.freshness_window: %w", err)
	}
	if err := dur(in.AttemptTimeout, &cfg.Insights.AttemptTimeout); err != nil {
		return fmt.Errorf("insights.attempt_timeout: %w", err)
	}
	if err := dur(in.BackoffStep, &cfg.Insights.BackoffStep); err != nil {
		return fmt.Errorf("insights.backoff_step: %w", err)
	}
	if in.MaxAttempts > 0 {
		cfg.Insights.MaxAttempts = in.MaxAttempts
	}
	if in.DefaultGrowthRate != nil {
		cfg.Insights.DefaultGrowthRate = *in.DefaultGrowthRate
	}
	if s := strings.TrimSpace(in.Market); s != "" {
		cfg.Insights.Market = s
	}
	if s := strings.TrimSpace(in.Currency); s != "" {
		cfg.Insights.Currency = s
	}
	if in.AllowPlaceholder != nil {
		cfg.Insights.AllowPlaceholder = *in.AllowPlaceholder
	}

	sw := pf.Sweep
	if sw.Enabled != nil {
		cfg.Sweep.Enabled = *sw.Enabled
	}
	if s := strings.TrimSpace(sw.Weekday); s != "" {
		wd, ok := ParseWeekday(s)
		if !ok {
			return fmt.Errorf("sweep.weekday: unknown weekday %q", s)
		}
		cfg.Sweep.Weekday = wd
	}
	if sw.Hour != nil {
		cfg.Sweep.Hour = *sw.Hour
	}
	if sw.Minute != nil {
		cfg.Sweep.Minute = *sw.Minute
	}
	if sw.Concurrency > 0 {
		cfg.Sweep.Concurrency = sw.Concurrency
	}
	if sw.RequestsPerSecond > 0 {
		cfg.Sweep.RequestsPerSecond = sw.RequestsPerSecond
	}

	if s := strings.TrimSpace(pf.GenAI.Model); s != "" {
		cfg.GenAI.Model = s
	}
	if pf.GenAI.Temperature != nil {
		cfg.GenAI.Temperature = *pf.GenAI.Temperature
	}
	if pf.GenAI.RequestsPerMinute > 0 {
		cfg.GenAI.RequestsPerMinute = pf.GenAI.RequestsPerMinute
	}

	if s := strings.TrimSpace(pf.Log.Level); s != "" {
		cfg.Log.Level = s
	}
	if s := strings.TrimSpace(pf.Log.Format); s != "" {
		cfg.Log.Format = s
	}
	if s := strings.TrimSpace(pf.Log.File); s != "" {
		cfg.Log.File = s
	}
	return nil
}

func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), true
	}
	return time.Sunday, false
}
