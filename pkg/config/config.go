package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"buffet/pkg/client"
	"buffet/pkg/logger"

	"github.com/joho/godotenv"
)

var (
	mongoURIRegex   = regexp.MustCompile(`^mongodb(\+srv)?://`)
	credentialRegex = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	AuthJWTSecret     string
	CORSAllowedOrigin string

	RestaurantTimezone string
	Location           *time.Location

	CancellationCutoff  time.Duration
	BookingHorizonWeeks int

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CapacityCacheTTL time.Duration

	KafkaEnabled          bool
	BookingEventsTopic    string
	BookingEventsDLQTopic string

	SchedulingAPIToken       string
	SchedulingAPIHosts       []string
	SchedulingRatePerSec     int
	SchedulingTimeout        time.Duration
	SchedulingWidgetURL      string
	SchedulingWebhookSecret  string
	SchedulingWebhookMaxSkew time.Duration
	SealerKey                string

	MailerSendAPIKey string
	MailerFromEmail  string
	MailerFromName   string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads .env (if present) and the process environment, validates the result
// and exits on invalid configuration.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		AuthJWTSecret:     getEnvStr(EnvAuthJWTSecret, ""),
		CORSAllowedOrigin: getEnvStr(EnvCORSAllowedOrigin, DefaultCORSAllowedOrigin),

		RestaurantTimezone: getEnvStr(EnvRestaurantTimezone, DefaultRestaurantTimezone),

		CancellationCutoff:  getEnvDuration(EnvCancellationCutoff, DefaultCancellationCutoff),
		BookingHorizonWeeks: getEnvNum(EnvBookingHorizonWeeks, DefaultBookingHorizonWeeks),

		RedisAddr:        getEnvStr(EnvRedisAddr, ""),
		RedisPassword:    getEnvStr(EnvRedisPassword, ""),
		RedisDB:          getEnvNum(EnvRedisDB, DefaultRedisDB),
		CapacityCacheTTL: getEnvDuration(EnvCapacityCacheTTL, DefaultCapacityCacheTTL),

		KafkaEnabled:          getEnvBool(EnvKafkaEnabled, false),
		BookingEventsTopic:    getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		BookingEventsDLQTopic: getEnvStr(EnvBookingEventsDLQTopic, DefaultBookingEventsDLQTopic),

		SchedulingAPIToken:       getEnvStr(EnvSchedulingAPIToken, os.Getenv(EnvCalendlyAccessToken)),
		SchedulingAPIHosts:       getEnvList(EnvSchedulingAPIHosts, DefaultSchedulingAPIHosts),
		SchedulingRatePerSec:     getEnvNum(EnvSchedulingRatePerSec, DefaultSchedulingRatePerSec),
		SchedulingTimeout:        getEnvDuration(EnvSchedulingTimeout, DefaultSchedulingTimeout),
		SchedulingWidgetURL:      getEnvStr(EnvSchedulingWidgetURL, DefaultSchedulingWidgetURL),
		SchedulingWebhookSecret:  getEnvStr(EnvSchedulingWebhookSecret, ""),
		SchedulingWebhookMaxSkew: getEnvDuration(EnvSchedulingWebhookMaxSkew, DefaultSchedulingWebhookMaxSkew),
		SealerKey:                getEnvStr(EnvSealerKey, ""),

		MailerSendAPIKey: getEnvStr(EnvMailerSendAPIKey, ""),
		MailerFromEmail:  getEnvStr(EnvMailerFromEmail, ""),
		MailerFromName:   getEnvStr(EnvMailerFromName, DefaultMailerFromName),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the capacity cache. It is a no-op when REDIS_ADDR is empty.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Info("Redis not configured, capacity cache disabled")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

// Validate checks every setting and reports all problems at once. It also resolves Location.
func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"CapacityCacheTTL", cfg.CapacityCacheTTL},
		{"SchedulingTimeout", cfg.SchedulingTimeout},
		{"SchedulingWebhookMaxSkew", cfg.SchedulingWebhookMaxSkew},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", p.name, p.value))
		}
	}
	if cfg.CancellationCutoff < 0 {
		errors = append(errors, fmt.Sprintf("CancellationCutoff cannot be negative, got: %s", cfg.CancellationCutoff))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.BookingHorizonWeeks < 1 || cfg.BookingHorizonWeeks > 12 {
		errors = append(errors, fmt.Sprintf("BookingHorizonWeeks must be between 1 and 12, got: %d", cfg.BookingHorizonWeeks))
	}
	if cfg.SchedulingRatePerSec <= 0 {
		errors = append(errors, fmt.Sprintf("SchedulingRatePerSec must be positive, got: %d", cfg.SchedulingRatePerSec))
	}
	if len(cfg.SchedulingAPIHosts) == 0 {
		errors = append(errors, "SchedulingAPIHosts must list at least one host")
	}

	loc, err := time.LoadLocation(cfg.RestaurantTimezone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("RestaurantTimezone must be an IANA zone, got: %s", cfg.RestaurantTimezone))
	} else {
		cfg.Location = loc
	}

	if cfg.SealerKey != "" {
		if key, err := base64.StdEncoding.DecodeString(cfg.SealerKey); err != nil || len(key) != 32 {
			errors = append(errors, "SealerKey must be a base64-encoded 32 byte key")
		}
	}
	if cfg.MailerSendAPIKey != "" && cfg.MailerFromEmail == "" {
		errors = append(errors, "MailerFromEmail is required when MailerSendAPIKey is set")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"auth_secret_set", cfg.AuthJWTSecret != "",
		"cors_allowed_origin", cfg.CORSAllowedOrigin,
		"restaurant_timezone", cfg.RestaurantTimezone,
		"cancellation_cutoff", cfg.CancellationCutoff,
		"booking_horizon_weeks", cfg.BookingHorizonWeeks,
		"redis_enabled", cfg.RedisAddr != "",
		"capacity_cache_ttl", cfg.CapacityCacheTTL,
		"kafka_enabled", cfg.KafkaEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
		"scheduling_token_set", cfg.SchedulingAPIToken != "",
		"scheduling_api_hosts", cfg.SchedulingAPIHosts,
		"scheduling_rate_per_sec", cfg.SchedulingRatePerSec,
		"scheduling_webhook_enabled", cfg.SchedulingWebhookSecret != "",
		"sealer_key_set", cfg.SealerKey != "",
		"mailer_enabled", cfg.MailerSendAPIKey != "",
	)
}

// Now returns the current time in the restaurant's timezone.
func (cfg *Config) Now() time.Time {
	if cfg.Location == nil {
		return time.Now()
	}
	return time.Now().In(cfg.Location)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func redactMongoURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnvStr(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
