package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvAuthJWTSecret      = "AUTH_JWT_SECRET"
	EnvCORSAllowedOrigin  = "CORS_ALLOWED_ORIGIN"
	EnvRestaurantTimezone = "RESTAURANT_TIMEZONE"

	EnvCancellationCutoff  = "CANCELLATION_CUTOFF"
	EnvBookingHorizonWeeks = "BOOKING_HORIZON_WEEKS"

	EnvRedisAddr        = "REDIS_ADDR"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvRedisDB          = "REDIS_DB"
	EnvCapacityCacheTTL = "CAPACITY_CACHE_TTL"

	EnvKafkaEnabled          = "KAFKA_ENABLED"
	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"

	EnvSchedulingAPIToken       = "SCHEDULING_API_TOKEN"
	EnvCalendlyAccessToken      = "CALENDLY_PERSONAL_ACCESS_TOKEN"
	EnvSchedulingAPIHosts       = "SCHEDULING_API_HOSTS"
	EnvSchedulingRatePerSec     = "SCHEDULING_RATE_PER_SEC"
	EnvSchedulingTimeout        = "SCHEDULING_TIMEOUT"
	EnvSchedulingWidgetURL      = "SCHEDULING_WIDGET_URL"
	EnvSchedulingWebhookSecret  = "SCHEDULING_WEBHOOK_SECRET"
	EnvSchedulingWebhookMaxSkew = "SCHEDULING_WEBHOOK_MAX_SKEW"
	EnvSealerKey                = "SEALER_KEY"

	EnvMailerSendAPIKey = "MAILERSEND_API_KEY"
	EnvMailerFromEmail  = "MAILER_FROM_EMAIL"
	EnvMailerFromName   = "MAILER_FROM_NAME"
)
