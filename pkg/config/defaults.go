package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "buffet"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCORSAllowedOrigin  = "*"
	DefaultRestaurantTimezone = "America/Toronto"

	DefaultCancellationCutoff  = 2 * time.Hour
	DefaultBookingHorizonWeeks = 4

	DefaultRedisDB          = 0
	DefaultCapacityCacheTTL = 2 * time.Minute

	DefaultBookingEventsTopic    = "buffet.booking-events"
	DefaultBookingEventsDLQTopic = "dlq-buffet-booking-events"

	DefaultSchedulingAPIHosts       = "api.calendly.com"
	DefaultSchedulingRatePerSec     = 5
	DefaultSchedulingTimeout        = 10 * time.Second
	DefaultSchedulingWidgetURL      = "https://calendly.com/noorsbhaibiryani/buffet-reservation"
	DefaultSchedulingWebhookMaxSkew = 5 * time.Minute

	DefaultMailerFromName = "Noor's Bhai Biryani"

	MaxGuestsPerBooking = 20
	MaxSessionCapacity  = 500
)
