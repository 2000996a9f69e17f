package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tutorly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Checkout window a student gets to complete a booking before the
	// slot hold lapses and becomes reusable.
	DefaultReservationTTL = 10 * time.Minute

	DefaultHourlyRate         = 25.0
	DefaultPlatformFeePercent = 20.0
	DefaultAmountTolerance    = 0.01

	// Free-slot queries exclude slots held by in-flight reservations.
	DefaultStrictFreeSlots = true

	// Booking events are published to Kafka when enabled; otherwise they
	// are logged and dropped.
	DefaultNotificationsEnabled = false

	DefaultPaginationLimit = 100
)
