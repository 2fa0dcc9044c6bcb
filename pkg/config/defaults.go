package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tutormatch"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDefaultSearchRadiusKm = 10.0
	DefaultMaxSearchRadiusKm     = 100.0

	DefaultBookingLockTTL = 10 * time.Second

	DefaultPaymentGatewayURL     = "http://localhost:9090"
	DefaultPaymentGatewayTimeout = 10 * time.Second
	DefaultPaymentGatewayRetries = 2

	DefaultPaginationLimit = 100
)
