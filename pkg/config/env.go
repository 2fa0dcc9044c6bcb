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

	EnvDefaultSearchRadiusKm = "DEFAULT_SEARCH_RADIUS_KM"
	EnvMaxSearchRadiusKm     = "MAX_SEARCH_RADIUS_KM"

	EnvBookingLockTTL = "BOOKING_LOCK_TTL"

	EnvPaymentGatewayURL     = "PAYMENT_GATEWAY_URL"
	EnvPaymentGatewayKey     = "PAYMENT_GATEWAY_KEY"
	EnvPaymentGatewayTimeout = "PAYMENT_GATEWAY_TIMEOUT"
	EnvPaymentGatewayRetries = "PAYMENT_GATEWAY_RETRIES"
)
