package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one pipeline transaction, and with it
	// how long a material row lock can be held.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long a replayable response is kept.
	IdempotencyKeyTTL = 24 * time.Hour

	// MaterialCacheTTL bounds how long a cached material may be served.
	MaterialCacheTTL = 5 * time.Minute
)
