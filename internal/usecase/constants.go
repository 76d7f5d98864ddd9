package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultTotalsCacheTTL is how long totals of a closed box are cached
	DefaultTotalsCacheTTL = 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// MaxListLimit caps listing queries
	MaxListLimit = 1000
)
