package database

import "context"

// RetryExecutor retries an operation according to a named policy.
type RetryExecutor interface {
	ExecuteWithRetry(ctx context.Context, operationName string, operation func() error) error
}

// Retry policy names looked up on the RetryExecutor.
const (
	RedisConnectOperation    = "redis_connect"
	DatabaseConnectOperation = "database_connect"
)
