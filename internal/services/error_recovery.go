package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Retry policy names used by the pairscan binary.
const (
	RetryDatabaseConnect = "database_connect"
	RetryRedisConnect    = "redis_connect"
	RetryPriceLoad       = "price_load"
)

// RetryPolicy defines retry behavior for failed operations
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterEnabled bool
}

// ErrorRecoveryManager retries infrastructure operations (connections and
// price loads) with exponential backoff.
type ErrorRecoveryManager struct {
	logger        *logrus.Logger
	retryPolicies map[string]*RetryPolicy
	mu            sync.RWMutex
	sleep         func(ctx context.Context, d time.Duration) error
}

// NewErrorRecoveryManager creates a manager with DefaultRetryPolicies registered.
func NewErrorRecoveryManager(logger *logrus.Logger) *ErrorRecoveryManager {
	if logger == nil {
		logger = logrus.New()
	}
	erm := &ErrorRecoveryManager{
		logger:        logger,
		retryPolicies: make(map[string]*RetryPolicy),
		sleep:         sleepContext,
	}
	for name, policy := range DefaultRetryPolicies() {
		erm.RegisterRetryPolicy(name, policy)
	}
	return erm
}

// RegisterRetryPolicy registers a retry policy for a specific operation
func (erm *ErrorRecoveryManager) RegisterRetryPolicy(name string, policy *RetryPolicy) {
	erm.mu.Lock()
	defer erm.mu.Unlock()

	erm.retryPolicies[name] = policy
}

// Policy returns the policy registered for name, or nil.
func (erm *ErrorRecoveryManager) Policy(name string) *RetryPolicy {
	erm.mu.RLock()
	defer erm.mu.RUnlock()
	return erm.retryPolicies[name]
}

// ExecuteWithRetry runs operation until it succeeds, the policy is exhausted
// or ctx is done. The last operation error is returned.
func (erm *ErrorRecoveryManager) ExecuteWithRetry(
	ctx context.Context,
	operationName string,
	operation func() error,
) error {
	start := time.Now()

	retryPolicy := erm.Policy(operationName)
	if retryPolicy == nil {
		retryPolicy = &RetryPolicy{
			MaxRetries:    3,
			InitialDelay:  100 * time.Millisecond,
			MaxDelay:      5 * time.Second,
			BackoffFactor: 2.0,
			JitterEnabled: true,
		}
	}

	delay := retryPolicy.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= retryPolicy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation()
		if err == nil {
			if attempt > 0 {
				erm.logger.WithFields(logrus.Fields{
					"operation": operationName,
					"attempts":  attempt + 1,
					"duration":  time.Since(start),
				}).Info("Operation recovered after retry")
			}
			return nil
		}

		lastErr = err

		if attempt == retryPolicy.MaxRetries {
			break
		}

		erm.logger.WithFields(logrus.Fields{
			"operation": operationName,
			"attempt":   attempt + 1,
			"error":     err.Error(),
			"delay":     delay,
		}).Warn("Operation failed, retrying")

		if err := erm.sleep(ctx, calculateDelay(delay, retryPolicy)); err != nil {
			return err
		}
		delay = time.Duration(float64(delay) * retryPolicy.BackoffFactor)
		if delay > retryPolicy.MaxDelay {
			delay = retryPolicy.MaxDelay
		}
	}

	erm.logger.WithFields(logrus.Fields{
		"operation": operationName,
		"attempts":  retryPolicy.MaxRetries + 1,
		"duration":  time.Since(start),
		"error":     lastErr.Error(),
	}).Error("Operation failed after all retries")

	return lastErr
}

// calculateDelay adds up to 25% jitter when the policy asks for it.
func calculateDelay(baseDelay time.Duration, policy *RetryPolicy) time.Duration {
	if !policy.JitterEnabled || baseDelay <= 0 {
		return baseDelay
	}
	jitter := time.Duration(float64(baseDelay) * 0.25 * (rand.Float64() - 0.5))
	return baseDelay + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DefaultRetryPolicies returns default retry policies for the pairscan
// infrastructure calls.
func DefaultRetryPolicies() map[string]*RetryPolicy {
	return map[string]*RetryPolicy{
		RetryDatabaseConnect: {
			MaxRetries:    5,
			InitialDelay:  200 * time.Millisecond,
			MaxDelay:      5 * time.Second,
			BackoffFactor: 2.0,
			JitterEnabled: true,
		},
		RetryRedisConnect: {
			MaxRetries:    3,
			InitialDelay:  100 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			BackoffFactor: 2.0,
			JitterEnabled: false,
		},
		RetryPriceLoad: {
			MaxRetries:    2,
			InitialDelay:  500 * time.Millisecond,
			MaxDelay:      3 * time.Second,
			BackoffFactor: 1.5,
			JitterEnabled: true,
		},
	}
}
