// Package retry runs functions again with backoff until they succeed or the policy gives up.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Backoff selects how the delay grows between attempts.
type Backoff string

const (
	BackoffConstant    Backoff = "constant"
	BackoffLinear      Backoff = "linear"
	BackoffExponential Backoff = "exponential"
)

// Config is a retry policy.
type Config struct {
	MaxAttempts     int           `yaml:"max_attempts,omitempty" mapstructure:"max_attempts"`
	BackoffStrategy Backoff       `yaml:"backoff_strategy,omitempty" mapstructure:"backoff_strategy"`
	InitialDelay    time.Duration `yaml:"initial_delay,omitempty" mapstructure:"initial_delay"`
	MaxDelay        time.Duration `yaml:"max_delay,omitempty" mapstructure:"max_delay"`
	RandomJitter    bool          `yaml:"random_jitter,omitempty" mapstructure:"random_jitter"`
	Multiplier      float64       `yaml:"multiplier,omitempty" mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time,omitempty" mapstructure:"max_elapsed_time"`
}

// Func represents a function that can be retried.
type Func func() error

// Executor handles the retry logic.
type Executor struct {
	config Config
	rand   *rand.Rand
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a new retry executor with the given config.
func New(config Config) *Executor {
	return &Executor{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  sleepContext,
	}
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

// Execute runs the function with retry logic.
func (e *Executor) Execute(ctx context.Context, fn Func) error {
	return e.ExecuteWithPredicate(ctx, fn, RetryOnAnyError)
}

type MaxElapsedTimeError struct {
	MaxElapsedTime time.Duration
}

func (e MaxElapsedTimeError) Error() string {
	return fmt.Sprintf("retry timeout exceeded after %v", e.MaxElapsedTime)
}

var ErrUnexpected = errors.New("unexpected end of retry loop")

func (e *Executor) ExecuteWithPredicate(ctx context.Context, fn Func, shouldRetry func(error) bool) error {
	startTime := time.Now()

	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		if e.config.MaxElapsedTime > 0 && time.Since(startTime) > e.config.MaxElapsedTime {
			return MaxElapsedTimeError{MaxElapsedTime: e.config.MaxElapsedTime}
		}

		err := fn()
		if err == nil {
			return nil
		}

		if !shouldRetry(err) {
			return err
		}

		if attempt == e.config.MaxAttempts {
			if attempt == 1 {
				return err
			}
			return fmt.Errorf("max attempts (%d) exceeded, last error: %w", e.config.MaxAttempts, err)
		}

		if err := e.sleep(ctx, e.calculateDelay(attempt)); err != nil {
			return fmt.Errorf("context cancelled during retry: %w", err)
		}
	}
	return ErrUnexpected
}

const jitterFlipChance = 0.5

// calculateDelay calculates the delay for the next retry attempt.
func (e *Executor) calculateDelay(attempt int) time.Duration {
	var delay time.Duration

	switch e.config.BackoffStrategy {
	case BackoffLinear:
		delay = time.Duration(float64(e.config.InitialDelay) * float64(attempt))
	case BackoffExponential:
		delay = time.Duration(float64(e.config.InitialDelay) * math.Pow(e.config.Multiplier, float64(attempt-1)))
	default:
		delay = e.config.InitialDelay
	}

	if e.config.MaxDelay > 0 && delay > e.config.MaxDelay {
		delay = e.config.MaxDelay
	}

	if e.config.RandomJitter {
		jitter := time.Duration(e.rand.Float64() * float64(delay) * 0.1) // 10% jitter
		if e.rand.Float64() < jitterFlipChance {
			delay += jitter
		} else {
			delay -= jitter
		}

		if delay < 0 {
			delay = time.Duration(0)
		}
	}

	return delay
}

// Do is a convenience function that creates an executor and runs the function.
func Do(ctx context.Context, config *Config, fn Func) error {
	return WithPredicate(ctx, config, fn, RetryOnAnyError)
}

// WithPredicate allows you to specify which errors should trigger a retry.
func WithPredicate(ctx context.Context, config *Config, fn Func, shouldRetry func(error) bool) error {
	if config == nil {
		temp := DefaultConfig()
		config = &temp
	}
	return New(*config).ExecuteWithPredicate(ctx, fn, shouldRetry)
}

const (
	defaultMaxAttempts    = 3
	defaultInitialDelay   = 200 * time.Millisecond
	defaultMaxDelay       = 2 * time.Second
	defaultMaxElapsedTime = 30 * time.Second
)

// DefaultConfig is the policy of registry lookups.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     defaultMaxAttempts,
		BackoffStrategy: BackoffExponential,
		InitialDelay:    defaultInitialDelay,
		MaxDelay:        defaultMaxDelay,
		RandomJitter:    true,
		Multiplier:      2.0,
		MaxElapsedTime:  defaultMaxElapsedTime,
	}
}

// RetryOnAnyError retries on any error.
var RetryOnAnyError = func(error) bool { return true }
