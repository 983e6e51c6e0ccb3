// Package retry wraps Artifactory calls with exponential backoff.
//
// The client never retries on its own; callers that want retries opt in by
// wrapping a call with Do.
package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/s0up4200/rtclient/artifactory"
)

// Default backoff limits
const (
	DefaultMaxElapsedTime = 20 * time.Second
	DefaultMaxInterval    = 2 * time.Second
)

// Config controls the exponential backoff.
type Config struct {
	MaxElapsedTime time.Duration
	MaxInterval    time.Duration
	// MaxRetries bounds the number of retries; 0 disables retrying
	MaxRetries uint64
	Logger     zerolog.Logger
}

// DefaultConfig returns a config with the default limits and no retries.
func DefaultConfig() Config {
	return Config{
		MaxElapsedTime: DefaultMaxElapsedTime,
		MaxInterval:    DefaultMaxInterval,
		Logger:         zerolog.Nop(),
	}
}

// Retryable reports whether err is worth another attempt: transport
// failures, rate limiting and server side errors.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *artifactory.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.StatusCode)
	}
	var malformed *artifactory.MalformedError
	if errors.As(err, &malformed) {
		return retryableStatus(malformed.StatusCode)
	}
	if errors.Is(err, artifactory.ErrInvalidSettings) || errors.Is(err, artifactory.ErrPrecondition) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Do runs fn until it succeeds, fails with a non retryable error or the
// backoff gives up.
func Do[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	eb := backoff.NewExponentialBackOff()
	if cfg.MaxElapsedTime > 0 {
		eb.MaxElapsedTime = cfg.MaxElapsedTime
	}
	if cfg.MaxInterval > 0 {
		eb.MaxInterval = cfg.MaxInterval
	}

	b := backoff.WithContext(backoff.WithMaxRetries(eb, cfg.MaxRetries), ctx)

	operation := func() (T, error) {
		result, err := fn(ctx)
		if err != nil && !Retryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	notify := func(err error, wait time.Duration) {
		cfg.Logger.Warn().
			Err(err).
			Dur("retry_in", wait).
			Msg("Artifactory call failed, retrying")
	}

	return backoff.RetryNotifyWithData(operation, b, notify)
}
