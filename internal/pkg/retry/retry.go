package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 2
	defaultDelay    = time.Second
)

// RetryConfig is an explicit retry policy. The default is one retry after a fixed
// one second delay; setting MaxDelay switches to exponential backoff capped at MaxDelay.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"2"`
	Delay    time.Duration `env:"DELAY" envDefault:"1s"`
	MaxDelay time.Duration `env:"MAX_DELAY"`
}

func (rc *RetryConfig) ToRetryOptions(ctx context.Context) []retry.Option {
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.LastErrorOnly(true),
	}

	if rc.MaxDelay > 0 {
		opts = append(opts,
			retry.DelayType(retry.BackOffDelay),
			retry.MaxDelay(rc.MaxDelay),
		)
	} else {
		opts = append(opts, retry.DelayType(retry.FixedDelay))
	}

	return opts
}

// Do runs fn under the policy. onRetry is optional.
func (rc *RetryConfig) Do(ctx context.Context, fn func() error, onRetry func(attempt uint, err error)) error {
	opts := rc.ToRetryOptions(ctx)
	if onRetry != nil {
		opts = append(opts, retry.OnRetry(onRetry))
	}
	return retry.Do(fn, opts...)
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
	}
}
