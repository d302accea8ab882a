package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 1
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

// RetryConfig controls retries of outbound calls. One attempt means no retry.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"1"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"5s"`
}

// ToRetryOptions converts the config into retry-go options bound to ctx.
// Zero attempts would make retry-go retry forever, so it is raised to one.
func (rc RetryConfig) ToRetryOptions(ctx context.Context) []retry.Option {
	attempts := rc.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}
