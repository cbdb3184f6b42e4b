package builder

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/samdwyer/dungenmap/internal/content"
	"github.com/samdwyer/dungenmap/internal/layout"
)

// BuildWithRetry runs whole builds until one succeeds, bumping the seed
// before each new attempt so a different template mix is tried. Only
// validation failures are retried. It returns the seed that succeeded.
func (b *Builder) BuildWithRetry(ctx context.Context, l layout.Layout, catalog *content.Catalog, p Props, maxAttempts int) (*Dungeon, int64, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond

	attempt := 0
	seed := p.Seed
	op := func() (*Dungeon, error) {
		props := p
		props.Seed = p.Seed + int64(attempt)
		attempt++
		d, err := b.Build(ctx, l, catalog, props)
		if err != nil {
			if !IsValidation(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		seed = props.Seed
		return d, nil
	}

	d, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			b.log.Info("build failed, retrying with a new seed", "attempt", attempt, "error", err.Error(), "next", next)
		}),
	)
	if err != nil {
		return nil, 0, err
	}
	return d, seed, nil
}
