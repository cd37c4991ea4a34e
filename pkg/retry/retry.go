// Copyright 2025 Xpect Portal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package retry runs an operation again after transient failures.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

type Func func(ctx context.Context) error

// RetryIf reports whether err is worth another attempt.
type RetryIf func(error) bool

// Backoff returns the wait before retry number attempt, counted from zero.
type Backoff interface {
	Next(attempt int) time.Duration
}

type fixedBackoff time.Duration

func (b fixedBackoff) Next(int) time.Duration { return time.Duration(b) }

func Fixed(interval time.Duration) Backoff {
	return fixedBackoff(interval)
}

type exponentialBackoff struct {
	base time.Duration
	max  time.Duration
}

func (b exponentialBackoff) Next(attempt int) time.Duration {
	if b.max > 0 && attempt >= 32 {
		return b.max
	}
	d := b.base << attempt
	if b.max > 0 && (d > b.max || d <= 0) {
		return b.max
	}
	return d
}

// Exponential doubles base on every retry, capped at max when max > 0.
func Exponential(base, max time.Duration) Backoff {
	return exponentialBackoff{base: base, max: max}
}

type config struct {
	attempts int
	backoff  Backoff
	jitter   bool
	retryIf  RetryIf
}

type Option func(*config)

// WithAttempts sets the total number of calls, the first one included.
func WithAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.attempts = n
		}
	}
}

func WithBackoff(b Backoff) Option {
	return func(c *config) {
		if b != nil {
			c.backoff = b
		}
	}
}

// WithJitter spreads each wait uniformly over [0, wait).
func WithJitter() Option {
	return func(c *config) { c.jitter = true }
}

func WithRetryIf(fn RetryIf) Option {
	return func(c *config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

// Do calls fn until it succeeds, returns an error RetryIf rejects, runs out
// of attempts or ctx ends. The last error from fn is returned.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &config{
		attempts: 3,
		backoff:  Fixed(time.Second),
		retryIf:  Retryable,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var err error
	for attempt := 0; attempt < cfg.attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if !cfg.retryIf(err) || attempt == cfg.attempts-1 {
			return err
		}

		wait := cfg.backoff.Next(attempt)
		if cfg.jitter && wait > 0 {
			wait = time.Duration(rand.Int64N(int64(wait)))
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return err
}

// Retryable retries everything except cancellation.
func Retryable(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
