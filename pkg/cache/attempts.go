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

package cache

import (
	"context"
	"fmt"
	"time"
)

// AttemptLimiter counts failures per key inside a fixed window.
type AttemptLimiter struct {
	cache  ICache
	prefix string
}

func NewAttemptLimiter(cache ICache, conf Redis) *AttemptLimiter {
	return &AttemptLimiter{cache: cache, prefix: conf.KeyPrefix + "attempts:"}
}

// Hit records one failure and returns the count inside the current window.
// The window starts with the first failure.
func (l *AttemptLimiter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := l.prefix + key
	n, err := l.cache.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count attempt: %w", err)
	}
	if n == 1 {
		if err := l.cache.Expire(ctx, k, window).Err(); err != nil {
			return n, fmt.Errorf("failed to set attempt window: %w", err)
		}
	}
	return n, nil
}

func (l *AttemptLimiter) Count(ctx context.Context, key string) (int64, error) {
	raw, err := l.cache.Get(ctx, l.prefix+key).Int64()
	if err != nil {
		if err == ErrCacheMiss {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read attempts: %w", err)
	}
	return raw, nil
}

func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.cache.Del(ctx, l.prefix+key).Err()
}
