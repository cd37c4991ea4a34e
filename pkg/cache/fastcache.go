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
	"strconv"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

type FastCacheConfig struct {
	MaxBytes int // defaults to 16MB
}

// FastCache is an in-process ICache for single-instance deployments and tests.
// Expired keys are dropped lazily on access.
type FastCache struct {
	cache *fastcache.Cache
	mu    sync.Mutex
	ttls  map[string]time.Time
}

func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}
	return &FastCache{
		cache: fastcache.New(maxBytes),
		ttls:  make(map[string]time.Time),
	}
}

// lookup must be called with mu held.
func (fc *FastCache) lookup(key string) ([]byte, bool) {
	if exp, ok := fc.ttls[key]; ok && time.Now().After(exp) {
		fc.cache.Del([]byte(key))
		delete(fc.ttls, key)
		return nil, false
	}
	return fc.cache.HasGet(nil, []byte(key))
}

func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := redis.NewStringCmd(ctx, "get", key)
	value, ok := fc.lookup(key)
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(value))
	return cmd
}

func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.cache.Set([]byte(key), valueBytes)
	if expiration > 0 {
		fc.ttls[key] = time.Now().Add(expiration)
	} else {
		delete(fc.ttls, key)
	}
	cmd.SetVal("OK")
	return cmd
}

func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var count int64
	for _, key := range keys {
		if _, ok := fc.lookup(key); ok {
			fc.cache.Del([]byte(key))
			delete(fc.ttls, key)
			count++
		}
	}
	cmd := redis.NewIntCmd(ctx, "del")
	cmd.SetVal(count)
	return cmd
}

func (fc *FastCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var count int64
	for _, key := range keys {
		if _, ok := fc.lookup(key); ok {
			count++
		}
	}
	cmd := redis.NewIntCmd(ctx, "exists")
	cmd.SetVal(count)
	return cmd
}

func (fc *FastCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := redis.NewIntCmd(ctx, "incr", key)
	var n int64
	if raw, ok := fc.lookup(key); ok {
		parsed, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		n = parsed
	}
	n++
	fc.cache.Set([]byte(key), []byte(strconv.FormatInt(n, 10)))
	cmd.SetVal(n)
	return cmd
}

func (fc *FastCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx, "expire", key)
	if _, ok := fc.lookup(key); !ok {
		cmd.SetVal(false)
		return cmd
	}
	fc.ttls[key] = time.Now().Add(expiration)
	cmd.SetVal(true)
	return cmd
}

func (fc *FastCache) Stats() fastcache.Stats {
	var s fastcache.Stats
	fc.cache.UpdateStats(&s)
	return s
}
