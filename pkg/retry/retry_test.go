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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")

func counting(failures int, err error) (Func, *int) {
	calls := 0
	return func(context.Context) error {
		calls++
		if calls <= failures {
			return err
		}
		return nil
	}, &calls
}

func TestDo(t *testing.T) {
	permanent := errors.New("permanent")
	tests := []struct {
		name     string
		failures int
		err      error
		opts     []Option
		wantErr  error
		wantCall int
	}{
		{"first call succeeds", 0, errTransient, nil, nil, 1},
		{"recovers", 2, errTransient, []Option{WithAttempts(3)}, nil, 3},
		{"gives up", 5, errTransient, []Option{WithAttempts(3)}, errTransient, 3},
		{"stops on rejected error", 5, permanent,
			[]Option{WithRetryIf(func(err error) bool { return err == errTransient })}, permanent, 1},
		{"zero attempts keeps default", 5, errTransient, []Option{WithAttempts(0)}, errTransient, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, calls := counting(tt.failures, tt.err)
			opts := append([]Option{WithBackoff(Fixed(0))}, tt.opts...)
			err := Do(context.Background(), fn, opts...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCall, *calls)
		})
	}
}

func TestDo_ContextEndsWait(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	fn, calls := counting(10, errTransient)
	start := time.Now()
	err := Do(ctx, fn, WithAttempts(5), WithBackoff(Fixed(time.Minute)))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, *calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDo_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fn, calls := counting(0, nil)
	assert.ErrorIs(t, Do(ctx, fn), context.Canceled)
	assert.Zero(t, *calls)
}

func TestExponential(t *testing.T) {
	b := Exponential(100*time.Millisecond, time.Second)
	assert.Equal(t, 100*time.Millisecond, b.Next(0))
	assert.Equal(t, 400*time.Millisecond, b.Next(2))
	assert.Equal(t, time.Second, b.Next(4))
	assert.Equal(t, time.Second, b.Next(70))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(errTransient))
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(context.Canceled))
	assert.False(t, Retryable(context.DeadlineExceeded))
}
