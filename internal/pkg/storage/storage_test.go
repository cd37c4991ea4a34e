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

package storage

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpect-group/portal/internal/pkg/wizard"
)

func TestFullPath(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"", "a/b.png", "a/b.png"},
		{"onboarding", "a/b.png", "onboarding/a/b.png"},
		{"/onboarding/", "/a/b.png", "onboarding/a/b.png"},
		{"onboarding", "onboarding/a/b.png", "onboarding/a/b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"|"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, fullPath(tt.base, tt.key))
		})
	}
}

func TestNew(t *testing.T) {
	store, err := New(Conf{})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(Conf{Provider: ProviderMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, store)

	_, err = New(Conf{Provider: "gcs"})
	assert.Error(t, err)
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage("onboarding")

	key, err := store.Put(ctx, "cl-1/passport.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "onboarding/cl-1/passport.png", key)

	data, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	u, err := store.PresignGet(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "memory:///onboarding/cl-1/passport.png?expires="))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

type failingStorage struct {
	*MemoryStorage
	failOn string
	puts   atomic.Int32
}

func (f *failingStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.puts.Add(1)
	if strings.Contains(key, f.failOn) {
		return "", errors.New("bucket unavailable")
	}
	return f.MemoryStorage.Put(ctx, key, data, contentType)
}

func sampleFiles() map[string]*wizard.File {
	return map[string]*wizard.File{
		"passport":   {Name: "passport.png", MediaType: "image/png", Data: []byte("p")},
		"salarySlip": {Name: "slip.pdf", MediaType: "application/pdf", Data: []byte("s")},
		"brp":        {Name: "brp.jpg", MediaType: "image/jpeg", Data: []byte("b")},
	}
}

func TestOffloader_Offload(t *testing.T) {
	store := NewMemoryStorage("")
	o := NewOffloader(store)
	require.True(t, o.Enabled())

	keys, err := o.Offload(context.Background(), "cl-1", sampleFiles())
	require.NoError(t, err)
	assert.Len(t, keys, 3)
	assert.Equal(t, 3, store.Len())
	for field, key := range keys {
		assert.True(t, strings.HasPrefix(key, "cl-1/"+field), key)
	}

	u, err := o.Presign(context.Background(), keys["passport"], time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, keys["passport"])
}

func TestOffloader_RollsBackOnFailure(t *testing.T) {
	store := &failingStorage{MemoryStorage: NewMemoryStorage(""), failOn: "salarySlip"}
	o := NewOffloader(store)

	keys, err := o.Offload(context.Background(), "cl-1", sampleFiles())
	require.Error(t, err)
	assert.Nil(t, keys)
	assert.Contains(t, err.Error(), "upload attachment salarySlip")
	assert.Equal(t, 0, store.Len())
}

func TestOffloader_Disabled(t *testing.T) {
	var o *Offloader
	assert.False(t, o.Enabled())

	keys, err := NewOffloader(nil).Offload(context.Background(), "cl-1", sampleFiles())
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = NewOffloader(nil).Presign(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}
