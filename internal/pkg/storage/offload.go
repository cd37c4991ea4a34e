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
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/xpect-group/portal/internal/pkg/wizard"
	"github.com/xpect-group/portal/pkg/log"
	"golang.org/x/sync/errgroup"
)

const maxParallelUploads = 4

// Offloader moves decoded onboarding attachments into object storage.
type Offloader struct {
	store Storage
}

func NewOffloader(store Storage) *Offloader {
	return &Offloader{store: store}
}

func (o *Offloader) Enabled() bool {
	return o != nil && o.store != nil
}

// Offload uploads files in parallel under prefix and returns object keys by
// field name. Either every file is stored or none is kept.
func (o *Offloader) Offload(ctx context.Context, prefix string, files map[string]*wizard.File) (map[string]string, error) {
	if !o.Enabled() || len(files) == 0 {
		return map[string]string{}, nil
	}

	var mu sync.Mutex
	keys := make(map[string]string, len(files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelUploads)
	for field, file := range files {
		eg.Go(func() error {
			key, err := o.store.Put(egCtx, prefix+"/"+field+file.Extension(), file.Data, file.MediaType)
			if err != nil {
				return errors.Wrapf(err, "upload attachment %s", field)
			}
			mu.Lock()
			keys[field] = key
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		o.Discard(context.WithoutCancel(ctx), slices.Collect(maps.Values(keys))...)
		return nil, err
	}
	return keys, nil
}

// Discard removes stored objects, logging the ones that could not be removed.
func (o *Offloader) Discard(ctx context.Context, keys ...string) {
	if !o.Enabled() {
		return
	}
	for _, key := range keys {
		if err := o.store.Delete(ctx, key); err != nil {
			log.WithContext(ctx).Warnw("failed to remove stored object", "key", key, "error", err)
		}
	}
}

// Presign returns a temporary download URL for key.
func (o *Offloader) Presign(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if !o.Enabled() {
		return "", errors.New("object storage is not configured")
	}
	u, err := o.store.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", errors.Wrapf(err, "presign %s", key)
	}
	return u, nil
}
