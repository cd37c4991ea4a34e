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
	"net/url"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process. Presigned URLs use the memory:// scheme.
type MemoryStorage struct {
	mu       sync.RWMutex
	basePath string
	objects  map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStorage(basePath string) *MemoryStorage {
	return &MemoryStorage{basePath: basePath, objects: make(map[string]memoryObject)}
}

func (m *MemoryStorage) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	objectKey := fullPath(m.basePath, key)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return objectKey, nil
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[fullPath(m.basePath, key)]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), obj.data...), nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, fullPath(m.basePath, key))
	return nil
}

func (m *MemoryStorage) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	objectKey := fullPath(m.basePath, key)
	m.mu.RLock()
	_, ok := m.objects[objectKey]
	m.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	u := url.URL{Scheme: "memory", Path: "/" + objectKey}
	u.RawQuery = url.Values{"expires": {time.Now().Add(expiry).UTC().Format(time.RFC3339)}}.Encode()
	return u.String(), nil
}

func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
