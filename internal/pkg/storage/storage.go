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
	"fmt"
	"path"
	"strings"
	"time"
)

const (
	ProviderNone   = "none"
	ProviderMemory = "memory"
	ProviderMinio  = "minio"
	ProviderS3     = "s3"
)

var ErrObjectNotFound = errors.New("object not found")

type Conf struct {
	Provider     string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	UseTLS       bool
	UsePathStyle bool
	BasePath     string
}

func (c *Conf) SetDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderNone
	}
	if c.Region == "" {
		c.Region = "eu-west-2"
	}
	if c.BasePath == "" {
		c.BasePath = "onboarding"
	}
}

// Storage holds onboarding attachments outside MongoDB.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// New returns nil without error when object storage is disabled.
func New(conf Conf) (Storage, error) {
	conf.SetDefaults()
	switch conf.Provider {
	case ProviderNone:
		return nil, nil
	case ProviderMemory:
		return NewMemoryStorage(conf.BasePath), nil
	case ProviderMinio:
		return newMinio(conf)
	case ProviderS3:
		return newS3(conf)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", conf.Provider)
	}
}

// fullPath joins base and key without doubled slashes.
func fullPath(base, key string) string {
	key = strings.TrimPrefix(key, "/")
	base = strings.Trim(base, "/")
	if base == "" || strings.HasPrefix(key, base+"/") {
		return key
	}
	return path.Join(base, key)
}
