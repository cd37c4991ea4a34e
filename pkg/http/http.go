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

package http

import (
	"fmt"
	"time"
)

type Http struct {
	Host                string
	Port                int
	Mode                string
	InternalContextPath string
	ExposeMetrics       bool
	AccessLog           bool
	AllowOrigins        string
	BodyLimitMB         int
	ReadTimeout         int
	WriteTimeout        int
	IdleTimeout         int
	ShutdownTimeout     int
	TLS                 TLS
	Auth                Auth
}

type TLS struct {
	CertFile string
	KeyFile  string
}

// Auth configures the onboarding session tokens.
type Auth struct {
	SecretKey string
	// AccessExpire is the lifetime of an onboarding session token.
	AccessExpire   time.Duration
	Issuer         string
	RedisKeyPrefix string
}

func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 5000
	}
	if h.InternalContextPath == "" {
		h.InternalContextPath = "/api"
	}
	if h.BodyLimitMB <= 0 {
		h.BodyLimitMB = 50
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 60
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 60
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 120
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 30
	}
	if h.Auth.AccessExpire <= 0 {
		h.Auth.AccessExpire = 15 * time.Minute
	}
	if h.Auth.Issuer == "" {
		h.Auth.Issuer = "xpect-portal"
	}
	if h.Auth.RedisKeyPrefix == "" {
		h.Auth.RedisKeyPrefix = "portal:session:"
	}
}

func (h *Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

func (h *Http) BodyLimit() int {
	return h.BodyLimitMB * 1024 * 1024
}
