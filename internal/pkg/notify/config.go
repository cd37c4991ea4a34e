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

package notify

import (
	"errors"
	"net/http"
	"time"
)

type MailConf struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func (c *MailConf) SetDefaults() {
	if c.Port == 0 {
		c.Port = 587
	}
	if c.From == "" {
		c.From = c.Username
	}
	if c.FromName == "" {
		c.FromName = "Xpect Group"
	}
}

func (c *MailConf) Validate() error {
	if c.Host == "" {
		return errors.New("smtp host is required")
	}
	if c.Port <= 0 {
		return errors.New("smtp port is required")
	}
	if c.From == "" {
		return errors.New("from email is required")
	}
	return nil
}

// WebhookConf points at an optional ops endpoint that receives onboarding events.
type WebhookConf struct {
	URL     string
	Method  string
	Token   string
	Timeout time.Duration
	Retries int
	Headers map[string]string
}

func (c *WebhookConf) SetDefaults() {
	if c.Method == "" {
		c.Method = http.MethodPost
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
}
