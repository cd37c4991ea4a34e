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
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/xpect-group/portal/pkg/log"
)

// Event is the JSON body posted to the ops webhook.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

type WebhookNotifier struct {
	conf   WebhookConf
	client *resty.Client
}

func NewWebhookNotifier(conf WebhookConf) *WebhookNotifier {
	conf.SetDefaults()
	client := resty.New().
		SetTimeout(conf.Timeout).
		SetRetryCount(conf.Retries).
		SetHeader("Content-Type", "application/json").
		SetHeaders(conf.Headers)
	if conf.Token != "" {
		client.SetAuthToken(conf.Token)
	}
	return &WebhookNotifier{conf: conf, client: client}
}

func (w *WebhookNotifier) Enabled() bool {
	return w != nil && w.conf.URL != ""
}

func (w *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	if !w.Enabled() {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	req := w.client.R().SetContext(ctx).SetBody(event)
	var (
		resp *resty.Response
		err  error
	)
	switch w.conf.Method {
	case http.MethodPut:
		resp, err = req.Put(w.conf.URL)
	case http.MethodPatch:
		resp, err = req.Patch(w.conf.URL)
	default:
		resp, err = req.Post(w.conf.URL)
	}
	if err != nil {
		log.Errorw("webhook send request failed", "event", event.Type, "error", err)
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Errorw("webhook request failed", "event", event.Type, "statusCode", resp.StatusCode(), "response", resp.String())
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode())
	}
	return nil
}
