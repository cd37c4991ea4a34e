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
	"time"

	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/safe"
)

// INotifier is what services use to reach employees and ops.
type INotifier interface {
	SendInvitation(ctx context.Context, to string, data MailData) error
	SendOtpResend(ctx context.Context, to string, data MailData) error
	// Publish forwards an event to the ops webhook in the background.
	Publish(eventType string, data map[string]any)
}

type Notifier struct {
	mailer  Mailer
	webhook *WebhookNotifier
	engine  *TemplateEngine
}

func NewNotifier(mailer Mailer, webhook *WebhookNotifier, engine *TemplateEngine) *Notifier {
	return &Notifier{mailer: mailer, webhook: webhook, engine: engine}
}

func (n *Notifier) SendInvitation(ctx context.Context, to string, data MailData) error {
	return n.sendTemplate(ctx, InvitationTemplate, to, data)
}

func (n *Notifier) SendOtpResend(ctx context.Context, to string, data MailData) error {
	return n.sendTemplate(ctx, OtpResendTemplate, to, data)
}

func (n *Notifier) sendTemplate(ctx context.Context, t MailTemplate, to string, data MailData) error {
	msg, err := n.engine.Render(t, to, data)
	if err != nil {
		log.Errorw("failed to render mail template", "template", t.Name, "error", err)
		return err
	}
	return n.mailer.Send(ctx, msg)
}

func (n *Notifier) Publish(eventType string, data map[string]any) {
	if !n.webhook.Enabled() {
		return
	}
	event := Event{Type: eventType, OccurredAt: time.Now(), Data: data}
	safe.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.webhook.conf.Timeout*time.Duration(n.webhook.conf.Retries+1))
		defer cancel()
		_ = n.webhook.Notify(ctx, event)
	})
}
