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
	"github.com/google/wire"
	"github.com/xpect-group/portal/pkg/log"
)

var ProviderSet = wire.NewSet(
	ProvideMailer,
	ProvideWebhookNotifier,
	NewTemplateEngine,
	ProvideNotifier,
)

func ProvideMailer(conf MailConf) Mailer {
	if !conf.Enabled {
		log.Warn("mail delivery is disabled, invitation emails will not be sent")
	}
	return NewMailer(conf)
}

func ProvideWebhookNotifier(conf WebhookConf) *WebhookNotifier {
	return NewWebhookNotifier(conf)
}

func ProvideNotifier(mailer Mailer, webhook *WebhookNotifier, engine *TemplateEngine) INotifier {
	return NewNotifier(mailer, webhook, engine)
}
