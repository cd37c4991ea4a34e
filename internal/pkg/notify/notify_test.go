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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpect-group/portal/pkg/retry"
)

var sampleData = MailData{
	EmployeeName:  "Jane <Doe>",
	OnboardingURL: "http://localhost:5173/onboarding/auth/abc",
	Otp:           "123456",
	OtpMinutes:    10,
}

func TestTemplateEngine_Render(t *testing.T) {
	engine := NewTemplateEngine()

	tests := []struct {
		name        string
		tmpl        MailTemplate
		wantSubject string
		wantText    []string
	}{
		{
			name:        "invitation",
			tmpl:        InvitationTemplate,
			wantSubject: "Xpect Group – Employee Onboarding Invitation",
			wantText:    []string{"Welcome to Xpect Group, Jane <Doe>!", "Your OTP Code: 123456", "expire in 10 minutes", sampleData.OnboardingURL},
		},
		{
			name:        "otp resend",
			tmpl:        OtpResendTemplate,
			wantSubject: "Xpect Group – Your Onboarding OTP",
			wantText:    []string{"Dear Jane <Doe>,", "Your OTP has been resent", "123456"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, engine.Validate(tt.tmpl))

			msg, err := engine.Render(tt.tmpl, "jane@example.com", sampleData)
			require.NoError(t, err)
			assert.Equal(t, "jane@example.com", msg.To)
			assert.Equal(t, tt.wantSubject, msg.Subject)
			for _, want := range tt.wantText {
				assert.Contains(t, msg.Text, want)
			}
			assert.Contains(t, msg.HTML, "Jane &lt;Doe&gt;")
			assert.NotContains(t, msg.HTML, "Jane <Doe>")
		})
	}
}

func TestTemplateEngine_Funcs(t *testing.T) {
	engine := NewTemplateEngine()
	msg, err := engine.Render(MailTemplate{Name: "t", Subject: "{{title .EmployeeName}}", Text: "{{upper .Otp}}"}, "x@y.z", MailData{EmployeeName: "jane doe", Otp: "ab"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", msg.Subject)
	assert.Equal(t, "AB", msg.Text)
	assert.Empty(t, msg.HTML)
}

func TestSMTPMailer_Send(t *testing.T) {
	conf := MailConf{Enabled: true, Host: "smtp.example.com", Username: "bot@example.com", Password: "secret"}
	conf.SetDefaults()
	mailer := NewSMTPMailer(conf)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotRaw []byte
	mailer.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotRaw = addr, from, to, msg
		return nil
	}

	msg, err := NewTemplateEngine().Render(InvitationTemplate, "jane@example.com", sampleData)
	require.NoError(t, err)
	require.NoError(t, mailer.Send(context.Background(), msg))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	raw := string(gotRaw)
	assert.Contains(t, raw, `From: "Xpect Group" <bot@example.com>`)
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/html; charset=utf-8")
	assert.Contains(t, raw, "Your OTP Code: 123456")
}

func TestSMTPMailer_Errors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		err := NewSMTPMailer(MailConf{}).Send(context.Background(), &Message{To: "a@b.c"})
		assert.Error(t, err)
	})

	t.Run("relay failure", func(t *testing.T) {
		conf := MailConf{Host: "smtp.example.com", From: "bot@example.com"}
		conf.SetDefaults()
		mailer := NewSMTPMailer(conf)
		mailer.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }

		err := mailer.Send(context.Background(), &Message{To: "a@b.c", Text: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "535 auth failed")
	})

	t.Run("temporary refusal is retried", func(t *testing.T) {
		conf := MailConf{Host: "smtp.example.com", From: "bot@example.com"}
		conf.SetDefaults()
		mailer := NewSMTPMailer(conf)
		mailer.backoff = retry.Fixed(0)
		calls := 0
		mailer.send = func(string, smtp.Auth, string, []string, []byte) error {
			calls++
			if calls == 1 {
				return &textproto.Error{Code: 421, Msg: "service not available"}
			}
			return nil
		}

		require.NoError(t, mailer.Send(context.Background(), &Message{To: "a@b.c", Text: "hi"}))
		assert.Equal(t, 2, calls)
	})

	t.Run("permanent refusal is not retried", func(t *testing.T) {
		conf := MailConf{Host: "smtp.example.com", From: "bot@example.com"}
		conf.SetDefaults()
		mailer := NewSMTPMailer(conf)
		mailer.backoff = retry.Fixed(0)
		calls := 0
		mailer.send = func(string, smtp.Auth, string, []string, []byte) error {
			calls++
			return &textproto.Error{Code: 550, Msg: "mailbox unavailable"}
		}

		assert.Error(t, mailer.Send(context.Background(), &Message{To: "a@b.c", Text: "hi"}))
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancelled", func(t *testing.T) {
		conf := MailConf{Host: "smtp.example.com", From: "bot@example.com"}
		conf.SetDefaults()
		mailer := NewSMTPMailer(conf)
		block := make(chan struct{})
		defer close(block)
		mailer.send = func(string, smtp.Auth, string, []string, []byte) error { <-block; return nil }

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, mailer.Send(ctx, &Message{To: "a@b.c"}), context.DeadlineExceeded)
	})
}

func TestNewMailer_Disabled(t *testing.T) {
	mailer := NewMailer(MailConf{})
	assert.IsType(t, LogMailer{}, mailer)
	assert.NoError(t, mailer.Send(context.Background(), &Message{To: "a@b.c"}))
}

func TestWebhookNotifier(t *testing.T) {
	var hits atomic.Int32
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Bearer ops-token", r.Header.Get("Authorization"))
		assert.Equal(t, "portal", r.Header.Get("X-Source"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		if strings.HasSuffix(r.URL.Path, "/fail") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	conf := WebhookConf{URL: srv.URL + "/hook", Token: "ops-token", Headers: map[string]string{"X-Source": "portal"}}
	w := NewWebhookNotifier(conf)
	require.True(t, w.Enabled())
	require.NoError(t, w.Notify(context.Background(), Event{Type: "ONBOARDING_COMPLETED", Data: map[string]any{"applicationRef": "XPG-1"}}))
	assert.Equal(t, "ONBOARDING_COMPLETED", got.Type)
	assert.Equal(t, "XPG-1", got.Data["applicationRef"])
	assert.False(t, got.OccurredAt.IsZero())

	conf.URL = srv.URL + "/fail"
	assert.Error(t, NewWebhookNotifier(conf).Notify(context.Background(), Event{Type: "x"}))
	assert.Equal(t, int32(2), hits.Load())
}

func TestWebhookNotifier_Disabled(t *testing.T) {
	var nilNotifier *WebhookNotifier
	assert.False(t, nilNotifier.Enabled())
	assert.NoError(t, NewWebhookNotifier(WebhookConf{}).Notify(context.Background(), Event{Type: "x"}))
}

type recordingMailer struct{ msgs []*Message }

func (m *recordingMailer) Send(_ context.Context, msg *Message) error {
	m.msgs = append(m.msgs, msg)
	return nil
}

func TestNotifier(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, NewWebhookNotifier(WebhookConf{}), NewTemplateEngine())

	require.NoError(t, n.SendInvitation(context.Background(), "jane@example.com", sampleData))
	require.NoError(t, n.SendOtpResend(context.Background(), "jane@example.com", sampleData))
	n.Publish("ignored", nil)

	require.Len(t, mailer.msgs, 2)
	assert.Equal(t, InvitationTemplate.Subject, mailer.msgs[0].Subject)
	assert.Equal(t, OtpResendTemplate.Subject, mailer.msgs[1].Subject)
}
