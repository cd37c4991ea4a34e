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
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/retry"
)

const sendAttempts = 3

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers through an authenticated SMTP relay (STARTTLS on 587).
type SMTPMailer struct {
	conf    MailConf
	send    sendFunc
	backoff retry.Backoff
}

func NewSMTPMailer(conf MailConf) *SMTPMailer {
	return &SMTPMailer{
		conf:    conf,
		send:    smtp.SendMail,
		backoff: retry.Exponential(500*time.Millisecond, 4*time.Second),
	}
}

// transient reports 4xx replies and network failures, which the relay
// expects the client to retry.
func transient(err error) bool {
	if !retry.Retryable(err) {
		return false
	}
	var reply *textproto.Error
	if errors.As(err, &reply) {
		return reply.Code >= 400 && reply.Code < 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := m.conf.Validate(); err != nil {
		return err
	}
	raw, err := m.build(msg, time.Now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.conf.Username != "" {
		auth = smtp.PlainAuth("", m.conf.Username, m.conf.Password, m.conf.Host)
	}
	addr := m.conf.Host + ":" + strconv.Itoa(m.conf.Port)

	attempt := 0
	err = retry.Do(ctx, func(ctx context.Context) error {
		attempt++
		done := make(chan error, 1)
		go func() {
			done <- m.send(addr, auth, m.conf.From, []string{msg.To}, raw)
		}()
		select {
		case err := <-done:
			if err != nil && transient(err) {
				log.WithContext(ctx).Warnw("smtp relay refused temporarily", "to", msg.To, "attempt", attempt, "error", err)
			}
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}, retry.WithAttempts(sendAttempts), retry.WithBackoff(m.backoff), retry.WithJitter(), retry.WithRetryIf(transient))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.WithContext(ctx).Errorw("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.WithContext(ctx).Infow("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// build renders a multipart/alternative message with a text and an optional HTML part.
func (m *SMTPMailer) build(msg *Message, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct{ contentType, content string }{{"text/plain; charset=utf-8", msg.Text}}
	if msg.HTML != "" {
		parts = append(parts, struct{ contentType, content string }{"text/html; charset=utf-8", msg.HTML})
	}
	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	from := mail.Address{Name: m.conf.FromName, Address: m.conf.From}
	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", from.String())
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&out, "Date: %s\r\n", now.Format(time.RFC1123Z))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// LogMailer stands in when mail delivery is disabled. It never logs bodies.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg *Message) error {
	log.WithContext(ctx).Warnw("mail delivery disabled, message dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}

func NewMailer(conf MailConf) Mailer {
	if !conf.Enabled {
		return LogMailer{}
	}
	return NewSMTPMailer(conf)
}
