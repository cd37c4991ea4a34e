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
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MailTemplate pairs a subject with plain text and HTML bodies.
type MailTemplate struct {
	Name    string
	Subject string
	Text    string
	HTML    string
}

// MailData feeds both onboarding templates.
type MailData struct {
	EmployeeName  string
	OnboardingURL string
	Otp           string
	OtpMinutes    int
}

type TemplateEngine struct {
	funcMap map[string]any
}

func NewTemplateEngine() *TemplateEngine {
	titleCaser := cases.Title(language.BritishEnglish)
	return &TemplateEngine{
		funcMap: map[string]any{
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"title": titleCaser.String,
			"trim":  strings.TrimSpace,
		},
	}
}

func (e *TemplateEngine) renderText(name, content string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (e *TemplateEngine) renderHTML(name, content string, data any) (string, error) {
	tmpl, err := htmltemplate.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Render builds a ready-to-send message for one recipient.
func (e *TemplateEngine) Render(t MailTemplate, to string, data any) (*Message, error) {
	subject, err := e.renderText(t.Name+".subject", t.Subject, data)
	if err != nil {
		return nil, err
	}
	text, err := e.renderText(t.Name+".text", t.Text, data)
	if err != nil {
		return nil, err
	}
	msg := &Message{To: to, Subject: subject, Text: text}
	if t.HTML != "" {
		if msg.HTML, err = e.renderHTML(t.Name+".html", t.HTML, data); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// Validate parses every part of t without executing it.
func (e *TemplateEngine) Validate(t MailTemplate) error {
	for _, part := range []string{t.Subject, t.Text} {
		if _, err := template.New(t.Name).Funcs(e.funcMap).Parse(part); err != nil {
			return err
		}
	}
	if t.HTML == "" {
		return nil
	}
	_, err := htmltemplate.New(t.Name).Funcs(e.funcMap).Parse(t.HTML)
	return err
}
