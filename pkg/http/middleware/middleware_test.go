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

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	httpx "github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/http/jwt"
)

const testSecret = "test-secret-key"

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return f.revoked[id], f.err
}

func decodeErr(t *testing.T, resp *http.Response) httpx.ResponseErr {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out httpx.ResponseErr
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestRequestMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RequestMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(c.Get("X-Request-Id"))
	})

	t.Run("existing id is preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-Id", "existing-request-id-12345")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "existing-request-id-12345", resp.Header.Get("X-Request-Id"))
	})

	t.Run("missing id is generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		_, err = uuid.Parse(resp.Header.Get("X-Request-Id"))
		assert.NoError(t, err)
	})
}

func newSessionApp(revoked RevocationChecker) *fiber.App {
	app := fiber.New()
	app.Get("/onboarding/:inviteToken",
		EmployeeSessionMiddleware(testSecret, revoked),
		InviteTokenParamMiddleware("inviteToken"),
		func(c *fiber.Ctx) error {
			return c.SendString(SessionFrom(c).Email)
		})
	return app
}

func TestEmployeeSessionMiddleware(t *testing.T) {
	valid, claims, err := jwt.GenToken("invite-1", "jane@example.com", []byte(testSecret), "test", 15*time.Minute)
	require.NoError(t, err)
	expired, _, err := jwt.GenToken("invite-1", "jane@example.com", []byte(testSecret), "test", -time.Minute)
	require.NoError(t, err)
	foreign, _, err := jwt.GenToken("invite-1", "jane@example.com", []byte("other"), "test", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		header     string
		revoked    RevocationChecker
		wantStatus int
		wantCode   int
	}{
		{"no header", "/onboarding/invite-1", "", nil, 401, httpx.Unauthorized.Code},
		{"wrong scheme", "/onboarding/invite-1", "Basic " + valid, nil, 401, httpx.Unauthorized.Code},
		{"expired token", "/onboarding/invite-1", "Bearer " + expired, nil, 401, httpx.TokenExpired.Code},
		{"foreign signature", "/onboarding/invite-1", "Bearer " + foreign, nil, 401, httpx.InvalidToken.Code},
		{"other invitation", "/onboarding/invite-2", "Bearer " + valid, nil, 403, httpx.TokenMismatch.Code},
		{"revoked", "/onboarding/invite-1", "Bearer " + valid, &fakeRevocations{revoked: map[string]bool{claims.ID: true}}, 401, httpx.TokenRevoked.Code},
		{"revocation store down", "/onboarding/invite-1", "Bearer " + valid, &fakeRevocations{err: errors.New("redis down")}, 401, httpx.InvalidToken.Code},
		{"valid", "/onboarding/invite-1", "Bearer " + valid, &fakeRevocations{}, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newSessionApp(tt.revoked).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, decodeErr(t, resp).ErrCode)
			}
		})
	}
}

func TestUnifiedResponseMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(UnifiedResponseMiddleware())
	app.Get("/detail", func(c *fiber.Ctx) error {
		c.Locals(DETAIL, fiber.Map{"id": "1"})
		return nil
	})
	app.Post("/created", func(c *fiber.Ctx) error {
		c.Status(fiber.StatusCreated)
		c.Locals(DETAIL, fiber.Map{"id": "2"})
		return nil
	})
	app.Delete("/op", func(c *fiber.Ctx) error {
		c.Locals(OPERATION, "delete invitation")
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/detail", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"code":200,"detail":{"id":"1"},"msg":"Request Success"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/created", nil))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"code":201,"detail":{"id":"2"},"msg":"Created"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/op", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"code":200,"msg":"Request Success"}`, string(body))
}

func TestExceptionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ExceptionMiddleware)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic(errors.New("boom"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, httpx.InternalError.Msg, decodeErr(t, resp).ErrMsg)
}
