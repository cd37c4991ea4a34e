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
	"github.com/gofiber/fiber/v2"
	httpx "github.com/xpect-group/portal/pkg/http"
)

const (
	DETAIL    = "detail"
	OPERATION = "operation"
)

// UnifiedResponseMiddleware wraps whatever a handler left in DETAIL into the
// {code, detail, msg} envelope. Error bodies are written by the handlers.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status == 0 {
			status = fiber.StatusOK
			c.Status(status)
		}
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			return nil
		}

		code, msg := httpx.Success.Code, httpx.Success.Msg
		if status == fiber.StatusCreated {
			code, msg = httpx.Created.Code, httpx.Created.Msg
		}
		if detail := c.Locals(DETAIL); detail != nil {
			return httpx.WithRepDetail(c, code, msg, detail)
		}
		if op, ok := c.Locals(OPERATION).(string); ok && op != "" {
			return httpx.WithRepMsg(c, code, msg)
		}
		return nil
	}
}
