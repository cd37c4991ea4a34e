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
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/http/jwt"
	"github.com/xpect-group/portal/pkg/log"
)

const SESSION = "session"

// RevocationChecker reports whether a session id was invalidated before expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// EmployeeSessionMiddleware admits only valid onboarding sessions. Any failure,
// including an unreachable revocation store, denies the request.
func EmployeeSessionMiddleware(secretKey string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
			return http.WithRepBizErr(c, http.Unauthorized.Err())
		}

		claims, err := jwt.ParseToken(strings.TrimSpace(token), secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepBizErr(c, http.TokenExpired.Errf("%s", http.InvalidToken.Msg))
			}
			log.Debugw("onboarding token rejected", "path", c.Path(), "error", err)
			return http.WithRepBizErr(c, http.InvalidToken.Err())
		}

		if claims.Role != jwt.RoleEmployee {
			return http.WithRepBizErr(c, http.EmployeeRoleRequired.Err())
		}
		if !claims.OnboardingAllowed {
			return http.WithRepBizErr(c, http.OnboardingNotAllowed.Err())
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				log.Errorw("failed to check session revocation", "sessionId", claims.ID, "error", err)
				return http.WithRepBizErr(c, http.InvalidToken.Err())
			}
			if isRevoked {
				return http.WithRepBizErr(c, http.TokenRevoked.Err())
			}
		}

		c.Locals(SESSION, claims)
		return c.Next()
	}
}

// InviteTokenParamMiddleware requires the session to belong to the invitation
// named by the route parameter.
func InviteTokenParamMiddleware(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := SessionFrom(c)
		if claims == nil {
			return http.WithRepBizErr(c, http.Unauthorized.Err())
		}
		if c.Params(param) != claims.InviteToken {
			return http.WithRepBizErr(c, http.TokenMismatch.Err())
		}
		return c.Next()
	}
}

func SessionFrom(c *fiber.Ctx) *jwt.OnboardingClaims {
	claims, _ := c.Locals(SESSION).(*jwt.OnboardingClaims)
	return claims
}
