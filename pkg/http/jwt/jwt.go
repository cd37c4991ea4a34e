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

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/xpect-group/portal/pkg/log"
)

const RoleEmployee = "employee"

// OnboardingClaims is the payload of an employee onboarding session.
type OnboardingClaims struct {
	InviteToken       string `json:"inviteToken"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	OnboardingAllowed bool   `json:"onboardingAllowed"`
	jwt.RegisteredClaims
}

// GenToken signs a short-lived onboarding session for the given invitation.
func GenToken(inviteToken, email string, secretKey []byte, issuer string, expire time.Duration) (string, *OnboardingClaims, error) {
	now := time.Now()
	claims := &OnboardingClaims{
		InviteToken:       inviteToken,
		Email:             email,
		Role:              RoleEmployee,
		OnboardingAllowed: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   inviteToken,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		log.Errorw("failed to sign onboarding token", "error", err)
		return "", nil, err
	}
	return token, claims, nil
}

func ParseToken(token, secretKey string) (*OnboardingClaims, error) {
	claims := new(OnboardingClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RemainingTTL is how long the token stays valid, zero once expired.
func (c *OnboardingClaims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
