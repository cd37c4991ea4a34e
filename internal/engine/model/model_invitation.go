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

package model

import (
	"time"

	"github.com/xpect-group/portal/internal/engine/constant"
	"github.com/xpect-group/portal/pkg/statemachine"
)

type Invitation struct {
	ID           string `bson:"id" json:"id"`
	InviteToken  string `bson:"inviteToken" json:"inviteToken"`
	EmployeeName string `bson:"employeeName" json:"employeeName"`
	// Email is stored lowercased and trimmed.
	Email string `bson:"email" json:"email"`
	// Otp holds the bcrypt hash of the current code.
	Otp                string                        `bson:"otp,omitempty" json:"-"`
	OtpExpiresAt       *time.Time                    `bson:"otpExpiresAt,omitempty" json:"-"`
	Status             statemachine.InvitationStatus `bson:"status" json:"status"`
	OnboardingProgress int                           `bson:"onboardingProgress" json:"onboardingProgress"`
	VerifiedAt         *time.Time                    `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	ExpiresAt          time.Time                     `bson:"expiresAt" json:"expiresAt"`
	CreatedAt          time.Time                     `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time                     `bson:"updatedAt" json:"updatedAt"`
}

func (Invitation) CollectionName() string {
	return constant.CollectionInvitations
}

// IsOtpValid reports whether an unexpired OTP is on record.
func (i *Invitation) IsOtpValid(now time.Time) bool {
	return i.Otp != "" && i.OtpExpiresAt != nil && now.Before(*i.OtpExpiresAt)
}

// IsExpired reports whether the invitation ran out of time before completion.
// Records written without ExpiresAt fall back to createdAt + ttl.
func (i *Invitation) IsExpired(now time.Time, ttl time.Duration) bool {
	if i.Status == statemachine.InvitationCompleted {
		return false
	}
	if i.Status == statemachine.InvitationExpired {
		return true
	}
	deadline := i.ExpiresAt
	if deadline.IsZero() {
		deadline = i.CreatedAt.Add(ttl)
	}
	return now.After(deadline)
}

// InvitationView is the admin facing shape without OTP fields.
type InvitationView struct {
	ID                 string                        `json:"id"`
	InviteToken        string                        `json:"inviteToken"`
	EmployeeName       string                        `json:"employeeName"`
	Email              string                        `json:"email"`
	Status             statemachine.InvitationStatus `json:"status"`
	OnboardingProgress int                           `json:"onboardingProgress"`
	VerifiedAt         *time.Time                    `json:"verifiedAt,omitempty"`
	ExpiresAt          time.Time                     `json:"expiresAt"`
	CreatedAt          time.Time                     `json:"createdAt"`
	UpdatedAt          time.Time                     `json:"updatedAt"`
}

func (i *Invitation) View() *InvitationView {
	return &InvitationView{
		ID:                 i.ID,
		InviteToken:        i.InviteToken,
		EmployeeName:       i.EmployeeName,
		Email:              i.Email,
		Status:             i.Status,
		OnboardingProgress: i.OnboardingProgress,
		VerifiedAt:         i.VerifiedAt,
		ExpiresAt:          i.ExpiresAt,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}
