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
	"github.com/xpect-group/portal/internal/pkg/wizard"
)

// OnboardingProgress is the autosaved wizard state of one invitation.
// Mongo removes the record once ExpiresAt passes.
type OnboardingProgress struct {
	InviteToken       string          `bson:"inviteToken" json:"inviteToken"`
	LastCompletedStep int             `bson:"lastCompletedStep" json:"lastCompletedStep"`
	CurrentStep       int             `bson:"currentStep" json:"currentStep"`
	FormData          wizard.FormData `bson:"formData" json:"formData"`
	ExpiresAt         time.Time       `bson:"expiresAt" json:"expiresAt"`
	CreatedAt         time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time       `bson:"updatedAt" json:"savedAt"`
}

func (OnboardingProgress) CollectionName() string {
	return constant.CollectionProgress
}
