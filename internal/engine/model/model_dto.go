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

	"github.com/xpect-group/portal/internal/pkg/wizard"
)

type SendInvitationReq struct {
	EmployeeName string `json:"employeeName"`
	Email        string `json:"email"`
}

type VerifyOtpReq struct {
	InviteToken string `json:"inviteToken"`
	Otp         string `json:"otp"`
}

type VerifyOtpResp struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
	InviteToken  string    `json:"inviteToken"`
	EmployeeName string    `json:"employeeName"`
	Email        string    `json:"email"`
}

type ResendOtpReq struct {
	InviteToken string `json:"inviteToken"`
}

type CompleteInvitationReq struct {
	OnboardingProgress *int `json:"onboardingProgress"`
}

type VerifyTokenReq struct {
	OnboardingToken string `json:"onboardingToken"`
	InviteToken     string `json:"inviteToken"`
}

type VerifyTokenResp struct {
	Role              string `json:"role"`
	OnboardingAllowed bool   `json:"onboardingAllowed"`
	InviteToken       string `json:"inviteToken"`
	Email             string `json:"email"`
}

type SaveProgressReq struct {
	Step            int              `json:"step"`
	FormData        *wizard.FormData `json:"formData"`
	IsStepCompleted bool             `json:"isStepCompleted"`
}

type SaveProgressResp struct {
	CurrentStep       int       `json:"currentStep"`
	LastCompletedStep int       `json:"lastCompletedStep"`
	SavedAt           time.Time `json:"savedAt"`
}

type LoadProgressResp struct {
	HasProgress bool                `json:"hasProgress"`
	Progress    *OnboardingProgress `json:"progress"`
}

// WizardOutcome tells the client which screen to show.
type WizardOutcome string

const (
	OutcomeWizard   WizardOutcome = "WIZARD"
	OutcomeThankYou WizardOutcome = "THANK_YOU"
)

type WizardStepReq struct {
	Step     int              `json:"step"`
	FormData *wizard.FormData `json:"formData"`
}

type SubmitReq struct {
	FormData *wizard.FormData `json:"formData"`
}

type WizardState struct {
	Outcome WizardOutcome `json:"outcome"`
	wizard.Position
	FormData       *wizard.FormData `json:"formData,omitempty"`
	ApplicationRef string           `json:"applicationRef,omitempty"`
	CleanerID      string           `json:"cleanerId,omitempty"`
}

type ValidateStepResp struct {
	CanProceed bool              `json:"canProceed"`
	Errors     map[string]string `json:"errors"`
}

type StepInfo struct {
	Step        int    `json:"step"`
	DisplayStep int    `json:"displayStep"`
	Name        string `json:"name"`
}

type StepsResp struct {
	TotalSteps int        `json:"totalSteps"`
	Steps      []StepInfo `json:"steps"`
}

// SubmissionResult is what the assembler reports back.
type SubmissionResult struct {
	ApplicationRef string   `json:"applicationRef"`
	Cleaner        *Cleaner `json:"cleaner"`
}

// CreateCleanerReq carries a staff record plus where it came from.
type CreateCleanerReq struct {
	Cleaner
	Source string `json:"source"`
}

const (
	SourceAdmin      = "admin"
	SourceOnboarding = "onboarding"
)

type BulkActionReq struct {
	Action     string   `json:"action"`
	CleanerIDs []string `json:"cleanerIds"`
}

type BulkStatusReq struct {
	CleanerIDs []string `json:"cleanerIds"`
	Status     string   `json:"status"`
}

type BulkUpdateReq struct {
	CleanerIDs     []string `json:"cleanerIds"`
	HourlyPayRate  *float64 `json:"hourlyPayRate"`
	EmploymentType string   `json:"employmentType"`
	Location       *string  `json:"location"`
}

type BulkDeleteReq struct {
	CleanerIDs []string `json:"cleanerIds"`
}

type BulkStatusResp struct {
	UpdatedCount int64  `json:"updatedCount"`
	Status       string `json:"status"`
}

type BulkUpdateResp struct {
	UpdatedCount  int64    `json:"updatedCount"`
	UpdatedFields []string `json:"updatedFields"`
}

type BulkDeleteResp struct {
	DeletedCount int64 `json:"deletedCount"`
}

type CreateDocumentReq struct {
	Document
	UploadedBy string `json:"uploadedBy"`
}

type DocumentURLResp struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type UpdateAdminProfileReq struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Bio            string  `json:"bio"`
	Role           string  `json:"role"`
	ProfilePicture *string `json:"profilePicture"`
}

type UpdateAdminPictureReq struct {
	ProfilePicture *string `json:"profilePicture"`
}

type UpdateAdminBioReq struct {
	Bio string `json:"bio"`
}
