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
)

type ActorRole string

const (
	ActorAdmin    ActorRole = "admin"
	ActorEmployee ActorRole = "employee"
	ActorSystem   ActorRole = "system"
)

type EntityType string

const (
	EntityCleaner    EntityType = "Cleaner"
	EntityDocument   EntityType = "Document"
	EntityInvitation EntityType = "Invitation"
	EntitySystem     EntityType = "System"
)

type ActionType string

const (
	// invitation and onboarding
	ActionInvitationSent      ActionType = "INVITATION_SENT"
	ActionOtpVerified         ActionType = "OTP_VERIFIED"
	ActionOnboardingStarted   ActionType = "ONBOARDING_STARTED"
	ActionOnboardingCompleted ActionType = "ONBOARDING_COMPLETED"
	ActionOnboardingExpired   ActionType = "ONBOARDING_EXPIRED"
	ActionInvitationDeleted   ActionType = "INVITATION_DELETED"
	ActionOtpResent           ActionType = "OTP_RESENT"

	// documents
	ActionDocumentUploaded      ActionType = "DOCUMENT_UPLOADED"
	ActionDocumentViewed        ActionType = "DOCUMENT_VIEWED"
	ActionDocumentVerified      ActionType = "DOCUMENT_VERIFIED"
	ActionDocumentRejected      ActionType = "DOCUMENT_REJECTED"
	ActionDocumentStatusUpdated ActionType = "DOCUMENT_STATUS_UPDATED"
	ActionDocumentDeleted       ActionType = "DOCUMENT_DELETED"
	ActionDocumentAdded         ActionType = "DOCUMENT_ADDED"

	// staff profile
	ActionCleanerCreated              ActionType = "CLEANER_CREATED"
	ActionCleanerUpdated              ActionType = "CLEANER_UPDATED"
	ActionEmploymentAllocationUpdated ActionType = "EMPLOYMENT_ALLOCATION_UPDATED"
	ActionHourlyPayRateUpdated        ActionType = "HOURLY_PAY_RATE_UPDATED"
	ActionEmploymentStatusChanged     ActionType = "EMPLOYMENT_STATUS_CHANGED"
	ActionImmigrationInfoUpdated      ActionType = "IMMIGRATION_INFO_UPDATED"
	ActionAuditorNotesUpdated         ActionType = "AUDITOR_NOTES_UPDATED"

	// verification and compliance
	ActionCleanerVerified           ActionType = "CLEANER_VERIFIED"
	ActionCleanerRejected           ActionType = "CLEANER_REJECTED"
	ActionVerificationRevoked       ActionType = "VERIFICATION_REVOKED"
	ActionVerificationStatusChanged ActionType = "VERIFICATION_STATUS_CHANGED"
	ActionBulkStatusUpdate          ActionType = "BULK_STATUS_UPDATE"
	ActionComplianceIssueMarked     ActionType = "COMPLIANCE_ISSUE_MARKED"
	ActionComplianceIssueResolved   ActionType = "COMPLIANCE_ISSUE_RESOLVED"

	ActionSystemOnboardingExpired ActionType = "SYSTEM_ONBOARDING_EXPIRED"
)

// ActivityLog is an append-only audit entry.
type ActivityLog struct {
	ID         string         `bson:"id" json:"id"`
	ActorID    string         `bson:"actorId" json:"actorId"`
	ActorRole  ActorRole      `bson:"actorRole" json:"actorRole"`
	ActorName  string         `bson:"actorName" json:"actorName"`
	ActionType ActionType     `bson:"actionType" json:"actionType"`
	EntityType EntityType     `bson:"entityType" json:"entityType"`
	EntityID   string         `bson:"entityId" json:"entityId"`
	Message    string         `bson:"message" json:"message"`
	Metadata   map[string]any `bson:"metadata" json:"metadata"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
}

func (ActivityLog) CollectionName() string {
	return constant.CollectionActivity
}

type ActivityQuery struct {
	ActorRole  string
	ActionType string
	EntityType string
	EntityID   string
	Page       int
	Limit      int
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

type ActivityPage struct {
	Activities []ActivityLog `json:"activities"`
	Pagination Pagination    `json:"pagination"`
}
