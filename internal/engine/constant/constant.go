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

package constant

// Mongo collections
const (
	CollectionInvitations = "invitations"
	CollectionProgress    = "onboarding_progress"
	CollectionCleaners    = "cleaners"
	CollectionActivity    = "activity_logs"
	CollectionAdmin       = "admin_profiles"
)

// The portal has a single administrator profile.
const (
	AdminID   = "admin-001"
	AdminName = "Admin"
	AdminRole = "Administrator"

	SystemActorID   = "system"
	SystemActorName = "System"
)

const (
	// TotalWizardSlots is the fixed denominator of the onboarding percentage.
	TotalWizardSlots = 10

	OtpLength = 6
	BioMaxLen = 500
)
