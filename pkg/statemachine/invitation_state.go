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

package statemachine

import (
	"errors"
	"slices"
)

type InvitationStatus string

const (
	InvitationSent      InvitationStatus = "SENT"
	InvitationVerified  InvitationStatus = "VERIFIED"
	InvitationPending   InvitationStatus = "PENDING"
	InvitationCompleted InvitationStatus = "COMPLETED"
	InvitationExpired   InvitationStatus = "EXPIRED"
)

const (
	EventVerifyOtp Event = "verify-otp"
	EventStart     Event = "start-onboarding"
	EventComplete  Event = "complete"
	EventExpire    Event = "expire"
	EventResendOtp Event = "resend-otp"
)

var ErrInvitationClosed = errors.New("invitation is completed")

var activeInvitationStatuses = []InvitationStatus{InvitationSent, InvitationVerified, InvitationPending}

// ActiveInvitationStatuses lists the states an employee may still be working in.
func ActiveInvitationStatuses() []InvitationStatus {
	return slices.Clone(activeInvitationStatuses)
}

func (s InvitationStatus) IsTerminal() bool {
	return s == InvitationCompleted
}

func (s InvitationStatus) IsActive() bool {
	return slices.Contains(activeInvitationStatuses, s)
}

var invitationTable = NewInvitationTable()

// NewInvitationTable describes the invitation lifecycle:
// SENT → VERIFIED → PENDING → COMPLETED, any active state may expire,
// and an expired invitation is revived by resending the OTP.
func NewInvitationTable() *Table[InvitationStatus] {
	t := NewTable[InvitationStatus]()
	t.Guard(func(from InvitationStatus, _ Event) error {
		if from.IsTerminal() {
			return ErrInvitationClosed
		}
		return nil
	})

	t.On(InvitationSent, EventVerifyOtp, InvitationVerified).
		On(InvitationSent, EventExpire, InvitationExpired).
		On(InvitationVerified, EventStart, InvitationPending).
		On(InvitationVerified, EventComplete, InvitationCompleted).
		On(InvitationVerified, EventExpire, InvitationExpired).
		On(InvitationPending, EventComplete, InvitationCompleted).
		On(InvitationPending, EventExpire, InvitationExpired).
		On(InvitationExpired, EventResendOtp, InvitationSent)

	return t
}

// FireInvitation moves an invitation in state from on event.
func FireInvitation(from InvitationStatus, event Event) (InvitationStatus, error) {
	return invitationTable.Fire(from, event)
}

// NextInvitationStatus is FireInvitation for events that are optional in a state.
func NextInvitationStatus(from InvitationStatus, event Event) (InvitationStatus, bool) {
	to, err := invitationTable.Fire(from, event)
	return to, err == nil
}
