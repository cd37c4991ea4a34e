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

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/pkg/http"
)

func newStaff(name, email string) model.Cleaner {
	return model.Cleaner{
		Name:              name,
		Email:             email,
		PhoneNumber:       "07700900123",
		Dob:               "1990-06-15",
		Address:           "2 Park Row, Leeds",
		StartDate:         "2025-03-01",
		CitizenshipStatus: "UK Citizen",
		Location:          "Leeds",
	}
}

// staff creates a record as the admin would.
func (f *fixture) staff(t *testing.T, name, email string) *model.Cleaner {
	t.Helper()
	c, err := f.svc.Cleaner.Create(context.Background(), &model.CreateCleanerReq{Cleaner: newStaff(name, email)})
	require.NoError(t, err)
	return c
}

func TestCleanerService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.staff(t, "Sam Lee", " Sam@Example.com ")
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "sam@example.com", c.Email)
	assert.Equal(t, model.VerificationPending, c.VerificationStatus)
	assert.Equal(t, model.DBSNotStarted, c.DbsStatus)
	assert.Equal(t, model.EmploymentContractor, c.EmploymentType)
	assert.NotNil(t, c.Documents)
	assert.Equal(t, f.now, c.CreatedAt)

	entry := f.activity.last()
	assert.Equal(t, model.ActionCleanerCreated, entry.ActionType)
	assert.Equal(t, model.ActorAdmin, entry.ActorRole)
	assert.Equal(t, "Admin created staff profile for Sam Lee", entry.Message)

	_, err := f.svc.Cleaner.Create(ctx, &model.CreateCleanerReq{Cleaner: newStaff("Sam Again", "sam@example.com")})
	assert.True(t, http.IsCode(err, http.CleanerAlreadyExists))

	bad := newStaff("", "x@example.com")
	bad.EmploymentType = "Volunteer"
	_, err = f.svc.Cleaner.Create(ctx, &model.CreateCleanerReq{Cleaner: bad})
	var biz *http.BizError
	require.ErrorAs(t, err, &biz)
	assert.True(t, http.IsCode(err, http.ValidationFailed))
	assert.Contains(t, biz.Fields, "name")
	assert.Contains(t, biz.Fields, "employmentType")
}

func TestCleanerService_CreateFromOnboarding(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Cleaner.Create(context.Background(), &model.CreateCleanerReq{Cleaner: newStaff("Ava Brown", "ava@example.com"), Source: model.SourceOnboarding})
	require.NoError(t, err)

	entry := f.activity.last()
	assert.Equal(t, model.ActorEmployee, entry.ActorRole)
	assert.Equal(t, "ava@example.com", entry.ActorID)
	assert.Equal(t, "Ava Brown created staff profile for Ava Brown", entry.Message)
}

func TestCleanerService_ListFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.staff(t, "Sam Lee", "sam@example.com")
	york := newStaff("Kim Park", "kim@example.com")
	york.Location = "York"
	_, err := f.svc.Cleaner.Create(ctx, &model.CreateCleanerReq{Cleaner: york})
	require.NoError(t, err)

	all, err := f.svc.Cleaner.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := f.svc.Cleaner.List(ctx, `location == "York"`)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Kim Park", matched[0].Name)

	_, err = f.svc.Cleaner.List(ctx, `location +`)
	assert.True(t, http.IsCode(err, http.ValidationFailed))
	_, err = f.svc.Cleaner.List(ctx, `location`)
	assert.True(t, http.IsCode(err, http.ValidationFailed), "filters must be boolean")
}

func TestCleanerService_Replace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.staff(t, "Sam Lee", "sam@example.com")

	f.advance(time.Hour)
	next := newStaff("Samuel Lee", "sam@example.com")
	next.ID = "ignored"
	got, err := f.svc.Cleaner.Replace(ctx, c.ID, &next)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.CreatedAt, got.CreatedAt)
	assert.Equal(t, f.now, got.UpdatedAt)

	_, err = f.svc.Cleaner.Replace(ctx, "missing", &next)
	assert.True(t, http.IsCode(err, http.CleanerNotFound))
}

func TestCleanerService_PatchAudit(t *testing.T) {
	tests := []struct {
		name  string
		setup map[string]any
		patch map[string]any
		want  []model.ActionType
		desc  string
	}{
		{
			name:  "verify",
			patch: map[string]any{"verificationStatus": "Verified"},
			want:  []model.ActionType{model.ActionCleanerVerified},
			desc:  "Admin verified and activated Sam Lee",
		},
		{
			name:  "reject",
			patch: map[string]any{"verificationStatus": "Rejected"},
			want:  []model.ActionType{model.ActionCleanerRejected},
			desc:  "Admin rejected application for Sam Lee",
		},
		{
			name:  "revoke",
			setup: map[string]any{"verificationStatus": "Verified"},
			patch: map[string]any{"verificationStatus": "Docs Required"},
			want:  []model.ActionType{model.ActionVerificationRevoked, model.ActionVerificationStatusChanged},
			desc:  "Admin changed verification status for Sam Lee from Verified to Docs Required",
		},
		{
			name:  "pay rate",
			setup: map[string]any{"hourlyPayRate": 11.5},
			patch: map[string]any{"hourlyPayRate": 12.75},
			want:  []model.ActionType{model.ActionHourlyPayRateUpdated},
			desc:  "Admin updated hourly pay rate for Sam Lee from £11.5 to £12.75",
		},
		{
			name:  "first pay rate",
			patch: map[string]any{"hourlyPayRate": 12},
			want:  []model.ActionType{model.ActionHourlyPayRateUpdated},
			desc:  "Admin updated hourly pay rate for Sam Lee from £N/A to £12",
		},
		{
			name:  "contract status",
			patch: map[string]any{"contractStatus": "Paused"},
			want:  []model.ActionType{model.ActionEmploymentStatusChanged},
			desc:  "Admin changed employment status for Sam Lee from N/A to Paused",
		},
		{
			name:  "allocation",
			patch: map[string]any{"location": "York", "shiftType": "Night"},
			want:  []model.ActionType{model.ActionEmploymentAllocationUpdated},
			desc:  "Admin updated employment allocation for Sam Lee",
		},
		{
			name:  "immigration",
			patch: map[string]any{"shareCode": "ABC123XYZ"},
			want:  []model.ActionType{model.ActionImmigrationInfoUpdated},
			desc:  "Admin updated immigration/right-to-work info for Sam Lee",
		},
		{
			name:  "auditor notes",
			patch: map[string]any{"auditorNotes": "Checked passport in person"},
			want:  []model.ActionType{model.ActionAuditorNotesUpdated},
			desc:  "Admin updated auditor notes for Sam Lee",
		},
		{
			name:  "personal details",
			patch: map[string]any{"phoneNumber": "07700900999", "address": "3 Park Row, Leeds"},
			want:  []model.ActionType{model.ActionCleanerUpdated},
			desc:  "Admin updated phoneNumber, address for Sam Lee",
		},
		{
			name:  "no change",
			patch: map[string]any{"name": "Sam Lee"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			c := f.staff(t, "Sam Lee", "sam@example.com")
			if tt.setup != nil {
				_, err := f.svc.Cleaner.Patch(ctx, c.ID, tt.setup)
				require.NoError(t, err)
			}
			before := len(f.activity.actions())

			_, err := f.svc.Cleaner.Patch(ctx, c.ID, tt.patch)
			require.NoError(t, err)

			got := f.activity.actions()[before:]
			assert.Equal(t, len(tt.want), len(got), "%v", got)
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.desc, f.activity.last().Message)
			}
		})
	}
}

func TestCleanerService_PatchKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.staff(t, "Sam Lee", "sam@example.com")

	got, err := f.svc.Cleaner.Patch(ctx, c.ID, map[string]any{"id": "other", "createdAt": "2020-01-01T00:00:00Z", "location": "Hull"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.CreatedAt, got.CreatedAt)
	assert.Equal(t, "Hull", got.Location)

	_, err = f.svc.Cleaner.Patch(ctx, c.ID, map[string]any{"hourlyPayRate": -1})
	assert.True(t, http.IsCode(err, http.ValidationFailed))
	_, err = f.svc.Cleaner.Patch(ctx, "missing", map[string]any{"location": "Hull"})
	assert.True(t, http.IsCode(err, http.CleanerNotFound))
}

func TestCleanerService_PatchDocumentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := newStaff("Sam Lee", "sam@example.com")
	c.Documents = []model.Document{{ID: "doc-1", Name: "Passport", Type: model.DocumentIMG, Status: model.DocumentPending}}
	created, err := f.svc.Cleaner.Create(ctx, &model.CreateCleanerReq{Cleaner: c})
	require.NoError(t, err)

	docs := []map[string]any{{"id": "doc-1", "name": "Passport", "type": "IMG", "status": "Rejected"}}
	_, err = f.svc.Cleaner.Patch(ctx, created.ID, map[string]any{"documents": docs})
	require.NoError(t, err)

	entry := f.activity.last()
	assert.Equal(t, model.ActionDocumentRejected, entry.ActionType)
	assert.Equal(t, model.EntityDocument, entry.EntityType)
	assert.Equal(t, "Admin rejected Passport for Sam Lee", entry.Message)
}

func TestCleanerService_Bulk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.staff(t, "Sam Lee", "sam@example.com")
	b := f.staff(t, "Kim Park", "kim@example.com")
	ids := []string{a.ID, b.ID, "missing"}

	resp, err := f.svc.Cleaner.BulkAction(ctx, &model.BulkActionReq{Action: "REJECT", CleanerIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.UpdatedCount)
	assert.Equal(t, "Rejected", resp.Status)
	entry := f.activity.last()
	assert.Equal(t, model.ActionBulkStatusUpdate, entry.ActionType)
	assert.Equal(t, "bulk", entry.EntityID)
	assert.Equal(t, "Admin marked 2 staff members as Rejected", entry.Message)

	resp, err = f.svc.Cleaner.BulkStatus(ctx, &model.BulkStatusReq{CleanerIDs: []string{a.ID}, Status: "Verified"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UpdatedCount)
	assert.Equal(t, "Admin updated status to Verified for 1 staff member", f.activity.last().Message)

	rate, location := 13.5, " Hull "
	upd, err := f.svc.Cleaner.BulkUpdate(ctx, &model.BulkUpdateReq{CleanerIDs: ids, HourlyPayRate: &rate, Location: &location})
	require.NoError(t, err)
	assert.Equal(t, int64(2), upd.UpdatedCount)
	assert.Equal(t, []string{"hourlyPayRate", "location"}, upd.UpdatedFields)
	got, err := f.svc.Cleaner.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hull", got.Location)
	assert.Equal(t, 13.5, *got.HourlyPayRate)

	del, err := f.svc.Cleaner.BulkDelete(ctx, &model.BulkDeleteReq{CleanerIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, int64(2), del.DeletedCount)
	assert.Empty(t, f.cleaners.rows)
}

func TestCleanerService_BulkRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	negative := -2.0

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{"no ids", func() error {
			_, err := f.svc.Cleaner.BulkAction(ctx, &model.BulkActionReq{Action: "VERIFY"})
			return err
		}, "cleanerIds must be a non-empty array"},
		{"blank id", func() error {
			_, err := f.svc.Cleaner.BulkDelete(ctx, &model.BulkDeleteReq{CleanerIDs: []string{"a", " "}})
			return err
		}, "All cleanerIds must be non-empty strings"},
		{"unknown action", func() error {
			_, err := f.svc.Cleaner.BulkAction(ctx, &model.BulkActionReq{Action: "ARCHIVE", CleanerIDs: []string{"a"}})
			return err
		}, "action must be one of: VERIFY, REJECT, PENDING"},
		{"unknown status", func() error {
			_, err := f.svc.Cleaner.BulkStatus(ctx, &model.BulkStatusReq{Status: "Docs Required", CleanerIDs: []string{"a"}})
			return err
		}, "status must be one of: Verified, Rejected, Pending"},
		{"negative rate", func() error {
			_, err := f.svc.Cleaner.BulkUpdate(ctx, &model.BulkUpdateReq{HourlyPayRate: &negative, CleanerIDs: []string{"a"}})
			return err
		}, "hourlyPayRate must be a non-negative number"},
		{"nothing to update", func() error {
			_, err := f.svc.Cleaner.BulkUpdate(ctx, &model.BulkUpdateReq{CleanerIDs: []string{"a"}})
			return err
		}, "Provide at least one of: hourlyPayRate, employmentType, location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, http.IsCode(err, http.ValidationFailed))
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestCleanerService_Delete(t *testing.T) {
	f := newFixture(t)
	c := f.staff(t, "Sam Lee", "sam@example.com")

	got, err := f.svc.Cleaner.Delete(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	_, err = f.svc.Cleaner.Delete(context.Background(), c.ID)
	assert.True(t, http.IsCode(err, http.CleanerNotFound))
}
