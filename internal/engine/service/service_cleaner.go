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
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/xpect-group/portal/internal/engine/constant"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/id"
	"github.com/xpect-group/portal/pkg/log"
)

var bulkActionStatus = map[string]model.VerificationStatus{
	"VERIFY":  model.VerificationVerified,
	"REJECT":  model.VerificationRejected,
	"PENDING": model.VerificationPending,
}

var bulkStatuses = []model.VerificationStatus{model.VerificationVerified, model.VerificationRejected, model.VerificationPending}

var (
	allocationFields  = []string{"location", "shiftType", "payType", "startDate", "endDate"}
	immigrationFields = []string{"citizenshipStatus", "visaType", "shareCode"}
	personalFields    = []string{"name", "email", "phoneNumber", "address", "dob", "gender", "avatar"}
)

type CleanerService struct {
	cleanerRepo repo.ICleanerRepository
	activity    *ActivityService
	now         Clock
}

func NewCleanerService(repos *repo.Repositories, activity *ActivityService) *CleanerService {
	return &CleanerService{
		cleanerRepo: repos.Cleaner,
		activity:    activity,
		now:         time.Now,
	}
}

// List returns staff newest first. A non-empty filter is an expression over
// the record fields, e.g. `location == "Leeds" && onboardingProgress == 100`.
func (s *CleanerService) List(ctx context.Context, filter string) ([]*model.Cleaner, error) {
	var program *vm.Program
	if filter = strings.TrimSpace(filter); filter != "" {
		var err error
		program, err = expr.Compile(filter, expr.Env(model.Cleaner{}), expr.AsBool())
		if err != nil {
			return nil, http.ValidationFailed.Errf("Invalid filter expression: %v", err)
		}
	}

	cleaners, err := s.cleanerRepo.List(ctx)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to list cleaners", "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	if program == nil {
		return cleaners, nil
	}

	matched := make([]*model.Cleaner, 0, len(cleaners))
	for _, c := range cleaners {
		out, err := expr.Run(program, *c)
		if err != nil {
			return nil, http.ValidationFailed.Errf("Filter failed on cleaner %s: %v", c.ID, err)
		}
		if ok, _ := out.(bool); ok {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (s *CleanerService) ListByStatus(ctx context.Context, status string) ([]*model.Cleaner, error) {
	cleaners, err := s.cleanerRepo.ListByStatus(ctx, status)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to list cleaners by status", "status", status, "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	return cleaners, nil
}

func (s *CleanerService) Get(ctx context.Context, cleanerID string) (*model.Cleaner, error) {
	cleaner, err := s.cleanerRepo.Get(ctx, cleanerID)
	if err != nil {
		return nil, mapNotFound(err, http.CleanerNotFound)
	}
	return cleaner, nil
}

// validateCleaner checks the fields every stored record must carry.
func validateCleaner(c *model.Cleaner) map[string]string {
	errs := make(map[string]string)
	for field, value := range map[string]string{
		"name":              c.Name,
		"email":             c.Email,
		"phoneNumber":       c.PhoneNumber,
		"dob":               c.Dob,
		"address":           c.Address,
		"startDate":         c.StartDate,
		"citizenshipStatus": c.CitizenshipStatus,
	} {
		if strings.TrimSpace(value) == "" {
			errs[field] = field + " is required"
		}
	}
	if c.EmploymentType != "" && !model.ValidEmploymentType(c.EmploymentType) {
		errs["employmentType"] = "employmentType must be one of: " + strings.Join(model.EmploymentTypes, ", ")
	}
	if c.HourlyPayRate != nil && *c.HourlyPayRate < 0 {
		errs["hourlyPayRate"] = "hourlyPayRate must be a non-negative number"
	}
	for i, doc := range c.Documents {
		if doc.ID == "" || doc.Name == "" {
			errs[fmt.Sprintf("documents[%d]", i)] = "Document id and name are required"
		}
	}
	return errs
}

func (s *CleanerService) Create(ctx context.Context, req *model.CreateCleanerReq) (*model.Cleaner, error) {
	cleaner := req.Cleaner
	cleaner.Email = normalizeEmail(cleaner.Email)
	if cleaner.ID == "" {
		cleaner.ID = id.GetXid()
	}
	if cleaner.VerificationStatus == "" {
		cleaner.VerificationStatus = model.VerificationPending
	}
	if cleaner.DbsStatus == "" {
		cleaner.DbsStatus = model.DBSNotStarted
	}
	if cleaner.EmploymentType == "" {
		cleaner.EmploymentType = model.EmploymentContractor
	}
	if cleaner.Documents == nil {
		cleaner.Documents = []model.Document{}
	}
	if errs := validateCleaner(&cleaner); len(errs) > 0 {
		return nil, http.ValidationFailed.Err().WithFields(errs)
	}

	exists, err := s.cleanerRepo.ExistsByEmailOrID(ctx, cleaner.Email, cleaner.ID)
	if err != nil {
		return nil, http.InternalError.Wrap(err)
	}
	if exists {
		return nil, http.CleanerAlreadyExists.Err()
	}

	now := s.now()
	cleaner.CreatedAt, cleaner.UpdatedAt = now, now
	if err := s.cleanerRepo.Create(ctx, &cleaner); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, http.CleanerAlreadyExists.Err()
		}
		log.WithContext(ctx).Errorw("failed to create cleaner", "email", cleaner.Email, "error", err)
		return nil, http.InternalError.Wrap(err)
	}

	source := req.Source
	if source != model.SourceOnboarding {
		source = model.SourceAdmin
	}
	meta := map[string]any{"cleanerName": cleaner.Name, "source": source}
	if source == model.SourceOnboarding {
		s.activity.ByEmployee(ctx, cleaner.Email, cleaner.Name, model.ActionCleanerCreated, model.EntityCleaner, cleaner.ID,
			fmt.Sprintf("%s created staff profile for %s", cleaner.Name, cleaner.Name), meta)
	} else {
		s.activity.ByAdmin(ctx, model.ActionCleanerCreated, model.EntityCleaner, cleaner.ID,
			fmt.Sprintf("%s created staff profile for %s", constant.AdminName, cleaner.Name), meta)
	}
	return &cleaner, nil
}

// Replace overwrites a record. Identity and creation time are kept.
func (s *CleanerService) Replace(ctx context.Context, cleanerID string, cleaner *model.Cleaner) (*model.Cleaner, error) {
	existing, err := s.cleanerRepo.Get(ctx, cleanerID)
	if err != nil {
		return nil, mapNotFound(err, http.CleanerNotFound)
	}
	cleaner.ID = existing.ID
	cleaner.Email = normalizeEmail(cleaner.Email)
	cleaner.CreatedAt = existing.CreatedAt
	cleaner.UpdatedAt = s.now()
	if cleaner.Documents == nil {
		cleaner.Documents = []model.Document{}
	}
	if errs := validateCleaner(cleaner); len(errs) > 0 {
		return nil, http.ValidationFailed.Err().WithFields(errs)
	}
	if err := s.store(ctx, cleaner); err != nil {
		return nil, err
	}
	return cleaner, nil
}

func (s *CleanerService) store(ctx context.Context, cleaner *model.Cleaner) error {
	if err := s.cleanerRepo.Replace(ctx, cleaner); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return http.CleanerAlreadyExists.Err()
		}
		return mapNotFound(err, http.CleanerNotFound)
	}
	return nil
}

// Patch applies a partial update and writes one audit entry per kind of change.
func (s *CleanerService) Patch(ctx context.Context, cleanerID string, patch map[string]any) (*model.Cleaner, error) {
	old, err := s.cleanerRepo.Get(ctx, cleanerID)
	if err != nil {
		return nil, mapNotFound(err, http.CleanerNotFound)
	}
	delete(patch, "id")
	delete(patch, "createdAt")

	updated, err := mergePatch(old, patch)
	if err != nil {
		return nil, http.RequestParameterParsingFailed.Wrap(err)
	}
	updated.Email = normalizeEmail(updated.Email)
	updated.UpdatedAt = s.now()
	if errs := validateCleaner(updated); len(errs) > 0 {
		return nil, http.ValidationFailed.Err().WithFields(errs)
	}
	if err := s.store(ctx, updated); err != nil {
		return nil, err
	}

	s.logChanges(ctx, old, updated)
	return updated, nil
}

func fieldValues(c *model.Cleaner) map[string]any {
	values := make(map[string]any)
	raw, err := sonic.Marshal(c)
	if err != nil {
		return values
	}
	_ = sonic.Unmarshal(raw, &values)
	return values
}

func changedFields(oldValues, newValues map[string]any, fields []string) []string {
	var changed []string
	for _, f := range fields {
		if fmt.Sprint(oldValues[f]) != fmt.Sprint(newValues[f]) {
			changed = append(changed, f)
		}
	}
	return changed
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "N/A"
	}
	return fmt.Sprintf("%g", *rate)
}

func (s *CleanerService) logChanges(ctx context.Context, old, updated *model.Cleaner) {
	name := updated.Name
	nameMeta := map[string]any{"cleanerName": name}

	if updated.VerificationStatus != old.VerificationStatus {
		switch updated.VerificationStatus {
		case model.VerificationVerified:
			s.activity.ByAdmin(ctx, model.ActionCleanerVerified, model.EntityCleaner, updated.ID,
				"Admin verified and activated "+name, nameMeta)
		case model.VerificationRejected:
			s.activity.ByAdmin(ctx, model.ActionCleanerRejected, model.EntityCleaner, updated.ID,
				"Admin rejected application for "+name, nameMeta)
		default:
			if old.VerificationStatus == model.VerificationVerified {
				s.activity.ByAdmin(ctx, model.ActionVerificationRevoked, model.EntityCleaner, updated.ID,
					"Admin revoked verification for "+name, nameMeta)
			}
			s.activity.ByAdmin(ctx, model.ActionVerificationStatusChanged, model.EntityCleaner, updated.ID,
				fmt.Sprintf("Admin changed verification status for %s from %s to %s", name, old.VerificationStatus, updated.VerificationStatus),
				map[string]any{"cleanerName": name, "oldStatus": old.VerificationStatus, "newStatus": updated.VerificationStatus})
		}
	}

	if updated.HourlyPayRate != nil && (old.HourlyPayRate == nil || *old.HourlyPayRate != *updated.HourlyPayRate) {
		s.activity.ByAdmin(ctx, model.ActionHourlyPayRateUpdated, model.EntityCleaner, updated.ID,
			fmt.Sprintf("Admin updated hourly pay rate for %s from £%s to £%s", name, formatRate(old.HourlyPayRate), formatRate(updated.HourlyPayRate)),
			map[string]any{"cleanerName": name, "oldRate": old.HourlyPayRate, "newRate": *updated.HourlyPayRate})
	}

	if updated.ContractStatus != "" && updated.ContractStatus != old.ContractStatus {
		s.activity.ByAdmin(ctx, model.ActionEmploymentStatusChanged, model.EntityCleaner, updated.ID,
			fmt.Sprintf("Admin changed employment status for %s from %s to %s", name, orNA(old.ContractStatus), updated.ContractStatus),
			map[string]any{"cleanerName": name, "oldStatus": old.ContractStatus, "newStatus": updated.ContractStatus})
	}

	oldValues, newValues := fieldValues(old), fieldValues(updated)
	if len(changedFields(oldValues, newValues, allocationFields)) > 0 {
		s.activity.ByAdmin(ctx, model.ActionEmploymentAllocationUpdated, model.EntityCleaner, updated.ID,
			"Admin updated employment allocation for "+name, nameMeta)
	}
	if len(changedFields(oldValues, newValues, immigrationFields)) > 0 {
		s.activity.ByAdmin(ctx, model.ActionImmigrationInfoUpdated, model.EntityCleaner, updated.ID,
			"Admin updated immigration/right-to-work info for "+name, nameMeta)
	}
	if updated.AuditorNotes != old.AuditorNotes {
		s.activity.ByAdmin(ctx, model.ActionAuditorNotesUpdated, model.EntityCleaner, updated.ID,
			"Admin updated auditor notes for "+name, nameMeta)
	}

	for _, doc := range updated.Documents {
		if _, prev := old.FindDocument(doc.ID); prev != nil && prev.Status != doc.Status {
			logDocumentStatus(ctx, s.activity, updated, &doc, prev.Status)
		}
	}

	if changed := changedFields(oldValues, newValues, personalFields); len(changed) > 0 {
		s.activity.ByAdmin(ctx, model.ActionCleanerUpdated, model.EntityCleaner, updated.ID,
			fmt.Sprintf("Admin updated %s for %s", strings.Join(changed, ", "), name),
			map[string]any{"cleanerName": name, "changedFields": changed, "changedFieldNames": strings.Join(changed, ", ")})
	}
}

// logDocumentStatus records a document review decision.
func logDocumentStatus(ctx context.Context, activity *ActivityService, c *model.Cleaner, doc *model.Document, from model.DocumentStatus) {
	meta := map[string]any{"cleanerName": c.Name, "documentName": doc.Name, "documentId": doc.ID}
	switch doc.Status {
	case model.DocumentVerified:
		activity.ByAdmin(ctx, model.ActionDocumentVerified, model.EntityDocument, doc.ID,
			fmt.Sprintf("Admin verified %s for %s", doc.Name, c.Name), meta)
	case model.DocumentRejected:
		activity.ByAdmin(ctx, model.ActionDocumentRejected, model.EntityDocument, doc.ID,
			fmt.Sprintf("Admin rejected %s for %s", doc.Name, c.Name), meta)
	default:
		meta["oldStatus"], meta["newStatus"] = from, doc.Status
		activity.ByAdmin(ctx, model.ActionDocumentStatusUpdated, model.EntityDocument, doc.ID,
			fmt.Sprintf("Admin updated status of '%s' for %s from %s to %s", doc.Name, c.Name, from, doc.Status), meta)
	}
}

func (s *CleanerService) Delete(ctx context.Context, cleanerID string) (*model.Cleaner, error) {
	cleaner, err := s.cleanerRepo.Get(ctx, cleanerID)
	if err != nil {
		return nil, mapNotFound(err, http.CleanerNotFound)
	}
	if err := s.cleanerRepo.Delete(ctx, cleanerID); err != nil {
		return nil, mapNotFound(err, http.CleanerNotFound)
	}
	return cleaner, nil
}

func checkBulkIDs(ids []string) error {
	if len(ids) == 0 {
		return http.ValidationFailed.Errf("cleanerIds must be a non-empty array")
	}
	for _, v := range ids {
		if strings.TrimSpace(v) == "" {
			return http.ValidationFailed.Errf("All cleanerIds must be non-empty strings")
		}
	}
	return nil
}

func (s *CleanerService) BulkAction(ctx context.Context, req *model.BulkActionReq) (*model.BulkStatusResp, error) {
	if err := checkBulkIDs(req.CleanerIDs); err != nil {
		return nil, err
	}
	status, ok := bulkActionStatus[req.Action]
	if !ok {
		return nil, http.ValidationFailed.Errf("action must be one of: VERIFY, REJECT, PENDING")
	}
	return s.setStatus(ctx, req.CleanerIDs, status)
}

func (s *CleanerService) BulkStatus(ctx context.Context, req *model.BulkStatusReq) (*model.BulkStatusResp, error) {
	if err := checkBulkIDs(req.CleanerIDs); err != nil {
		return nil, err
	}
	status := model.VerificationStatus(req.Status)
	if !slices.Contains(bulkStatuses, status) {
		return nil, http.ValidationFailed.Errf("status must be one of: Verified, Rejected, Pending")
	}
	return s.setStatus(ctx, req.CleanerIDs, status)
}

func (s *CleanerService) setStatus(ctx context.Context, ids []string, status model.VerificationStatus) (*model.BulkStatusResp, error) {
	modified, err := s.cleanerRepo.UpdateMany(ctx, ids, map[string]any{"verificationStatus": status})
	if err != nil {
		log.WithContext(ctx).Errorw("failed to update staff status", "count", len(ids), "status", status, "error", err)
		return nil, http.InternalError.Wrap(err)
	}

	count := plural(int(modified), "staff member", "staff members")
	msg := fmt.Sprintf("Admin updated status to %s for %s", status, count)
	if status == model.VerificationRejected {
		msg = fmt.Sprintf("Admin marked %s as Rejected", count)
	}
	s.activity.ByAdmin(ctx, model.ActionBulkStatusUpdate, model.EntityCleaner, "bulk", msg,
		map[string]any{"affectedEntityCount": modified, "targetStatus": status})

	return &model.BulkStatusResp{UpdatedCount: modified, Status: string(status)}, nil
}

func (s *CleanerService) BulkUpdate(ctx context.Context, req *model.BulkUpdateReq) (*model.BulkUpdateResp, error) {
	if err := checkBulkIDs(req.CleanerIDs); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	var names []string
	if req.EmploymentType != "" {
		if !model.ValidEmploymentType(req.EmploymentType) {
			return nil, http.ValidationFailed.Errf("employmentType must be one of: %s", strings.Join(model.EmploymentTypes, ", "))
		}
		fields["employmentType"] = req.EmploymentType
		names = append(names, "employmentType")
	}
	if req.HourlyPayRate != nil {
		if *req.HourlyPayRate < 0 {
			return nil, http.ValidationFailed.Errf("hourlyPayRate must be a non-negative number")
		}
		fields["hourlyPayRate"] = *req.HourlyPayRate
		names = append(names, "hourlyPayRate")
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
		names = append(names, "location")
	}
	if len(fields) == 0 {
		return nil, http.ValidationFailed.Errf("Provide at least one of: hourlyPayRate, employmentType, location")
	}

	modified, err := s.cleanerRepo.UpdateMany(ctx, req.CleanerIDs, fields)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to bulk update staff", "count", len(req.CleanerIDs), "fields", names, "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	return &model.BulkUpdateResp{UpdatedCount: modified, UpdatedFields: names}, nil
}

func (s *CleanerService) BulkDelete(ctx context.Context, req *model.BulkDeleteReq) (*model.BulkDeleteResp, error) {
	if err := checkBulkIDs(req.CleanerIDs); err != nil {
		return nil, err
	}
	deleted, err := s.cleanerRepo.DeleteMany(ctx, req.CleanerIDs)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to bulk delete staff", "count", len(req.CleanerIDs), "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	return &model.BulkDeleteResp{DeletedCount: deleted}, nil
}
