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
	"time"

	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/pkg/wizard"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/metrics"
	"github.com/xpect-group/portal/pkg/statemachine"
)

// ProgressService implements the autosave protocol.
type ProgressService struct {
	progressRepo   repo.IProgressRepository
	invitationRepo repo.IInvitationRepository
	invitations    *InvitationService
	activity       *ActivityService
	recorder       *metrics.Recorder
	conf           *config.Onboarding
	now            Clock
}

func NewProgressService(
	repos *repo.Repositories,
	invitations *InvitationService,
	activity *ActivityService,
	recorder *metrics.Recorder,
	conf *config.Onboarding,
) *ProgressService {
	return &ProgressService{
		progressRepo:   repos.Progress,
		invitationRepo: repos.Invitation,
		invitations:    invitations,
		activity:       activity,
		recorder:       recorder,
		conf:           conf,
		now:            time.Now,
	}
}

func (s *ProgressService) Save(ctx context.Context, inviteToken string, req *model.SaveProgressReq) (*model.SaveProgressResp, error) {
	if !wizard.ValidStep(req.Step) {
		return nil, http.InvalidStep.Err()
	}
	if req.FormData == nil {
		return nil, http.ValidationFailed.Errf("Form data object is required")
	}

	inv, err := s.invitations.Active(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	existing, err := s.find(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	progress, err := s.save(ctx, inv, existing, req.Step, req.FormData, req.IsStepCompleted)
	if err != nil {
		return nil, err
	}
	return &model.SaveProgressResp{
		CurrentStep:       progress.CurrentStep,
		LastCompletedStep: progress.LastCompletedStep,
		SavedAt:           progress.UpdatedAt,
	}, nil
}

// find returns nil without error when nothing was saved yet.
func (s *ProgressService) find(ctx context.Context, inviteToken string) (*model.OnboardingProgress, error) {
	progress, err := s.progressRepo.Get(ctx, inviteToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		log.WithContext(ctx).Errorw("failed to load progress", "inviteToken", inviteToken, "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	return progress, nil
}

// nextLastCompleted applies the monotonic lastCompletedStep rule.
func nextLastCompleted(existing *model.OnboardingProgress, step int, completed bool) int {
	if existing == nil {
		return step
	}
	if !completed {
		return existing.LastCompletedStep
	}
	return max(existing.LastCompletedStep, step)
}

// checkOrder rejects saves that would move behind the completed frontier.
func checkOrder(existing *model.OnboardingProgress, step int) error {
	if existing == nil {
		if step > wizard.FirstStep {
			return http.MustStartFromStepOne.Err()
		}
		return nil
	}
	if step < existing.LastCompletedStep {
		return http.StepOrderViolation.Errf("Cannot go backwards. Last completed step is %d.", existing.LastCompletedStep)
	}
	return nil
}

func (s *ProgressService) save(ctx context.Context, inv *model.Invitation, existing *model.OnboardingProgress, step int, form *wizard.FormData, completed bool) (*model.OnboardingProgress, error) {
	if err := checkOrder(existing, step); err != nil {
		return nil, err
	}
	form.Normalize()

	progress := &model.OnboardingProgress{
		InviteToken:       inv.InviteToken,
		LastCompletedStep: nextLastCompleted(existing, step, completed),
		CurrentStep:       step,
		FormData:          *form,
		ExpiresAt:         s.now().Add(s.conf.ProgressTTL),
	}
	if existing != nil {
		progress.CreatedAt = existing.CreatedAt
	}
	if err := s.progressRepo.Upsert(ctx, progress); err != nil {
		log.WithContext(ctx).Errorw("failed to save progress", "inviteToken", inv.InviteToken, "step", step, "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	s.recorder.ProgressSaved(completed)

	inv.OnboardingProgress = wizard.ProgressPercent(progress.LastCompletedStep)
	started := false
	if existing == nil {
		if next, ok := statemachine.NextInvitationStatus(inv.Status, statemachine.EventStart); ok {
			inv.Status = next
			started = true
		}
	}
	if err := s.invitationRepo.Update(ctx, inv); err != nil {
		log.WithContext(ctx).Errorw("failed to update invitation progress", "id", inv.ID, "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	if started {
		s.activity.ByEmployee(ctx, inv.InviteToken, inv.EmployeeName, model.ActionOnboardingStarted, model.EntityInvitation, inv.ID,
			inv.EmployeeName+" started onboarding", map[string]any{"employeeName": inv.EmployeeName})
	}
	return progress, nil
}

func (s *ProgressService) Load(ctx context.Context, inviteToken string) (*model.LoadProgressResp, error) {
	if _, err := s.invitations.Current(ctx, inviteToken); err != nil {
		return nil, err
	}
	progress, err := s.find(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return &model.LoadProgressResp{HasProgress: false}, nil
	}
	if _, dropped := progress.FormData.Attachments.Restore(); len(dropped) > 0 {
		log.WithContext(ctx).Warnw("dropped unreadable attachments from saved progress", "inviteToken", inviteToken, "fields", dropped)
	}
	return &model.LoadProgressResp{HasProgress: true, Progress: progress}, nil
}

func (s *ProgressService) Clear(ctx context.Context, inviteToken string) error {
	if err := s.progressRepo.Delete(ctx, inviteToken); err != nil {
		return mapNotFound(err, http.ProgressNotFound)
	}
	return nil
}
