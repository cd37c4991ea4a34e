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

	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/pkg/wizard"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/http/jwt"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/statemachine"
)

// OnboardingService drives the wizard for one applicant: resume, gate checks,
// forward and backward navigation, and the final submission.
type OnboardingService struct {
	invitations *InvitationService
	progress    *ProgressService
	assembler   *Assembler
}

func NewOnboardingService(invitations *InvitationService, progress *ProgressService, assembler *Assembler) *OnboardingService {
	return &OnboardingService{
		invitations: invitations,
		progress:    progress,
		assembler:   assembler,
	}
}

// Steps lists the active steps for a pair of answers.
func (s *OnboardingService) Steps(citizenship, visaType string) *model.StepsResp {
	active := wizard.ActiveSteps(citizenship, visaType)
	steps := make([]model.StepInfo, 0, len(active))
	for i, step := range active {
		steps = append(steps, model.StepInfo{Step: step, DisplayStep: i + 1, Name: wizard.StepName(step)})
	}
	return &model.StepsResp{TotalSteps: len(active), Steps: steps}
}

func thankYou() *model.WizardState {
	return &model.WizardState{Outcome: model.OutcomeThankYou}
}

func wizardAt(f *wizard.FormData, pos wizard.Position) *model.WizardState {
	return &model.WizardState{Outcome: model.OutcomeWizard, Position: pos, FormData: f}
}

// Resume decides where a returning applicant lands.
func (s *OnboardingService) Resume(ctx context.Context, inviteToken string) (*model.WizardState, error) {
	inv, err := s.invitations.Current(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	if inv.Status == statemachine.InvitationCompleted {
		return thankYou(), nil
	}

	saved, err := s.progress.find(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		form := &wizard.FormData{Version: wizard.FormVersion}
		return wizardAt(form, wizard.PositionOf(form, wizard.FirstStep, 0)), nil
	}

	form := saved.FormData
	form.Normalize()
	if _, dropped := form.Attachments.Restore(); len(dropped) > 0 {
		log.WithContext(ctx).Warnw("dropped unreadable attachments on resume", "inviteToken", inviteToken, "fields", dropped)
	}
	return wizardAt(&form, wizard.Resume(&form, saved.CurrentStep, saved.LastCompletedStep)), nil
}

func requireStep(req *model.WizardStepReq) error {
	if !wizard.ValidStep(req.Step) {
		return http.InvalidStep.Err()
	}
	if req.FormData == nil {
		return http.ValidationFailed.Errf("Form data object is required")
	}
	return nil
}

// Validate reports every problem on the step without saving anything.
func (s *OnboardingService) Validate(ctx context.Context, inviteToken string, req *model.WizardStepReq) (*model.ValidateStepResp, error) {
	if err := requireStep(req); err != nil {
		return nil, err
	}
	if _, err := s.invitations.Active(ctx, inviteToken); err != nil {
		return nil, err
	}
	errs := wizard.Validate(req.Step, req.FormData)
	return &model.ValidateStepResp{CanProceed: len(errs) == 0, Errors: errs}, nil
}

// Next leaves the current step. The step is saved as completed, then either
// the following active step is saved as the new position or, on the last
// step, the application is submitted.
func (s *OnboardingService) Next(ctx context.Context, inviteToken string, req *model.WizardStepReq, session *jwt.OnboardingClaims) (*model.WizardState, error) {
	if err := requireStep(req); err != nil {
		return nil, err
	}
	inv, err := s.invitations.Active(ctx, inviteToken)
	if err != nil {
		return nil, err
	}

	form := req.FormData
	active := wizard.ActiveStepsFor(form)
	if !wizard.IsActive(active, req.Step) {
		return nil, http.InvalidStep.Errf("Step %d is not part of this application", req.Step)
	}
	if !wizard.CanProceed(req.Step, form) {
		return nil, http.ValidationFailed.Err().WithFields(wizard.Validate(req.Step, form))
	}

	saved, err := s.progress.find(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	// steps behind the completed frontier are revisits and are not saved
	if saved == nil || req.Step >= saved.LastCompletedStep {
		if saved, err = s.progress.save(ctx, inv, saved, req.Step, form, true); err != nil {
			return nil, err
		}
	}

	next, ok := wizard.Next(active, req.Step)
	if !ok {
		return s.submit(ctx, inv, form, session)
	}
	if next >= saved.LastCompletedStep {
		if saved, err = s.progress.save(ctx, inv, saved, next, form, false); err != nil {
			return nil, err
		}
	}
	return wizardAt(form, wizard.PositionOf(form, next, saved.LastCompletedStep)), nil
}

// Back moves to the previous active step. Backward moves are never saved.
func (s *OnboardingService) Back(ctx context.Context, inviteToken string, req *model.WizardStepReq) (*model.WizardState, error) {
	if err := requireStep(req); err != nil {
		return nil, err
	}
	if _, err := s.invitations.Active(ctx, inviteToken); err != nil {
		return nil, err
	}
	saved, err := s.progress.find(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	lastCompleted := 0
	if saved != nil {
		lastCompleted = saved.LastCompletedStep
	}

	step := req.Step
	if prev, ok := wizard.Prev(wizard.ActiveStepsFor(req.FormData), step); ok {
		step = prev
	}
	return wizardAt(req.FormData, wizard.PositionOf(req.FormData, step, lastCompleted)), nil
}

// Submit runs the assembler directly.
func (s *OnboardingService) Submit(ctx context.Context, inviteToken string, req *model.SubmitReq, session *jwt.OnboardingClaims) (*model.WizardState, error) {
	if req.FormData == nil {
		return nil, http.ValidationFailed.Errf("Form data object is required")
	}
	inv, err := s.invitations.Active(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, inv, req.FormData, session)
}

// submit requires every active step to pass the gate.
func (s *OnboardingService) submit(ctx context.Context, inv *model.Invitation, form *wizard.FormData, session *jwt.OnboardingClaims) (*model.WizardState, error) {
	if step, errs := wizard.ValidateAll(form); step != 0 {
		return nil, http.ValidationFailed.Errf("Step %d (%s) is incomplete", step, wizard.StepName(step)).WithFields(errs)
	}
	result, err := s.assembler.Submit(ctx, inv, form, session)
	if err != nil {
		return nil, err
	}
	state := thankYou()
	state.ApplicationRef = result.ApplicationRef
	state.CleanerID = result.Cleaner.ID
	return state, nil
}
