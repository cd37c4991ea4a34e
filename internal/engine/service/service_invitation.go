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
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/pkg/notify"
	"github.com/xpect-group/portal/internal/pkg/wizard"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/http/jwt"
	"github.com/xpect-group/portal/pkg/id"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/metrics"
	"github.com/xpect-group/portal/pkg/statemachine"
	"golang.org/x/crypto/bcrypt"
)

const otpHashCost = 10

type InvitationService struct {
	invitationRepo repo.IInvitationRepository
	progressRepo   repo.IProgressRepository
	cleanerRepo    repo.ICleanerRepository
	activity       *ActivityService
	notifier       notify.INotifier
	attempts       *cache.AttemptLimiter
	recorder       *metrics.Recorder
	auth           http.Auth
	conf           *config.Onboarding
	now            Clock
}

func NewInvitationService(
	repos *repo.Repositories,
	activity *ActivityService,
	notifier notify.INotifier,
	attempts *cache.AttemptLimiter,
	recorder *metrics.Recorder,
	httpConf *http.Http,
	conf *config.Onboarding,
) *InvitationService {
	return &InvitationService{
		invitationRepo: repos.Invitation,
		progressRepo:   repos.Progress,
		cleanerRepo:    repos.Cleaner,
		activity:       activity,
		notifier:       notifier,
		attempts:       attempts,
		recorder:       recorder,
		auth:           httpConf.Auth,
		conf:           conf,
		now:            time.Now,
	}
}

func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// issueOtp stores a fresh hashed OTP on inv and returns the plain code.
func (s *InvitationService) issueOtp(inv *model.Invitation) (string, error) {
	otp, err := generateOtp()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), otpHashCost)
	if err != nil {
		return "", err
	}
	expiresAt := s.now().Add(s.conf.OtpTTL)
	inv.Otp = string(hash)
	inv.OtpExpiresAt = &expiresAt
	return otp, nil
}

func (s *InvitationService) mailData(inv *model.Invitation, otp string) notify.MailData {
	return notify.MailData{
		EmployeeName:  inv.EmployeeName,
		OnboardingURL: s.conf.FrontendURL + "/onboarding/auth/" + inv.InviteToken,
		Otp:           otp,
		OtpMinutes:    int(s.conf.OtpTTL.Minutes()),
	}
}

func (s *InvitationService) Send(ctx context.Context, req *model.SendInvitationReq) (*model.InvitationView, error) {
	name := strings.TrimSpace(req.EmployeeName)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, http.ValidationFailed.Errf("Employee name and email are required")
	}
	if !wizard.IsValidEmail(email) {
		return nil, http.InvalidEmail.Err()
	}

	isStaff, err := s.cleanerRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, http.InternalError.Wrap(err)
	}
	if isStaff {
		return nil, http.EmailAlreadyStaff.Errf("This email (%s) already exists in the staff list. Cannot send invitation to existing staff members.", email)
	}
	invited, err := s.invitationRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, http.InternalError.Wrap(err)
	}
	duplicate := http.InvitationAlreadyExists.Errf("An invitation already exists for this email (%s). Cannot send duplicate invitations.", email)
	if invited {
		return nil, duplicate
	}

	now := s.now()
	inv := &model.Invitation{
		ID:           id.GetUUID(),
		InviteToken:  id.GetUUIDWithoutDashes() + strings.ToLower(id.GetXid()),
		EmployeeName: name,
		Email:        email,
		Status:       statemachine.InvitationSent,
		ExpiresAt:    now.Add(s.conf.InvitationTTL),
	}
	otp, err := s.issueOtp(inv)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to generate otp", "email", email, "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, duplicate
		}
		log.WithContext(ctx).Errorw("failed to create invitation", "email", email, "error", err)
		return nil, http.InternalError.Wrap(err)
	}

	if err := s.notifier.SendInvitation(ctx, inv.Email, s.mailData(inv, otp)); err != nil {
		// roll back so the address can be invited again
		if delErr := s.invitationRepo.Delete(ctx, inv.ID); delErr != nil {
			log.WithContext(ctx).Errorw("failed to roll back invitation", "id", inv.ID, "error", delErr)
		}
		return nil, http.MailDeliveryFailed.Wrap(err)
	}

	s.activity.ByAdmin(ctx, model.ActionInvitationSent, model.EntityInvitation, inv.ID,
		"Admin sent invitation to "+inv.EmployeeName, map[string]any{"employeeName": inv.EmployeeName})
	s.recorder.InvitationSent()
	s.notifier.Publish(string(model.ActionInvitationSent), map[string]any{"invitationId": inv.ID, "employeeName": inv.EmployeeName})
	return inv.View(), nil
}

func (s *InvitationService) List(ctx context.Context) ([]*model.InvitationView, error) {
	invitations, err := s.invitationRepo.List(ctx)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to list invitations", "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	views := make([]*model.InvitationView, 0, len(invitations))
	for _, inv := range invitations {
		views = append(views, inv.View())
	}
	return views, nil
}

// GetByToken returns the invitation, persisting EXPIRED when its time ran out.
func (s *InvitationService) GetByToken(ctx context.Context, inviteToken string) (*model.InvitationView, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, inviteToken)
	if err != nil {
		return nil, mapNotFound(err, http.InvitationNotFound)
	}
	if err := s.expireIfOverdue(ctx, inv); err != nil {
		return nil, http.InternalError.Wrap(err)
	}
	return inv.View(), nil
}

// Current loads an invitation that has not run out of time. Expired records
// are persisted as EXPIRED before the error is returned.
func (s *InvitationService) Current(ctx context.Context, inviteToken string) (*model.Invitation, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, inviteToken)
	if err != nil {
		return nil, mapNotFound(err, http.InvitationNotFound)
	}
	if err := s.expireIfOverdue(ctx, inv); err != nil {
		return nil, http.InternalError.Wrap(err)
	}
	if inv.Status == statemachine.InvitationExpired {
		return nil, http.InvitationExpired.Err()
	}
	return inv, nil
}

// Active is Current restricted to invitations that can still be worked on.
func (s *InvitationService) Active(ctx context.Context, inviteToken string) (*model.Invitation, error) {
	inv, err := s.Current(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	if inv.Status == statemachine.InvitationCompleted {
		return nil, http.InvitationCompleted.Err()
	}
	return inv, nil
}

// expireIfOverdue persists EXPIRED for an active invitation past its deadline.
func (s *InvitationService) expireIfOverdue(ctx context.Context, inv *model.Invitation) error {
	if !inv.Status.IsActive() || !inv.IsExpired(s.now(), s.conf.InvitationTTL) {
		return nil
	}
	return s.expire(ctx, inv)
}

func (s *InvitationService) expire(ctx context.Context, inv *model.Invitation) error {
	next, err := statemachine.FireInvitation(inv.Status, statemachine.EventExpire)
	if err != nil {
		return nil
	}
	inv.Status = next
	if err := s.invitationRepo.Update(ctx, inv); err != nil {
		log.WithContext(ctx).Errorw("failed to expire invitation", "id", inv.ID, "error", err)
		return err
	}
	days := int(s.conf.InvitationTTL.Hours() / 24)
	s.activity.BySystem(ctx, model.ActionSystemOnboardingExpired, model.EntityInvitation, inv.ID,
		fmt.Sprintf("System expired onboarding for %s (%d days inactive)", inv.EmployeeName, days),
		map[string]any{"employeeName": inv.EmployeeName})
	s.recorder.InvitationsExpired(1)
	s.notifier.Publish(string(model.ActionSystemOnboardingExpired), map[string]any{"invitationId": inv.ID})
	return nil
}

// ExpireOverdue moves every active invitation past its deadline to EXPIRED.
func (s *InvitationService) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := s.invitationRepo.ListOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, inv := range overdue {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		if err := s.expire(ctx, inv); err != nil {
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *InvitationService) otpAttemptKey(inviteToken string) string {
	return "otp:" + inviteToken
}

func (s *InvitationService) VerifyOtp(ctx context.Context, req *model.VerifyOtpReq) (*model.VerifyOtpResp, error) {
	inviteToken := strings.TrimSpace(req.InviteToken)
	otp := strings.TrimSpace(req.Otp)
	if inviteToken == "" || otp == "" {
		return nil, http.ValidationFailed.Errf("Invite token and OTP are required")
	}

	inv, err := s.Current(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	if inv.Status == statemachine.InvitationCompleted {
		return nil, http.InvitationCompleted.Errf("This invitation has already been used")
	}

	key := s.otpAttemptKey(inv.InviteToken)
	if s.attempts != nil && s.conf.OtpMaxAttempts > 0 {
		failures, err := s.attempts.Count(ctx, key)
		if err != nil {
			log.WithContext(ctx).Warnw("failed to read otp attempts", "inviteToken", inv.InviteToken, "error", err)
		} else if failures >= int64(s.conf.OtpMaxAttempts) {
			s.recorder.OtpVerification("throttled")
			return nil, http.OtpTooManyAttempts.Err()
		}
	}

	if !inv.IsOtpValid(s.now()) {
		s.recorder.OtpVerification("expired")
		return nil, http.OtpExpired.Err()
	}
	if bcrypt.CompareHashAndPassword([]byte(inv.Otp), []byte(otp)) != nil {
		if s.attempts != nil {
			if _, err := s.attempts.Hit(ctx, key, s.conf.OtpTTL); err != nil {
				log.WithContext(ctx).Warnw("failed to count otp attempt", "inviteToken", inv.InviteToken, "error", err)
			}
		}
		s.recorder.OtpVerification("invalid")
		return nil, http.OtpInvalid.Err()
	}

	now := s.now()
	// a returning employee keeps PENDING so saved progress stays meaningful
	if next, ok := statemachine.NextInvitationStatus(inv.Status, statemachine.EventVerifyOtp); ok {
		inv.Status = next
	}
	inv.VerifiedAt = &now
	inv.Otp = ""
	inv.OtpExpiresAt = nil
	if err := s.invitationRepo.Update(ctx, inv); err != nil {
		log.WithContext(ctx).Errorw("failed to mark invitation verified", "id", inv.ID, "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	if s.attempts != nil {
		_ = s.attempts.Reset(ctx, key)
	}

	s.activity.ByEmployee(ctx, inv.InviteToken, inv.EmployeeName, model.ActionOtpVerified, model.EntityInvitation, inv.ID,
		inv.EmployeeName+" verified OTP", map[string]any{"employeeName": inv.EmployeeName})

	token, claims, err := jwt.GenToken(inv.InviteToken, inv.Email, []byte(s.auth.SecretKey), s.auth.Issuer, s.auth.AccessExpire)
	if err != nil {
		return nil, http.InternalError.Wrap(err)
	}
	s.recorder.OtpVerification("ok")
	return &model.VerifyOtpResp{
		Token:        token,
		ExpiresAt:    claims.ExpiresAt.Time,
		InviteToken:  inv.InviteToken,
		EmployeeName: inv.EmployeeName,
		Email:        inv.Email,
	}, nil
}

// ResendOtp issues a new code. An EXPIRED invitation is revived with a fresh deadline.
func (s *InvitationService) ResendOtp(ctx context.Context, invitationID string) error {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return mapNotFound(err, http.InvitationNotFound)
	}
	return s.resend(ctx, inv, false)
}

// ResendOtpByToken is the employee facing variant keyed by invite token.
func (s *InvitationService) ResendOtpByToken(ctx context.Context, inviteToken string) error {
	if strings.TrimSpace(inviteToken) == "" {
		return http.ValidationFailed.Errf("Invite token is required")
	}
	inv, err := s.invitationRepo.GetByToken(ctx, inviteToken)
	if err != nil {
		return mapNotFound(err, http.InvitationNotFound)
	}
	return s.resend(ctx, inv, true)
}

func (s *InvitationService) resend(ctx context.Context, inv *model.Invitation, byEmployee bool) error {
	// an overdue record may still be stored as active until something reads it
	if err := s.expireIfOverdue(ctx, inv); err != nil {
		return http.InternalError.Wrap(err)
	}
	next, err := statemachine.FireInvitation(inv.Status, statemachine.EventResendOtp)
	switch {
	case errors.Is(err, statemachine.ErrInvitationClosed):
		return http.InvitationCompleted.Errf("Cannot resend OTP for completed invitation")
	case err == nil:
		inv.Status = next
		inv.ExpiresAt = s.now().Add(s.conf.InvitationTTL)
	}
	otp, err := s.issueOtp(inv)
	if err != nil {
		return http.InternalError.Wrap(err)
	}
	if err := s.invitationRepo.Update(ctx, inv); err != nil {
		log.WithContext(ctx).Errorw("failed to store new otp", "id", inv.ID, "error", err)
		return http.InternalError.Wrap(err)
	}
	if s.attempts != nil {
		_ = s.attempts.Reset(ctx, s.otpAttemptKey(inv.InviteToken))
	}
	if err := s.notifier.SendOtpResend(ctx, inv.Email, s.mailData(inv, otp)); err != nil {
		return http.MailDeliveryFailed.Wrap(err)
	}
	meta := map[string]any{"employeeName": inv.EmployeeName}
	if byEmployee {
		s.activity.ByEmployee(ctx, inv.InviteToken, inv.EmployeeName, model.ActionOtpResent, model.EntityInvitation, inv.ID,
			inv.EmployeeName+" requested a new OTP", meta)
	} else {
		s.activity.ByAdmin(ctx, model.ActionOtpResent, model.EntityInvitation, inv.ID,
			"Admin resent OTP to "+inv.EmployeeName, meta)
	}
	return nil
}

// Complete marks the invitation COMPLETED. progress defaults to 100.
func (s *InvitationService) Complete(ctx context.Context, invitationID string, progress *int) (*model.InvitationView, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, mapNotFound(err, http.InvitationNotFound)
	}
	if err := s.complete(ctx, inv, progress); err != nil {
		return nil, err
	}
	return inv.View(), nil
}

func (s *InvitationService) complete(ctx context.Context, inv *model.Invitation, progress *int) error {
	next, err := statemachine.FireInvitation(inv.Status, statemachine.EventComplete)
	if errors.Is(err, statemachine.ErrInvitationClosed) {
		return http.InvitationCompleted.Err()
	}
	if err != nil {
		return http.InvalidStatusTransition.Errf("Cannot complete an invitation in status %s", inv.Status)
	}
	inv.Status = next
	inv.OnboardingProgress = 100
	if progress != nil && *progress > 0 {
		inv.OnboardingProgress = min(*progress, 100)
	}
	if err := s.invitationRepo.Update(ctx, inv); err != nil {
		log.WithContext(ctx).Errorw("failed to complete invitation", "id", inv.ID, "error", err)
		return http.InternalError.Wrap(err)
	}
	s.activity.ByEmployee(ctx, inv.InviteToken, inv.EmployeeName, model.ActionOnboardingCompleted, model.EntityInvitation, inv.ID,
		inv.EmployeeName+" completed onboarding", map[string]any{"employeeName": inv.EmployeeName})
	return nil
}

func (s *InvitationService) VerifyToken(ctx context.Context, req *model.VerifyTokenReq) (*model.VerifyTokenResp, error) {
	if req.OnboardingToken == "" || req.InviteToken == "" {
		return nil, http.ValidationFailed.Errf("Token and invite token are required")
	}
	claims, err := jwt.ParseToken(req.OnboardingToken, s.auth.SecretKey)
	if err != nil {
		return nil, http.InvalidToken.Errf("Token is invalid or expired")
	}
	if claims.InviteToken != req.InviteToken {
		return nil, http.TokenMismatch.Err()
	}
	inv, err := s.invitationRepo.GetByToken(ctx, req.InviteToken)
	if err != nil {
		return nil, mapNotFound(err, http.InvitationNotFound)
	}
	if inv.IsExpired(s.now(), s.conf.InvitationTTL) {
		return nil, http.InvitationExpired.Err()
	}
	return &model.VerifyTokenResp{
		Role:              claims.Role,
		OnboardingAllowed: claims.OnboardingAllowed,
		InviteToken:       claims.InviteToken,
		Email:             claims.Email,
	}, nil
}

func (s *InvitationService) Delete(ctx context.Context, invitationID string) (*model.InvitationView, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, mapNotFound(err, http.InvitationNotFound)
	}
	if err := s.invitationRepo.Delete(ctx, inv.ID); err != nil {
		return nil, mapNotFound(err, http.InvitationNotFound)
	}
	if err := s.progressRepo.Delete(ctx, inv.InviteToken); err != nil && !errors.Is(err, repo.ErrNotFound) {
		log.WithContext(ctx).Warnw("failed to drop progress of deleted invitation", "inviteToken", inv.InviteToken, "error", err)
	}
	s.activity.ByAdmin(ctx, model.ActionInvitationDeleted, model.EntityInvitation, inv.ID,
		"Admin deleted invitation for "+inv.EmployeeName, map[string]any{"employeeName": inv.EmployeeName})
	return inv.View(), nil
}
