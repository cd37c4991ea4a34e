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
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/pkg/notify"
	"github.com/xpect-group/portal/internal/pkg/storage"
	"github.com/xpect-group/portal/internal/pkg/wizard"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/http/jwt"
	"github.com/xpect-group/portal/pkg/id"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/metrics"
)

const (
	submissionSuccess = "success"
	submissionFailed  = "failed"
)

type documentSpec struct {
	field  string
	prefix string
	name   string
	kind   model.DocumentType
}

// documentSpecs lists the attachments that become staff documents, in order.
var documentSpecs = []documentSpec{
	{"passport", "passport", "Passport", model.DocumentIMG},
	{"brp", "brp", "Biometric Residence Permit (BRP)", model.DocumentIMG},
	{"residenceCard", "residence", "UK Residence Card / Frontier Worker Permit", model.DocumentIMG},
	{"drivingLicence", "licence", "Driving Licence", model.DocumentIMG},
	{"shareCodeScreenshot", "sharecode", "RTW Share Code Screenshot", model.DocumentIMG},
	{"termDatesDocument", "termdates", "Official Term Dates", model.DocumentPDF},
	{"dbsCertificate", "dbs", "DBS Certificate", model.DocumentIMG},
	{"salarySlip", "salaryslip", "Last 3 Month Salary Slip", model.DocumentPDF},
}

var shiftTypes = map[string]string{
	wizard.ShiftMornings:         "Morning",
	wizard.ShiftAfternoons:       "Evening",
	wizard.ShiftEveningsWeekends: "Night",
}

// Assembler turns a finished application into a staff record.
type Assembler struct {
	cleaners     *CleanerService
	invitations  *InvitationService
	progressRepo repo.IProgressRepository
	offloader    *storage.Offloader
	sessions     *cache.SessionStore
	notifier     notify.INotifier
	recorder     *metrics.Recorder
	conf         *config.Onboarding
	now          Clock
}

func NewAssembler(
	repos *repo.Repositories,
	cleaners *CleanerService,
	invitations *InvitationService,
	offloader *storage.Offloader,
	sessions *cache.SessionStore,
	notifier notify.INotifier,
	recorder *metrics.Recorder,
	conf *config.Onboarding,
) *Assembler {
	return &Assembler{
		cleaners:     cleaners,
		invitations:  invitations,
		progressRepo: repos.Progress,
		offloader:    offloader,
		sessions:     sessions,
		notifier:     notifier,
		recorder:     recorder,
		conf:         conf,
		now:          time.Now,
	}
}

// applicationRef is PREFIX-<unix ms in base 36>-<4 random characters>.
func applicationRef(prefix string, now time.Time) string {
	return prefix + "-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)) + "-" + id.RandomAlnum(4)
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=2e4150&color=fff&size=150"
}

// buildDocuments maps attachments to documents. Offloaded files point at their
// object key; the rest keep the inline data URL.
func buildDocuments(f *wizard.FormData, stored map[string]string, today string) []model.Document {
	named := f.Attachments.Named()
	docs := make([]model.Document, 0, len(named))
	for _, spec := range documentSpecs {
		att, ok := named[spec.field]
		if !ok {
			continue
		}
		doc := model.Document{
			ID:         spec.prefix + "-" + id.ShortId(),
			Name:       spec.name,
			Type:       spec.kind,
			UploadDate: today,
			Status:     model.DocumentPending,
			FileName:   att.Name,
			FileURL:    att.DataURL,
		}
		if spec.field == "dbsCertificate" && f.HasDBS != nil && *f.HasDBS {
			doc.Status = model.DocumentVerified
		}
		if key, ok := stored[spec.field]; ok {
			doc.FileURL, doc.Stored = key, true
		}
		docs = append(docs, doc)
	}
	return docs
}

// BuildCleaner maps the wizard answers onto a new staff record.
func BuildCleaner(f *wizard.FormData, stored map[string]string, now time.Time) *model.Cleaner {
	today := now.Format(time.DateOnly)
	p := f.PersonalDetails
	hasDBS := f.HasDBS != nil && *f.HasDBS

	c := &model.Cleaner{
		Name:                  strings.TrimSpace(p.Name),
		Email:                 normalizeEmail(p.Email),
		PhoneNumber:           p.PhoneNumber,
		Dob:                   p.Dob,
		Address:               p.Address,
		Gender:                p.Gender,
		StartDate:             today,
		EmploymentType:        f.EmploymentType,
		VerificationStatus:    model.VerificationPending,
		DbsStatus:             model.DBSNotStarted,
		Location:              "TBD",
		OnboardingProgress:    100,
		CitizenshipStatus:     f.CitizenshipStatus,
		VisaType:              f.VisaType,
		VisaOther:             f.VisaOther,
		ShareCode:             strings.TrimSpace(f.ShareCode),
		UniName:               f.UniName,
		CourseName:            f.CourseName,
		TermStart:             f.TermStart,
		TermEnd:               f.TermEnd,
		WorkPreference:        f.WorkPreference,
		PreferredShiftPattern: f.PreferredShiftPattern,
		ShiftType:             shiftTypes[f.PreferredShiftPattern],
		Declarations: model.Declarations{
			Accuracy: f.Declarations.Accuracy,
			Rtw:      f.Declarations.Rtw,
			Approval: f.Declarations.Approval,
			Gdpr:     f.Declarations.Gdpr,
		},
		Documents: buildDocuments(f, stored, today),
		Avatar:    f.PassportPhoto,
	}
	if c.Gender == "" {
		c.Gender = "Not specified"
	}
	if c.EmploymentType == "" {
		c.EmploymentType = model.EmploymentContractor
	}
	if hasDBS {
		c.DbsStatus = model.DBSCleared
	}
	if c.Avatar == "" {
		c.Avatar = avatarURL(c.Name)
	}
	return c
}

// offload moves decodable attachments to object storage. Any failure leaves
// every attachment inline.
func (a *Assembler) offload(ctx context.Context, inv *model.Invitation, f *wizard.FormData) map[string]string {
	if !a.offloader.Enabled() {
		return nil
	}
	files, dropped := f.Attachments.Restore()
	if len(dropped) > 0 {
		log.WithContext(ctx).Warnw("submitted attachments could not be decoded", "inviteToken", inv.InviteToken, "fields", dropped)
	}
	keys, err := a.offloader.Offload(ctx, "onboarding/"+inv.InviteToken, files)
	if err != nil {
		log.WithContext(ctx).Warnw("keeping attachments inline after upload failure", "inviteToken", inv.InviteToken, "error", err)
		return nil
	}
	return keys
}

// Submit persists the staff record and then closes the onboarding. Only the
// staff record write can fail the submission.
func (a *Assembler) Submit(ctx context.Context, inv *model.Invitation, f *wizard.FormData, session *jwt.OnboardingClaims) (*model.SubmissionResult, error) {
	now := a.now()
	stored := a.offload(ctx, inv, f)
	cleaner := BuildCleaner(f, stored, now)

	created, err := a.cleaners.Create(ctx, &model.CreateCleanerReq{Cleaner: *cleaner, Source: model.SourceOnboarding})
	if err != nil {
		a.offloader.Discard(context.WithoutCancel(ctx), valuesOf(stored)...)
		a.recorder.Submission(submissionFailed)
		log.WithContext(ctx).Errorw("failed to persist staff record", "inviteToken", inv.InviteToken, "error", err)
		return nil, err
	}

	if err := a.invitations.complete(ctx, inv, nil); err != nil {
		log.WithContext(ctx).Errorw("failed to mark invitation completed", "inviteToken", inv.InviteToken, "error", err)
	}
	if err := a.progressRepo.Delete(ctx, inv.InviteToken); err != nil && !errors.Is(err, repo.ErrNotFound) {
		log.WithContext(ctx).Warnw("failed to clear progress", "inviteToken", inv.InviteToken, "error", err)
	}
	if session != nil && a.sessions != nil {
		if err := a.sessions.Revoke(ctx, session.ID, session.RemainingTTL()); err != nil {
			log.WithContext(ctx).Warnw("failed to revoke onboarding session", "inviteToken", inv.InviteToken, "error", err)
		}
	}

	ref := applicationRef(a.conf.ApplicationPrefix, now)
	a.recorder.Submission(submissionSuccess)
	a.notifier.Publish("onboarding.submitted", map[string]any{
		"applicationRef": ref,
		"cleanerId":      created.ID,
		"employeeName":   inv.EmployeeName,
		"documents":      len(created.Documents),
	})
	log.WithContext(ctx).Infow("onboarding submitted", "inviteToken", inv.InviteToken, "cleanerId", created.ID, "applicationRef", ref)

	return &model.SubmissionResult{ApplicationRef: ref, Cleaner: created}, nil
}

func valuesOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
