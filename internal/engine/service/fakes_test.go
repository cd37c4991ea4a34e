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
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/pkg/notify"
	"github.com/xpect-group/portal/internal/pkg/storage"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/http"
)

const testSecret = "0d6b1bde-6c1c-4f43-8f3e-0b9d3cc1b7a2"

type memInvitations struct {
	mu   sync.Mutex
	rows map[string]*model.Invitation
}

func (m *memInvitations) Create(_ context.Context, inv *model.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == inv.Email || r.InviteToken == inv.InviteToken {
			return repo.ErrDuplicate
		}
	}
	c := *inv
	m.rows[inv.ID] = &c
	return nil
}

func (m *memInvitations) GetByID(_ context.Context, id string) (*model.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memInvitations) GetByToken(_ context.Context, token string) (*model.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.InviteToken == token {
			c := *r
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memInvitations) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memInvitations) List(context.Context) ([]*model.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Invitation, 0, len(m.rows))
	for _, r := range m.rows {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memInvitations) Update(_ context.Context, inv *model.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[inv.ID]; !ok {
		return repo.ErrNotFound
	}
	c := *inv
	m.rows[inv.ID] = &c
	return nil
}

func (m *memInvitations) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memInvitations) ListOverdue(_ context.Context, now time.Time) ([]*model.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Invitation
	for _, r := range m.rows {
		if r.Status.IsActive() && r.ExpiresAt.Before(now) {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memInvitations) CreateIndexes(context.Context) error { return nil }

func (m *memInvitations) byToken(t *testing.T, token string) *model.Invitation {
	inv, err := m.GetByToken(context.Background(), token)
	require.NoError(t, err)
	return inv
}

type memProgress struct {
	mu   sync.Mutex
	rows map[string]*model.OnboardingProgress
	now  func() time.Time
}

func (m *memProgress) Get(_ context.Context, token string) (*model.OnboardingProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[token]; ok {
		c := *r
		return &c, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memProgress) Upsert(_ context.Context, p *model.OnboardingProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if prev, ok := m.rows[p.InviteToken]; ok {
		p.CreatedAt = prev.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	c := *p
	m.rows[p.InviteToken] = &c
	return nil
}

func (m *memProgress) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[token]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, token)
	return nil
}

func (m *memProgress) CreateIndexes(context.Context) error { return nil }

type memCleaners struct {
	mu   sync.Mutex
	rows []*model.Cleaner
}

func (m *memCleaners) index(id string) int {
	return slices.IndexFunc(m.rows, func(c *model.Cleaner) bool { return c.ID == id })
}

func (m *memCleaners) Create(_ context.Context, c *model.Cleaner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == c.ID || r.Email == c.Email {
			return repo.ErrDuplicate
		}
	}
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memCleaners) Get(_ context.Context, id string) (*model.Cleaner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		c := *m.rows[i]
		c.Documents = slices.Clone(c.Documents)
		return &c, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memCleaners) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return m.ExistsByEmailOrID(context.Background(), email, "")
}

func (m *memCleaners) ExistsByEmailOrID(_ context.Context, email, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email || (id != "" && r.ID == id) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCleaners) List(context.Context) ([]*model.Cleaner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Cleaner, 0, len(m.rows))
	for _, r := range m.rows {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (m *memCleaners) ListByStatus(ctx context.Context, status string) ([]*model.Cleaner, error) {
	all, _ := m.List(ctx)
	return slices.DeleteFunc(all, func(c *model.Cleaner) bool { return string(c.VerificationStatus) != status }), nil
}

func (m *memCleaners) Replace(_ context.Context, c *model.Cleaner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(c.ID)
	if i < 0 {
		return repo.ErrNotFound
	}
	cp := *c
	cp.Documents = slices.Clone(c.Documents)
	m.rows[i] = &cp
	return nil
}

func (m *memCleaners) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return repo.ErrNotFound
	}
	m.rows = slices.Delete(m.rows, i, i+1)
	return nil
}

func (m *memCleaners) UpdateMany(_ context.Context, ids []string, fields map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if !slices.Contains(ids, r.ID) {
			continue
		}
		changed := false
		if v, ok := fields["verificationStatus"].(model.VerificationStatus); ok && r.VerificationStatus != v {
			r.VerificationStatus, changed = v, true
		}
		if v, ok := fields["employmentType"].(string); ok && r.EmploymentType != v {
			r.EmploymentType, changed = v, true
		}
		if v, ok := fields["hourlyPayRate"].(float64); ok {
			r.HourlyPayRate, changed = &v, true
		}
		if v, ok := fields["location"].(string); ok && r.Location != v {
			r.Location, changed = v, true
		}
		if changed {
			n++
		}
	}
	return n, nil
}

func (m *memCleaners) DeleteMany(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.rows)
	m.rows = slices.DeleteFunc(m.rows, func(c *model.Cleaner) bool { return slices.Contains(ids, c.ID) })
	return int64(before - len(m.rows)), nil
}

func (m *memCleaners) CreateIndexes(context.Context) error { return nil }

type memActivity struct {
	mu      sync.Mutex
	entries []model.ActivityLog
}

func (m *memActivity) Insert(_ context.Context, e *model.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memActivity) newestFirst() []model.ActivityLog {
	out := slices.Clone(m.entries)
	slices.Reverse(out)
	return out
}

func (m *memActivity) Recent(_ context.Context, limit int) ([]model.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.newestFirst()
	return out[:min(limit, len(out))], nil
}

func (m *memActivity) Query(_ context.Context, q model.ActivityQuery) ([]model.ActivityLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.ActivityLog
	for _, e := range m.newestFirst() {
		if q.ActorRole != "" && string(e.ActorRole) != q.ActorRole {
			continue
		}
		if q.ActionType != "" && string(e.ActionType) != q.ActionType {
			continue
		}
		if q.EntityType != "" && string(e.EntityType) != q.EntityType {
			continue
		}
		if q.EntityID != "" && e.EntityID != q.EntityID {
			continue
		}
		matched = append(matched, e)
	}
	start := min((q.Page-1)*q.Limit, len(matched))
	end := min(start+q.Limit, len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (m *memActivity) ByEntity(_ context.Context, entityType model.EntityType, id string) ([]model.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ActivityLog
	for _, e := range m.newestFirst() {
		if e.EntityType == entityType && e.EntityID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memActivity) CreateIndexes(context.Context) error { return nil }

func (m *memActivity) actions() []model.ActionType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ActionType, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.ActionType)
	}
	return out
}

func (m *memActivity) last() model.ActivityLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

type memAdmin struct {
	mu      sync.Mutex
	profile *model.AdminProfile
	reads   int
}

func (m *memAdmin) GetOrCreate(context.Context) (*model.AdminProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.profile == nil {
		m.profile = model.DefaultAdminProfile(time.Now())
	}
	c := *m.profile
	return &c, nil
}

func (m *memAdmin) Update(_ context.Context, fields map[string]any) (*model.AdminProfile, error) {
	m.mu.Lock()
	if m.profile == nil {
		m.profile = model.DefaultAdminProfile(time.Now())
	}
	p := m.profile
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "email":
			p.Email = v.(string)
		case "bio":
			p.Bio = v.(string)
		case "role":
			p.Role = v.(string)
		case "profilePicture":
			p.ProfilePicture = v.(*string)
		}
	}
	c := *p
	m.mu.Unlock()
	return &c, nil
}

type sentMail struct {
	kind string
	to   string
	data notify.MailData
}

type fakeNotifier struct {
	mu     sync.Mutex
	mails  []sentMail
	events []string
	fail   error
}

func (n *fakeNotifier) record(kind, to string, data notify.MailData) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.mails = append(n.mails, sentMail{kind: kind, to: to, data: data})
	return nil
}

func (n *fakeNotifier) SendInvitation(_ context.Context, to string, data notify.MailData) error {
	return n.record("invitation", to, data)
}

func (n *fakeNotifier) SendOtpResend(_ context.Context, to string, data notify.MailData) error {
	return n.record("otp", to, data)
}

func (n *fakeNotifier) Publish(eventType string, _ map[string]any) {
	n.mu.Lock()
	n.events = append(n.events, eventType)
	n.mu.Unlock()
}

func (n *fakeNotifier) lastOtp() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mails[len(n.mails)-1].data.Otp
}

// fixture wires every service over in-memory stores and a movable clock.
type fixture struct {
	now         time.Time
	invitations *memInvitations
	progress    *memProgress
	cleaners    *memCleaners
	activity    *memActivity
	admin       *memAdmin
	notifier    *fakeNotifier
	store       *storage.MemoryStorage
	cache       cache.ICache
	sessions    *cache.SessionStore
	conf        *config.Onboarding
	svc         *Services
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

type fixtureOption func(*fixture)

func withStorage() fixtureOption {
	return func(f *fixture) { f.store = storage.NewMemoryStorage("onboarding") }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	f := &fixture{
		now:         time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		invitations: &memInvitations{rows: map[string]*model.Invitation{}},
		cleaners:    &memCleaners{},
		activity:    &memActivity{},
		admin:       &memAdmin{},
		notifier:    &fakeNotifier{},
		cache:       cache.NewFastCache(cache.FastCacheConfig{MaxBytes: 32 << 20}),
	}
	f.progress = &memProgress{rows: map[string]*model.OnboardingProgress{}, now: f.clock}
	for _, opt := range opts {
		opt(f)
	}

	f.conf = &config.Onboarding{FrontendURL: "https://portal.example.com"}
	f.conf.SetDefaults()
	httpConf := &http.Http{Auth: http.Auth{SecretKey: testSecret}}
	httpConf.SetDefaults()
	redisConf := cache.Redis{KeyPrefix: "test:"}
	f.sessions = cache.NewSessionStore(f.cache, redisConf)

	repos := &repo.Repositories{
		Invitation: f.invitations,
		Progress:   f.progress,
		Cleaner:    f.cleaners,
		Activity:   f.activity,
		Admin:      f.admin,
	}
	var store storage.Storage
	if f.store != nil {
		store = f.store
	}
	f.svc = NewServices(repos, f.cache, redisConf, cache.NewAttemptLimiter(f.cache, redisConf), f.sessions,
		f.notifier, storage.NewOffloader(store), nil, httpConf, f.conf)

	f.svc.Activity.now = f.clock
	f.svc.Invitation.now = f.clock
	f.svc.Progress.now = f.clock
	f.svc.Cleaner.now = f.clock
	f.svc.Document.now = f.clock
	f.svc.Onboarding.assembler.now = f.clock
	return f
}

// invite sends an invitation and returns it with the plain OTP that was mailed.
func (f *fixture) invite(t *testing.T, name, email string) (*model.InvitationView, string) {
	t.Helper()
	view, err := f.svc.Invitation.Send(context.Background(), &model.SendInvitationReq{EmployeeName: name, Email: email})
	require.NoError(t, err)
	return view, f.notifier.lastOtp()
}

// verified returns an invitation that passed OTP verification and its session.
func (f *fixture) verified(t *testing.T, name, email string) (*model.InvitationView, *model.VerifyOtpResp) {
	t.Helper()
	view, otp := f.invite(t, name, email)
	resp, err := f.svc.Invitation.VerifyOtp(context.Background(), &model.VerifyOtpReq{InviteToken: view.InviteToken, Otp: otp})
	require.NoError(t, err)
	return view, resp
}

