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
	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/pkg/notify"
	"github.com/xpect-group/portal/internal/pkg/storage"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/metrics"
)

// Services groups every service the router needs.
type Services struct {
	Activity   *ActivityService
	Invitation *InvitationService
	Progress   *ProgressService
	Onboarding *OnboardingService
	Cleaner    *CleanerService
	Document   *DocumentService
	Admin      *AdminService
	Sweeper    *ExpirySweeper
}

func NewServices(
	repos *repo.Repositories,
	c cache.ICache,
	redisConf cache.Redis,
	attempts *cache.AttemptLimiter,
	sessions *cache.SessionStore,
	notifier notify.INotifier,
	offloader *storage.Offloader,
	recorder *metrics.Recorder,
	httpConf *http.Http,
	conf *config.Onboarding,
) *Services {
	activity := NewActivityService(repos.Activity)
	invitations := NewInvitationService(repos, activity, notifier, attempts, recorder, httpConf, conf)
	progress := NewProgressService(repos, invitations, activity, recorder, conf)
	cleaners := NewCleanerService(repos, activity)
	assembler := NewAssembler(repos, cleaners, invitations, offloader, sessions, notifier, recorder, conf)

	return &Services{
		Activity:   activity,
		Invitation: invitations,
		Progress:   progress,
		Onboarding: NewOnboardingService(invitations, progress, assembler),
		Cleaner:    cleaners,
		Document:   NewDocumentService(repos, activity, offloader, conf),
		Admin:      NewAdminService(repos, c, redisConf),
		Sweeper:    NewExpirySweeper(invitations, recorder, conf),
	}
}
