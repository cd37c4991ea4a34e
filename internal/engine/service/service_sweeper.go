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
	"sync"
	"time"

	"github.com/robfig/cron"
	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/metrics"
)

const sweepJob = "invitation_expiry"

// ExpirySweeper periodically expires invitations that were never completed.
// Expiry is also applied lazily on read, so the sweeper only keeps the admin
// list and metrics current between reads.
type ExpirySweeper struct {
	invitations *InvitationService
	recorder    *metrics.Recorder
	spec        string
	timeout     time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewExpirySweeper(invitations *InvitationService, recorder *metrics.Recorder, conf *config.Onboarding) *ExpirySweeper {
	return &ExpirySweeper{
		invitations: invitations,
		recorder:    recorder,
		spec:        conf.SweepSpec,
		timeout:     time.Minute,
	}
}

// Sweep runs one pass and returns how many invitations were expired.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int, error) {
	started := time.Now()
	n, err := s.invitations.ExpireOverdue(ctx)
	s.recorder.CronRun(sweepJob, started, err)
	if err != nil {
		log.WithContext(ctx).Errorw("invitation expiry sweep failed", "error", err)
		return n, err
	}
	if n > 0 {
		log.WithContext(ctx).Infow("invitation expiry sweep finished", "expired", n, "took", time.Since(started))
	}
	return n, nil
}

// Start schedules the sweep. An empty spec leaves the sweeper disabled.
func (s *ExpirySweeper) Start() error {
	if s.spec == "" {
		log.Info("invitation expiry sweeper disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	c := cron.New()
	err := c.AddFunc(s.spec, func() {
		if !s.begin() {
			log.Warn("previous invitation expiry sweep still running, skipping")
			return
		}
		defer s.end()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_, _ = s.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	c.Start()
	s.cron = c
	log.Infow("invitation expiry sweeper started", "spec", s.spec)
	return nil
}

func (s *ExpirySweeper) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *ExpirySweeper) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
