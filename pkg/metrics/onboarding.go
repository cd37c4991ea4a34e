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

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the portal counters. A nil *Recorder records nothing.
type Recorder struct {
	invitationsSent    prometheus.Counter
	otpVerifications   *prometheus.CounterVec
	progressSaves      *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	invitationsExpired prometheus.Counter
	cronRuns           *prometheus.CounterVec
	cronErrors         *prometheus.CounterVec
	cronDuration       *prometheus.HistogramVec
}

func NewRecorder(registry prometheus.Registerer) *Recorder {
	r := &Recorder{
		invitationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_invitations_sent_total",
			Help: "Total number of onboarding invitations sent",
		}),
		otpVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_otp_verifications_total",
			Help: "OTP verification attempts by result",
		}, []string{"result"}),
		progressSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_progress_saves_total",
			Help: "Wizard progress saves by step completion",
		}, []string{"completed"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Onboarding submissions by result",
		}, []string{"result"}),
		invitationsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_invitations_expired_total",
			Help: "Invitations moved to EXPIRED",
		}),
		cronRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_cron_job_runs_total",
			Help: "Total number of cron job runs",
		}, []string{"job_name"}),
		cronErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_cron_job_errors_total",
			Help: "Total number of cron job errors",
		}, []string{"job_name"}),
		cronDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_cron_job_run_duration_seconds",
			Help:    "Duration of cron job runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"job_name"}),
	}
	registry.MustRegister(
		r.invitationsSent, r.otpVerifications, r.progressSaves, r.submissions,
		r.invitationsExpired, r.cronRuns, r.cronErrors, r.cronDuration,
	)
	return r
}

func (r *Recorder) InvitationSent() {
	if r == nil {
		return
	}
	r.invitationsSent.Inc()
}

// OtpVerification records one attempt; result is ok, invalid, expired or throttled.
func (r *Recorder) OtpVerification(result string) {
	if r == nil {
		return
	}
	r.otpVerifications.WithLabelValues(result).Inc()
}

func (r *Recorder) ProgressSaved(completed bool) {
	if r == nil {
		return
	}
	r.progressSaves.WithLabelValues(strconv.FormatBool(completed)).Inc()
}

func (r *Recorder) Submission(result string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(result).Inc()
}

func (r *Recorder) InvitationsExpired(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.invitationsExpired.Add(float64(n))
}

func (r *Recorder) CronRun(job string, started time.Time, err error) {
	if r == nil {
		return
	}
	r.cronRuns.WithLabelValues(job).Inc()
	r.cronDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
	if err != nil {
		r.cronErrors.WithLabelValues(job).Inc()
	}
}
