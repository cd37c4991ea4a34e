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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/engine/service"
	"github.com/xpect-group/portal/internal/pkg/notify"
	"github.com/xpect-group/portal/pkg/database"
	"github.com/xpect-group/portal/pkg/log"
)

// StepsCmd prints the wizard steps a pair of answers activates.
func StepsCmd() *cobra.Command {
	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "Print the onboarding steps for a citizenship status and visa type",
		RunE: func(cmd *cobra.Command, args []string) error {
			citizenship, _ := cmd.Flags().GetString("citizenship")
			visa, _ := cmd.Flags().GetString("visa")

			steps := service.NewOnboardingService(nil, nil, nil).Steps(citizenship, visa)
			out, err := json.MarshalIndent(steps, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	stepsCmd.Flags().String("citizenship", "", "citizenship status, e.g. \"UK Citizen\"")
	stepsCmd.Flags().String("visa", "", "visa type for non-EU applicants, e.g. \"Student Visa\"")
	return stepsCmd
}

// SweepCmd runs a single invitation expiry pass against the configured database.
func SweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire overdue invitations once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConf := config.NewConf(configFile)
			if _, err := log.ProvideLogger(config.ProvideLogConfig(appConf)); err != nil {
				return err
			}

			client, closeMongo, err := database.ProvideMongo(config.ProvideDatabaseConfig(appConf))
			if err != nil {
				return err
			}
			defer closeMongo()

			repos := repo.NewRepositories(client)
			onboarding := config.ProvideOnboardingConfig(appConf)
			notifier := notify.ProvideNotifier(
				notify.ProvideMailer(config.ProvideMailConfig(appConf)),
				notify.ProvideWebhookNotifier(config.ProvideWebhookConfig(appConf)),
				notify.NewTemplateEngine(),
			)
			activity := service.NewActivityService(repos.Activity)
			invitations := service.NewInvitationService(repos, activity, notifier, nil, nil, config.ProvideHttpConfig(appConf), onboarding)
			sweeper := service.NewExpirySweeper(invitations, nil, onboarding)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			n, err := sweeper.Sweep(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "expired %d invitation(s)\n", n)
			return err
		},
	}
}

// HealthCmd queries the health endpoint of a running portal.
func HealthCmd() *cobra.Command {
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check a running portal",
		Run: func(cmd *cobra.Command, args []string) {
			url, _ := cmd.Flags().GetString("url")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			var body struct {
				Status string `json:"status"`
			}
			resp, err := resty.New().
				SetTimeout(timeout).
				R().
				SetContext(cmd.Context()).
				SetResult(&body).
				Get(strings.TrimRight(url, "/") + "/api/health")
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
				os.Exit(1)
			}
			if resp.IsError() {
				_, _ = fmt.Fprintf(os.Stderr, "portal unhealthy: %s %s\n", resp.Status(), resp.String())
				os.Exit(1)
			}
			fmt.Println("portal status:", body.Status)
		},
	}
	healthCmd.Flags().StringP("url", "u", "http://localhost:5000", "portal base url")
	healthCmd.Flags().Duration("timeout", 5*time.Second, "request timeout")
	return healthCmd
}
