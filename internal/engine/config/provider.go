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

package config

import (
	"github.com/google/wire"
	"github.com/xpect-group/portal/internal/pkg/notify"
	"github.com/xpect-group/portal/internal/pkg/storage"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/database"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/metrics"
	"github.com/xpect-group/portal/pkg/pprof"
	"github.com/xpect-group/portal/pkg/trace"
)

var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideMailConfig,
	ProvideWebhookConfig,
	ProvideStorageConfig,
	ProvideMetricsConfig,
	ProvideTraceConfig,
	ProvidePprofConfig,
	ProvideOnboardingConfig,
)

func ProvideConf(configPath string) *AppConfig {
	return NewConf(configPath)
}

func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	httpConfig := &appConf.Http
	httpConfig.SetDefaults()
	if httpConfig.AllowOrigins == "" {
		onboarding := ProvideOnboardingConfig(appConf)
		httpConfig.AllowOrigins = onboarding.FrontendURL
	}
	return httpConfig
}

func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	logConf := &appConf.Log
	defaults := log.SetDefaults()
	if logConf.Output == "" {
		logConf.Output = defaults.Output
	}
	if logConf.Level == "" {
		logConf.Level = defaults.Level
	}
	if logConf.Path == "" {
		logConf.Path = defaults.Path
	}
	if logConf.Filename == "" {
		logConf.Filename = defaults.Filename
	}
	return logConf
}

func ProvideDatabaseConfig(appConf *AppConfig) database.MongoDB {
	return appConf.Database
}

func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideMailConfig(appConf *AppConfig) notify.MailConf {
	mail := appConf.Mail
	mail.SetDefaults()
	return mail
}

func ProvideWebhookConfig(appConf *AppConfig) notify.WebhookConf {
	webhook := appConf.Notify
	webhook.SetDefaults()
	return webhook
}

func ProvideStorageConfig(appConf *AppConfig) storage.Conf {
	return appConf.Storage
}

func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	metricsConfig := appConf.Metrics
	metricsConfig.SetDefaults()
	return metricsConfig
}

func ProvideTraceConfig(appConf *AppConfig) trace.Conf {
	traceConf := appConf.Trace
	traceConf.SetDefaults()
	return traceConf
}

func ProvidePprofConfig(appConf *AppConfig) pprof.Conf {
	return appConf.Pprof
}

func ProvideOnboardingConfig(appConf *AppConfig) *Onboarding {
	onboarding := &appConf.Onboarding
	onboarding.SetDefaults()
	return onboarding
}
