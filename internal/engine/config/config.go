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
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
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

const envPrefix = "PORTAL"

// Onboarding holds the invitation and wizard lifetimes.
type Onboarding struct {
	OtpTTL            time.Duration
	OtpMaxAttempts    int
	InvitationTTL     time.Duration
	ProgressTTL       time.Duration
	FrontendURL       string
	SweepSpec         string // cron spec, empty disables the sweeper
	PresignExpiry     time.Duration
	ApplicationPrefix string
}

func (o *Onboarding) SetDefaults() {
	if o.OtpTTL <= 0 {
		o.OtpTTL = 10 * time.Minute
	}
	if o.OtpMaxAttempts <= 0 {
		o.OtpMaxAttempts = 5
	}
	if o.InvitationTTL <= 0 {
		o.InvitationTTL = 30 * 24 * time.Hour
	}
	if o.ProgressTTL <= 0 {
		o.ProgressTTL = 30 * 24 * time.Hour
	}
	if o.FrontendURL == "" {
		o.FrontendURL = "http://localhost:5173"
	}
	o.FrontendURL = strings.TrimRight(o.FrontendURL, "/")
	if o.PresignExpiry <= 0 {
		o.PresignExpiry = 15 * time.Minute
	}
	if o.ApplicationPrefix == "" {
		o.ApplicationPrefix = "XPG"
	}
}

type AppConfig struct {
	Log        log.Conf
	Http       http.Http
	Database   database.MongoDB
	Redis      cache.Redis
	Mail       notify.MailConf
	Notify     notify.WebhookConf
	Storage    storage.Conf
	Metrics    metrics.MetricsConfig
	Trace      trace.Conf
	Pprof      pprof.Conf
	Onboarding Onboarding
}

var (
	cfg  AppConfig
	once sync.Once
)

// NewConf loads the configuration once. Reloads triggered by file changes are
// written into the same value.
func NewConf(confDir string) *AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return &cfg
}

// LoadConfigFile reads the TOML file at confDir. A .env file in the working
// directory and PORTAL_* variables override file values.
func LoadConfigFile(confDir string) (AppConfig, error) {
	var conf AppConfig

	// .env is optional
	_ = godotenv.Overload(".env")

	v := viper.New()
	v.SetConfigFile(confDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return conf, fmt.Errorf("failed to read configuration file: %w", err)
	}
	bindEnv(v)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name)
		if err := v.Unmarshal(&cfg); err != nil {
			log.Errorw("failed to unmarshal configuration file", "file", e.Name, "error", err)
		}
	})
	if err := v.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	log.Infow("config file loaded", "path", confDir)

	return conf, nil
}

// Unmarshal only sees env values for keys viper already knows about, so the
// secrets that usually live outside the file are bound explicitly.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"database.uri",
		"database.db",
		"http.auth.secretkey",
		"redis.address",
		"redis.password",
		"mail.host",
		"mail.username",
		"mail.password",
		"storage.accesskey",
		"storage.secretkey",
		"notify.url",
		"onboarding.frontendurl",
	} {
		_ = v.BindEnv(key)
	}
}
