//go:build wireinject
// +build wireinject

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
	"github.com/google/wire"
	"github.com/xpect-group/portal/internal/engine/bootstrap"
	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/engine/router"
	"github.com/xpect-group/portal/internal/engine/service"
	"github.com/xpect-group/portal/internal/pkg/notify"
	"github.com/xpect-group/portal/internal/pkg/storage"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/database"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/metrics"
	"github.com/xpect-group/portal/pkg/pprof"
	"github.com/xpect-group/portal/pkg/shutdown"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		log.ProviderSet,
		database.ProviderSet,
		repo.ProviderSet,
		cache.ProviderSet,
		notify.ProviderSet,
		storage.ProviderSet,
		metrics.ProviderSet,
		pprof.ProviderSet,
		shutdown.ProviderSet,
		service.ProviderSet,
		router.ProviderSet,
		bootstrap.NewApp,
	))
}
