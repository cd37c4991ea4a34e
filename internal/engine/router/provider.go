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

package router

import (
	"github.com/google/wire"
	"github.com/xpect-group/portal/internal/engine/service"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/database"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/metrics"
	"github.com/xpect-group/portal/pkg/shutdown"
)

var ProviderSet = wire.NewSet(ProvideRouter)

func ProvideRouter(
	httpConf *http.Http,
	services *service.Services,
	sessions *cache.SessionStore,
	mongo *database.MongoClient,
	metricsServer *metrics.Server,
	drain *shutdown.Manager,
) *Router {
	rt := NewRouter(httpConf, services, sessions, mongo, metricsServer)
	rt.Drain = drain
	return rt
}
