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
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xpect-group/portal/internal/engine/service"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/database"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/http/middleware"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/metrics"
	"github.com/xpect-group/portal/pkg/shutdown"
	"github.com/xpect-group/portal/pkg/version"
)

const healthTimeout = 3 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	Http     *http.Http
	Services *service.Services
	Sessions *cache.SessionStore
	Metrics  *metrics.Server
	Drain    *shutdown.Manager
	db       pinger
}

func NewRouter(
	httpConf *http.Http,
	services *service.Services,
	sessions *cache.SessionStore,
	mongo *database.MongoClient,
	metricsServer *metrics.Server,
) *Router {
	rt := &Router{
		Http:     httpConf,
		Services: services,
		Sessions: sessions,
		Metrics:  metricsServer,
	}
	if mongo != nil {
		rt.db = mongo
	}
	return rt
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Xpect Portal",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		// attachments travel inline as data URLs
		BodyLimit:   rt.Http.BodyLimit(),
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})

	app.Use(
		middleware.ExceptionMiddleware,
		middleware.RequestMiddleware(),
		middleware.RealIPMiddleware(),
		middleware.CorsMiddleware(rt.Http.AllowOrigins),
		middleware.TraceMiddleware(),
		middleware.AccessLogMiddleware(rt.Http),
		middleware.UnifiedResponseMiddleware(),
	)

	if rt.Http.ExposeMetrics {
		handler := promhttp.Handler()
		if rt.Metrics != nil {
			handler = rt.Metrics.Handler()
		}
		app.Get("/metrics", adaptor.HTTPHandler(handler))
	}

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.InternalContextPath)
	rt.routerGroup(api)

	// must stay after every route
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).
			JSON(http.ResponseErr{ErrCode: http.NotFound.Code, ErrMsg: "request path not found", Path: c.Path()})
	})

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {
	session := middleware.EmployeeSessionMiddleware(rt.Http.Auth.SecretKey, rt.sessionChecker())
	owner := middleware.InviteTokenParamMiddleware("inviteToken")

	r.Get("/health", rt.health)

	rt.invitationRouter(r, session, owner)
	rt.onboardingRouter(r, session, owner)
	rt.cleanerRouter(r)
	rt.documentRouter(r)
	rt.activityRouter(r)
	rt.adminRouter(r)
}

// sessionChecker avoids handing the middleware a typed nil.
func (rt *Router) sessionChecker() middleware.RevocationChecker {
	if rt.Sessions == nil {
		return nil
	}
	return rt.Sessions
}

func (rt *Router) health(c *fiber.Ctx) error {
	if rt.Drain.Draining() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "SHUTTING_DOWN"})
	}
	if rt.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := rt.db.Ping(ctx); err != nil {
			log.WithContext(ctx).Errorw("health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "DOWN", "database": "unreachable"})
		}
	}
	return c.JSON(fiber.Map{"status": "OK", "timestamp": time.Now().UTC()})
}

// fail writes err in the error envelope. The unified response middleware
// leaves non-2xx responses alone.
func fail(c *fiber.Ctx, err error) error {
	return http.WithRepBizErr(c, err)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return http.RequestParameterParsingFailed.Wrap(err)
	}
	return nil
}

func ok(c *fiber.Ctx, detail any, operation string) error {
	c.Locals(middleware.DETAIL, detail)
	c.Locals(middleware.OPERATION, operation)
	return nil
}

func created(c *fiber.Ctx, detail any, operation string) error {
	c.Status(fiber.StatusCreated)
	return ok(c, detail, operation)
}
