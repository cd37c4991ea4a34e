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

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/engine/router"
	"github.com/xpect-group/portal/internal/engine/service"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/log"
	"github.com/xpect-group/portal/pkg/metrics"
	"github.com/xpect-group/portal/pkg/pprof"
	"github.com/xpect-group/portal/pkg/shutdown"
	"github.com/xpect-group/portal/pkg/trace"
	"go.uber.org/zap"
)

const indexTimeout = 30 * time.Second

type App struct {
	HttpApp *fiber.App
	Logger  *log.Logger
	Http    *http.Http
	Repos   *repo.Repositories
	Sweeper *service.ExpirySweeper
	Metrics *metrics.Server
	Pprof   *pprof.Server
	Drain   *shutdown.Manager
}

// InitAppFunc is implemented by the wire injector of each binary.
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	logger *log.Logger,
	rt *router.Router,
	httpConf *http.Http,
	repos *repo.Repositories,
	services *service.Services,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	drain *shutdown.Manager,
	traceConf trace.Conf,
) (*App, func(), error) {
	shutdownTracer, err := trace.InitTracerProvider(context.Background(), traceConf)
	if err != nil {
		return nil, nil, err
	}

	app := &App{
		HttpApp: rt.Router(),
		Logger:  logger,
		Http:    httpConf,
		Repos:   repos,
		Sweeper: services.Sweeper,
		Metrics: metricsServer,
		Pprof:   pprofServer,
		Drain:   drain,
	}

	cleanup := func() {
		app.Sweeper.Stop()
		logger.Log.Info("invitation expiry sweeper stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Stop(ctx); err != nil {
			logger.Log.Errorw("metrics server shutdown error", zap.Error(err))
		}
		if err := pprofServer.Stop(ctx); err != nil {
			logger.Log.Errorw("pprof server shutdown error", zap.Error(err))
		}
		shutdownTracer()
	}

	return app, cleanup, nil
}

// Bootstrap builds the app through the wire injector.
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if err := app.Repos.CreateIndexes(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run starts the background jobs and the HTTP listener, then blocks until a
// termination signal arrives and shuts everything down in order.
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log

	if err := app.Sweeper.Start(); err != nil {
		logger.Errorw("failed to start invitation expiry sweeper", zap.Error(err))
	}
	if err := app.Metrics.Start(); err != nil {
		logger.Errorw("failed to start metrics server", zap.Error(err))
	}
	if err := app.Pprof.Start(); err != nil {
		logger.Errorw("failed to start pprof server", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		glog := logger.Desugar().WithOptions(zap.AddCallerSkip(-1)).Sugar()
		addr := app.Http.Addr()
		glog.Infow("HTTP listener started", "address", addr, "contextPath", app.Http.InternalContextPath)

		var err error
		if tls := app.Http.TLS; tls.CertFile != "" && tls.KeyFile != "" {
			err = app.HttpApp.ListenTLS(addr, tls.CertFile, tls.KeyFile)
		} else {
			err = app.HttpApp.Listen(addr)
		}
		if err != nil {
			glog.Errorw("HTTP listener failed", "address", addr, zap.Error(err))
			quit <- syscall.SIGTERM
		}
	}()

	sig := <-quit
	logger.Infof("Received signal: %v, shutting down gracefully...", sig)
	app.Drain.Begin()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(app.Http.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	cleanup()

	logger.Info("Server shutdown complete")
}
