// Copyright 2025 Veridex Authors.
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
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veritrix/veridex/internal/engine/config"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/engine/router"
	"github.com/veritrix/veridex/internal/pkg/scheduler"
	"github.com/veritrix/veridex/pkg/database"
	"github.com/veritrix/veridex/pkg/log"
	"github.com/veritrix/veridex/pkg/metrics"
)

type App struct {
	HttpApp       *fiber.App
	Registry      *scheduler.Registry
	MetricsServer *metrics.Server
	Logger        *log.Logger
	AppConf       *config.AppConfig
	Repos         *repo.Repositories
}

// InitAppFunc is the wire-generated injector signature.
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	metricsServer *metrics.Server,
	registry *scheduler.Registry,
	appConf *config.AppConfig,
	dbManager database.Manager,
	db *gorm.DB,
	repos *repo.Repositories,
) (*App, func(), error) {
	if err := repo.AutoMigrate(db); err != nil {
		return nil, nil, err
	}

	app := &App{
		HttpApp:       rt.Router(),
		Registry:      registry,
		MetricsServer: metricsServer,
		Logger:        logger,
		AppConf:       appConf,
		Repos:         repos,
	}

	cleanup := func() {
		log.Info("Shutting down schedule registry...")
		registry.Stop()

		if metricsServer != nil {
			log.Info("Shutting down metrics server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(shutdownCtx); err != nil {
				log.Errorw("Failed to stop metrics server", zap.Error(err))
			}
		}

		log.Info("Closing database...")
		if err := dbManager.Close(); err != nil {
			log.Errorw("Failed to close database", zap.Error(err))
		}

		_ = log.Sync()
	}

	return app, cleanup, nil
}

// Bootstrap builds the app from the config file via the wire injector.
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), *config.AppConfig, error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, cleanup, app.AppConf, nil
}

// Run starts all listeners and blocks until an exit signal arrives, then
// shuts down gracefully.
func Run(app *App, cleanup func()) {
	appConf := app.AppConf

	if app.MetricsServer != nil && appConf.Metrics.Enabled {
		app.MetricsServer.Start()
	}

	if err := app.Registry.Start(context.Background()); err != nil {
		log.Errorw("Schedule registry failed to start", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		addr := appConf.Http.Addr()
		log.Infow("HTTP listener started", "address", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			log.Errorw("HTTP listener failed", "address", addr, zap.Error(err))
		}
	}()

	sig := <-quit
	log.Infow("Received OS signal, shutting down gracefully...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(appConf.Http.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server shut down gracefully")
	}

	cleanup()
	log.Info("Server shutdown complete")
}
