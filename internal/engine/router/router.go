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

package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/wire"

	"github.com/veritrix/veridex/internal/engine/config"
	"github.com/veritrix/veridex/internal/engine/service"
	"github.com/veritrix/veridex/pkg/http/middleware"
)

// ProviderSet provides the HTTP router.
var ProviderSet = wire.NewSet(
	NewRouter,
)

// Router wires the HTTP surface onto the service layer.
type Router struct {
	conf     *config.AppConfig
	services *service.Services
}

func NewRouter(conf *config.AppConfig, services *service.Services) *Router {
	return &Router{
		conf:     conf,
		services: services,
	}
}

// Router builds the fiber app with all routes registered.
func (rt *Router) Router() *fiber.App {
	httpConf := rt.conf.Http
	app := fiber.New(fiber.Config{
		BodyLimit:    httpConf.BodyLimit,
		ReadTimeout:  time.Duration(httpConf.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(httpConf.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(httpConf.IdleTimeout) * time.Second,
	})

	app.Use(fiberrecover.New())
	if httpConf.AccessLog {
		app.Use(middleware.AccessLogMiddleware())
	}
	if rt.conf.Metrics.Enabled {
		app.Use(middleware.HttpMetricsMiddleware())
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	rt.scheduleRouter(v1)
	rt.planRouter(v1)
	rt.executionRouter(v1)

	return app
}
