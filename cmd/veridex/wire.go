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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/veritrix/veridex/internal/engine/bootstrap"
	"github.com/veritrix/veridex/internal/engine/config"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/engine/router"
	"github.com/veritrix/veridex/internal/engine/service"
	"github.com/veritrix/veridex/internal/pkg/orchestrator"
	"github.com/veritrix/veridex/internal/pkg/runner"
	"github.com/veritrix/veridex/internal/pkg/scheduler"
	"github.com/veritrix/veridex/pkg/database"
	"github.com/veritrix/veridex/pkg/log"
	"github.com/veritrix/veridex/pkg/metrics"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		log.ProviderSet,
		database.ProviderSet,
		metrics.ProviderSet,
		repo.ProviderSet,
		runner.ProviderSet,
		orchestrator.ProviderSet,
		scheduler.ProviderSet,
		service.ProviderSet,
		router.ProviderSet,
		bootstrap.NewApp,
	))
}
