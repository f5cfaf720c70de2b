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
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/pkg/http"
)

func (rt *Router) planRouter(r fiber.Router) {
	plan := r.Group("/plans")
	{
		plan.Post("/", rt.createPlan)
		plan.Get("/:planId", rt.getPlan)
		plan.Get("/", rt.listPlans)
		plan.Post("/:planId/tests", rt.addPlanTest)
		plan.Post("/:planId/trigger", rt.triggerPlan)
	}

	tests := r.Group("/tests")
	{
		tests.Post("/ui", rt.createUITest)
		tests.Post("/api", rt.createAPITest)
	}
}

func (rt *Router) createPlan(c *fiber.Ctx) error {
	var req model.CreatePlanReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	plan, err := rt.services.Plan.CreatePlan(c.Context(), &req)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, plan)
}

func (rt *Router) getPlan(c *fiber.Ctx) error {
	planId := strings.TrimSpace(c.Params("planId"))
	if planId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "plan id is required", c.Path())
	}

	detail, err := rt.services.Plan.GetPlan(c.Context(), planId)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	if detail == nil {
		return http.WithRepErrMsg(c, http.NotFound.Code, http.NotFound.Msg, c.Path())
	}
	return http.WithRep(c, detail)
}

func (rt *Router) listPlans(c *fiber.Ctx) error {
	list, total, err := rt.services.Plan.ListPlans(c.Context(),
		rt.conf.Http.QueryInt(c, "page"), rt.conf.Http.QueryInt(c, "pageSize"))
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, fiber.Map{"list": list, "total": total})
}

func (rt *Router) addPlanTest(c *fiber.Ctx) error {
	planId := strings.TrimSpace(c.Params("planId"))
	if planId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "plan id is required", c.Path())
	}

	var req model.SelectedTestReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := rt.services.Plan.AddTest(c.Context(), planId, &req); err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepMsg(c, http.Success.Code, http.Success.Msg)
}

func (rt *Router) triggerPlan(c *fiber.Ctx) error {
	planId := strings.TrimSpace(c.Params("planId"))
	if planId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "plan id is required", c.Path())
	}

	summary, err := rt.services.Execution.TriggerPlanRun(c.Context(), planId)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, summary)
}

func (rt *Router) createUITest(c *fiber.Ctx) error {
	var test model.UITest
	if err := c.BodyParser(&test); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	created, err := rt.services.Plan.CreateUITest(c.Context(), &test)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, created)
}

func (rt *Router) createAPITest(c *fiber.Ctx) error {
	var test model.APITest
	if err := c.BodyParser(&test); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	created, err := rt.services.Plan.CreateAPITest(c.Context(), &test)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, created)
}
