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

	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/pkg/http"
)

func (rt *Router) executionRouter(r fiber.Router) {
	execution := r.Group("/executions")
	{
		execution.Get("/:executionId", rt.getExecution)
		execution.Get("/", rt.listExecutions)
	}
}

func (rt *Router) getExecution(c *fiber.Ctx) error {
	executionId := strings.TrimSpace(c.Params("executionId"))
	if executionId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "execution id is required", c.Path())
	}

	detail, err := rt.services.Execution.GetExecution(c.Context(), executionId)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	if detail == nil {
		return http.WithRepErrMsg(c, http.NotFound.Code, http.NotFound.Msg, c.Path())
	}
	return http.WithRep(c, detail)
}

func (rt *Router) listExecutions(c *fiber.Ctx) error {
	query := &repo.ExecutionQuery{
		PlanId:     c.Query("planId"),
		ScheduleId: c.Query("scheduleId"),
		Status:     c.Query("status"),
		Page:       rt.conf.Http.QueryInt(c, "page"),
		PageSize:   rt.conf.Http.QueryInt(c, "pageSize"),
	}

	list, total, err := rt.services.Execution.ListExecutions(c.Context(), query)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, fiber.Map{"list": list, "total": total})
}
