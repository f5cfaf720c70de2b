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
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/pkg/http"
)

func (rt *Router) scheduleRouter(r fiber.Router) {
	schedule := r.Group("/schedules")
	{
		schedule.Post("/", rt.createSchedule)
		schedule.Put("/:scheduleId", rt.updateSchedule)
		schedule.Get("/:scheduleId", rt.getSchedule)
		schedule.Get("/", rt.listSchedules)
		schedule.Delete("/:scheduleId", rt.deleteSchedule)
	}
}

func (rt *Router) createSchedule(c *fiber.Ctx) error {
	var req model.CreateScheduleReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}
	if strings.TrimSpace(req.Frequency) == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "frequency is required", c.Path())
	}

	schedule, err := rt.services.Schedule.CreateSchedule(c.Context(), &req)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, schedule)
}

func (rt *Router) updateSchedule(c *fiber.Ctx) error {
	scheduleId := strings.TrimSpace(c.Params("scheduleId"))
	if scheduleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "schedule id is required", c.Path())
	}

	var req model.UpdateScheduleReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	schedule, err := rt.services.Schedule.UpdateSchedule(c.Context(), scheduleId, &req)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, schedule)
}

func (rt *Router) getSchedule(c *fiber.Ctx) error {
	scheduleId := strings.TrimSpace(c.Params("scheduleId"))
	if scheduleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "schedule id is required", c.Path())
	}

	schedule, err := rt.services.Schedule.GetSchedule(c.Context(), scheduleId)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	if schedule == nil {
		return http.WithRepErrMsg(c, http.NotFound.Code, http.NotFound.Msg, c.Path())
	}
	return http.WithRep(c, schedule)
}

func (rt *Router) listSchedules(c *fiber.Ctx) error {
	query := &repo.ScheduleQuery{
		PlanId:   c.Query("planId"),
		Page:     rt.conf.Http.QueryInt(c, "page"),
		PageSize: rt.conf.Http.QueryInt(c, "pageSize"),
	}
	if active := c.Query("active"); active != "" {
		b := active == "1" || strings.EqualFold(active, "true")
		query.Active = &b
	}

	list, total, err := rt.services.Schedule.ListSchedules(c.Context(), query)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, fiber.Map{"list": list, "total": total})
}

func (rt *Router) deleteSchedule(c *fiber.Ctx) error {
	scheduleId := strings.TrimSpace(c.Params("scheduleId"))
	if scheduleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "schedule id is required", c.Path())
	}

	if err := rt.services.Schedule.DeleteSchedule(c.Context(), scheduleId); err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepMsg(c, http.Success.Code, http.Success.Msg)
}
