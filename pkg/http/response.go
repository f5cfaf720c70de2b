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

package http

import "github.com/gofiber/fiber/v2"

// Status pairs a business code with its default message.
type Status struct {
	Code int
	Msg  string
}

var (
	Success                        = Status{Code: 0, Msg: "success"}
	Failed                         = Status{Code: 1, Msg: "failed"}
	BadRequest                     = Status{Code: 400, Msg: "bad request"}
	NotFound                       = Status{Code: 404, Msg: "not found"}
	RequestParameterParsingFailed  = Status{Code: 4001, Msg: "request parameter parsing failed"}
	RequestParameterValidateFailed = Status{Code: 4002, Msg: "request parameter validation failed"}
)

// Response is the uniform JSON envelope for all API handlers.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Path string `json:"path,omitempty"`
	Data any    `json:"data,omitempty"`
}

// WithRep writes a success envelope carrying data.
func WithRep(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Code: Success.Code, Msg: Success.Msg, Data: data})
}

// WithRepMsg writes an envelope with an explicit code and message.
func WithRepMsg(c *fiber.Ctx, code int, msg string) error {
	return c.JSON(Response{Code: code, Msg: msg})
}

// WithRepErrMsg writes an error envelope with the request path for context.
func WithRepErrMsg(c *fiber.Ctx, code int, msg string, path string) error {
	return c.JSON(Response{Code: code, Msg: msg, Path: path})
}
