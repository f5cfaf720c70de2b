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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func client() *resty.Client {
	return resty.New().SetBaseURL(serverURL)
}

// printResponse pretty-prints the engine's JSON envelope.
func printResponse(resp *resty.Response, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}

	var pretty json.RawMessage = resp.Body()
	out, mErr := json.MarshalIndent(pretty, "", "  ")
	if mErr != nil {
		fmt.Println(string(resp.Body()))
		return
	}
	fmt.Println(string(out))
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "manage test plans",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "list test plans",
	Run: func(cmd *cobra.Command, args []string) {
		printResponse(client().R().Get("/api/v1/plans/"))
	},
}

var planGetCmd = &cobra.Command{
	Use:   "get <planId>",
	Short: "show a test plan with its selected tests",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printResponse(client().R().Get("/api/v1/plans/" + args[0]))
	},
}

var planTriggerCmd = &cobra.Command{
	Use:   "trigger <planId>",
	Short: "run a test plan now and wait for the summary",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printResponse(client().R().Post("/api/v1/plans/" + args[0] + "/trigger"))
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "manage schedules",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "list schedules",
	Run: func(cmd *cobra.Command, args []string) {
		printResponse(client().R().Get("/api/v1/schedules/"))
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete <scheduleId>",
	Short: "delete a schedule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printResponse(client().R().Delete("/api/v1/schedules/" + args[0]))
	},
}

var executionCmd = &cobra.Command{
	Use:   "execution",
	Short: "inspect execution history",
}

var executionListCmd = &cobra.Command{
	Use:   "list",
	Short: "list executions",
	Run: func(cmd *cobra.Command, args []string) {
		req := client().R()
		if planId, _ := cmd.Flags().GetString("plan"); planId != "" {
			req.SetQueryParam("planId", planId)
		}
		printResponse(req.Get("/api/v1/executions/"))
	},
}

var executionGetCmd = &cobra.Command{
	Use:   "get <executionId>",
	Short: "show an execution with its case results",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printResponse(client().R().Get("/api/v1/executions/" + args[0]))
	},
}

func init() {
	planCmd.AddCommand(planListCmd, planGetCmd, planTriggerCmd)
	scheduleCmd.AddCommand(scheduleListCmd, scheduleDeleteCmd)
	executionListCmd.Flags().String("plan", "", "filter by plan id")
	executionCmd.AddCommand(executionListCmd, executionGetCmd)
}
