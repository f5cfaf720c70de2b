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
	"github.com/spf13/cobra"

	"github.com/veritrix/veridex/pkg/env"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "veridex-cli",
	Short: "veridex cli is a command line tool for the veridex engine",
	Long:  "veridex cli is a command line tool for the veridex engine",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		env.String("VERIDEX_SERVER", "http://127.0.0.1:8080"), "veridex engine base URL")
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(executionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
