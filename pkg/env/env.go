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

// Package env reads typed environment overrides. A missing or malformed
// variable falls back to the supplied default.
package env

import (
	"os"
	"strconv"
	"time"
)

func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Int(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if value, err := strconv.Atoi(v); err == nil {
			return value
		}
	}
	return def
}

func Bool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if value, err := strconv.ParseBool(v); err == nil {
			return value
		}
	}
	return def
}

func Duration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if value, err := time.ParseDuration(v); err == nil {
			return value
		}
	}
	return def
}
