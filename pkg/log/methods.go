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

package log

import "os"

// stdout is separated out so file-only builds can stub it if needed.
func stdout() *os.File { return os.Stdout }

// Debug logs a message at debug level.
func Debug(args ...any) { logger().Debug(args...) }

// Debugw logs a message with key-value pairs at debug level.
func Debugw(msg string, keysAndValues ...any) { logger().Debugw(msg, keysAndValues...) }

// Info logs a message at info level.
func Info(args ...any) { logger().Info(args...) }

// Infof logs a formatted message at info level.
func Infof(template string, args ...any) { logger().Infof(template, args...) }

// Infow logs a message with key-value pairs at info level.
func Infow(msg string, keysAndValues ...any) { logger().Infow(msg, keysAndValues...) }

// Warnw logs a message with key-value pairs at warn level.
func Warnw(msg string, keysAndValues ...any) { logger().Warnw(msg, keysAndValues...) }

// Error logs a message at error level.
func Error(args ...any) { logger().Error(args...) }

// Errorw logs a message with key-value pairs at error level.
func Errorw(msg string, keysAndValues ...any) { logger().Errorw(msg, keysAndValues...) }
