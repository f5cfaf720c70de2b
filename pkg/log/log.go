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

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	global *zap.SugaredLogger
)

// Conf defines logger configuration.
type Conf struct {
	Output     string `mapstructure:"output"` // stdout or file
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	RotateSize int    `mapstructure:"rotateSize"` // megabytes
	RotateNum  int    `mapstructure:"rotateNum"`
	KeepDays   int    `mapstructure:"keepDays"`
}

// Logger wraps zap.SugaredLogger to satisfy dependency injection usage.
type Logger struct {
	*zap.SugaredLogger
}

// SetDefaults returns default logger configuration.
func SetDefaults() *Conf {
	return &Conf{
		Output:     "stdout",
		Path:       "./logs",
		Filename:   "veridex.log",
		Level:      "INFO",
		RotateSize: 100,
		RotateNum:  10,
		KeepDays:   7,
	}
}

// Validate validates and normalizes logger configuration.
func (c *Conf) Validate() error {
	if c == nil {
		return fmt.Errorf("logger config is nil")
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	if c.Level == "" {
		c.Level = "INFO"
	}
	if c.Output == "file" {
		if c.Path == "" {
			return fmt.Errorf("log path is required when output is 'file'")
		}
		if c.Filename == "" {
			c.Filename = "veridex.log"
		}
		if c.RotateSize <= 0 {
			c.RotateSize = 100
		}
		if c.RotateNum <= 0 {
			c.RotateNum = 10
		}
		if c.KeepDays <= 0 {
			c.KeepDays = 7
		}
	}
	return nil
}

// New creates a zap logger and also updates the global logger instance.
func New(conf *Conf) (*zap.SugaredLogger, error) {
	if conf == nil {
		conf = SetDefaults()
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var ws zapcore.WriteSyncer
	switch conf.Output {
	case "file":
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(conf.Path, conf.Filename),
			MaxSize:    conf.RotateSize,
			MaxBackups: conf.RotateNum,
			MaxAge:     conf.KeepDays,
		})
	default:
		ws = zapcore.Lock(zapcore.AddSync(stdout()))
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), ws, parseLevel(conf.Level))
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()

	mu.Lock()
	global = l
	mu.Unlock()
	return l, nil
}

// Init initializes the global logger instance.
func Init(conf *Conf) error {
	_, err := New(conf)
	return err
}

// MustInit initializes the global logger and panics on failure.
func MustInit(conf *Conf) {
	if err := Init(conf); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return nil
	}
	return global.Sync()
}

// parseLevel converts string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// logger returns the global sugared logger, initializing lazily with defaults.
func logger() *zap.SugaredLogger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	if _, err := New(SetDefaults()); err != nil {
		// Last resort: a no-op logger keeps callers safe.
		mu.Lock()
		global = zap.NewNop().Sugar()
		mu.Unlock()
	}
	mu.RLock()
	defer mu.RUnlock()
	return global
}
