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

package database

import (
	"fmt"
	"time"

	"github.com/veritrix/veridex/pkg/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const dataTablePrefix = "t_"

// Database defines database configuration.
type Database struct {
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxLifetime  int    `mapstructure:"maxLifetime"` // minutes
	OutPut       bool   `mapstructure:"output"`      // log SQL statements
}

// SetDefaults fills missing database configuration values.
func (d *Database) SetDefaults() {
	if d.Path == "" {
		d.Path = "data/veridex.db"
	}
	if d.MaxOpenConns <= 0 {
		d.MaxOpenConns = 1
	}
	if d.MaxIdleConns <= 0 {
		d.MaxIdleConns = 1
	}
	if d.MaxLifetime <= 0 {
		d.MaxLifetime = 60
	}
}

// Manager defines the unified database interface for managing SQLite connections
type Manager interface {
	// SQLite returns the SQLite database connection
	SQLite() *gorm.DB

	// Close closes all database connections
	Close() error
}

// managerImpl implements the Manager interface
type managerImpl struct {
	sqlite *gorm.DB
}

// SQLite returns the SQLite database connection
func (m *managerImpl) SQLite() *gorm.DB {
	return m.sqlite
}

// Close closes all database connections
func (m *managerImpl) Close() error {
	if m.sqlite == nil {
		return nil
	}
	sqlDB, err := m.sqlite.DB()
	if err != nil {
		return nil
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close SQLite: %w", err)
	}
	return nil
}

// NewManager creates a new database manager with a SQLite connection
func NewManager(cfg Database) (Manager, error) {
	cfg.SetDefaults()

	db, err := newSQLiteConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect SQLite: %w", err)
	}
	log.Infow("SQLite database connected successfully", "path", cfg.Path)
	return &managerImpl{sqlite: db}, nil
}

// newSQLiteConnection creates a SQLite connection using GORM
func newSQLiteConnection(cfg Database) (*gorm.DB, error) {
	logConfig := gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Silent,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	}

	var gormLogger gormlogger.Interface
	if cfg.OutPut {
		gormLogger = gormlogger.New(gormWriter{}, logConfig)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: gormLogger,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dataTablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite: %w", err)
	}
	return db, nil
}

// gormWriter routes gorm SQL logging into the application logger.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...any) {
	log.Infof(format, args...)
}
