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
	"github.com/google/wire"
	"github.com/veritrix/veridex/pkg/log"
	"gorm.io/gorm"
)

// ProviderSet provides database-related dependencies
var ProviderSet = wire.NewSet(
	ProvideManager,
	ProvideSQLite,
	ProvideIDatabase,
)

// IDatabase is the narrow handle repositories depend on.
type IDatabase interface {
	Database() *gorm.DB
}

// databaseAdapter adapts Manager to the IDatabase interface.
type databaseAdapter struct {
	manager Manager
}

// NewDatabaseAdapter creates an IDatabase backed by the given Manager.
func NewDatabaseAdapter(manager Manager) IDatabase {
	return &databaseAdapter{manager: manager}
}

// Database returns the gorm handle.
func (a *databaseAdapter) Database() *gorm.DB {
	return a.manager.SQLite()
}

// ProvideManager creates and returns a database Manager instance
func ProvideManager(conf Database, logger *log.Logger) (Manager, error) {
	return NewManager(conf)
}

// ProvideSQLite provides the SQLite database instance from Manager
func ProvideSQLite(manager Manager) *gorm.DB {
	return manager.SQLite()
}

// ProvideIDatabase provides the IDatabase interface instance
func ProvideIDatabase(manager Manager) IDatabase {
	return NewDatabaseAdapter(manager)
}
