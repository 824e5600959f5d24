// Package testdb opens a migrated in-memory SQLite database for tests.
package testdb

import (
	"testing"

	"banking-ledger/internal/infrastructure/db"

	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGorm(db.DriverSQLite, ":memory:", false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
