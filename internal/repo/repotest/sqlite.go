// Package repotest opens throwaway in-memory databases for tests.
package repotest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"fitdesk/internal/core/database"
	"fitdesk/internal/feature/account"
)

// OpenSQLite returns a migrated in-memory database private to t. The pool is
// pinned to one connection so the database lives as long as the test.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), database.Opts{
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		LogLevel:      "silent",
		NoPrepareStmt: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(account.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
