package testutil

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"dayzone/internal/db"
	"dayzone/internal/model"
)

// OpenInMemoryDB opens a migrated in-memory SQLite database private to t.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d, err := db.NewSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := d.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	// one connection keeps the shared in-memory database alive and avoids table locks
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(d); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return d
}

// CreateUser inserts a user with the given role and a throwaway password hash.
func CreateUser(t *testing.T, d *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "x", Role: role}
	if err := d.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}
