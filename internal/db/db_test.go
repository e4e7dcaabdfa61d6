package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"dayzone/internal/model"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("postgres", "", "")
	assert.Error(t, err)
}

func TestSeed_IsIdempotent(t *testing.T) {
	gormDB, err := Open("sqlite", "", "file:seed_idempotent?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(gormDB))

	opts := SeedOptions{AdminUsername: "admin", AdminPassword: "admin", BcryptCost: bcrypt.MinCost}

	first, err := Seed(context.Background(), gormDB, opts)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Users: 1, Stalkers: 4, Wanted: 4}, first)

	second, err := Seed(context.Background(), gormDB, opts)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, second)

	var admin model.User
	require.NoError(t, gormDB.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin")))

	var wanted model.Wanted
	require.NoError(t, gormDB.Where("face_id = ?", "W003").First(&wanted).Error)
	assert.Equal(t, "75000", wanted.Reward.String())
}

func TestReset_DropsTables(t *testing.T) {
	gormDB, err := NewSQLite("file:reset_tables?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(gormDB))
	assert.True(t, gormDB.Migrator().HasTable(&model.LedgerEntry{}))

	require.NoError(t, Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable(&model.LedgerEntry{}))
	assert.False(t, gormDB.Migrator().HasTable(&model.User{}))
}
