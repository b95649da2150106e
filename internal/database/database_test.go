package database

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(db))

	for _, model := range []any{&models.User{}, &models.Connection{}, &models.UserPreference{}, &models.Onboarding{}, &models.SystemLog{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "idx_users_provider_identity"))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "idx_users_email"))
}
