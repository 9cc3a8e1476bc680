package database

import (
	"Mintora/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGormDBSQLite(t *testing.T) {
	db, err := NewGormDB(&config.DBConfig{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("content_records"))
	assert.True(t, db.Migrator().HasTable("creator_coins"))
	assert.True(t, db.Migrator().HasIndex("creator_coins", "uk_creator_id"))
}

func TestNewGormDBUnsupportedDriver(t *testing.T) {
	_, err := NewGormDB(&config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
