package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookiverse/cookiverse/internal/config"
)

func TestConnectSQLite(t *testing.T) {
	cfg := &config.Config{
		LocalDBDriver: "sqlite",
		LocalDBPath:   filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	assert.NoError(t, Ping(db))
	assert.True(t, db.Migrator().HasTable("storage_items"))
	assert.True(t, db.Migrator().HasTable("system_logs"))
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(&config.Config{LocalDBDriver: "oracle"})
	assert.Error(t, err)
}
