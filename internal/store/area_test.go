package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cookiverse/cookiverse/internal/models"
)

func newTestDBArea(t *testing.T) *DBArea {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "area.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.StorageItem{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewDBArea(db)
}

func TestAreas(t *testing.T) {
	areas := map[string]func(t *testing.T) Area{
		"memory": func(*testing.T) Area { return NewMemoryArea() },
		"db":     func(t *testing.T) Area { return newTestDBArea(t) },
	}
	for name, newArea := range areas {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := newArea(t)

			_, ok, err := a.GetItem(ctx, "k1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, a.SetItems(ctx, map[string]string{"k1": "one", "k2": "two"}))
			require.NoError(t, a.SetItems(ctx, map[string]string{"k1": "uno"}))

			v, ok, err := a.GetItem(ctx, "k1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "uno", v)

			require.NoError(t, a.RemoveItem(ctx, "k2"))
			_, ok, err = a.GetItem(ctx, "k2")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestLocalOverDBArea(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(newTestDBArea(t), WithClock(func() time.Time { return testNow }))

	recipes, err := l.ListRecipes(ctx, RecipeFilter{PublicOnly: true})
	require.NoError(t, err)
	assert.Len(t, recipes, 3)

	require.NoError(t, l.DeleteRecipe(ctx, recipes[0].ID))
	recipes, err = l.ListRecipes(ctx, RecipeFilter{PublicOnly: true})
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}
