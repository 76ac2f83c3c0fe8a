package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cookiverse/cookiverse/internal/models"
)

// Area is a durable string-keyed storage area.
type Area interface {
	// GetItem returns the value for key and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItems writes every entry in one atomic step.
	SetItems(ctx context.Context, items map[string]string) error
	RemoveItem(ctx context.Context, key string) error
}

// MemoryArea keeps items in process memory.
type MemoryArea struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryArea() *MemoryArea {
	return &MemoryArea{items: make(map[string]string)}
}

func (a *MemoryArea) GetItem(_ context.Context, key string) (string, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.items[key]
	return v, ok, nil
}

func (a *MemoryArea) SetItems(_ context.Context, items map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for k, v := range items {
		a.items[k] = v
	}
	return nil
}

func (a *MemoryArea) RemoveItem(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.items, key)
	return nil
}

// DBArea stores items as rows of the storage_items table.
type DBArea struct {
	db *gorm.DB
}

func NewDBArea(db *gorm.DB) *DBArea {
	return &DBArea{db: db}
}

func (a *DBArea) GetItem(ctx context.Context, key string) (string, bool, error) {
	var item models.StorageItem
	err := a.db.WithContext(ctx).First(&item, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read storage item %q: %w", key, err)
	}
	return item.Value, true, nil
}

func (a *DBArea) SetItems(ctx context.Context, items map[string]string) error {
	now := time.Now().UTC()
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range items {
			item := models.StorageItem{Key: k, Value: v, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&item).Error
			if err != nil {
				return fmt.Errorf("failed to write storage item %q: %w", k, err)
			}
		}
		return nil
	})
}

func (a *DBArea) RemoveItem(ctx context.Context, key string) error {
	return a.db.WithContext(ctx).Delete(&models.StorageItem{}, "key = ?", key).Error
}
