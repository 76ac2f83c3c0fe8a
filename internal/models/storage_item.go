package models

import "time"

// StorageItem is one key of the string-keyed local storage area.
type StorageItem struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
