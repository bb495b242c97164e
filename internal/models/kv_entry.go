package models

import "time"

// KVEntry is one row of the string key-value table backing persisted
// client state: the conversation list and the UI preferences each live
// under their own key.
type KVEntry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}
