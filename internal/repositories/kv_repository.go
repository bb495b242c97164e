package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"policyqa/internal/models"
)

// ErrValueTooLarge is returned by Put when a value exceeds the configured
// per-value size cap, mirroring the quota behavior of browser key-value
// storage. Callers are expected to shrink the value and retry.
var ErrValueTooLarge = errors.New("repositories: value exceeds storage quota")

// DefaultMaxValueBytes caps a single stored value at 4 MiB.
const DefaultMaxValueBytes = 4 << 20

type KVRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type kvRepository struct {
	db            *gorm.DB
	maxValueBytes int
}

type KVOption func(*kvRepository)

// WithMaxValueBytes overrides the per-value size cap. Zero or a negative
// value disables the cap.
func WithMaxValueBytes(n int) KVOption {
	return func(r *kvRepository) { r.maxValueBytes = n }
}

func NewKVRepository(db *gorm.DB, opts ...KVOption) KVRepository {
	r := &kvRepository{db: db, maxValueBytes: DefaultMaxValueBytes}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	if err := r.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *kvRepository) Put(ctx context.Context, key, value string) error {
	if r.maxValueBytes > 0 && len(value) > r.maxValueBytes {
		return ErrValueTooLarge
	}
	entry := models.KVEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&models.KVEntry{}, "key = ?", key).Error
}
