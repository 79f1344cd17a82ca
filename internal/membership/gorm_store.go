package membership

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormStore stores pairs as rows of the relation model T
type GormStore[T any] struct {
	db          *gorm.DB
	ownerColumn string
	targetCol   string
	build       func(ownerID, targetID uint) T
}

// NewGormStore creates a store over T. build constructs a row for a new pair.
func NewGormStore[T any](db *gorm.DB, ownerColumn, targetColumn string, build func(ownerID, targetID uint) T) *GormStore[T] {
	return &GormStore[T]{
		db:          db,
		ownerColumn: ownerColumn,
		targetCol:   targetColumn,
		build:       build,
	}
}

func (s *GormStore[T]) where(ctx context.Context, ownerID, targetID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND %s = ?", s.ownerColumn, s.targetCol), ownerID, targetID)
}

// Exists reports whether the pair is stored
func (s *GormStore[T]) Exists(ctx context.Context, ownerID, targetID uint) (bool, error) {
	var count int64
	if err := s.where(ctx, ownerID, targetID).Model(new(T)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts the pair
func (s *GormStore[T]) Add(ctx context.Context, ownerID, targetID uint) error {
	row := s.build(ownerID, targetID)
	return s.db.WithContext(ctx).Create(&row).Error
}

// Remove deletes the pair
func (s *GormStore[T]) Remove(ctx context.Context, ownerID, targetID uint) (bool, error) {
	res := s.where(ctx, ownerID, targetID).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TargetsOf returns the target ids stored for owner
func (s *GormStore[T]) TargetsOf(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(new(T)).
		Where(fmt.Sprintf("%s = ?", s.ownerColumn), ownerID).
		Pluck(s.targetCol, &ids).Error
	return ids, err
}
