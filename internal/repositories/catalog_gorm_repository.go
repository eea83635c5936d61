package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// CatalogRepository is the CRUD surface shared by the plain catalog
// entities (categories, product images, reviews, warehouses, inventories).
type CatalogRepository[T any] interface {
	List(ctx context.Context, skip, limit int) ([]T, error)
	GetByID(ctx context.Context, id any) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id any) error
}

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository[T any] struct {
	db   *gorm.DB
	name string
}

// NewGORMCatalogRepository creates a repository for T. name is used in
// error messages only.
func NewGORMCatalogRepository[T any](db *gorm.DB, name string) *GORMCatalogRepository[T] {
	return &GORMCatalogRepository[T]{db: db, name: name}
}

func (r *GORMCatalogRepository[T]) List(ctx context.Context, skip, limit int) ([]T, error) {
	var items []T
	if err := r.db.WithContext(ctx).Order("created_at").Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.name, err)
	}
	return items, nil
}

func (r *GORMCatalogRepository[T]) GetByID(ctx context.Context, id any) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get %s by ID %v: %w", r.name, id, translate(err))
	}
	return &item, nil
}

func (r *GORMCatalogRepository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.name, translate(err))
	}
	return nil
}

// Update writes every column except created_at.
func (r *GORMCatalogRepository[T]) Update(ctx context.Context, entity *T) error {
	res := r.db.WithContext(ctx).Model(entity).Select("*").Omit("id", "created_at").Updates(entity)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s: %w", r.name, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s not found for update: %w", r.name, ErrNotFound)
	}
	return nil
}

func (r *GORMCatalogRepository[T]) Delete(ctx context.Context, id any) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.name, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with ID %v not found for deletion: %w", r.name, id, ErrNotFound)
	}
	return nil
}
