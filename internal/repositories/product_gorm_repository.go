package repositories

import (
	"context"
	"fmt"
	"strings"

	"tokoshop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, skip, limit int) ([]models.Product, error)
	SearchByName(ctx context.Context, name string, skip, limit int) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// CreateBatch stores all products or none of them.
	CreateBatch(ctx context.Context, products []*models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

func (r *GORMProductRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Preload("Images")
}

// List returns a page of products ordered by creation time.
func (r *GORMProductRepository) List(ctx context.Context, skip, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.preloaded(ctx).Order("created_at").Offset(skip).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// SearchByName returns products whose name contains name, ignoring case.
func (r *GORMProductRepository) SearchByName(ctx context.Context, name string, skip, limit int) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + strings.ToLower(name) + "%"
	err := r.preloaded(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name").Offset(skip).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products by name %q: %w", name, err)
	}
	return products, nil
}

// GetByID retrieves a single product with its category and images.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.preloaded(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, translate(err))
	}
	return &product, nil
}

// Create inserts a new product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Images").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

func (r *GORMProductRepository) CreateBatch(ctx context.Context, products []*models.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, product := range products {
			if err := tx.Omit("Category", "Images").Create(product).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create %d products: %w", len(products), translate(err))
	}
	return nil
}

// Update writes every column of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("name", "description", "price", "category_id").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
