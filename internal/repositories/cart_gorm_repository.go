package repositories

import (
	"context"
	"fmt"

	"tokoshop/internal/models"

	"gorm.io/gorm"
)

// CartRepository defines the interface for cart data access. Every method
// is scoped to the owning user.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	GetByID(ctx context.Context, userID, id string) (*models.CartItem, error)
	// Add inserts item, or increments the quantity of the user's existing
	// line for the same product. The stored line is returned.
	Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, id string, quantity int) (*models.CartItem, error)
	Delete(ctx context.Context, userID, id string) error
	ClearByUser(ctx context.Context, userID string) error
	// DeleteLines removes the named lines of the user's cart and leaves the rest.
	DeleteLines(ctx context.Context, userID string, ids []string) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart for user %s: %w", userID, err)
	}
	return items, nil
}

func (r *GORMCartRepository) GetByID(ctx context.Context, userID, id string) (*models.CartItem, error) {
	return r.get(r.db.WithContext(ctx), userID, id)
}

func (r *GORMCartRepository) get(tx *gorm.DB, userID, id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := tx.Preload("Product").First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart item %s: %w", id, translate(err))
	}
	return &item, nil
}

func (r *GORMCartRepository) Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	var stored *models.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		err := tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).Take(&existing).Error
		switch translate(err) {
		case nil:
			if err := tx.Model(&existing).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
				return err
			}
			stored, err = r.get(tx, existing.UserID, existing.ID)
			return err
		case ErrNotFound:
			if err := tx.Omit("Product").Create(item).Error; err != nil {
				return err
			}
			stored, err = r.get(tx, item.UserID, item.ID)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", translate(err))
	}
	return stored, nil
}

func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, userID, id string, quantity int) (*models.CartItem, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart item %s not found for update: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, userID, id)
}

func (r *GORMCartRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMCartRepository) ClearByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartItem{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}

func (r *GORMCartRepository) DeleteLines(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %d cart lines for user %s: %w", len(ids), userID, err)
	}
	return nil
}
