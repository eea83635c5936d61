package repositories

import (
	"context"
	"fmt"
	"time"

	"tokoshop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create writes the order and its items in one transaction.
	Create(ctx context.Context, order *models.Order) error
	GetForUser(ctx context.Context, userID, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error

	GetItem(ctx context.Context, orderID, itemID string) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, item *models.OrderItem) error
	DeleteItem(ctx context.Context, orderID, itemID string) error
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		return tx.Create(&order.Items).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", translate(err))
	}
	return nil
}

func (r *GORMOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") })
}

func (r *GORMOrderRepository) GetForUser(ctx context.Context, userID, id string) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get order %s for user %s: %w", id, userID, translate(err))
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.preloaded(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Offset(skip).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return updateOrderStatus(r.db.WithContext(ctx), id, status)
}

func updateOrderStatus(tx *gorm.DB, id string, status models.OrderStatus) error {
	res := tx.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMOrderRepository) GetItem(ctx context.Context, orderID, itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ? AND order_id = ?", itemID, orderID).Error; err != nil {
		return nil, fmt.Errorf("failed to get order item %s: %w", itemID, translate(err))
	}
	return &item, nil
}

// UpdateItem writes quantity and unit price of an item. The order total is
// left as it was at checkout.
func (r *GORMOrderRepository) UpdateItem(ctx context.Context, item *models.OrderItem) error {
	res := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ? AND order_id = ?", item.ID, item.OrderID).
		Updates(map[string]any{"quantity": item.Quantity, "unit_price": item.UnitPrice})
	if res.Error != nil {
		return fmt.Errorf("failed to update order item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order item %s not found for update: %w", item.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMOrderRepository) DeleteItem(ctx context.Context, orderID, itemID string) error {
	res := r.db.WithContext(ctx).Delete(&models.OrderItem{}, "id = ? AND order_id = ?", itemID, orderID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order item %s not found for deletion: %w", itemID, ErrNotFound)
	}
	return nil
}
