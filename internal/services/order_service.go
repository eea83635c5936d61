package services

import (
	"context"
	"errors"
	"fmt"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OrderItemUpdate is a partial update of an order line.
type OrderItemUpdate struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher) *OrderService {
	return &OrderService{orderRepo: orderRepo, productRepo: productRepo, publisher: publisher}
}

// CreateOrder turns cart lines into a PENDING order. Quantities and unit
// prices are copied from the cart as they are; the total is their sum.
// Clearing the cart is left to the caller.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, cart []models.CartItem) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, validationError("cart is empty")
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, validationError("cart line for product %s has invalid quantity %d", line.ProductID, line.Quantity)
		}
		if _, err := s.productRepo.GetByID(ctx, line.ProductID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, validationError("product %s no longer exists", line.ProductID)
			}
			return nil, fmt.Errorf("failed to check product %s: %w", line.ProductID, err)
		}

		item := models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
		total = total.Add(item.SubTotal())
		items = append(items, item)
	}

	order := &models.Order{
		UserID:      userID,
		Status:      models.OrderStatusPending,
		TotalAmount: total,
		Items:       items,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	log.Info().Str("order_id", order.ID).Str("user_id", userID).
		Str("total", order.TotalAmount.StringFixed(2)).Int("items", len(items)).
		Msg("order created")

	publish(ctx, s.publisher, EventOrderCreated, map[string]any{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.TotalAmount.StringFixed(2),
		"items":    len(order.Items),
	})
	return order, nil
}

// GetOrder returns one of the user's orders.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

// ListOrders returns a page of the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, skip, limit int) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID, skip, limit)
}

// GetOrderItem returns a line of one of the user's orders.
func (s *OrderService) GetOrderItem(ctx context.Context, userID, orderID, itemID string) (*models.OrderItem, error) {
	if _, err := s.GetOrder(ctx, userID, orderID); err != nil {
		return nil, err
	}
	item, err := s.orderRepo.GetItem(ctx, orderID, itemID)
	if err != nil {
		return nil, notFound(err, "order item")
	}
	return item, nil
}

// UpdateOrderItem changes quantity or unit price of a line while the order
// is PENDING. The order total keeps its checkout value.
func (s *OrderService) UpdateOrderItem(ctx context.Context, userID, orderID, itemID string, in OrderItemUpdate) (*models.OrderItem, error) {
	if err := s.checkEditable(ctx, userID, orderID); err != nil {
		return nil, err
	}
	item, err := s.orderRepo.GetItem(ctx, orderID, itemID)
	if err != nil {
		return nil, notFound(err, "order item")
	}

	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, validationError("quantity must be greater than zero")
		}
		item.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, validationError("unit price must not be negative")
		}
		item.UnitPrice = *in.UnitPrice
	}

	if err := s.orderRepo.UpdateItem(ctx, item); err != nil {
		return nil, notFound(err, "order item")
	}
	return item, nil
}

// DeleteOrderItem removes a line while the order is PENDING.
func (s *OrderService) DeleteOrderItem(ctx context.Context, userID, orderID, itemID string) error {
	if err := s.checkEditable(ctx, userID, orderID); err != nil {
		return err
	}
	if err := s.orderRepo.DeleteItem(ctx, orderID, itemID); err != nil {
		return notFound(err, "order item")
	}
	return nil
}

// UpdateOrderStatus sets an order's status. It is not exposed over HTTP.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return validationError("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return notFound(err, "order")
	}
	return nil
}

func (s *OrderService) checkEditable(ctx context.Context, userID, orderID string) error {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusPending {
		return validationError("order %s is %s and can no longer be changed", order.ID, order.Status)
	}
	return nil
}
