package services

import (
	"context"
	"errors"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
)

// CartService manages per-user cart lines.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// AddToCart adds quantity of a product at its current price. If the
// product is already in the cart its line grows and keeps the first price.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, validationError("quantity must be greater than zero")
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationError("product %s does not exist", productID)
		}
		return nil, err
	}

	return s.cartRepo.Add(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})
}

// GetCart returns the user's cart lines with their products.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

// UpdateQuantity sets the quantity of one of the user's lines.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, validationError("quantity must be greater than zero")
	}
	item, err := s.cartRepo.UpdateQuantity(ctx, userID, cartItemID, quantity)
	if err != nil {
		return nil, notFound(err, "cart item")
	}
	return item, nil
}

// RemoveItem deletes one of the user's lines.
func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID string) error {
	if err := s.cartRepo.Delete(ctx, userID, cartItemID); err != nil {
		return notFound(err, "cart item")
	}
	return nil
}

// ClearCart deletes every line of the user's cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.cartRepo.ClearByUser(ctx, userID)
}

// RemoveLines deletes the given lines of the user's cart. Checkout uses it
// to drop exactly the lines it ordered.
func (s *CartService) RemoveLines(ctx context.Context, userID string, items []models.CartItem) error {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return s.cartRepo.DeleteLines(ctx, userID, ids)
}
