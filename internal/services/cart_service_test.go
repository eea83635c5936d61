package services_test

import (
	"context"
	"testing"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddToCart_SnapshotsPrice(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := services.NewCartService(cartRepo, productRepo)
	ctx := context.Background()

	productRepo.On("GetByID", ctx, "prod-1").Return(&models.Product{ID: "prod-1", Price: dec("5.00")}, nil).Once()
	cartRepo.On("Add", ctx, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.UserID == "user-1" && item.Quantity == 2 && item.UnitPrice.Equal(dec("5.00"))
	})).Return(&models.CartItem{ID: "cart-1", UserID: "user-1", ProductID: "prod-1", Quantity: 2, UnitPrice: dec("5.00")}, nil).Once()

	item, err := svc.AddToCart(ctx, "user-1", "prod-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "cart-1", item.ID)
	cartRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestCartService_AddToCart_Validation(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := services.NewCartService(cartRepo, productRepo)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "user-1", "prod-1", 0)
	assert.ErrorIs(t, err, services.ErrValidation)

	productRepo.On("GetByID", ctx, "ghost").Return(nil, repositories.ErrNotFound).Once()
	_, err = svc.AddToCart(ctx, "user-1", "ghost", 1)
	assert.ErrorIs(t, err, services.ErrValidation)
	cartRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	cartRepo := new(MockCartRepository)
	svc := services.NewCartService(cartRepo, new(MockProductRepository))
	ctx := context.Background()

	_, err := svc.UpdateQuantity(ctx, "user-1", "cart-1", -1)
	assert.ErrorIs(t, err, services.ErrValidation)

	cartRepo.On("UpdateQuantity", ctx, "user-1", "other", 3).Return(nil, repositories.ErrNotFound).Once()
	_, err = svc.UpdateQuantity(ctx, "user-1", "other", 3)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, "cart item not found", err.Error())
}

func TestCartService_RemoveLines_DeletesOnlyGivenLines(t *testing.T) {
	cartRepo := new(MockCartRepository)
	svc := services.NewCartService(cartRepo, new(MockProductRepository))
	ctx := context.Background()

	snapshot := []models.CartItem{{ID: "cart-1"}, {ID: "cart-2"}}
	cartRepo.On("DeleteLines", ctx, "user-1", []string{"cart-1", "cart-2"}).Return(nil).Once()

	require.NoError(t, svc.RemoveLines(ctx, "user-1", snapshot))
	cartRepo.AssertExpectations(t)
	cartRepo.AssertNotCalled(t, "ClearByUser", mock.Anything, mock.Anything)
}
