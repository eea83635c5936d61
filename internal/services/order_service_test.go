package services_test

import (
	"context"
	"errors"
	"testing"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newOrderService(t *testing.T) (*services.OrderService, *MockOrderRepository, *MockProductRepository, *MockPublisher) {
	t.Helper()
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	t.Cleanup(func() {
		orderRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})
	return services.NewOrderService(orderRepo, productRepo, publisher), orderRepo, productRepo, publisher
}

func TestOrderService_CreateOrder_TotalFromCart(t *testing.T) {
	svc, orderRepo, productRepo, publisher := newOrderService(t)
	ctx := context.Background()

	cart := []models.CartItem{
		{ProductID: "A", Quantity: 2, UnitPrice: dec("5.00")},
		{ProductID: "B", Quantity: 1, UnitPrice: dec("3.00")},
	}

	productRepo.On("GetByID", ctx, "A").Return(&models.Product{ID: "A", Price: dec("99.00")}, nil).Once()
	productRepo.On("GetByID", ctx, "B").Return(&models.Product{ID: "B", Price: dec("42.00")}, nil).Once()
	orderRepo.On("Create", ctx, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Order).ID = "order-1" }).
		Return(nil).Once()
	publisher.On("Publish", ctx, services.EventOrderCreated, mock.Anything).Return(nil).Once()

	order, err := svc.CreateOrder(ctx, "user-1", cart)
	require.NoError(t, err)

	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, dec("13.00").Equal(order.TotalAmount), "got %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "A", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, dec("5.00").Equal(order.Items[0].UnitPrice))
	assert.Equal(t, "B", order.Items[1].ProductID)
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.True(t, dec("3.00").Equal(order.Items[1].UnitPrice))
}

func TestOrderService_CreateOrder_TotalIsSumOfLines(t *testing.T) {
	carts := [][]models.CartItem{
		{{ProductID: "p1", Quantity: 3, UnitPrice: dec("0.10")}},
		{{ProductID: "p1", Quantity: 7, UnitPrice: dec("19.99")}, {ProductID: "p2", Quantity: 1, UnitPrice: dec("0.01")}},
		{{ProductID: "p1", Quantity: 1, UnitPrice: dec("1234.56")}, {ProductID: "p2", Quantity: 12, UnitPrice: dec("2.50")}, {ProductID: "p3", Quantity: 5, UnitPrice: dec("0.33")}},
	}

	for _, cart := range carts {
		svc, orderRepo, productRepo, publisher := newOrderService(t)
		ctx := context.Background()
		productRepo.On("GetByID", ctx, mock.Anything).Return(&models.Product{}, nil)
		orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		publisher.On("Publish", ctx, services.EventOrderCreated, mock.Anything).Return(nil).Once()

		want := decimal.Zero
		for _, line := range cart {
			want = want.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order, err := svc.CreateOrder(ctx, "user-1", cart)
		require.NoError(t, err)
		assert.True(t, want.Equal(order.TotalAmount), "want %s got %s", want, order.TotalAmount)

		var fromItems = decimal.Zero
		for _, item := range order.Items {
			fromItems = fromItems.Add(item.SubTotal())
		}
		assert.True(t, fromItems.Equal(order.TotalAmount))
	}
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	svc, _, _, _ := newOrderService(t)

	_, err := svc.CreateOrder(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestOrderService_CreateOrder_MissingProduct(t *testing.T) {
	svc, _, productRepo, _ := newOrderService(t)
	ctx := context.Background()

	productRepo.On("GetByID", ctx, "gone").Return(nil, repositories.ErrNotFound).Once()

	_, err := svc.CreateOrder(ctx, "user-1", []models.CartItem{{ProductID: "gone", Quantity: 1, UnitPrice: dec("1")}})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, err.Error(), "gone")
}

func TestOrderService_CreateOrder_RepositoryError(t *testing.T) {
	svc, orderRepo, productRepo, _ := newOrderService(t)
	ctx := context.Background()

	productRepo.On("GetByID", ctx, "A").Return(&models.Product{ID: "A"}, nil).Once()
	orderRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

	_, err := svc.CreateOrder(ctx, "user-1", []models.CartItem{{ProductID: "A", Quantity: 1, UnitPrice: dec("1")}})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrValidation)
}

func TestOrderService_CreateOrder_PublishFailureIgnored(t *testing.T) {
	svc, orderRepo, productRepo, publisher := newOrderService(t)
	ctx := context.Background()

	productRepo.On("GetByID", ctx, "A").Return(&models.Product{ID: "A"}, nil).Once()
	orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	publisher.On("Publish", ctx, services.EventOrderCreated, mock.Anything).Return(errors.New("broker down")).Once()

	order, err := svc.CreateOrder(ctx, "user-1", []models.CartItem{{ProductID: "A", Quantity: 1, UnitPrice: dec("1")}})
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestOrderService_CreateOrder_NilPublisher(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	svc := services.NewOrderService(orderRepo, productRepo, nil)
	ctx := context.Background()

	productRepo.On("GetByID", ctx, "A").Return(&models.Product{ID: "A"}, nil).Once()
	orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.CreateOrder(ctx, "user-1", []models.CartItem{{ProductID: "A", Quantity: 1, UnitPrice: dec("1")}})
	require.NoError(t, err)
}

func TestOrderService_GetOrder_ScopedToUser(t *testing.T) {
	svc, orderRepo, _, _ := newOrderService(t)
	ctx := context.Background()

	orderRepo.On("GetForUser", ctx, "intruder", "order-1").Return(nil, repositories.ErrNotFound).Once()

	_, err := svc.GetOrder(ctx, "intruder", "order-1")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, "order not found", err.Error())
}

func TestOrderService_UpdateOrderItem_KeepsTotal(t *testing.T) {
	svc, orderRepo, _, _ := newOrderService(t)
	ctx := context.Background()

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusPending, TotalAmount: dec("10")}
	item := &models.OrderItem{ID: "item-1", OrderID: "order-1", Quantity: 1, UnitPrice: dec("10")}

	orderRepo.On("GetForUser", ctx, "user-1", "order-1").Return(order, nil).Once()
	orderRepo.On("GetItem", ctx, "order-1", "item-1").Return(item, nil).Once()
	orderRepo.On("UpdateItem", ctx, mock.MatchedBy(func(i *models.OrderItem) bool {
		return i.Quantity == 3 && i.UnitPrice.Equal(dec("10"))
	})).Return(nil).Once()

	qty := 3
	updated, err := svc.UpdateOrderItem(ctx, "user-1", "order-1", "item-1", services.OrderItemUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	assert.True(t, dec("10").Equal(order.TotalAmount))
}

func TestOrderService_UpdateOrderItem_RejectsPaidOrder(t *testing.T) {
	svc, orderRepo, _, _ := newOrderService(t)
	ctx := context.Background()

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusProcessing}
	orderRepo.On("GetForUser", ctx, "user-1", "order-1").Return(order, nil).Once()

	qty := 2
	_, err := svc.UpdateOrderItem(ctx, "user-1", "order-1", "item-1", services.OrderItemUpdate{Quantity: &qty})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestOrderService_DeleteOrderItem_NotFound(t *testing.T) {
	svc, orderRepo, _, _ := newOrderService(t)
	ctx := context.Background()

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusPending}
	orderRepo.On("GetForUser", ctx, "user-1", "order-1").Return(order, nil).Once()
	orderRepo.On("DeleteItem", ctx, "order-1", "nope").Return(repositories.ErrNotFound).Once()

	err := svc.DeleteOrderItem(ctx, "user-1", "order-1", "nope")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	svc, orderRepo, _, _ := newOrderService(t)
	ctx := context.Background()

	orderRepo.On("UpdateStatus", ctx, "order-1", models.OrderStatusCancelled).Return(nil).Once()

	require.NoError(t, svc.UpdateOrderStatus(ctx, "order-1", models.OrderStatusCancelled))
	assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, "order-1", "SHIPPED"), services.ErrValidation)
}
