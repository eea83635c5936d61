package handlers

import (
	"tokoshop/internal/middleware"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OrderHandler handles checkout and order item requests.
type OrderHandler struct {
	orders   *services.OrderService
	cart     *services.CartService
	validate *Validator
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, cart *services.CartService, validate *Validator) *OrderHandler {
	return &OrderHandler{orders: orders, cart: cart, validate: validate}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Get("/:id/items/:item_id", h.HandleGetOrderItem)
	orderRoutes.Put("/:id/items/:item_id", h.HandleUpdateOrderItem)
	orderRoutes.Delete("/:id/items/:item_id", h.HandleDeleteOrderItem)
}

// UpdateOrderItemRequest represents a partial order line update.
type UpdateOrderItemRequest struct {
	Quantity  *int             `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// HandleCreateOrder checks out the user's cart. The ordered lines are removed
// after the order is stored; lines added meanwhile stay in the cart. A failed
// removal is logged and the order still returned.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	items, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.orders.CreateOrder(ctx, userID, items)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.cart.RemoveLines(ctx, userID, items); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("order_id", order.ID).Msg("failed to remove ordered cart lines")
	}
	return respond(c, fiber.StatusCreated, "order created", order)
}

func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	skip, limit, err := pagination(c)
	if err != nil {
		return respondError(c, err)
	}
	orders, err := h.orders.ListOrders(c.UserContext(), middleware.UserID(c), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", orders)
}

func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", order)
}

func (h *OrderHandler) HandleGetOrderItem(c *fiber.Ctx) error {
	item, err := h.orders.GetOrderItem(c.UserContext(), middleware.UserID(c), c.Params("id"), c.Params("item_id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", item)
}

func (h *OrderHandler) HandleUpdateOrderItem(c *fiber.Ctx) error {
	var req UpdateOrderItemRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.orders.UpdateOrderItem(c.UserContext(), middleware.UserID(c), c.Params("id"), c.Params("item_id"),
		services.OrderItemUpdate{Quantity: req.Quantity, UnitPrice: req.UnitPrice})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "order item updated", item)
}

func (h *OrderHandler) HandleDeleteOrderItem(c *fiber.Ctx) error {
	if err := h.orders.DeleteOrderItem(c.UserContext(), middleware.UserID(c), c.Params("id"), c.Params("item_id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "order item deleted", nil)
}
