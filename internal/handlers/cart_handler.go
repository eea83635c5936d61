package handlers

import (
	"tokoshop/internal/middleware"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *Validator
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, validate *Validator) *CartHandler {
	return &CartHandler{service: service, validate: validate}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Put("/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
}

// AddToCartRequest represents the request body for adding a product.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// UpdateCartRequest represents the request body for changing a quantity.
type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.service.AddToCart(c.UserContext(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "product added to cart", item)
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", items)
}

func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateCartRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.service.UpdateQuantity(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "cart updated", item)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "item removed from cart", nil)
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "cart cleared", nil)
}
