package handlers

import (
	"tokoshop/internal/middleware"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductDetailHandler handles product images, reviews and inventories.
type ProductDetailHandler struct {
	images      *services.ProductImageService
	reviews     *services.ReviewService
	inventories *services.InventoryService
	validate    *Validator
}

// NewProductDetailHandler creates a new ProductDetailHandler.
func NewProductDetailHandler(
	images *services.ProductImageService,
	reviews *services.ReviewService,
	inventories *services.InventoryService,
	validate *Validator,
) *ProductDetailHandler {
	return &ProductDetailHandler{images: images, reviews: reviews, inventories: inventories, validate: validate}
}

// RegisterRoutes registers the image, review and inventory routes.
func (h *ProductDetailHandler) RegisterRoutes(router fiber.Router) {
	images := router.Group("/product-images")
	images.Get("/", h.HandleListImages)
	images.Get("/:id", h.HandleGetImage)
	images.Post("/", h.HandleCreateImage)
	images.Put("/:id", h.HandleUpdateImage)
	images.Delete("/:id", h.HandleDeleteImage)

	reviews := router.Group("/reviews")
	reviews.Get("/", h.HandleListReviews)
	reviews.Get("/:id", h.HandleGetReview)
	reviews.Post("/", h.HandleCreateReview)
	reviews.Put("/:id", h.HandleUpdateReview)
	reviews.Delete("/:id", h.HandleDeleteReview)

	inventories := router.Group("/inventories")
	inventories.Get("/", h.HandleListInventories)
	inventories.Get("/:id", h.HandleGetInventory)
	inventories.Post("/", h.HandleCreateInventory)
	inventories.Put("/:id", h.HandleUpdateInventory)
	inventories.Delete("/:id", h.HandleDeleteInventory)
}

// ProductImageRequest represents the request body for a product image.
type ProductImageRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	Image        string `json:"image" validate:"required,url"`
	PrimaryImage bool   `json:"primary_image"`
}

// CreateReviewRequest represents the request body for a new review.
type CreateReviewRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewMessage string `json:"review_message" validate:"max=1000"`
}

// UpdateReviewRequest represents a partial review update.
type UpdateReviewRequest struct {
	Rating        *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	ReviewMessage *string `json:"review_message" validate:"omitempty,max=1000"`
}

// InventoryRequest represents the request body for an inventory row.
type InventoryRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
}

func (h *ProductDetailHandler) HandleListImages(c *fiber.Ctx) error {
	skip, limit, err := pagination(c)
	if err != nil {
		return respondError(c, err)
	}
	images, err := h.images.List(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", images)
}

func (h *ProductDetailHandler) HandleGetImage(c *fiber.Ctx) error {
	image, err := h.images.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", image)
}

func (h *ProductDetailHandler) HandleCreateImage(c *fiber.Ctx) error {
	var req ProductImageRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	image, err := h.images.Create(c.UserContext(), services.ProductImageInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "product image created", image)
}

func (h *ProductDetailHandler) HandleUpdateImage(c *fiber.Ctx) error {
	var req ProductImageRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	image, err := h.images.Update(c.UserContext(), c.Params("id"), services.ProductImageInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "product image updated", image)
}

func (h *ProductDetailHandler) HandleDeleteImage(c *fiber.Ctx) error {
	if err := h.images.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "product image deleted", nil)
}

func (h *ProductDetailHandler) HandleListReviews(c *fiber.Ctx) error {
	skip, limit, err := pagination(c)
	if err != nil {
		return respondError(c, err)
	}
	reviews, err := h.reviews.List(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", reviews)
}

func (h *ProductDetailHandler) HandleGetReview(c *fiber.Ctx) error {
	review, err := h.reviews.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", review)
}

// HandleCreateReview records a review by the authenticated user.
func (h *ProductDetailHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	review, err := h.reviews.Create(c.UserContext(), middleware.UserID(c), services.ReviewInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "review created", review)
}

func (h *ProductDetailHandler) HandleUpdateReview(c *fiber.Ctx) error {
	var req UpdateReviewRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	review, err := h.reviews.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), services.ReviewUpdate(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "review updated", review)
}

func (h *ProductDetailHandler) HandleDeleteReview(c *fiber.Ctx) error {
	if err := h.reviews.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "review deleted", nil)
}

func (h *ProductDetailHandler) HandleListInventories(c *fiber.Ctx) error {
	skip, limit, err := pagination(c)
	if err != nil {
		return respondError(c, err)
	}
	inventories, err := h.inventories.List(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", inventories)
}

func (h *ProductDetailHandler) HandleGetInventory(c *fiber.Ctx) error {
	inventory, err := h.inventories.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", inventory)
}

func (h *ProductDetailHandler) HandleCreateInventory(c *fiber.Ctx) error {
	var req InventoryRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	inventory, err := h.inventories.Create(c.UserContext(), services.InventoryInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "inventory created", inventory)
}

func (h *ProductDetailHandler) HandleUpdateInventory(c *fiber.Ctx) error {
	var req InventoryRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	inventory, err := h.inventories.Update(c.UserContext(), c.Params("id"), services.InventoryInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "inventory updated", inventory)
}

func (h *ProductDetailHandler) HandleDeleteInventory(c *fiber.Ctx) error {
	if err := h.inventories.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "inventory deleted", nil)
}
