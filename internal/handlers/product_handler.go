package handlers

import (
	"bytes"

	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *Validator
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, validate *Validator) *ProductHandler {
	return &ProductHandler{service: service, validate: validate}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  uint            `json:"category_id" validate:"required"`
}

// createProductsRequest wraps a JSON array body so each element is validated.
type createProductsRequest struct {
	Products []CreateProductRequest `validate:"min=1,max=100,dive"`
}

// UpdateProductRequest represents a partial product update.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uint            `json:"category_id" validate:"omitempty,gt=0"`
}

func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	skip, limit, err := pagination(c)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.service.ListProducts(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", products)
}

// HandleSearchProducts matches ?name= against product names, ignoring case.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	skip, limit, err := pagination(c)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.service.SearchProducts(c.UserContext(), c.Query("name"), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", products)
}

func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", product)
}

// HandleCreateProduct accepts a single product object or an array of them.
// An array is created all or nothing.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	if bytes.HasPrefix(bytes.TrimSpace(c.Body()), []byte("[")) {
		return h.handleCreateProducts(c)
	}

	var req CreateProductRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.service.CreateProduct(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "product created", product)
}

func (h *ProductHandler) handleCreateProducts(c *fiber.Ctx) error {
	var req createProductsRequest
	if err := c.BodyParser(&req.Products); err != nil {
		return respondError(c, &BindError{Message: "invalid request body", Fields: map[string]string{"body": err.Error()}})
	}
	if err := h.validate.Struct(&req); err != nil {
		return respondError(c, err)
	}

	in := make([]services.ProductInput, len(req.Products))
	for i, p := range req.Products {
		in[i] = p.input()
	}
	products, err := h.service.CreateProducts(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "products created", products)
}

func (r CreateProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
	}
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), services.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "product updated", product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "product deleted", nil)
}
