package handlers

import (
	"strconv"

	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for categories and warehouses.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *Validator
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, validate *Validator) *CatalogHandler {
	return &CatalogHandler{service: service, validate: validate}
}

// RegisterRoutes registers the category and warehouse routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	categories := router.Group("/categories")
	categories.Get("/", h.HandleListCategories)
	categories.Get("/:id", h.HandleGetCategory)
	categories.Post("/", h.HandleCreateCategory)
	categories.Put("/:id", h.HandleUpdateCategory)
	categories.Delete("/:id", h.HandleDeleteCategory)

	warehouses := router.Group("/warehouses")
	warehouses.Get("/", h.HandleListWarehouses)
	warehouses.Get("/:id", h.HandleGetWarehouse)
	warehouses.Post("/", h.HandleCreateWarehouse)
	warehouses.Put("/:id", h.HandleUpdateWarehouse)
	warehouses.Delete("/:id", h.HandleDeleteWarehouse)
}

// CategoryRequest represents the request body for a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// WarehouseRequest represents the request body for a warehouse.
type WarehouseRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address"`
}

func categoryID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, &BindError{Message: "invalid category id", Fields: map[string]string{"id": "must be a positive integer"}}
	}
	return uint(id), nil
}

func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	skip, limit, err := pagination(c)
	if err != nil {
		return respondError(c, err)
	}
	categories, err := h.service.ListCategories(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", categories)
}

func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return respondError(c, err)
	}
	category, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", category)
}

func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := h.service.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "category created", category)
}

func (h *CatalogHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CategoryRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := h.service.UpdateCategory(c.UserContext(), id, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "category updated", category)
}

func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "category deleted", nil)
}

func (h *CatalogHandler) HandleListWarehouses(c *fiber.Ctx) error {
	skip, limit, err := pagination(c)
	if err != nil {
		return respondError(c, err)
	}
	warehouses, err := h.service.ListWarehouses(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", warehouses)
}

func (h *CatalogHandler) HandleGetWarehouse(c *fiber.Ctx) error {
	warehouse, err := h.service.GetWarehouse(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", warehouse)
}

func (h *CatalogHandler) HandleCreateWarehouse(c *fiber.Ctx) error {
	var req WarehouseRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	warehouse, err := h.service.CreateWarehouse(c.UserContext(), services.WarehouseInput{Name: req.Name, Address: req.Address})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "warehouse created", warehouse)
}

func (h *CatalogHandler) HandleUpdateWarehouse(c *fiber.Ctx) error {
	var req WarehouseRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	warehouse, err := h.service.UpdateWarehouse(c.UserContext(), c.Params("id"), services.WarehouseInput{Name: req.Name, Address: req.Address})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "warehouse updated", warehouse)
}

func (h *CatalogHandler) HandleDeleteWarehouse(c *fiber.Ctx) error {
	if err := h.service.DeleteWarehouse(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "warehouse deleted", nil)
}
