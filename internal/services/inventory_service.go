package services

import (
	"context"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
)

// InventoryInput is the data needed to create or replace an inventory row.
type InventoryInput struct {
	ProductID   string
	WarehouseID string
	Quantity    int
}

// InventoryService tracks on-hand stock per product and warehouse. Stock is
// informational; checkout does not reserve it.
type InventoryService struct {
	inventoryRepo repositories.CatalogRepository[models.Inventory]
	productRepo   repositories.ProductRepository
	warehouseRepo repositories.CatalogRepository[models.Warehouse]
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(
	inventoryRepo repositories.CatalogRepository[models.Inventory],
	productRepo repositories.ProductRepository,
	warehouseRepo repositories.CatalogRepository[models.Warehouse],
) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo, productRepo: productRepo, warehouseRepo: warehouseRepo}
}

func (s *InventoryService) List(ctx context.Context, skip, limit int) ([]models.Inventory, error) {
	return s.inventoryRepo.List(ctx, skip, limit)
}

func (s *InventoryService) Get(ctx context.Context, id string) (*models.Inventory, error) {
	inventory, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "inventory")
	}
	return inventory, nil
}

func (s *InventoryService) Create(ctx context.Context, in InventoryInput) (*models.Inventory, error) {
	if err := s.check(ctx, in); err != nil {
		return nil, err
	}
	inventory := &models.Inventory{ProductID: in.ProductID, WarehouseID: in.WarehouseID, Quantity: in.Quantity}
	if err := s.inventoryRepo.Create(ctx, inventory); err != nil {
		return nil, duplicate(err, "inventory for this product and warehouse")
	}
	return inventory, nil
}

func (s *InventoryService) Update(ctx context.Context, id string, in InventoryInput) (*models.Inventory, error) {
	inventory, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, in); err != nil {
		return nil, err
	}
	inventory.ProductID = in.ProductID
	inventory.WarehouseID = in.WarehouseID
	inventory.Quantity = in.Quantity
	if err := s.inventoryRepo.Update(ctx, inventory); err != nil {
		return nil, notFound(duplicate(err, "inventory for this product and warehouse"), "inventory")
	}
	return inventory, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := s.inventoryRepo.Delete(ctx, id); err != nil {
		return notFound(err, "inventory")
	}
	return nil
}

func (s *InventoryService) check(ctx context.Context, in InventoryInput) error {
	if in.Quantity < 0 {
		return validationError("quantity must not be negative")
	}
	if _, err := s.productRepo.GetByID(ctx, in.ProductID); err != nil {
		return notFound(err, "product")
	}
	if _, err := s.warehouseRepo.GetByID(ctx, in.WarehouseID); err != nil {
		return notFound(err, "warehouse")
	}
	return nil
}
