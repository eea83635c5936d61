package services

import (
	"context"
	"strings"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
)

// CatalogService manages categories and warehouses.
type CatalogService struct {
	categoryRepo  repositories.CatalogRepository[models.Category]
	warehouseRepo repositories.CatalogRepository[models.Warehouse]
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	categoryRepo repositories.CatalogRepository[models.Category],
	warehouseRepo repositories.CatalogRepository[models.Warehouse],
) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, warehouseRepo: warehouseRepo}
}

func (s *CatalogService) ListCategories(ctx context.Context, skip, limit int) ([]models.Category, error) {
	return s.categoryRepo.List(ctx, skip, limit)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{Name: strings.TrimSpace(name)}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, duplicate(err, "category '"+category.Name+"'")
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(name)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, notFound(duplicate(err, "category '"+category.Name+"'"), "category")
	}
	return category, nil
}

// DeleteCategory fails with ErrInUse when the database rejects the delete
// because products still reference the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return notFound(duplicate(err, "category"), "category")
	}
	return nil
}

// WarehouseInput is the data needed to create or replace a warehouse.
type WarehouseInput struct {
	Name    string
	Address string
}

func (s *CatalogService) ListWarehouses(ctx context.Context, skip, limit int) ([]models.Warehouse, error) {
	return s.warehouseRepo.List(ctx, skip, limit)
}

func (s *CatalogService) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "warehouse")
	}
	return warehouse, nil
}

func (s *CatalogService) CreateWarehouse(ctx context.Context, in WarehouseInput) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{Name: strings.TrimSpace(in.Name), Address: in.Address}
	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, duplicate(err, "warehouse")
	}
	return warehouse, nil
}

func (s *CatalogService) UpdateWarehouse(ctx context.Context, id string, in WarehouseInput) (*models.Warehouse, error) {
	warehouse, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	warehouse.Name = strings.TrimSpace(in.Name)
	warehouse.Address = in.Address
	if err := s.warehouseRepo.Update(ctx, warehouse); err != nil {
		return nil, notFound(err, "warehouse")
	}
	return warehouse, nil
}

func (s *CatalogService) DeleteWarehouse(ctx context.Context, id string) error {
	if err := s.warehouseRepo.Delete(ctx, id); err != nil {
		return notFound(duplicate(err, "warehouse"), "warehouse")
	}
	return nil
}
