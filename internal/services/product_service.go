package services

import (
	"context"
	"strings"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"

	"github.com/shopspring/decimal"
)

// ProductInput is the data needed to create a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uint
}

// ProductUpdate is a partial product update. Nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *uint
}

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CatalogRepository[models.Category]
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CatalogRepository[models.Category]) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// ListProducts returns a page of products.
func (s *ProductService) ListProducts(ctx context.Context, skip, limit int) ([]models.Product, error) {
	return s.productRepo.List(ctx, skip, limit)
}

// SearchProducts returns products whose name contains name, ignoring case.
func (s *ProductService) SearchProducts(ctx context.Context, name string, skip, limit int) ([]models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("search name must not be empty")
	}
	return s.productRepo.SearchByName(ctx, name, skip, limit)
}

// GetProductByID retrieves a single product.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return product, nil
}

// CreateProduct stores a new product after checking its category.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if !in.Price.IsPositive() {
		return nil, validationError("price must be greater than zero")
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, duplicate(err, "product '"+product.Name+"'")
	}
	return s.GetProductByID(ctx, product.ID)
}

// CreateProducts stores a batch of products in one transaction. Every input
// is checked before anything is written, and names must be unique within
// the batch.
func (s *ProductService) CreateProducts(ctx context.Context, in []ProductInput) ([]models.Product, error) {
	if len(in) == 0 {
		return nil, validationError("at least one product is required")
	}

	categories := make(map[uint]*models.Category)
	names := make(map[string]bool, len(in))
	products := make([]*models.Product, 0, len(in))
	for i, p := range in {
		name := strings.TrimSpace(p.Name)
		if !p.Price.IsPositive() {
			return nil, validationError("product %d: price must be greater than zero", i)
		}
		if names[name] {
			return nil, newError(ErrDuplicate, "product '%s' appears more than once", name)
		}
		names[name] = true

		category, ok := categories[p.CategoryID]
		if !ok {
			var err error
			if category, err = s.categoryRepo.GetByID(ctx, p.CategoryID); err != nil {
				return nil, notFound(err, "category")
			}
			categories[p.CategoryID] = category
		}
		products = append(products, &models.Product{
			Name:        name,
			Description: p.Description,
			Price:       p.Price,
			CategoryID:  p.CategoryID,
			Category:    category,
		})
	}

	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return nil, duplicate(err, "product")
	}
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = *p
	}
	return out, nil
}

// UpdateProduct applies a partial update to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in ProductUpdate) (*models.Product, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, validationError("price must be greater than zero")
		}
		product.Price = *in.Price
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, notFound(duplicate(err, "product '"+product.Name+"'"), "product")
	}
	return s.GetProductByID(ctx, id)
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return notFound(duplicate(err, "product"), "product")
	}
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return notFound(err, "category")
	}
	return nil
}
