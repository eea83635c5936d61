package services

import (
	"context"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
)

// ProductImageInput is the data needed to create or replace an image.
type ProductImageInput struct {
	ProductID    string
	Image        string
	PrimaryImage bool
}

// productEvicter is implemented by product repositories that cache.
type productEvicter interface {
	Evict(ctx context.Context, id string)
}

// ProductImageService manages images attached to products.
type ProductImageService struct {
	imageRepo   repositories.CatalogRepository[models.ProductImage]
	productRepo repositories.ProductRepository
}

// NewProductImageService creates a new ProductImageService.
func NewProductImageService(imageRepo repositories.CatalogRepository[models.ProductImage], productRepo repositories.ProductRepository) *ProductImageService {
	return &ProductImageService{imageRepo: imageRepo, productRepo: productRepo}
}

func (s *ProductImageService) List(ctx context.Context, skip, limit int) ([]models.ProductImage, error) {
	return s.imageRepo.List(ctx, skip, limit)
}

func (s *ProductImageService) Get(ctx context.Context, id string) (*models.ProductImage, error) {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product image")
	}
	return image, nil
}

func (s *ProductImageService) Create(ctx context.Context, in ProductImageInput) (*models.ProductImage, error) {
	if err := s.checkProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	image := &models.ProductImage{ProductID: in.ProductID, Image: in.Image, PrimaryImage: in.PrimaryImage}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return nil, duplicate(err, "product image")
	}
	s.evict(ctx, image.ProductID)
	return image, nil
}

func (s *ProductImageService) Update(ctx context.Context, id string, in ProductImageInput) (*models.ProductImage, error) {
	image, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	previousProduct := image.ProductID
	image.ProductID = in.ProductID
	image.Image = in.Image
	image.PrimaryImage = in.PrimaryImage
	if err := s.imageRepo.Update(ctx, image); err != nil {
		return nil, notFound(err, "product image")
	}
	s.evict(ctx, previousProduct)
	s.evict(ctx, image.ProductID)
	return image, nil
}

func (s *ProductImageService) Delete(ctx context.Context, id string) error {
	image, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.imageRepo.Delete(ctx, id); err != nil {
		return notFound(err, "product image")
	}
	s.evict(ctx, image.ProductID)
	return nil
}

func (s *ProductImageService) checkProduct(ctx context.Context, productID string) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return notFound(err, "product")
	}
	return nil
}

// Cached products embed their images.
func (s *ProductImageService) evict(ctx context.Context, productID string) {
	if e, ok := s.productRepo.(productEvicter); ok {
		e.Evict(ctx, productID)
	}
}
