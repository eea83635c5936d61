package services

import (
	"context"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
)

// ReviewInput is the data needed to create a review.
type ReviewInput struct {
	ProductID     string
	Rating        int
	ReviewMessage string
}

// ReviewUpdate is a partial review update.
type ReviewUpdate struct {
	Rating        *int
	ReviewMessage *string
}

// ReviewService manages product reviews. Only the reviewer may change or
// remove a review.
type ReviewService struct {
	reviewRepo  repositories.CatalogRepository[models.Review]
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.CatalogRepository[models.Review], productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

func (s *ReviewService) List(ctx context.Context, skip, limit int) ([]models.Review, error) {
	return s.reviewRepo.List(ctx, skip, limit)
}

func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "review")
	}
	return review, nil
}

func (s *ReviewService) Create(ctx context.Context, reviewerID string, in ReviewInput) (*models.Review, error) {
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.GetByID(ctx, in.ProductID); err != nil {
		return nil, notFound(err, "product")
	}
	review := &models.Review{
		ProductID:     in.ProductID,
		ReviewerID:    reviewerID,
		Rating:        in.Rating,
		ReviewMessage: in.ReviewMessage,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, duplicate(err, "review")
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, reviewerID, id string, in ReviewUpdate) (*models.Review, error) {
	review, err := s.owned(ctx, reviewerID, id)
	if err != nil {
		return nil, err
	}
	if in.Rating != nil {
		if err := checkRating(*in.Rating); err != nil {
			return nil, err
		}
		review.Rating = *in.Rating
	}
	if in.ReviewMessage != nil {
		review.ReviewMessage = *in.ReviewMessage
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, notFound(err, "review")
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, reviewerID, id string) error {
	if _, err := s.owned(ctx, reviewerID, id); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return notFound(err, "review")
	}
	return nil
}

// owned hides other users' reviews behind not found.
func (s *ReviewService) owned(ctx context.Context, reviewerID, id string) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, newError(ErrNotFound, "review not found")
	}
	return review, nil
}

func checkRating(rating int) error {
	if rating < 1 || rating > 5 {
		return validationError("rating must be between 1 and 5")
	}
	return nil
}
