package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokoshop/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	// Update applies the given column changes and stamps updated_at, provided
	// the payment is still in the expected status. A payment that moved on
	// in the meantime yields ErrStatusConflict.
	Update(ctx context.Context, id string, expected models.PaymentStatus, changes map[string]any) error
	// MarkCompleted moves a PENDING payment to COMPLETED and its order to
	// PROCESSING in one transaction. It reports false when the payment was
	// already COMPLETED, and ErrStatusConflict for any other status.
	MarkCompleted(ctx context.Context, paymentID, orderID string) (bool, error)
	// MarkFailed moves a PENDING payment to FAILED. It reports false when
	// the payment was already FAILED, and ErrStatusConflict otherwise.
	MarkFailed(ctx context.Context, paymentID string) (bool, error)
}

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

func (r *GORMPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", translate(err))
	}
	return nil
}

func (r *GORMPaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return getPayment(r.db.WithContext(ctx), id)
}

func getPayment(tx *gorm.DB, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := tx.First(&payment, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get payment by ID %s: %w", id, translate(err))
	}
	return &payment, nil
}

func (r *GORMPaymentRepository) Update(ctx context.Context, id string, expected models.PaymentStatus, changes map[string]any) error {
	updates := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()

	db := r.db.WithContext(ctx)
	res := db.Model(&models.Payment{}).Where("id = ? AND status = ?", id, expected).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	current, err := getPayment(db, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("payment %s is %s, expected %s: %w", id, current.Status, expected, ErrStatusConflict)
}

// transition moves the payment from PENDING to next only if it is still
// PENDING. On a miss it inspects the current row to tell a replay from a
// conflict.
func transition(tx *gorm.DB, paymentID string, next models.PaymentStatus) (bool, error) {
	res := tx.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
		Updates(map[string]any{"status": next, "updated_at": time.Now()})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update payment %s: %w", paymentID, res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	current, err := getPayment(tx, paymentID)
	if err != nil {
		return false, err
	}
	if current.Status == next {
		return false, nil
	}
	return false, fmt.Errorf("payment %s is %s, cannot become %s: %w",
		paymentID, current.Status, next, ErrStatusConflict)
}

func (r *GORMPaymentRepository) MarkCompleted(ctx context.Context, paymentID, orderID string) (bool, error) {
	var applied bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		applied, err = transition(tx, paymentID, models.PaymentStatusCompleted)
		if err != nil || !applied {
			return err
		}
		return updateOrderStatus(tx, orderID, models.OrderStatusProcessing)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStatusConflict) {
			return false, err
		}
		return false, fmt.Errorf("failed to complete payment %s: %w", paymentID, err)
	}
	return applied, nil
}

func (r *GORMPaymentRepository) MarkFailed(ctx context.Context, paymentID string) (bool, error) {
	return transition(r.db.WithContext(ctx), paymentID, models.PaymentStatusFailed)
}
