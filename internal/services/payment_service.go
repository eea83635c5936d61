package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/pkg/paymentgateway"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PaymentGateway is the external processor. *paymentgateway.StripeGateway
// satisfies it.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req paymentgateway.PaymentIntentRequest) (*paymentgateway.PaymentIntent, error)
	ParseWebhook(payload []byte, signatureHeader string) (*paymentgateway.Event, error)
}

// CreatePaymentInput is a client's request to pay for an order. Amount is
// what the client believes it owes; the stored order total is charged.
type CreatePaymentInput struct {
	OrderID       string
	Amount        decimal.Decimal
	PaymentMethod string
}

// PaymentUpdate is a partial payment update from a client.
type PaymentUpdate struct {
	Status        *models.PaymentStatus
	TransactionID *string
}

// PaymentIntentResult is a stored payment plus the secret the client needs
// to confirm it with the gateway.
type PaymentIntentResult struct {
	models.Payment
	ClientSecret string `json:"client_secret"`
}

// PaymentService coordinates payments with the gateway and reconciles them
// from webhook events.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
	gateway     PaymentGateway
	publisher   EventPublisher
	deduper     EventDeduper
	currency    string
}

// NewPaymentService creates a new PaymentService. publisher and deduper may be nil.
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	orderRepo repositories.OrderRepository,
	gateway PaymentGateway,
	publisher EventPublisher,
	deduper EventDeduper,
	currency string,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		publisher:   publisher,
		deduper:     deduper,
		currency:    strings.ToLower(currency),
	}
}

// CreatePayment opens a payment intent for the stored total of one of the
// user's orders and records a PENDING payment. Nothing is stored when the
// gateway call fails.
func (s *PaymentService) CreatePayment(ctx context.Context, userID string, in CreatePaymentInput) (*PaymentIntentResult, error) {
	order, err := s.orderRepo.GetForUser(ctx, userID, in.OrderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if order.Status != models.OrderStatusPending {
		return nil, validationError("order %s is %s and cannot be paid", order.ID, order.Status)
	}

	if !in.Amount.IsZero() && !in.Amount.Equal(order.TotalAmount) {
		log.Warn().Str("order_id", order.ID).
			Str("client_amount", in.Amount.StringFixed(2)).
			Str("order_total", order.TotalAmount.StringFixed(2)).
			Msg("client payment amount differs from order total, charging order total")
	}

	payment := &models.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Status:        models.PaymentStatusPending,
		PaymentMethod: in.PaymentMethod,
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, paymentgateway.PaymentIntentRequest{
		Amount:        paymentgateway.ToMinorUnits(order.TotalAmount, s.currency),
		Currency:      s.currency,
		PaymentMethod: in.PaymentMethod,
		Metadata: map[string]string{
			"payment_id": payment.ID,
			"order_id":   order.ID,
			"user_id":    userID,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("payment intent creation failed")
		return nil, newError(ErrGateway, "payment gateway rejected the payment")
	}

	payment.TransactionID = intent.ID
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to store payment for intent %s: %w", intent.ID, err)
	}

	log.Info().Str("payment_id", payment.ID).Str("order_id", order.ID).
		Str("transaction_id", intent.ID).Msg("payment intent created")
	return &PaymentIntentResult{Payment: *payment, ClientSecret: intent.ClientSecret}, nil
}

// GetPayment returns a payment of one of the user's orders.
func (s *PaymentService) GetPayment(ctx context.Context, userID, paymentID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, notFound(err, "payment")
	}
	if _, err := s.orderRepo.GetForUser(ctx, userID, payment.OrderID); err != nil {
		return nil, notFound(err, "payment")
	}
	return payment, nil
}

// UpdatePayment applies a client update. Status changes follow the payment
// state machine; COMPLETED can only be set by the gateway.
func (s *PaymentService) UpdatePayment(ctx context.Context, userID, paymentID string, in PaymentUpdate) (*models.Payment, error) {
	payment, err := s.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if in.Status != nil {
		next := *in.Status
		if !next.Valid() {
			return nil, validationError("invalid payment status: %s", next)
		}
		if next == models.PaymentStatusCompleted && payment.Status != models.PaymentStatusCompleted {
			return nil, validationError("payments are completed by the payment gateway only")
		}
		if !payment.Status.CanTransitionTo(next) {
			return nil, validationError("payment cannot move from %s to %s", payment.Status, next)
		}
		if next != payment.Status {
			changes["status"] = next
		}
	}
	if in.TransactionID != nil && *in.TransactionID != payment.TransactionID {
		changes["transaction_id"] = *in.TransactionID
	}
	if len(changes) == 0 {
		return payment, nil
	}

	if err := s.paymentRepo.Update(ctx, paymentID, payment.Status, changes); err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			return nil, validationError("payment %s changed status, reload and retry", paymentID)
		}
		return nil, notFound(err, "payment")
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// HandleWebhook verifies and applies a gateway event. Unknown event types
// are acknowledged without effect. Replays of an event id are skipped, and
// status changes only apply to PENDING payments.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	evt, err := s.gateway.ParseWebhook(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrMalformedPayload) {
			return newError(ErrMalformedEvent, "webhook payload could not be decoded")
		}
		log.Warn().Err(err).Msg("webhook signature verification failed")
		return newError(ErrSignature, "invalid webhook signature")
	}

	logger := log.With().Str("event_id", evt.ID).Str("event_type", evt.Type).Logger()

	var apply func(context.Context, *paymentgateway.Event) error
	switch evt.Type {
	case paymentgateway.EventPaymentSucceeded:
		apply = s.applySucceeded
	case paymentgateway.EventPaymentFailed:
		apply = s.applyFailed
	default:
		logger.Debug().Msg("ignoring webhook event type")
		return nil
	}

	if s.deduper != nil && evt.ID != "" {
		first, err := s.deduper.Claim(ctx, evt.ID)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("webhook dedupe unavailable, relying on conditional update")
		case !first:
			logger.Info().Msg("duplicate webhook delivery skipped")
			return nil
		}
	}

	if err := apply(ctx, evt); err != nil {
		if s.deduper != nil && evt.ID != "" {
			if relErr := s.deduper.Release(ctx, evt.ID); relErr != nil {
				logger.Warn().Err(relErr).Msg("failed to release webhook dedupe claim")
			}
		}
		return err
	}
	return nil
}

func (s *PaymentService) applySucceeded(ctx context.Context, evt *paymentgateway.Event) error {
	paymentID, orderID := evt.Metadata["payment_id"], evt.Metadata["order_id"]
	if paymentID == "" || orderID == "" {
		return newError(ErrMalformedEvent, "event %s is missing payment_id or order_id metadata", evt.ID)
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return notFound(err, "payment")
	}
	if payment.OrderID != orderID {
		return newError(ErrMalformedEvent, "event %s names order %s but payment %s belongs to another order", evt.ID, orderID, paymentID)
	}

	applied, err := s.paymentRepo.MarkCompleted(ctx, paymentID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			log.Warn().Err(err).Str("event_id", evt.ID).Msg("succeeded event for a payment that is no longer pending")
			return nil
		}
		return notFound(err, "order")
	}
	if !applied {
		log.Info().Str("payment_id", paymentID).Msg("payment already completed")
		return nil
	}

	log.Info().Str("payment_id", paymentID).Str("order_id", orderID).Msg("payment completed, order processing")
	publish(ctx, s.publisher, EventPaymentCompleted, map[string]any{
		"payment_id":     paymentID,
		"order_id":       orderID,
		"transaction_id": evt.TransactionID,
		"amount":         payment.Amount.StringFixed(2),
	})
	return nil
}

func (s *PaymentService) applyFailed(ctx context.Context, evt *paymentgateway.Event) error {
	paymentID := evt.Metadata["payment_id"]
	if paymentID == "" {
		return newError(ErrMalformedEvent, "event %s is missing payment_id metadata", evt.ID)
	}

	applied, err := s.paymentRepo.MarkFailed(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			log.Warn().Err(err).Str("event_id", evt.ID).Msg("failed event for a payment that is no longer pending")
			return nil
		}
		return notFound(err, "payment")
	}
	if !applied {
		return nil
	}

	log.Info().Str("payment_id", paymentID).Msg("payment failed")
	publish(ctx, s.publisher, EventPaymentFailed, map[string]any{
		"payment_id":     paymentID,
		"order_id":       evt.Metadata["order_id"],
		"transaction_id": evt.TransactionID,
	})
	return nil
}
