package handlers

import (
	"tokoshop/internal/middleware"
	"tokoshop/internal/models"
	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// signatureHeader carries the gateway's webhook signature.
const signatureHeader = "Stripe-Signature"

// PaymentHandler handles payment requests and gateway webhooks.
type PaymentHandler struct {
	service  *services.PaymentService
	validate *Validator
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, validate *Validator) *PaymentHandler {
	return &PaymentHandler{service: service, validate: validate}
}

// RegisterRoutes registers the authenticated payment routes.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/", h.HandleCreatePayment)
	paymentRoutes.Get("/:id", h.HandleGetPayment)
	paymentRoutes.Put("/:id", h.HandleUpdatePayment)
}

// RegisterWebhook registers the public webhook route.
func (h *PaymentHandler) RegisterWebhook(router fiber.Router) {
	router.Post("/webhook", h.HandleWebhook)
}

// CreatePaymentRequest represents the request body for paying an order.
type CreatePaymentRequest struct {
	OrderID       string          `json:"order_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=50"`
}

// UpdatePaymentRequest represents a partial payment update.
type UpdatePaymentRequest struct {
	Status        *models.PaymentStatus `json:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	TransactionID *string               `json:"transaction_id" validate:"omitempty,max=255"`
}

// HandleCreatePayment opens a payment intent for one of the user's orders.
func (h *PaymentHandler) HandleCreatePayment(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.Amount.IsNegative() {
		return respondError(c, &BindError{Message: "validation failed", Fields: map[string]string{"amount": "must not be negative"}})
	}
	result, err := h.service.CreatePayment(c.UserContext(), middleware.UserID(c), services.CreatePaymentInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "payment created", result)
}

func (h *PaymentHandler) HandleGetPayment(c *fiber.Ctx) error {
	payment, err := h.service.GetPayment(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "", payment)
}

func (h *PaymentHandler) HandleUpdatePayment(c *fiber.Ctx) error {
	var req UpdatePaymentRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}
	payment, err := h.service.UpdatePayment(c.UserContext(), middleware.UserID(c), c.Params("id"), services.PaymentUpdate(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "payment updated", payment)
}

// HandleWebhook verifies and applies a gateway event. The raw body is
// needed for signature verification.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	if err := h.service.HandleWebhook(c.UserContext(), c.Body(), c.Get(signatureHeader)); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "webhook processed", nil)
}
