package handlers

import (
	"strings"

	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *Validator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *Validator) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate}
}

// RegisterRoutes registers the authentication routes. They are public.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/signin", h.HandleSignin)
	authRoutes.Post("/refresh-token", h.HandleRefresh)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
	FirstName string `json:"first_name" validate:"max=26"`
	LastName  string `json:"last_name" validate:"max=26"`
}

// HandleSignup registers a new user.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Signup(c.UserContext(), services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "user registered successfully", user)
}

// SigninRequest represents the request body for signin.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleSignin checks credentials and issues an access/refresh pair.
func (h *AuthHandler) HandleSignin(c *fiber.Ctx) error {
	var req SigninRequest
	if err := h.validate.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	tokens, err := h.authService.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "login successful", tokens)
}

// HandleRefresh exchanges the bearer refresh token for a new pair.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return respondFailure(c, fiber.StatusUnauthorized, "missing or malformed authorization header", nil)
	}

	tokens, err := h.authService.Refresh(c.UserContext(), strings.TrimSpace(token))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "token refreshed", tokens)
}
