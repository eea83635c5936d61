package handlers

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// BindError is a rejected request body or query. Fields maps each failing
// field to a message.
type BindError struct {
	Message string
	Fields  map[string]string
}

func (e *BindError) Error() string { return e.Message }

// Validator parses request bodies and validates them with struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator with the custom "password" rule.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	return &Validator{validate: v}
}

// StrongPassword reports whether p has at least six characters including
// an upper-case letter, a lower-case letter, a digit and a special character.
func StrongPassword(p string) bool {
	if len(p) < 6 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// Bind parses the JSON body into out and validates it.
func (v *Validator) Bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &BindError{Message: "invalid request body", Fields: map[string]string{"body": err.Error()}}
	}
	return v.Struct(out)
}

// Struct validates out against its tags.
func (v *Validator) Struct(out any) error {
	err := v.validate.Struct(out)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return &BindError{Message: "validation failed", Fields: map[string]string{"body": err.Error()}}
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fieldMessage(e)
	}
	return &BindError{Message: "validation failed", Fields: fields}
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "password":
		return "must be at least 6 characters with upper and lower case letters, a digit and a special character"
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("failed on the '%s=%s' rule", e.Tag(), e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	}
	return fmt.Sprintf("failed on the '%s' tag", e.Tag())
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

// pagination reads skip and limit query parameters.
func pagination(c *fiber.Ctx) (int, int, error) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	fields := map[string]string{}
	if skip < 0 {
		fields["skip"] = "must not be negative"
	}
	if limit < 1 || limit > maxLimit {
		fields["limit"] = fmt.Sprintf("must be between 1 and %d", maxLimit)
	}
	if len(fields) > 0 {
		return 0, 0, &BindError{Message: "invalid pagination", Fields: fields}
	}
	return skip, limit, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &BindError{Message: "invalid query parameter", Fields: map[string]string{key: "must be an integer"}}
	}
	return n, nil
}
