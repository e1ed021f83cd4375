package handler

import (
	"errors"
	"strconv"

	"tindahan-pos/internal/service"
	"tindahan-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateSku),
		errors.Is(err, service.ErrSupplierInUse),
		errors.Is(err, service.ErrUsernameExists):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrWrongPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrSessionReplaced),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse writes {"error": ...}; internal errors get a generic message
func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	body := fiber.Map{"error": err.Error()}
	if status == fiber.StatusInternalServerError {
		body["error"] = "Internal Server Error"
	}

	var shortage *service.InsufficientStockError
	if errors.As(err, &shortage) {
		body["product_id"] = shortage.ProductID
		body["requested"] = shortage.Requested
		body["available"] = shortage.Available
	}
	return c.Status(status).JSON(body)
}

// currentUserID reads the user id set by RequireAuth
func currentUserID(c *fiber.Ctx) *uint {
	id, ok := c.Locals("user_id").(uint)
	if !ok {
		return nil
	}
	return &id
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
