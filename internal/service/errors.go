package service

import (
	"errors"
	"fmt"
	"strings"

	"tindahan-pos/internal/ws"
	"tindahan-pos/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateName      = errors.New("product name already exists")
	ErrDuplicateSku       = errors.New("SKU already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrSupplierInUse      = errors.New("supplier is still referenced by products")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

// InsufficientStockError names the cart line that could not be covered
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// EventPublisher receives ledger events after a transaction commits
type EventPublisher interface {
	Publish(event ws.Event)
}

func publish(p EventPublisher, event ws.Event) {
	if p != nil {
		p.Publish(event)
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(what string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
}

// validationError folds validator output into ErrInvalidInput
func validationError(data interface{}) error {
	errs := validator.ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = fmt.Sprintf("%s (%s)", e.FailedField, e.Tag)
	}
	return invalid("validation failed on %s", strings.Join(fields, ", "))
}

// notFoundOr maps gorm's missing-row error, leaving other errors untouched
func notFoundOr(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what, id)
	}
	return err
}
