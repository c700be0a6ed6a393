// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors shared by the services. Handlers map these to HTTP
// statuses in one place instead of matching message strings.
var (
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrEmailTaken        = errors.New("email already in use")
)

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

// InsufficientStockError reports which product failed the stock check and
// by how much.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (%s): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}
