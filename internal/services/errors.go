package services

import (
	"errors"
	"fmt"

	"artisanconnect/internal/repositories"
)

// Errors returned by services. Handlers map them to HTTP status codes.
var (
	ErrNotFound           = repositories.ErrNotFound
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrAlreadyVerified    = errors.New("payment already verified")
	ErrConflict           = errors.New("conflict")
	ErrUpstream           = errors.New("upstream failure")
	ErrNotConfigured      = errors.New("not configured")
)

// ProductNotFoundError names the product a checkout line referenced that does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product %s not found", e.ProductID)
}

// Unwrap lets errors.Is match ErrNotFound.
func (e *ProductNotFoundError) Unwrap() error { return ErrNotFound }
