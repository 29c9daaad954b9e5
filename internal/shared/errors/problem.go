// Package errors renders RFC 7807 Problem Details for the HTTP API.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem type URI references.
const (
	TypeBadRequest        = "/problems/bad-request"
	TypeValidation        = "/problems/validation-error"
	TypeNotFound          = "/problems/not-found"
	TypeConflict          = "/problems/conflict"
	TypeInsufficientStock = "/problems/insufficient-stock"
	TypeInvalidOrderState = "/problems/invalid-order-state"
	TypeUnprocessable     = "/problems/unprocessable-entity"
	TypeInternal          = "/problems/internal-error"
)

var (
	ErrBadRequest = ProblemDetail{Type: TypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest}
	ErrValidation = ProblemDetail{Type: TypeValidation, Title: "Validation Error", Status: http.StatusBadRequest}
	ErrNotFound   = ProblemDetail{Type: TypeNotFound, Title: "Resource Not Found", Status: http.StatusNotFound}
	ErrConflict   = ProblemDetail{Type: TypeConflict, Title: "Conflict", Status: http.StatusConflict}

	// ErrInsufficientStock is returned when an order asks for more than an item holds.
	ErrInsufficientStock = ProblemDetail{Type: TypeInsufficientStock, Title: "Insufficient Stock", Status: http.StatusConflict}

	// ErrInvalidOrderState is returned when an order cannot make the requested transition.
	ErrInvalidOrderState = ProblemDetail{Type: TypeInvalidOrderState, Title: "Invalid Order State", Status: http.StatusConflict}

	ErrUnprocessable = ProblemDetail{Type: TypeUnprocessable, Title: "Unprocessable Entity", Status: http.StatusUnprocessableEntity}
	ErrInternal      = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}
)

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}
