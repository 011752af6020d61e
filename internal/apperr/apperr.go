// Package apperr holds the error kinds shared by repositories, services and
// the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthenticated    = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// Error pairs a kind with the message shown to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, msg string) error { return &Error{Kind: kind, Message: msg} }

func Validation(msg string) error { return New(ErrValidation, msg) }

type kindInfo struct {
	status int
	code   string
	msg    string
}

var kinds = []struct {
	err error
	kindInfo
}{
	{ErrValidation, kindInfo{http.StatusBadRequest, "validation_error", "Invalid request"}},
	{ErrUnauthenticated, kindInfo{http.StatusUnauthorized, "unauthorized", "Unauthorized"}},
	{ErrInvalidCredentials, kindInfo{http.StatusUnauthorized, "invalid_credentials", "Invalid credentials"}},
	{ErrForbidden, kindInfo{http.StatusForbidden, "forbidden", "Forbidden - Admin only"}},
	{ErrNotFound, kindInfo{http.StatusNotFound, "not_found", "Not found"}},
	{ErrConflict, kindInfo{http.StatusConflict, "conflict", "Already exists"}},
	{ErrInsufficientStock, kindInfo{http.StatusBadRequest, "insufficient_stock", "Insufficient stock"}},
}

// Describe maps err to an HTTP status, a machine code and a client message.
// ok is false for errors outside the taxonomy, which callers treat as 500.
func Describe(err error) (status int, code, msg string, ok bool) {
	for _, k := range kinds {
		if !errors.Is(err, k.err) {
			continue
		}
		msg = k.msg
		var e *Error
		if errors.As(err, &e) && e.Message != "" {
			msg = e.Message
		}
		return k.status, k.code, msg, true
	}
	return http.StatusInternalServerError, "internal_error", "Internal server error", false
}
