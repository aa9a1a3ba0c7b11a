package domain

import (
	"errors"
)

const (
	RoleAdmin      = "admin"
	RoleAuthorized = "authorized"
	RoleGuest      = "guest"
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageInternalServerError  = "internal server error"

	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	ErrParseUUID      = NewError(ErrBadRequest, "failed to parse UUID")
	ErrUserNotAllowed = NewError(ErrForbidden, "user not allowed")
	ErrTokenNotFound  = NewError(ErrUnauthorized, "failed to token not found")
	ErrTokenInvalid   = NewError(ErrUnauthorized, "token invalid")
	ErrTokenExpired   = NewError(ErrUnauthorized, "token expired")
	ErrTokenRevoked   = NewError(ErrUnauthorized, "token revoked")
)

// Error is a client-facing error whose kind is one of the Err* sentinels
// above, so callers classify it with errors.Is.
type Error struct {
	kind    error
	message string
}

func NewError(kind error, message string) error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.kind
}

func IsAdmin(role string) bool {
	return role == RoleAdmin
}

func IsAuthorized(role string) bool {
	return role == RoleAuthorized
}

func IsGuest(role string) bool {
	return role == RoleGuest
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAuthorized, RoleGuest:
		return true
	}
	return false
}

type PaginationRequest struct {
	Page  int
	Limit int
}

func (p PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPaginationResponse(p PaginationRequest, total int64) PaginationResponse {
	return PaginationResponse{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + int64(p.Limit) - 1) / int64(p.Limit),
	}
}

// Page is the body of every paginated list response.
type Page[T any] struct {
	Results    []T                `json:"results"`
	Pagination PaginationResponse `json:"pagination"`
}
