// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error type every API failure is converted to before it
reaches respond.Error.

Each code maps to exactly one HTTP status (see [StatusOf]). The four gateway
codes let a client tell "log in again" (NO_TOKEN, TOKEN_EXPIRED,
TOKEN_REVOKED) apart from a tampered token (TOKEN_INVALID).
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeNoToken            = "NO_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeNotFound:           http.StatusNotFound,
	CodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	CodeNoToken:            http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeTokenInvalid:       http.StatusUnauthorized,
	CodeTokenRevoked:       http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeConflict:           http.StatusConflict,
	CodeValidation:         http.StatusBadRequest,
	CodeInternal:           http.StatusInternalServerError,
}

// StatusOf returns the HTTP status for code; unknown codes are 500.
func StatusOf(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AppError carries a client-safe message and code. Cause is logged
// server-side and never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// New builds an [AppError] whose status follows code.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: StatusOf(code)}
}

// # Constructors

// NotFound reports a missing resource, e.g. NotFound("User") → "User not found".
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

func RouteNotFound() *AppError {
	return New(CodeNotFound, "Route not found")
}

func MethodNotAllowed() *AppError {
	return New(CodeMethodNotAllowed, "Method not allowed")
}

// Gateway refusals.

func NoToken() *AppError {
	return New(CodeNoToken, "Not authorized, no token provided")
}

func TokenExpired() *AppError {
	return New(CodeTokenExpired, "Not authorized, token expired")
}

func TokenInvalid() *AppError {
	return New(CodeTokenInvalid, "Not authorized, invalid token")
}

func TokenRevoked() *AppError {
	return New(CodeTokenRevoked, "Not authorized, token revoked")
}

// InvalidCredentials covers both an unknown email and a wrong password.
func InvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "Invalid email or password")
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

// ValidationError lists every failed field rule.
func ValidationError(message string, details ...FieldError) *AppError {
	appError := New(CodeValidation, message)
	appError.Details = details
	return appError
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	appError := New(CodeInternal, "Server error")
	appError.Cause = cause
	return appError
}

// # Inspection

// IsAppError reports whether err's chain holds an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// HasCode reports whether err's chain holds an [*AppError] with code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}
