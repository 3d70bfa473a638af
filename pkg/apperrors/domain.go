package apperrors

import (
	"net/http"
)

// Factories and predefined variables for the marketplace domain.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and
// friends) into a 404. Also used when a proposal exists but is not owned
// by the caller: both cases answer the same, existence is not revealed.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus rejects a malformed decision status before any
// database access.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrStatusAlreadyDecided reports a lost decision race: the proposal was
// concurrently decided, or another proposal of the same project already
// holds accepted.
func ErrStatusAlreadyDecided(err error) *AppError {
	return Wrap(err, CodeStatusAlreadyDecided, "proposal", "Proposal already decided", http.StatusConflict)
}

// ErrUnauthenticated marks a stale session: the acting principal could
// not be resolved to an existing user.
func ErrUnauthenticated() *AppError {
	return New(CodeUnauthenticated, "auth", "User no longer exists", http.StatusUnauthorized)
}

var ErrProjectClosed = New(
	CodeConflict,
	"project",
	"Project is closed for proposals",
	http.StatusConflict,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidUserRole = New(
	CodeForbidden,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusForbidden,
)
