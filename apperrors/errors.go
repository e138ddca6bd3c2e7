package apperrors

import (
	"net/http"
)

// Error is an application error carrying the HTTP status the handlers
// should respond with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	// ErrQuotaExceeded rejects a capture once the device has used up its
	// per-event allowance. Not an error state, surfaced as a transient notice.
	ErrQuotaExceeded = New("photo quota exceeded for this device", http.StatusTooManyRequests)

	// ErrDuplicateConflict signals the photo record already exists for the
	// same upload attempt. Callers treat it as success.
	ErrDuplicateConflict = New("photo already uploaded", http.StatusConflict)

	// ErrDeleteForbidden means the caller's device does not own the photo.
	ErrDeleteForbidden = New("photo belongs to another device", http.StatusForbidden)

	// ErrDeleteFailed means the record removal failed server-side; the photo
	// remains visible.
	ErrDeleteFailed = New("could not delete photo", http.StatusBadGateway)

	// ErrPermissionDenied means the capture device refused access.
	ErrPermissionDenied = New("camera unavailable", http.StatusForbidden)

	ErrNotFound     = New("not found", http.StatusNotFound)
	ErrUnauthorized = New("unauthorized", http.StatusUnauthorized)
)

// Status extracts the HTTP status from err, defaulting to 500.
func Status(err error) int {
	if appErr, ok := err.(*Error); ok {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
