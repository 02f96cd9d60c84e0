package httputil

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/capstonehub/backend/internal/models"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeMFARequired       = "MFA_REQUIRED"
	CodeForbidden         = "FORBIDDEN"
	CodeAccountDisabled   = "ACCOUNT_DISABLED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeDuplicate         = "DUPLICATE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeLimitReached      = "LIMIT_REACHED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
)

const genericInternalMessage = "An internal error occurred"

var exposeInternalErrors atomic.Bool

// ExposeInternalErrors controls whether 500 responses carry the error text.
// It is enabled outside production.
func ExposeInternalErrors(expose bool) {
	exposeInternalErrors.Store(expose)
}

// errorRecorder is implemented by response writers that want to see the
// error behind a failed response, such as the error logging middleware.
type errorRecorder interface {
	RecordError(err error)
}

// detailer is implemented by errors that carry structured details, such as
// per-field validation failures.
type detailer interface {
	Details() interface{}
}

// classification pairs an HTTP status with an error code.
type classification struct {
	status int
	code   string
}

// errorClasses is checked in order; the first match wins.
var errorClasses = []struct {
	target error
	class  classification
}{
	{models.ErrInvalidInput, classification{http.StatusBadRequest, CodeValidation}},
	{models.ErrMFARequired, classification{http.StatusUnauthorized, CodeMFARequired}},
	{models.ErrUnauthorized, classification{http.StatusUnauthorized, CodeUnauthorized}},
	{models.ErrAccountDisabled, classification{http.StatusForbidden, CodeAccountDisabled}},
	{models.ErrForbidden, classification{http.StatusForbidden, CodeForbidden}},
	{models.ErrNotFound, classification{http.StatusNotFound, CodeNotFound}},
	{models.ErrLimitReached, classification{http.StatusConflict, CodeLimitReached}},
	{models.ErrInvalidTransition, classification{http.StatusConflict, CodeInvalidTransition}},
	{models.ErrDuplicate, classification{http.StatusConflict, CodeDuplicate}},
	{models.ErrConflict, classification{http.StatusConflict, CodeConflict}},
}

// Classify maps an application error to its HTTP status and error code.
func Classify(err error) (int, string) {
	for _, ec := range errorClasses {
		if errors.Is(err, ec.target) {
			return ec.class.status, ec.class.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// CodeForStatus returns the default error code for a bare status.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	}
	return CodeInternal
}

// RespondWithAppError classifies err and writes the matching error reply.
func RespondWithAppError(w http.ResponseWriter, err error) {
	status, code := Classify(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		if rec, ok := w.(errorRecorder); ok {
			rec.RecordError(err)
		}
		if !exposeInternalErrors.Load() {
			message = genericInternalMessage
		}
	}

	resp := ErrorResponse{Error: message, Code: code}
	var d detailer
	if errors.As(err, &d) {
		resp.Details = d.Details()
	}
	RespondWithJSON(w, status, resp)
}
