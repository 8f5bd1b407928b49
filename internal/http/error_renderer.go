package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

// statusForError maps a service error to the HTTP status the API contract
// promises. Unknown errors collapse to 500 so internals never leak a status
// the client would act on.
func statusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnavailable, apperrors.ErrCodePaymentFailed:
		// Submission fails synchronously when the payment service can't
		// register the request; the client should retry later.
		return http.StatusBadGateway
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusInternalServerError
	}
}

// RenderError writes the JSON error response for a service error, including
// the stable error code clients can branch on.
func RenderError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	code := string(apperrors.GetCode(err))
	if code == "" {
		code = string(apperrors.ErrCodeInternal)
	}
	if status == http.StatusInternalServerError {
		// Don't echo internal error details to the client.
		WriteError(w, ErrorParams{
			Code:    status,
			ErrCode: code,
			Err:     errors.New("internal server error"),
		})
		return
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: code, Err: err})
}
