package response

import (
	"errors"
	"net/http"

	"github.com/yourname/exercisetracker/internal"
)

const defaultMessage = "Internal Server Error"

// Status maps an error to the status code and plain-text message sent to the client.
// Validation errors report their first field; other errors fall back to 500.
func Status(err error) (int, string) {
	var verr *internal.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error()
	}

	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		status, msg := appErr.Status, appErr.Message
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if msg == "" {
			msg = defaultMessage
		}
		return status, msg
	}

	return http.StatusInternalServerError, defaultMessage
}

func BadRequest(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusBadRequest, msg)
}
