package middleware

import (
	"net/http"

	apperrors "buffet/pkg/errors"
	httputil "buffet/pkg/http"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:            apperrors.CodeInvalidInput,
	http.StatusUnauthorized:          apperrors.CodeUnauthorized,
	http.StatusForbidden:             apperrors.CodeForbidden,
	http.StatusRequestEntityTooLarge: apperrors.CodeInvalidInput,
	http.StatusUnsupportedMediaType:  apperrors.CodeInvalidInput,
	http.StatusTooManyRequests:       "RATE_LIMITED",
	http.StatusServiceUnavailable:    apperrors.CodeTimeout,
}

// writeJSONError answers with the same body shape the handlers use.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	code, ok := statusCodes[status]
	if !ok {
		code = apperrors.CodeInternal
	}
	_ = httputil.WriteError(w, apperrors.New(code, message, status))
}
