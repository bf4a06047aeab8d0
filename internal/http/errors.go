package http

import (
	"net/http"

	"github.com/meishilabs/meishi/pkg/httpx"
)

// ErrorResponse is the JSON error envelope every endpoint uses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type apiError struct {
	status  int
	code    string
	message string
}

func (e apiError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.status, ErrorResponse{Error: e.code, Message: e.message})
}

// Verification failures all map to errUnauthorized. The response never says
// whether the token, the fingerprint, or neither was at fault.
var (
	errUnauthorized = apiError{http.StatusUnauthorized, "unauthorized", "invalid or missing credentials"}

	errInvalidBody        = apiError{http.StatusBadRequest, "invalid_request", "malformed request body"}
	errInvalidCredentials = apiError{http.StatusUnauthorized, "invalid_credentials", "username or password is incorrect"}
	// 400 rather than 409: the deployed web client treats a taken username
	// as a bad request, matching the backend it was built against.
	errUsernameTaken      = apiError{http.StatusBadRequest, "username_taken", "username already taken"}
	errNotFound           = apiError{http.StatusNotFound, "not_found", "resource not found"}
	errServerError        = apiError{http.StatusInternalServerError, "server_error", "internal server error"}
)

func validationError(msg string) apiError {
	return apiError{http.StatusBadRequest, "validation_failed", msg}
}
