package errs

import (
	"net/http"
)

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
func NewBadRequestError(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message)
}

// NewInternalServerError creates a 500 with the generic status text as
// message; the real error is only ever logged.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// NewJSONResponseError answers with status and body encoded as JSON.
func NewJSONResponseError(status int, body any, cause error) *ResponseError {
	return &ResponseError{Status: status, JSON: body, Cause: cause}
}

// NewTextResponseError answers with status and a text/plain body.
func NewTextResponseError(status int, text string, cause error) *ResponseError {
	return &ResponseError{Status: status, Text: text, Cause: cause}
}
