package errs

import "strings"

// HTTPError is the default error shape of the API.
//
//	{ "code": "NOT_FOUND", "message": "Route not found", "status": 404 }
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// ResponseError is written to the client exactly as given, bypassing the
// HTTPError shape. The partner endpoints answer failures with a fixed
// body that existing clients depend on.
//
// Cause is kept for logs only and never leaves the process.
type ResponseError struct {
	Status int
	// JSON is encoded when non-nil, otherwise Text is written as text/plain.
	JSON  any
	Text  string
	Cause error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Text != "" {
		return e.Text
	}
	return "response error"
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}
