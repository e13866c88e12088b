package validation

import (
	"encoding/json"
	"errors"

	"github.com/deppfellow/partners-api/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads that know how to
// validate themselves.
type Validatable interface {
	Validate() error
}

// TypeErrorHandler is implemented by payloads that answer well-formed
// JSON carrying a wrongly typed value themselves instead of with a 400.
type TypeErrorHandler interface {
	HandleTypeError(err error) error
}

// BindAndValidate decodes the request into payload (a pointer) and then
// runs payload.Validate.
//
// Malformed bodies are a 400 *errs.HTTPError. Type errors go to the
// payload's HandleTypeError when it has one. A Validate error that is
// already an *errs.ResponseError is returned unchanged so the payload
// decides the response; any other Validate error is a 400.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if h, ok := payload.(TypeErrorHandler); ok && errors.As(err, &typeErr) {
			return h.HandleTypeError(err)
		}
		return errs.NewBadRequestError(bindErrorMessage(err))
	}

	if err := payload.Validate(); err != nil {
		var respErr *errs.ResponseError
		if errors.As(err, &respErr) {
			return err
		}
		return errs.NewBadRequestError(err.Error())
	}

	return nil
}

// bindErrorMessage pulls the client-facing part out of echo's binder
// error, whose Message is a string for syntax and type errors.
func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request body"
}
