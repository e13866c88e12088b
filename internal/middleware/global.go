package middleware

import (
	"net/http"

	"github.com/deppfellow/partners-api/internal/errs"
	"github.com/deppfellow/partners-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares bundles the middleware applied to every route and
// the global error handler. They read CORS origins and the environment
// from the server config.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" line per request, at error level for
// 5xx, warn for 4xx and info otherwise.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The error handler has not written the response yet when a
			// handler returns an error, so v.Status would still read 200.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = statusFromError(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// statusFromError returns the status the error handler will answer err with.
func statusFromError(err error) int {
	var respErr *errs.ResponseError
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &respErr):
		return respErr.Status
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// GlobalErrorHandler turns every error returned by a handler or
// middleware into a response.
//
// A *errs.ResponseError is written verbatim. Everything else ends up in
// the errs.HTTPError shape: echo errors keep their status (route 404s
// get our own not found body) and anything unrecognized is a generic 500.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	logger := *GetLogger(c)

	var respErr *errs.ResponseError
	if errors.As(err, &respErr) {
		logger.Error().Stack().
			Err(err).
			Int("status", respErr.Status).
			Msg("request failed")

		if c.Response().Committed {
			return
		}
		if respErr.JSON != nil {
			_ = c.JSON(respErr.Status, respErr.JSON)
			return
		}
		_ = c.String(respErr.Status, respErr.Text)
		return
	}

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError
	var resp *errs.HTTPError

	switch {
	case errors.As(err, &httpErr):
		resp = httpErr

	case errors.As(err, &echoErr):
		if echoErr.Code == http.StatusNotFound {
			resp = errs.NewNotFoundError("Route not found")
			break
		}

		message, ok := echoErr.Message.(string)
		if !ok {
			message = http.StatusText(echoErr.Code)
		}
		resp = &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
		}

	default:
		resp = errs.NewInternalServerError()
	}

	event := logger.Error()
	if resp.Status < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.Stack().
		Err(err).
		Int("status", resp.Status).
		Str("error_code", resp.Code).
		Msg(resp.Message)

	if !c.Response().Committed {
		_ = c.JSON(resp.Status, resp)
	}
}
