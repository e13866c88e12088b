package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/partners-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestRequestID(t *testing.T) {
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		c, rec := newContext()
		assert.NoError(t, handler(c))
		assert.Len(t, rec.Body.String(), 36)
		assert.Equal(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		c, rec := newContext()
		c.Request().Header.Set(RequestIDHeader, "abc-123")
		assert.NoError(t, handler(c))
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("oversized is replaced", func(t *testing.T) {
		c, rec := newContext()
		c.Request().Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		assert.NoError(t, handler(c))
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestGlobalErrorHandler(t *testing.T) {
	global := &GlobalMiddlewares{}

	tests := []struct {
		name        string
		err         error
		status      int
		contentType string
		body        string
	}{
		{
			name:        "json response error",
			err:         errors.Wrap(errs.NewJSONResponseError(http.StatusInternalServerError, map[string]string{"error": "nope"}, errors.New("cause")), "create"),
			status:      http.StatusInternalServerError,
			contentType: echo.MIMEApplicationJSON,
			body:        `{"error":"nope"}`,
		},
		{
			name:        "text response error",
			err:         errs.NewTextResponseError(http.StatusInternalServerError, "Server error", errors.New("cause")),
			status:      http.StatusInternalServerError,
			contentType: echo.MIMETextPlain,
			body:        "Server error",
		},
		{
			name:        "route not found",
			err:         echo.ErrNotFound,
			status:      http.StatusNotFound,
			contentType: echo.MIMEApplicationJSON,
			body:        `"message":"Route not found"`,
		},
		{
			name:        "method not allowed keeps echo status",
			err:         echo.ErrMethodNotAllowed,
			status:      http.StatusMethodNotAllowed,
			contentType: echo.MIMEApplicationJSON,
			body:        `"code":"METHOD_NOT_ALLOWED"`,
		},
		{
			name:        "unknown error",
			err:         errors.New("boom"),
			status:      http.StatusInternalServerError,
			contentType: echo.MIMEApplicationJSON,
			body:        `"message":"Internal Server Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext()

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), tt.contentType))
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.NotContains(t, rec.Body.String(), "cause")
		})
	}
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusTeapot, statusFromError(errs.NewTextResponseError(http.StatusTeapot, "", nil)))
	assert.Equal(t, http.StatusBadRequest, statusFromError(errs.NewBadRequestError("bad")))
	assert.Equal(t, http.StatusNotFound, statusFromError(echo.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("boom")))
}

func TestGetLogger_WithoutEnhancer(t *testing.T) {
	c, _ := newContext()
	assert.NotNil(t, GetLogger(c))
}
