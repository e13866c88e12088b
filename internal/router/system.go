package router

import (
	"github.com/deppfellow/partners-api/internal/handler"
	"github.com/deppfellow/partners-api/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the
// partner API itself.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/", h.Health.Alive)
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	r.GET("/docs/openapi.json", h.OpenAPI.ServeOpenAPIDocument)
}
