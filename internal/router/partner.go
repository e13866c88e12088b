package router

import (
	"github.com/deppfellow/partners-api/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerPartnerRoutes(r *echo.Echo, h *handler.Handlers) {
	partners := r.Group("/partners")
	partners.GET("", h.Partners.List())
	partners.POST("", h.Partners.Create())
}
