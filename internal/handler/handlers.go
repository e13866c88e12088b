package handler

import (
	"github.com/deppfellow/partners-api/internal/server"
	"github.com/deppfellow/partners-api/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Partners *PartnerHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s, s.DB.Pool),
		OpenAPI:  NewOpenAPIHandler(s),
		Partners: NewPartnerHandler(s, services.Partners),
	}
}
