package service

import (
	"github.com/deppfellow/partners-api/internal/repository"
	"github.com/deppfellow/partners-api/internal/server"
)

type Services struct {
	Partners *PartnerService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Partners: NewPartnerService(repos.Partners, s.Metrics),
	}
}
