package repository

import (
	"github.com/deppfellow/partners-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Partners *PartnerRepository
}

// NewRepositories builds every repository on top of the shared pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Partners: NewPartnerRepository(s.DB.Pool),
	}
}
