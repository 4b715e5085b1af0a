package repository

import (
	"github.com/deppfellow/employer-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Employer *EmployerRepository
}

// NewRepositories builds every repository on the server's helper and table
// catalog.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Employer: NewEmployerRepository(s.DB.Helper, s.Config.Database.Table),
	}
}
