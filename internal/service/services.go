package service

import (
	"github.com/deppfellow/employer-api/internal/repository"
	"github.com/deppfellow/employer-api/internal/server"
)

type Services struct {
	Employer *EmployerService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Employer: NewEmployerService(repos.Employer, s.Logger),
	}, nil
}
