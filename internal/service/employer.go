package service

import (
	"context"

	"github.com/deppfellow/employer-api/internal/middleware"
	"github.com/deppfellow/employer-api/internal/model"
	"github.com/rs/zerolog"
)

// EmployerFinder is the repository the employer service reads from.
type EmployerFinder interface {
	GetByID(ctx context.Context, employerID string) (*model.Employer, error)
}

type EmployerService struct {
	repo EmployerFinder
	log  *zerolog.Logger
}

func NewEmployerService(repo EmployerFinder, logger *zerolog.Logger) *EmployerService {
	return &EmployerService{
		repo: repo,
		log:  logger,
	}
}

// GetEmployer returns the employer, or nil when it does not exist or the
// lookup failed. Failures are logged and never returned: callers cannot
// tell a miss from a database error.
func (s *EmployerService) GetEmployer(ctx context.Context, employerID string) *model.Employer {
	employer, err := s.repo.GetByID(ctx, employerID)
	if err != nil {
		middleware.LoggerFromContext(ctx, s.log).Error().
			Err(err).
			Str("employer_id", employerID).
			Msg("employer lookup failed, responding with no data")
		return nil
	}

	if employer == nil {
		middleware.LoggerFromContext(ctx, s.log).Debug().
			Str("employer_id", employerID).
			Msg("employer not found")
	}
	return employer
}
