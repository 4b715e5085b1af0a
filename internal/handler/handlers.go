package handler

import (
	"github.com/deppfellow/employer-api/internal/server"
	"github.com/deppfellow/employer-api/internal/service"
)

// Handlers groups every HTTP handler so router setup takes one value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Metrics  *MetricsHandler
	Employer *EmployerHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Metrics:  NewMetricsHandler(s),
		Employer: NewEmployerHandler(s, services.Employer),
	}
}
