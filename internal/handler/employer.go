package handler

import (
	"net/http"

	"github.com/deppfellow/employer-api/internal/model"
	"github.com/deppfellow/employer-api/internal/server"
	"github.com/deppfellow/employer-api/internal/service"
	"github.com/deppfellow/employer-api/internal/validation"
	"github.com/labstack/echo/v4"
)

type GetEmployerRequest struct {
	EmployerID string `param:"employer_id" validate:"required"`
}

func (r *GetEmployerRequest) Validate() error {
	return validation.Struct(r)
}

type EmployerHandler struct {
	Handler
	employers *service.EmployerService
}

func NewEmployerHandler(s *server.Server, employers *service.EmployerService) *EmployerHandler {
	return &EmployerHandler{
		Handler:   NewHandler(s),
		employers: employers,
	}
}

// GetEmployer answers 200 with the employer, or 200 with null when the
// employer does not exist or could not be read.
func (h *EmployerHandler) GetEmployer(c echo.Context, req *GetEmployerRequest) (*model.Employer, error) {
	return h.employers.GetEmployer(c.Request().Context(), req.EmployerID), nil
}

// Routes returns the echo handler for GET /employer/:employer_id.
func (h *EmployerHandler) Routes() echo.HandlerFunc {
	return Handle(h.Handler, h.GetEmployer, http.StatusOK, func() *GetEmployerRequest {
		return &GetEmployerRequest{}
	})
}
