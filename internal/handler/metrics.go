package handler

import (
	"github.com/deppfellow/employer-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the server's Prometheus registry.
type MetricsHandler struct {
	Handler
	handler echo.HandlerFunc
}

func NewMetricsHandler(s *server.Server) *MetricsHandler {
	return &MetricsHandler{
		Handler: NewHandler(s),
		handler: echo.WrapHandler(promhttp.HandlerFor(s.Metrics, promhttp.HandlerOpts{})),
	}
}

func (h *MetricsHandler) ServeMetrics(c echo.Context) error {
	return h.handler(c)
}
