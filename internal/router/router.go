// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/employer-api/internal/handler"
	"github.com/deppfellow/employer-api/internal/middleware"
	"github.com/deppfellow/employer-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain and
// every route. Order matters: the New Relic transaction and request ID
// must exist before the context logger is built, and the request logger
// wraps Recover so panics are logged with their final status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		mw.Tracing.NewRelicMiddleware(),
		middleware.RequestID(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)
	registerEmployerRoutes(router, h)

	return router
}

func registerEmployerRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/employer/:employer_id", h.Employer.Routes())
}
