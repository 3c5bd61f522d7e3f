package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() error {
	index, err := s.IndexHandler()
	if err != nil {
		return err
	}
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(index, s.HTMLMiddleWare()...))

	// Partner authorization
	s.registerAPIRoute(RouteAuthPolar, s.StartAuthorizationHandler())
	s.registerAPIRoute(RouteAuthPolarCallback, s.AuthorizationCallbackHandler())

	// Data
	s.registerAPIRoute(RouteHealthData, s.HealthDataHandler())

	// Operations
	s.registerAPIRoute(RouteHealthz, s.HealthzHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
	return nil
}

// registerAPIRoute registers a GET handler and its CORS preflight.
func (s *Server) registerAPIRoute(path string, handler http.HandlerFunc) {
	s.RegisterRouteHandler("GET "+path, ChainMiddleware(handler, s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+path, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
