package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RouteSessions       = "/sessions"
	RouteCurrentSession = "/sessions/current"
	RouteMetrics        = "/metrics"
)

func (s *Server) initRoutes() {
	// Session lifecycle
	s.RegisterRouteFunc("POST "+RouteSessions, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("DELETE "+RouteCurrentSession, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCurrentSession, ChainMiddleware(s.CurrentSessionHandler(), s.APIMiddleware()...))

	// Observability
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
