package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/lblod/acmidm-login-service/auth"
	"github.com/lblod/acmidm-login-service/internal/config"
	"github.com/lblod/acmidm-login-service/rlog"
)

// SessionService is the domain service the HTTP surface delegates to.
type SessionService interface {
	Login(ctx context.Context, sessionURI, authorizationCode string) (*auth.SessionInfo, error)
	Logout(ctx context.Context, sessionURI string) error
	CurrentSession(ctx context.Context, sessionURI string) (*auth.SessionInfo, error)
}

type Server struct {
	env      string // Environment (e.g., "DEV", "production")
	mux      *http.ServeMux
	routes   []string
	sessions SessionService
	audit    *rlog.Recorder
}

func New(cfg config.Config, sessions SessionService, audit *rlog.Recorder) (*Server, error) {
	if sessions == nil {
		return nil, fmt.Errorf("[Server New] a session service is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		sessions: sessions,
		audit:    audit,
		env:      cfg.GetEnv(),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
