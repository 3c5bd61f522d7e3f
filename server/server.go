package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/polar-health-link/accesslink"
	"github.com/jrsteele09/polar-health-link/auth"
	"github.com/jrsteele09/polar-health-link/health"
	"github.com/jrsteele09/polar-health-link/internal/config"
	"github.com/jrsteele09/polar-health-link/token"
	"github.com/rs/zerolog/log"
)

// Registrar registers an authorized user with the partner.
type Registrar interface {
	RegisterUser(ctx context.Context, userID string) (*accesslink.RegistrationOutcome, error)
}

// SnapshotBuilder produces a user's health snapshot.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, userID string) (*health.Snapshot, error)
}

// Services are the collaborators the HTTP layer drives.
type Services struct {
	Auth      *auth.AuthorizationService
	Tokens    token.Repo
	Registrar Registrar
	Snapshots SnapshotBuilder
}

type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	services Services
}

func New(config config.Config, services Services) (*Server, error) {
	if config == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if services.Auth == nil || services.Tokens == nil || services.Registrar == nil || services.Snapshots == nil {
		return nil, errors.New("[Server New] auth, tokens, registrar and snapshot services are required")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		services: services,
	}

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
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

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return
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
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
