package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-lab-console/auth"
	"github.com/jrsteele09/go-lab-console/catalog"
	"github.com/jrsteele09/go-lab-console/guard"
	"github.com/jrsteele09/go-lab-console/internal/config"
	"github.com/jrsteele09/go-lab-console/reports"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/token"
	"github.com/jrsteele09/go-lab-console/users"
	"github.com/pkg/errors"
)

// Services are the console's collaborators, built once in main.
type Services struct {
	Gateway    *auth.Gateway
	Guard      *guard.Guard
	Store      *sessions.Store
	Supervisor *token.Supervisor // optional; without it /api/session reports no clock
	Reports    *reports.Service
	Catalog    *catalog.Service
	Users      *users.Service
	Notices    *NoticeBoard
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	nowTime func() time.Time

	gateway    *auth.Gateway
	guard      *guard.Guard
	store      *sessions.Store
	supervisor *token.Supervisor
	reports    *reports.Service
	catalog    *catalog.Service
	users      *users.Service
	notices    *NoticeBoard
	consoleKey consoleKey
}

func New(config config.Config, services Services) (*Server, error) {
	if services.Gateway == nil || services.Guard == nil || services.Store == nil {
		return nil, errors.New("[Server New] gateway, guard and store are required")
	}
	if services.Reports == nil || services.Catalog == nil || services.Users == nil {
		return nil, errors.New("[Server New] reports, catalog and users services are required")
	}
	if services.Notices == nil {
		services.Notices = NewNoticeBoard()
	}

	s := &Server{
		env:        config.GetEnv(),
		mux:        http.NewServeMux(),
		config:     config,
		nowTime:    time.Now,
		gateway:    services.Gateway,
		guard:      services.Guard,
		store:      services.Store,
		supervisor: services.Supervisor,
		reports:    services.Reports,
		catalog:    services.Catalog,
		users:      services.Users,
		notices:    services.Notices,
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

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
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
