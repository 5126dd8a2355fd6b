package server

import (
	"net/http"

	"github.com/jrsteele09/go-lab-console/users"
)

// Roles allowed past RequireRole.
var (
	auditRoles   = []users.RoleType{users.RoleAdmin}
	catalogRoles = []users.RoleType{users.RoleAdmin, users.RoleTecnologo, users.RoleBiologo, users.RoleMedico}
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))

	// Session routes (require a held session)
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteAuthSucursal, ChainMiddleware(s.SucursalHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.APIMiddleware(s.RequireSession())...))

	// Reports
	s.RegisterRouteHandler("GET "+RouteAtenciones, ChainMiddleware(s.AtencionesHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteAtencionesFiltrar, ChainMiddleware(s.AtencionesFiltrarHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAtencionesExportPDF, ChainMiddleware(s.AtencionesExportHandler(exportPDF), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAtencionesExportXLSX, ChainMiddleware(s.AtencionesExportHandler(exportXLSX), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteOrdenExportPDF, ChainMiddleware(s.OrdenExportHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteOrdenEstado, ChainMiddleware(s.OrdenEstadoHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteBitacora, ChainMiddleware(s.BitacoraHandler(), s.APIMiddleware(s.RequireSession(), s.RequireRole(auditRoles...))...))
	s.RegisterRouteHandler("GET "+RouteBitacoraExportXLSX, ChainMiddleware(s.BitacoraExportHandler(), s.HTMLMiddleWare(s.RequireSession(), s.RequireRole(auditRoles...))...))

	// Catalog
	s.RegisterRouteHandler("GET "+RouteCatalogLabAreas, ChainMiddleware(s.LabAreasHandler(), s.APIMiddleware(s.RequireSession(), s.RequireRole(catalogRoles...))...))
	s.RegisterRouteHandler("GET "+RouteCatalogExams, ChainMiddleware(s.ExamsHandler(), s.APIMiddleware(s.RequireSession(), s.RequireRole(catalogRoles...))...))
	s.RegisterRouteHandler("GET "+RouteCatalogSubExams, ChainMiddleware(s.SubExamsHandler(), s.APIMiddleware(s.RequireSession(), s.RequireRole(catalogRoles...))...))

	s.RegisterRouteHandler("GET "+RouteStaticFile, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware)...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("file")
		if name == "" || !serveStatic(w, r, name) {
			logError(r.Method, r.URL.Path, "static asset not found")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		}
	}
}
