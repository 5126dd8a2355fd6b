package server

// Route path constants
// All console routes are defined here to keep handlers, redirects and templates in step
const (
	// Public
	RouteIndex      = "/{$}"
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteHealth     = "/health"
	RouteStaticFile = "/static/{file}"

	// Session
	RouteAuthLogout   = "/auth/logout"
	RouteAPISession   = "/api/session"
	RouteAuthSucursal = "/auth/sucursal"

	// Users
	RouteChangePassword = "/users/change-password"

	// Reports - atenciones
	RouteAtenciones           = "/reportes/atenciones"
	RouteAtencionesFiltrar    = "/reportes/atenciones/filtrar"
	RouteAtencionesExportPDF  = "/reportes/atenciones/export.pdf"
	RouteAtencionesExportXLSX = "/reportes/atenciones/export.xlsx"
	RouteOrdenExportPDF       = "/reportes/atenciones/{id}/export.pdf"
	RouteOrdenEstado          = "/reportes/atenciones/{id}/estado"

	// Reports - bitacora
	RouteBitacora           = "/reports/bitacora"
	RouteBitacoraExportXLSX = "/reports/bitacora/export.xlsx"

	// Catalog
	RouteCatalogLabAreas = "/catalog/lab-areas"
	RouteCatalogExams    = "/catalog/exams"
	RouteCatalogSubExams = "/catalog/exams/{id}/sub-exams"
)
