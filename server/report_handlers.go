package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-lab-console/internal/utils"
	"github.com/jrsteele09/go-lab-console/reports"
)

type exportFormat int

const (
	exportPDF exportFormat = iota
	exportXLSX
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PageView is one page of a filtered report.
type PageView[T any] struct {
	Rows       []T   `json:"rows"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Pages      []int `json:"pages"`
	PageSize   int   `json:"pageSize"`
	Total      int   `json:"total"`
}

func newPageView[T any](r *http.Request, rows []T, pageSize int) PageView[T] {
	pager := reports.NewPager(rows, pageSize)
	pager.SetPage(queryInt(r, "page", 1))
	return PageView[T]{
		Rows:       pager.Page(),
		Page:       pager.Current(),
		TotalPages: pager.TotalPages(),
		Pages:      pager.PageNumbers(),
		PageSize:   pager.PageSize(),
		Total:      pager.Len(),
	}
}

func orderFilterFrom(r *http.Request) reports.OrderFilter {
	q := r.URL.Query()
	return reports.OrderFilter{
		From:   q.Get("fechaInicio"),
		To:     q.Get("fechaFin"),
		Query:  q.Get("q"),
		Estado: q.Get("estado"),
	}
}

func auditFilterFrom(r *http.Request) reports.AuditFilter {
	q := r.URL.Query()
	return reports.AuditFilter{
		Username:  q.Get("username"),
		Action:    q.Get("action"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
}

// filteredOrders fetches the orders once and filters them in memory.
func (s *Server) filteredOrders(r *http.Request) ([]reports.Order, error) {
	orders, err := s.reports.ListOrders(r.Context())
	if err != nil {
		return nil, err
	}
	return orderFilterFrom(r).Apply(orders), nil
}

// AtencionesHandler returns one page of filtered orders (GET /reportes/atenciones)
func (s *Server) AtencionesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := s.filteredOrders(r)
		if err != nil {
			s.handleServiceError(w, r, "ListOrders", err)
			return
		}
		writeJSON(w, http.StatusOK, newPageView(r, orders, s.config.GetReportPageSize()))
	}
}

// AtencionesExportHandler exports every filtered order, not just the current page.
func (s *Server) AtencionesExportHandler(format exportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := s.filteredOrders(r)
		if err != nil {
			s.handleServiceError(w, r, "ListOrders", err)
			return
		}
		switch format {
		case exportPDF:
			generatedAt := s.nowTime()
			s.serveExport(w, r, reports.OrdersPDFName, contentTypePDF, func(out io.Writer) error {
				return reports.WriteOrdersPDF(out, orders, generatedAt)
			})
		case exportXLSX:
			s.serveExport(w, r, reports.OrdersXLSXName, contentTypeXLSX, func(out io.Writer) error {
				return reports.WriteOrdersXLSX(out, orders)
			})
		}
	}
}

// OrdenExportHandler exports a single order with its exams (GET /reportes/atenciones/{id}/export.pdf)
func (s *Server) OrdenExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		order, err := s.reports.GetOrder(r.Context(), id)
		if err != nil {
			s.handleServiceError(w, r, "GetOrder", err)
			return
		}
		s.serveExport(w, r, reports.OrderPDFName(*order), contentTypePDF, func(out io.Writer) error {
			return reports.WriteOrderPDF(out, *order)
		})
	}
}

// OrdenEstadoHandler moves an order to a new state (POST /reportes/atenciones/{id}/estado)
func (s *Server) OrdenEstadoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req struct {
			Estado string `json:"estado"`
		}
		if err := decodeBody(r, &req, func(form url.Values) {
			req.Estado = form.Get("estado")
		}); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		order, err := s.reports.UpdateOrderStatus(r.Context(), id, req.Estado)
		if err != nil {
			s.handleServiceError(w, r, "UpdateOrderStatus", err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// AtencionesFiltrarHandler pages the orders filtered by the API (POST /reportes/atenciones/filtrar)
func (s *Server) AtencionesFiltrarHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query reports.OrderQuery
		if err := decodeBody(r, &query, func(form url.Values) {
			query.FechaInicio = form.Get("fechaInicio")
			query.FechaFin = form.Get("fechaFin")
			query.Estado = form.Get("estado")
			query.Prioridad = form.Get("prioridad")
			query.PatientID = formID(form, "patientId")
			query.MedicoID = formID(form, "medicoId")
		}); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		orders, err := s.reports.FilterOrders(r.Context(), query)
		if err != nil {
			s.handleServiceError(w, r, "FilterOrders", err)
			return
		}
		writeJSON(w, http.StatusOK, newPageView(r, orders, s.config.GetReportPageSize()))
	}
}

// formID reads an optional positive id field.
func formID(form url.Values, name string) *int64 {
	id, err := strconv.ParseInt(form.Get(name), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return utils.Ptr(id)
}

// BitacoraHandler returns one page of audit entries (GET /reports/bitacora)
func (s *Server) BitacoraHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := s.reports.ListAuditLogs(r.Context(), auditFilterFrom(r))
		if err != nil {
			s.handleServiceError(w, r, "ListAuditLogs", err)
			return
		}
		writeJSON(w, http.StatusOK, newPageView(r, logs, s.config.GetReportPageSize()))
	}
}

// BitacoraExportHandler exports the filtered audit entries (GET /reports/bitacora/export.xlsx)
func (s *Server) BitacoraExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := s.reports.ListAuditLogs(r.Context(), auditFilterFrom(r))
		if err != nil {
			s.handleServiceError(w, r, "ListAuditLogs", err)
			return
		}
		s.serveExport(w, r, reports.AuditXLSXName, contentTypeXLSX, func(out io.Writer) error {
			return reports.WriteAuditXLSX(out, logs)
		})
	}
}

// serveExport writes the document to the export folder, then sends it as a download.
// A failed export is reported to the caller and its partial file stays on disk.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, name, contentType string, write func(io.Writer) error) {
	stamp := s.nowTime().Format("20060102-150405.000")
	path := filepath.Join(s.config.GetExportFolder(), strings.ReplaceAll(stamp, ".", "")+"_"+name)
	if err := reports.ExportFile(path, write); err != nil {
		writeJSONError(w, "No se pudo generar el reporte.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}
