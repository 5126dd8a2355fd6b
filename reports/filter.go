package reports

import (
	"net/url"
	"strings"
)

const (
	anyEstado = "Todos"
	anyAction = "Todas"
)

// OrderFilter narrows a fetched list of orders in memory.
// From and To are inclusive yyyy-mm-dd bounds compared as strings against the date prefix of FechaOrden.
type OrderFilter struct {
	From   string
	To     string
	Query  string // DNI, first name or last name, case-insensitive substring
	Estado string // "" or "Todos" matches any state
}

// Apply returns the rows matching every set criterion, preserving order.
func (f OrderFilter) Apply(rows []Order) []Order {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Order, 0, len(rows))
	for _, o := range rows {
		day := datePrefix(o.FechaOrden)
		if f.From != "" && day < f.From {
			continue
		}
		if f.To != "" && day > f.To {
			continue
		}
		if f.Estado != "" && f.Estado != anyEstado && o.Estado != f.Estado {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(o.PatientDNI), query) &&
			!strings.Contains(strings.ToLower(o.PatientFirstName), query) &&
			!strings.Contains(strings.ToLower(o.PatientLastName), query) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// AuditFilter selects audit log entries. StartDate and EndDate are yyyy-mm-dd.
type AuditFilter struct {
	Username  string
	Action    string // "" or "Todas" matches any action
	StartDate string
	EndDate   string
}

// Values encodes the filter as GET /reports/audit query parameters.
// Dates are widened to cover the whole day.
func (f AuditFilter) Values() url.Values {
	v := url.Values{}
	if f.Username != "" {
		v.Set("username", f.Username)
	}
	if f.Action != "" && f.Action != anyAction {
		v.Set("action", f.Action)
	}
	if f.StartDate != "" {
		v.Set("startDate", f.StartDate+"T00:00:00")
	}
	if f.EndDate != "" {
		v.Set("endDate", f.EndDate+"T23:59:59")
	}
	return v
}

// Apply filters already fetched rows with the same semantics the server applies.
func (f AuditFilter) Apply(rows []AuditLog) []AuditLog {
	username := strings.ToLower(strings.TrimSpace(f.Username))
	out := make([]AuditLog, 0, len(rows))
	for _, l := range rows {
		day := datePrefix(l.Timestamp)
		if f.StartDate != "" && day < f.StartDate {
			continue
		}
		if f.EndDate != "" && day > f.EndDate {
			continue
		}
		if f.Action != "" && f.Action != anyAction && l.Action != f.Action {
			continue
		}
		if username != "" && !strings.Contains(strings.ToLower(l.Username), username) {
			continue
		}
		out = append(out, l)
	}
	return out
}
