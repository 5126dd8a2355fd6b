package reports

import (
	"strings"
	"time"
)

// Order states as reported by the laboratory API.
const (
	EstadoPendiente = "PENDIENTE"
	EstadoEnProceso = "EN_PROCESO"
	EstadoProcesado = "PROCESADO"
	EstadoValidado  = "VALIDADO"
	EstadoEntregado = "ENTREGADO"
)

// Estados lists the order states in workflow order.
var Estados = []string{EstadoPendiente, EstadoEnProceso, EstadoProcesado, EstadoValidado, EstadoEntregado}

const defaultTipoAtencion = "AMBULATORIO"

// Order is one row of the "atenciones" report.
type Order struct {
	ID                 int64         `json:"id"`
	NumeroOrden        string        `json:"numeroOrden"`
	FechaOrden         string        `json:"fechaOrden"`
	Diagnostico        string        `json:"diagnostico,omitempty"`
	Estado             string        `json:"estado"`
	Prioridad          string        `json:"prioridad"`
	TipoAtencion       string        `json:"tipoAtencion,omitempty"`
	TipoMuestra        string        `json:"tipoMuestra,omitempty"`
	Observaciones      string        `json:"observaciones,omitempty"`
	Total              float64       `json:"total"`
	FechaTomaMuestra   string        `json:"fechaTomaMuestra,omitempty"`
	FechaProcesamiento string        `json:"fechaProcesamiento,omitempty"`
	FechaValidacion    string        `json:"fechaValidacion,omitempty"`
	FechaEntrega       string        `json:"fechaEntrega,omitempty"`
	PatientID          int64         `json:"patientId"`
	PatientFirstName   string        `json:"patientFirstName"`
	PatientLastName    string        `json:"patientLastName"`
	PatientDNI         string        `json:"patientDni"`
	MedicoID           *int64        `json:"medicoId,omitempty"`
	MedicoNombre       string        `json:"medicoNombre,omitempty"`
	MedicoFullName     string        `json:"medicoFullName,omitempty"`
	UserID             *int64        `json:"userId,omitempty"`
	UserName           string        `json:"userName,omitempty"`
	ValidadoPorID      *int64        `json:"validadoPorId,omitempty"`
	ValidadoPorName    string        `json:"validadoPorName,omitempty"`
	Detalles           []OrderDetail `json:"detalles"`
	CreatedAt          string        `json:"createdAt"`
	UpdatedAt          string        `json:"updatedAt"`
	CreatedByName      string        `json:"createdByName,omitempty"`
}

// PatientName joins the patient's first and last name.
func (o Order) PatientName() string {
	return strings.TrimSpace(o.PatientFirstName + " " + o.PatientLastName)
}

func (o Order) tipoAtencion() string {
	if o.TipoAtencion == "" {
		return defaultTipoAtencion
	}
	return o.TipoAtencion
}

// OrderDetail is a single exam requested within an order.
type OrderDetail struct {
	ID                      int64   `json:"id"`
	ExamID                  int64   `json:"examId"`
	ExamName                string  `json:"examName"`
	EquipoID                *int64  `json:"equipoId,omitempty"`
	Estado                  string  `json:"estado"`
	Resultado               string  `json:"resultado,omitempty"`
	ValorReferencia         string  `json:"valorReferencia,omitempty"`
	Unidad                  string  `json:"unidad,omitempty"`
	Observaciones           string  `json:"observaciones,omitempty"`
	Precio                  float64 `json:"precio"`
	ValorCritico            bool    `json:"valorCritico"`
	FueraRango              bool    `json:"fueraRango"`
	ValidadoPrimario        bool    `json:"validadoPrimario"`
	ValidadoFinal           bool    `json:"validadoFinal"`
	TecnologoName           string  `json:"tecnologoName,omitempty"`
	BiologoName             string  `json:"biologoName,omitempty"`
	ProcesadoPorName        string  `json:"procesadoPorName,omitempty"`
	ValidadoPorName         string  `json:"validadoPorName,omitempty"`
	FechaProcesamiento      string  `json:"fechaProcesamiento,omitempty"`
	FechaValidacionPrimaria string  `json:"fechaValidacionPrimaria,omitempty"`
	FechaValidacionFinal    string  `json:"fechaValidacionFinal,omitempty"`
	CreatedAt               string  `json:"createdAt"`
	UpdatedAt               string  `json:"updatedAt"`
}

// OrderQuery is the server-side filter accepted by POST /ordenes/filtrar.
type OrderQuery struct {
	FechaInicio string `json:"fechaInicio,omitempty"`
	FechaFin    string `json:"fechaFin,omitempty"`
	PatientID   *int64 `json:"patientId,omitempty"`
	MedicoID    *int64 `json:"medicoId,omitempty"`
	Estado      string `json:"estado,omitempty"`
	Prioridad   string `json:"prioridad,omitempty"`
}

// AuditLog is one row of the "bitácora" report.
type AuditLog struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Module    string `json:"module"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	IPAddress string `json:"ipAddress"`
	Status    string `json:"status"`
	UserAgent string `json:"userAgent"`
	URL       string `json:"url"`
	Method    string `json:"method"`
	Timestamp string `json:"timestamp"`
}

// Timestamps from the API are zone-less local date-times.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

const displayLayout = "02/01/2006 15:04"

// formatDate renders an API timestamp as dd/mm/yyyy hh:mm. Unparseable values are returned as is.
func formatDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Format(displayLayout)
		}
	}
	return value
}

// datePrefix returns the yyyy-mm-dd part of an ISO timestamp.
func datePrefix(value string) string {
	if len(value) < 10 {
		return value
	}
	return value[:10]
}
