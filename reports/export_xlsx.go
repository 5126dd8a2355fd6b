package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	OrdersSheet = "Atenciones"
	AuditSheet  = "Bitacora"
)

type xlsxColumn struct {
	title string
	width float64
}

var ordersXLSXColumns = []xlsxColumn{
	{"Fecha Orden", 18},
	{"N° Orden", 18},
	{"Paciente", 30},
	{"DNI", 12},
	{"Estado", 15},
	{"Prioridad", 12},
	{"Tipo Atención", 15},
	{"Diagnóstico", 40},
	{"Médico", 25},
	{"Usuario Registro", 20},
	{"Total", 12},
	{"Fecha Registro", 18},
	{"Observaciones", 40},
}

var auditXLSXColumns = []xlsxColumn{
	{"Fecha", 18},
	{"Usuario", 20},
	{"Módulo", 18},
	{"Acción", 22},
	{"Estado", 12},
	{"Método", 10},
	{"URL", 40},
	{"IP", 16},
	{"Detalles", 60},
}

// WriteOrdersXLSX writes the filtered orders to a single "Atenciones" sheet.
func WriteOrdersXLSX(w io.Writer, orders []Order) error {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{
			formatDate(o.FechaOrden),
			o.NumeroOrden,
			o.PatientName(),
			o.PatientDNI,
			o.Estado,
			o.Prioridad,
			o.tipoAtencion(),
			o.Diagnostico,
			orDefault(o.MedicoNombre, "N/A"),
			o.UserName,
			o.Total,
			formatDate(o.CreatedAt),
			o.Observaciones,
		})
	}
	return writeSheet(w, OrdersSheet, ordersXLSXColumns, rows)
}

// WriteAuditXLSX writes audit log entries to a single "Bitacora" sheet.
func WriteAuditXLSX(w io.Writer, logs []AuditLog) error {
	rows := make([][]any, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []any{
			formatDate(l.Timestamp),
			l.Username,
			l.Module,
			l.Action,
			l.Status,
			l.Method,
			l.URL,
			l.IPAddress,
			l.Details,
		})
	}
	return writeSheet(w, AuditSheet, auditXLSXColumns, rows)
}

func writeSheet(w io.Writer, sheet string, columns []xlsxColumn, rows [][]any) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("[writeSheet] close: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("[writeSheet] rename sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.title
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("[writeSheet] column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, c.width); err != nil {
			return fmt.Errorf("[writeSheet] column width: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("[writeSheet] header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("[writeSheet] header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return fmt.Errorf("[writeSheet] header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("[writeSheet] header style: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("[writeSheet] row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("[writeSheet] row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("[writeSheet] write: %w", err)
	}
	return nil
}
