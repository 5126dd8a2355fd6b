package reports

import (
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	ordersReportTitle = "Reporte de Atenciones - Laboratorio Clínico"
	orderSheetTitle   = "ORDEN DE LABORATORIO"
	pdfMargin         = 14.0
	pdfFont           = "Helvetica"
)

var (
	headerFill    = [3]int{37, 99, 235}
	alternateFill = [3]int{245, 245, 245}
)

type pdfColumn struct {
	title string
	width float64
}

var ordersPDFColumns = []pdfColumn{
	{"Fecha", 32},
	{"N° Orden", 32},
	{"Paciente", 55},
	{"DNI", 22},
	{"Estado", 26},
	{"Total", 25},
	{"Médico", 45},
	{"Tipo Atención", 32},
}

var orderDetailColumns = []pdfColumn{
	{"#", 12},
	{"Examen", 100},
	{"Estado", 40},
	{"Precio", 30},
}

// pdfTable draws striped tables and repeats the header row after a page break.
type pdfTable struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	columns []pdfColumn
	rowH    float64
}

func (t *pdfTable) header() {
	t.pdf.SetFont(pdfFont, "B", 8)
	t.pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	t.pdf.SetTextColor(255, 255, 255)
	t.pdf.SetX(pdfMargin)
	for _, c := range t.columns {
		t.pdf.CellFormat(c.width, t.rowH, t.tr(c.title), "", 0, "L", true, 0, "")
	}
	t.pdf.Ln(-1)
	t.pdf.SetFont(pdfFont, "", 8)
	t.pdf.SetTextColor(0, 0, 0)
}

func (t *pdfTable) row(i int, cells []string) {
	_, pageH := t.pdf.GetPageSize()
	_, _, _, bottom := t.pdf.GetMargins()
	if t.pdf.GetY()+t.rowH > pageH-bottom {
		t.pdf.AddPage()
		t.header()
	}
	fill := i%2 == 1
	if fill {
		t.pdf.SetFillColor(alternateFill[0], alternateFill[1], alternateFill[2])
	}
	t.pdf.SetX(pdfMargin)
	for j, c := range t.columns {
		t.pdf.CellFormat(c.width, t.rowH, t.tr(cells[j]), "", 0, "L", fill, 0, "")
	}
	t.pdf.Ln(-1)
}

func newPDF(orientation string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 10, pdfMargin)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

// WriteOrdersPDF renders the filtered orders as a landscape A4 table.
func WriteOrdersPDF(w io.Writer, orders []Order, generatedAt time.Time) error {
	pdf, tr := newPDF("L")

	pdf.SetFont(pdfFont, "B", 18)
	pdf.Text(pdfMargin, 15, tr(ordersReportTitle))
	pdf.SetFont(pdfFont, "", 10)
	pdf.Text(pdfMargin, 22, tr("Generado: "+generatedAt.Format("02/01/2006 15:04:05")))
	pdf.Text(pdfMargin, 27, tr("Total de registros: "+strconv.Itoa(len(orders))))

	pdf.SetY(32)
	table := &pdfTable{pdf: pdf, tr: tr, columns: ordersPDFColumns, rowH: 7}
	table.header()
	for i, o := range orders {
		table.row(i, []string{
			formatDate(o.FechaOrden),
			o.NumeroOrden,
			o.PatientName(),
			o.PatientDNI,
			o.Estado,
			money(o.Total),
			orDefault(o.MedicoNombre, "N/A"),
			o.tipoAtencion(),
		})
	}
	return pdf.Output(w)
}

// WriteOrderPDF renders a single order with its requested exams on a portrait A4 page.
func WriteOrderPDF(w io.Writer, o Order) error {
	pdf, tr := newPDF("P")
	pageW, _ := pdf.GetPageSize()

	pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	pdf.Rect(0, 0, pageW, 40, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(pdfFont, "B", 20)
	centered(pdf, 15, tr(orderSheetTitle))
	pdf.SetFont(pdfFont, "B", 12)
	centered(pdf, 25, tr(o.NumeroOrden))
	centered(pdf, 32, tr("Estado: "+o.Estado))

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(pdfFont, "B", 14)
	pdf.Text(pdfMargin, 50, tr("Información del Paciente"))
	pdf.SetFont(pdfFont, "", 10)
	pdf.Text(pdfMargin, 58, tr("Nombre: "+o.PatientName()))
	pdf.Text(pdfMargin, 64, tr("DNI: "+o.PatientDNI))
	pdf.Text(pdfMargin, 70, tr("Fecha de orden: "+formatDate(o.FechaOrden)))

	pdf.SetFont(pdfFont, "B", 10)
	pdf.Text(pdfMargin, 80, tr("Información Médica"))
	pdf.SetFont(pdfFont, "", 10)
	pdf.Text(pdfMargin, 88, tr("Médico: "+orDefault(o.MedicoNombre, "No asignado")))
	pdf.Text(pdfMargin, 94, tr("Diagnóstico: "+orDefault(o.Diagnostico, "Sin especificar")))
	pdf.Text(pdfMargin, 100, tr("Tipo de atención: "+o.tipoAtencion()))

	pdf.SetFont(pdfFont, "B", 10)
	pdf.Text(pdfMargin, 110, tr("Exámenes Solicitados"))

	pdf.SetY(115)
	table := &pdfTable{pdf: pdf, tr: tr, columns: orderDetailColumns, rowH: 7}
	table.header()
	for i, d := range o.Detalles {
		table.row(i, []string{strconv.Itoa(i + 1), d.ExamName, d.Estado, money(d.Precio)})
	}

	pdf.SetFont(pdfFont, "B", 12)
	pdf.Ln(4)
	pdf.CellFormat(0, 8, tr("TOTAL: "+money(o.Total)), "", 1, "L", false, 0, "")
	return pdf.Output(w)
}

func centered(pdf *fpdf.Fpdf, y float64, text string) {
	pageW, _ := pdf.GetPageSize()
	pdf.Text((pageW-pdf.GetStringWidth(text))/2, y, text)
}
