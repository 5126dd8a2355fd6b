package reports

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Default export file names.
const (
	OrdersPDFName  = "reporte_atenciones.pdf"
	OrdersXLSXName = "reporte_atenciones.xlsx"
	AuditXLSXName  = "bitacora.xlsx"
)

// OrderPDFName is the default file name for a single order export.
func OrderPDFName(o Order) string {
	return fmt.Sprintf("orden_%s.pdf", o.NumeroOrden)
}

// ExportFile creates path and streams write into it.
// Exports are not transactional: on error the partially written file is left in place.
func ExportFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Err(err).Str("path", path).Msg("create export folder")
		return fmt.Errorf("[ExportFile] create folder: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Err(err).Str("path", path).Msg("create export file")
		return fmt.Errorf("[ExportFile] create: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		log.Err(err).Str("path", path).Msg("write export")
		return fmt.Errorf("[ExportFile] write: %w", err)
	}
	if err := f.Close(); err != nil {
		log.Err(err).Str("path", path).Msg("close export file")
		return fmt.Errorf("[ExportFile] close: %w", err)
	}
	log.Info().Str("path", path).Msg("export written")
	return nil
}

func money(v float64) string {
	return fmt.Sprintf("S/ %.2f", v)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
