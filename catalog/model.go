package catalog

import (
	"strings"

	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
)

// TipoResultado is how an exam reports its result.
type TipoResultado string

const (
	ResultadoNumerico     TipoResultado = "NUMERICO"
	ResultadoTexto        TipoResultado = "TEXTO"
	ResultadoImagen       TipoResultado = "IMAGEN"
	ResultadoPanel        TipoResultado = "PANEL"
	ResultadoCuantitativo TipoResultado = "CUANTITATIVO"
	ResultadoCualitativo  TipoResultado = "CUALITATIVO"
)

// TipoMuestra is the specimen an exam runs on.
type TipoMuestra string

const (
	MuestraSangre                 TipoMuestra = "SANGRE"
	MuestraSuero                  TipoMuestra = "SUERO"
	MuestraPlasma                 TipoMuestra = "PLASMA"
	MuestraOrina                  TipoMuestra = "ORINA"
	MuestraHeces                  TipoMuestra = "HECES"
	MuestraEsputo                 TipoMuestra = "ESPUTO"
	MuestraLiquidoCefalorraquideo TipoMuestra = "LIQUIDO_CEFALORRAQUIDEO"
	MuestraOtros                  TipoMuestra = "OTROS"
)

type LabArea struct {
	ID          int64  `json:"id"`
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type LabAreaRequest struct {
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
}

func (r LabAreaRequest) Validate() error {
	if strings.TrimSpace(r.Codigo) == "" || strings.TrimSpace(r.Descripcion) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "codigo and descripcion are required")
	}
	return nil
}

type Exam struct {
	ID               int64         `json:"id"`
	Codigo           string        `json:"codigo"`
	Nombre           string        `json:"nombre"`
	AreaID           int64         `json:"areaId"`
	AreaNombre       string        `json:"areaNombre"`
	AreaCodigo       string        `json:"areaCodigo"`
	TipoExamenID     int64         `json:"tipoExamenId"`
	TipoExamenNombre string        `json:"tipoExamenNombre"`
	Metodo           string        `json:"metodo,omitempty"`
	UnidadMedida     string        `json:"unidadMedida,omitempty"`
	TipoMuestra      TipoMuestra   `json:"tipoMuestra,omitempty"`
	TipoResultado    TipoResultado `json:"tipoResultado"`
	Precio           *float64      `json:"precio,omitempty"`
	ValorMinimo      *float64      `json:"valorMinimo,omitempty"`
	ValorMaximo      *float64      `json:"valorMaximo,omitempty"`
	ValorCriticoMin  *float64      `json:"valorCriticoMin,omitempty"`
	ValorCriticoMax  *float64      `json:"valorCriticoMax,omitempty"`
	TiempoEntrega    *int          `json:"tiempoEntrega,omitempty"` // hours
	Indicaciones     string        `json:"indicaciones,omitempty"`
	Active           bool          `json:"active"`
	EsPerfil         bool          `json:"esPerfil"`
	CreatedAt        string        `json:"createdAt"`
	UpdatedAt        string        `json:"updatedAt"`
}

type ExamRequest struct {
	Codigo          string        `json:"codigo"`
	Nombre          string        `json:"nombre"`
	AreaID          int64         `json:"areaId"`
	TipoExamenID    int64         `json:"tipoExamenId"`
	Metodo          string        `json:"metodo,omitempty"`
	UnidadMedida    string        `json:"unidadMedida,omitempty"`
	TipoMuestra     TipoMuestra   `json:"tipoMuestra,omitempty"`
	TipoResultado   TipoResultado `json:"tipoResultado"`
	Precio          *float64      `json:"precio,omitempty"`
	ValorMinimo     *float64      `json:"valorMinimo,omitempty"`
	ValorMaximo     *float64      `json:"valorMaximo,omitempty"`
	ValorCriticoMin *float64      `json:"valorCriticoMin,omitempty"`
	ValorCriticoMax *float64      `json:"valorCriticoMax,omitempty"`
	TiempoEntrega   *int          `json:"tiempoEntrega,omitempty"`
	Indicaciones    string        `json:"indicaciones,omitempty"`
	EsPerfil        bool          `json:"esPerfil,omitempty"`
}

func (r ExamRequest) Validate() error {
	if strings.TrimSpace(r.Codigo) == "" || strings.TrimSpace(r.Nombre) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "codigo and nombre are required")
	}
	if r.AreaID <= 0 || r.TipoExamenID <= 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "areaId and tipoExamenId are required")
	}
	if r.TipoResultado == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "tipoResultado is required")
	}
	return validRange(r.ValorMinimo, r.ValorMaximo)
}

type SubExam struct {
	ID                 int64         `json:"id"`
	ExamenID           int64         `json:"examenId"`
	ExamenNombre       string        `json:"examenNombre"`
	ExamenCodigo       string        `json:"examenCodigo"`
	Codigo             string        `json:"codigo"`
	Nombre             string        `json:"nombre"`
	TipoResultado      TipoResultado `json:"tipoResultado"`
	UnidadMedida       string        `json:"unidadMedida,omitempty"`
	ValorMinimo        *float64      `json:"valorMinimo,omitempty"`
	ValorMaximo        *float64      `json:"valorMaximo,omitempty"`
	ValorCriticoMin    *float64      `json:"valorCriticoMin,omitempty"`
	ValorCriticoMax    *float64      `json:"valorCriticoMax,omitempty"`
	OrdenVisualizacion int           `json:"ordenVisualizacion"`
	Observaciones      string        `json:"observaciones,omitempty"`
	Active             bool          `json:"active"`
	CreatedAt          string        `json:"createdAt"`
	UpdatedAt          string        `json:"updatedAt"`
}

type SubExamRequest struct {
	ExamenID           int64         `json:"examenId"`
	Codigo             string        `json:"codigo"`
	Nombre             string        `json:"nombre"`
	TipoResultado      TipoResultado `json:"tipoResultado"`
	UnidadMedida       string        `json:"unidadMedida,omitempty"`
	ValorMinimo        *float64      `json:"valorMinimo,omitempty"`
	ValorMaximo        *float64      `json:"valorMaximo,omitempty"`
	ValorCriticoMin    *float64      `json:"valorCriticoMin,omitempty"`
	ValorCriticoMax    *float64      `json:"valorCriticoMax,omitempty"`
	OrdenVisualizacion int           `json:"ordenVisualizacion"`
	Observaciones      string        `json:"observaciones,omitempty"`
}

func (r SubExamRequest) Validate() error {
	if r.ExamenID <= 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "examenId is required")
	}
	if strings.TrimSpace(r.Codigo) == "" || strings.TrimSpace(r.Nombre) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "codigo and nombre are required")
	}
	if r.TipoResultado == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "tipoResultado is required")
	}
	return validRange(r.ValorMinimo, r.ValorMaximo)
}

func validRange(lo, hi *float64) error {
	if lo != nil && hi != nil && *lo > *hi {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "valorMinimo %.2f exceeds valorMaximo %.2f", *lo, *hi)
	}
	return nil
}
