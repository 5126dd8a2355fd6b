package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-lab-console/client"
)

func (s *Service) CreateExam(ctx context.Context, req ExamRequest) (*Exam, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	exam, err := call[*Exam](ctx, s.api, http.MethodPost, examsPath, req)
	return exam, wrap(err, "CreateExam")
}

func (s *Service) UpdateExam(ctx context.Context, id int64, req ExamRequest) (*Exam, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	exam, err := call[*Exam](ctx, s.api, http.MethodPut, examsPath+"/"+strconv.FormatInt(id, 10), req)
	return exam, wrap(err, "UpdateExam")
}

func (s *Service) GetExam(ctx context.Context, id int64) (*Exam, error) {
	exam, err := call[*Exam](ctx, s.api, http.MethodGet, examsPath+"/"+strconv.FormatInt(id, 10), nil)
	return exam, wrap(err, "GetExam")
}

// ListExams pages through every exam, sorted by nombre unless p says otherwise.
func (s *Service) ListExams(ctx context.Context, p PageRequest) (*client.PageResponse[Exam], error) {
	res, err := page[Exam](ctx, s.api, examsPath, p.values("nombre"))
	return res, wrap(err, "ListExams")
}

func (s *Service) ExamsByArea(ctx context.Context, areaID int64, p PageRequest) (*client.PageResponse[Exam], error) {
	res, err := page[Exam](ctx, s.api, examsPath+"/area/"+strconv.FormatInt(areaID, 10), p.values(""))
	return res, wrap(err, "ExamsByArea")
}

func (s *Service) ExamsByTipo(ctx context.Context, tipoExamenID int64, p PageRequest) (*client.PageResponse[Exam], error) {
	res, err := page[Exam](ctx, s.api, examsPath+"/tipo/"+strconv.FormatInt(tipoExamenID, 10), p.values(""))
	return res, wrap(err, "ExamsByTipo")
}

func (s *Service) SearchExams(ctx context.Context, q string, p PageRequest) (*client.PageResponse[Exam], error) {
	v := p.values("")
	v.Set("q", q)
	res, err := page[Exam](ctx, s.api, examsPath+"/search", v)
	return res, wrap(err, "SearchExams")
}

// Profiles returns the exams that group other exams.
func (s *Service) Profiles(ctx context.Context) ([]Exam, error) {
	exams, err := call[[]Exam](ctx, s.api, http.MethodGet, examsPath+"/perfiles", nil)
	return exams, wrap(err, "Profiles")
}

func (s *Service) ActiveExams(ctx context.Context) ([]Exam, error) {
	exams, err := call[[]Exam](ctx, s.api, http.MethodGet, examsPath+"/active", nil)
	return exams, wrap(err, "ActiveExams")
}

func (s *Service) DeleteExam(ctx context.Context, id int64) error {
	return wrap(remove(ctx, s.api, examsPath, id), "DeleteExam")
}

func (s *Service) SetExamStatus(ctx context.Context, id int64, active bool) error {
	return wrap(setStatus(ctx, s.api, examsPath, id, active), "SetExamStatus")
}
