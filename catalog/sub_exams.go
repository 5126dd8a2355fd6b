package catalog

import (
	"context"
	"net/http"
	"strconv"

	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
)

func (s *Service) CreateSubExam(ctx context.Context, req SubExamRequest) (*SubExam, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sub, err := call[*SubExam](ctx, s.api, http.MethodPost, subExamsPath, req)
	return sub, wrap(err, "CreateSubExam")
}

func (s *Service) UpdateSubExam(ctx context.Context, id int64, req SubExamRequest) (*SubExam, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sub, err := call[*SubExam](ctx, s.api, http.MethodPut, subExamsPath+"/"+strconv.FormatInt(id, 10), req)
	return sub, wrap(err, "UpdateSubExam")
}

func (s *Service) GetSubExam(ctx context.Context, id int64) (*SubExam, error) {
	sub, err := call[*SubExam](ctx, s.api, http.MethodGet, subExamsPath+"/"+strconv.FormatInt(id, 10), nil)
	return sub, wrap(err, "GetSubExam")
}

// SubExamsByExam returns the sub-exams of examID in display order.
func (s *Service) SubExamsByExam(ctx context.Context, examID int64) ([]SubExam, error) {
	subs, err := call[[]SubExam](ctx, s.api, http.MethodGet, subExamsPath+"/exam/"+strconv.FormatInt(examID, 10), nil)
	return subs, wrap(err, "SubExamsByExam")
}

func (s *Service) DeleteSubExam(ctx context.Context, id int64) error {
	return wrap(remove(ctx, s.api, subExamsPath, id), "DeleteSubExam")
}

func (s *Service) SetSubExamStatus(ctx context.Context, id int64, active bool) error {
	return wrap(setStatus(ctx, s.api, subExamsPath, id, active), "SetSubExamStatus")
}

// ReorderSubExams sets the display order of an exam's sub-exams to the order of ids.
func (s *Service) ReorderSubExams(ctx context.Context, examID int64, ids []int64) error {
	if len(ids) == 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "[Catalog ReorderSubExams] no sub-exams given")
	}
	err := void(ctx, s.api, http.MethodPut, subExamsPath+"/exam/"+strconv.FormatInt(examID, 10)+"/reorder", ids)
	return wrap(err, "ReorderSubExams")
}
