package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-lab-console/client"
)

func (s *Service) CreateLabArea(ctx context.Context, req LabAreaRequest) (*LabArea, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	area, err := call[*LabArea](ctx, s.api, http.MethodPost, labAreasPath, req)
	return area, wrap(err, "CreateLabArea")
}

func (s *Service) UpdateLabArea(ctx context.Context, id int64, req LabAreaRequest) (*LabArea, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	area, err := call[*LabArea](ctx, s.api, http.MethodPut, labAreasPath+"/"+strconv.FormatInt(id, 10), req)
	return area, wrap(err, "UpdateLabArea")
}

func (s *Service) GetLabArea(ctx context.Context, id int64) (*LabArea, error) {
	area, err := call[*LabArea](ctx, s.api, http.MethodGet, labAreasPath+"/"+strconv.FormatInt(id, 10), nil)
	return area, wrap(err, "GetLabArea")
}

// ListLabAreas pages through every lab area, sorted by id unless p says otherwise.
func (s *Service) ListLabAreas(ctx context.Context, p PageRequest) (*client.PageResponse[LabArea], error) {
	res, err := page[LabArea](ctx, s.api, labAreasPath, p.values("id"))
	return res, wrap(err, "ListLabAreas")
}

func (s *Service) SearchLabAreas(ctx context.Context, q string, p PageRequest) (*client.PageResponse[LabArea], error) {
	v := p.values("")
	v.Set("q", q)
	res, err := page[LabArea](ctx, s.api, labAreasPath+"/search", v)
	return res, wrap(err, "SearchLabAreas")
}

func (s *Service) ActiveLabAreas(ctx context.Context) ([]LabArea, error) {
	areas, err := call[[]LabArea](ctx, s.api, http.MethodGet, labAreasPath+"/active", nil)
	return areas, wrap(err, "ActiveLabAreas")
}

func (s *Service) DeleteLabArea(ctx context.Context, id int64) error {
	return wrap(remove(ctx, s.api, labAreasPath, id), "DeleteLabArea")
}

func (s *Service) SetLabAreaStatus(ctx context.Context, id int64, active bool) error {
	return wrap(setStatus(ctx, s.api, labAreasPath, id, active), "SetLabAreaStatus")
}
