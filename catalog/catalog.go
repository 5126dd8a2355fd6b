package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-lab-console/client"
	"github.com/pkg/errors"
)

const (
	labAreasPath = "/lab-areas"
	examsPath    = "/exams"
	subExamsPath = "/sub-exams"
)

// API sends a JSON request and decodes the response into out.
type API interface {
	Do(ctx context.Context, method, path string, body any, out any) error
}

var _ API = (*client.Client)(nil)

// Service manages lab areas, exams and sub-exams. Every endpoint answers with the
// standard {success, message, data, timestamp} envelope.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// PageRequest selects a server-side page. Page numbers start at 0.
type PageRequest struct {
	Page      int
	Size      int
	Sort      string
	Direction string
}

func (p PageRequest) values(defaultSort string) url.Values {
	size := p.Size
	if size <= 0 {
		size = 10
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(p.Page, 0)))
	v.Set("size", strconv.Itoa(size))
	if defaultSort != "" {
		sort, dir := p.Sort, p.Direction
		if sort == "" {
			sort = defaultSort
		}
		if dir == "" {
			dir = "asc"
		}
		v.Set("sort", sort)
		v.Set("direction", dir)
	}
	return v
}

func call[T any](ctx context.Context, api API, method, path string, body any) (T, error) {
	var resp client.APIResponse[T]
	if err := api.Do(ctx, method, path, body, &resp); err != nil {
		var zero T
		return zero, err
	}
	return resp.Unwrap()
}

func page[T any](ctx context.Context, api API, path string, query url.Values) (*client.PageResponse[T], error) {
	p, err := call[*client.PageResponse[T]](ctx, api, http.MethodGet, path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &client.PageResponse[T]{}
	}
	return p, nil
}

// void calls an endpoint that returns no data. An empty 204 body counts as success.
func void(ctx context.Context, api API, method, path string, body any) error {
	resp := client.APIResponse[any]{Success: true}
	if err := api.Do(ctx, method, path, body, &resp); err != nil {
		return err
	}
	_, err := resp.Unwrap()
	return err
}

func setStatus(ctx context.Context, api API, base string, id int64, active bool) error {
	path := base + "/" + strconv.FormatInt(id, 10) + "/status?active=" + strconv.FormatBool(active)
	return void(ctx, api, http.MethodPatch, path, struct{}{})
}

func remove(ctx context.Context, api API, base string, id int64) error {
	return void(ctx, api, http.MethodDelete, base+"/"+strconv.FormatInt(id, 10), nil)
}

func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, "[Catalog "+op+"]")
}
