package reports

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jrsteele09/go-lab-console/client"
	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/pkg/errors"
)

const (
	ordersPath = "/ordenes"
	auditPath  = "/reports/audit"
)

// API is the subset of the JSON client the report service uses.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
}

var _ API = (*client.Client)(nil)

// Service fetches report datasets. Orders and audit logs are returned as bare JSON, not enveloped.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// ListOrders returns every order visible to the signed-in user's role.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := s.api.Get(ctx, ordersPath, &orders); err != nil {
		return nil, errors.Wrap(err, "[Reports ListOrders]")
	}
	return orders, nil
}

// FilterOrders asks the server to filter orders. "Todos" is sent as no estado.
func (s *Service) FilterOrders(ctx context.Context, query OrderQuery) ([]Order, error) {
	if strings.EqualFold(query.Estado, anyEstado) {
		query.Estado = ""
	}
	var orders []Order
	if err := s.api.Post(ctx, ordersPath+"/filtrar", query, &orders); err != nil {
		return nil, errors.Wrap(err, "[Reports FilterOrders]")
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var order Order
	if err := s.api.Get(ctx, fmt.Sprintf("%s/%d", ordersPath, id), &order); err != nil {
		return nil, errors.Wrapf(err, "[Reports GetOrder] id %d", id)
	}
	return &order, nil
}

// UpdateOrderStatus moves an order to one of Estados.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, estado string) (*Order, error) {
	estado = strings.ToUpper(strings.TrimSpace(estado))
	if !slices.Contains(Estados, estado) {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "[Reports UpdateOrderStatus] unknown estado %q", estado)
	}
	var order Order
	body := struct {
		Estado string `json:"estado"`
	}{Estado: estado}
	if err := s.api.Put(ctx, fmt.Sprintf("%s/%d/estado", ordersPath, id), body, &order); err != nil {
		return nil, errors.Wrapf(err, "[Reports UpdateOrderStatus] id %d", id)
	}
	return &order, nil
}

// ListAuditLogs fetches audit entries matching filter.
func (s *Service) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]AuditLog, error) {
	path := auditPath
	if q := filter.Values().Encode(); q != "" {
		path += "?" + q
	}
	var logs []AuditLog
	if err := s.api.Get(ctx, path, &logs); err != nil {
		return nil, errors.Wrap(err, "[Reports ListAuditLogs]")
	}
	return logs, nil
}
