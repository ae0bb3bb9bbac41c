package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jacentio/lattice/query"
)

// Routes maps list routes to the entity type they serve.
var Routes = map[string]string{
	"/users":            "USER",
	"/events":           "EVENT",
	"/emails/analytics": "EMAIL",
}

// Service serves list requests for both the HTTP server and the Lambda handler.
type Service struct {
	pager  *query.Paginator
	logger *slog.Logger
}

// NewService creates a service backed by pager.
func NewService(pager *query.Paginator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pager:  pager,
		logger: logger,
	}
}

// List parses params for entityType and returns one page.
func (s *Service) List(ctx context.Context, entityType string, params url.Values) (Response, error) {
	cat, err := s.pager.Planner().Catalog(entityType)
	if err != nil {
		return Response{}, err
	}

	req, err := ParseRequest(cat, params)
	if err != nil {
		return Response{}, err
	}

	page, err := s.pager.Page(ctx, req)
	if err != nil {
		s.log(entityType, err)
		return Response{}, err
	}
	return NewResponse(page), nil
}

func (s *Service) log(entityType string, err error) {
	switch Status(err) {
	case http.StatusBadRequest:
		s.logger.Debug("rejected request", "entity", entityType, "error", err)
	case http.StatusServiceUnavailable:
		s.logger.Warn("store unavailable", "entity", entityType, "error", err)
	default:
		s.logger.Error("request failed", "entity", entityType, "error", err)
	}
}
