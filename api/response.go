package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/jacentio/lattice/query"
	"github.com/jacentio/lattice/store"
)

// Response is the JSON body of a successful list request.
type Response struct {
	Items     []map[string]any `json:"items"`
	Count     int              `json:"count"`
	HasMore   bool             `json:"hasMore"`
	NextToken *string          `json:"nextToken"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewResponse renders a result page.
func NewResponse(page query.ResultPage) Response {
	resp := Response{
		Items:   make([]map[string]any, 0, len(page.Items)),
		Count:   len(page.Items),
		HasMore: page.HasMore(),
	}
	for _, rec := range page.Items {
		resp.Items = append(resp.Items, rec.Public())
	}
	if page.NextToken != "" {
		tok := page.NextToken
		resp.NextToken = &tok
	}
	return resp
}

// Status maps an error to an HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidParameter), query.IsValidation(err):
		return http.StatusBadRequest
	case store.IsTransient(err), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody hides internal error details from clients.
func errorBody(err error) ErrorResponse {
	switch Status(err) {
	case http.StatusBadRequest:
		return ErrorResponse{Error: err.Error()}
	case http.StatusServiceUnavailable:
		return ErrorResponse{Error: "service temporarily unavailable"}
	default:
		return ErrorResponse{Error: "internal error"}
	}
}
