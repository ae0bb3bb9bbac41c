package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// HandleAPIGateway serves a list request from API Gateway.
// It is designed to be used as an AWS Lambda handler.
func (s *Service) HandleAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod != "" && req.HTTPMethod != http.MethodGet {
		return jsonResponse(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	}

	entityType, ok := routeEntity(req.Resource, req.Path)
	if !ok {
		return jsonResponse(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	resp, err := s.List(ctx, entityType, queryValues(req))
	if err != nil {
		return jsonResponse(Status(err), errorBody(err))
	}
	return jsonResponse(http.StatusOK, resp)
}

// routeEntity resolves the entity type from the API Gateway resource, falling
// back to the request path with any stage prefix.
func routeEntity(resource, path string) (string, bool) {
	if e, ok := Routes[strings.TrimSuffix(resource, "/")]; ok {
		return e, true
	}
	path = strings.TrimSuffix(path, "/")
	for route, e := range Routes {
		if path == route || strings.HasSuffix(path, route) {
			return e, true
		}
	}
	return "", false
}

func queryValues(req events.APIGatewayProxyRequest) url.Values {
	values := url.Values{}
	if len(req.MultiValueQueryStringParameters) > 0 {
		for k, vs := range req.MultiValueQueryStringParameters {
			values[k] = append(values[k], vs...)
		}
		return values
	}
	for k, v := range req.QueryStringParameters {
		values.Set(k, v)
	}
	return values
}

func jsonResponse(status int, body any) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}, nil
}
