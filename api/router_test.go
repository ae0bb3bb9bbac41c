package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/lattice/api"
	"github.com/jacentio/lattice/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRouter_ListUsers(t *testing.T) {
	kv := &stubKV{records: []store.Record{
		userRecord("1", "Lee", "Acme"),
		userRecord("2", "Moss", "Acme"),
		userRecord("3", "Nash", "Globex"),
	}}
	r := api.NewRouter(newService(kv))

	w := serve(t, r, "/users?company=Acme&limit=1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.True(t, resp.HasMore)
	require.NotNil(t, resp.NextToken)
	assert.Equal(t, "Acme", resp.Items[0]["company"])
	assert.NotContains(t, resp.Items[0], "PK")
}

func TestRouter_EmptyResult(t *testing.T) {
	r := api.NewRouter(newService(&stubKV{}))

	w := serve(t, r, "/emails/analytics?status=sent")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"count":0,"hasMore":false,"nextToken":null}`, w.Body.String())
}

func TestRouter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"unknown attribute", "/users?favoriteColor=blue", nil, http.StatusBadRequest},
		{"bad limit", "/users?limit=-1", nil, http.StatusBadRequest},
		{"bad token", "/events?nextToken=garbage", nil, http.StatusBadRequest},
		{"range on string", "/users?companyMin=A", nil, http.StatusBadRequest},
		{"throttled", "/users?company=Acme", store.ErrThrottled, http.StatusServiceUnavailable},
		{"store rejected query", "/users?company=Acme", store.ErrInvalidQuery, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := &stubKV{err: tt.err}
			w := serve(t, api.NewRouter(newService(kv)), tt.target)

			assert.Equal(t, tt.want, w.Code)

			var body api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			if tt.err == nil {
				assert.Zero(t, kv.calls, "validation failures must not reach the store")
			}
		})
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := api.NewRouter(newService(&stubKV{}))

	w := serve(t, r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(t, r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `lattice_http_requests_total{method="GET",route="/healthz",status="200"}`)
}

func TestRouter_NotFound(t *testing.T) {
	w := serve(t, api.NewRouter(newService(&stubKV{})), "/invoices")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
