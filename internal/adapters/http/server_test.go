package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/vessel"
	api "github.com/aretw0/vessel/internal/adapters/http"
	"github.com/aretw0/vessel/pkg/adapters/memory"
	"github.com/aretw0/vessel/pkg/config"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/observability"
	"github.com/aretw0/vessel/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = `
main_branch: {diameter: 20, length: 200}
primary_branches:
  length: 60
  angles: [45]
  relative_positions: [0.5]
  diameters: [8]
add_secondary_branches: false
mesh: {resolution: 1.5}
`

func newServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	handler := api.NewHandler(&api.Server{
		Engine:  vessel.New(vessel.WithLifecycleHooks(metrics.Hooks())),
		Store:   memory.NewStore(),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, reg
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestModels_Lifecycle(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/models", "application/yaml", strings.NewReader(scenario))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.ModelResponse](t, resp)
	assert.False(t, created.Cached)
	assert.Positive(t, created.Triangles)
	assert.Equal(t, 84+50*created.Triangles, created.Bytes)
	assert.Empty(t, created.Warnings)

	resp, err = http.Post(srv.URL+"/v1/models", "application/yaml", strings.NewReader(scenario))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	again := decode[api.ModelResponse](t, resp)
	assert.True(t, again.Cached)
	assert.Equal(t, created.Key, again.Key)

	resp, err = http.Get(srv.URL + "/v1/models/" + created.Key)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "model/stl", resp.Header.Get("Content-Type"))
	assert.Equal(t, int64(created.Bytes), resp.ContentLength)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/v1/models")
	require.NoError(t, err)
	assert.Equal(t, []string{created.Key}, decode[map[string][]string](t, resp)["keys"])

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/models/"+created.Key, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/v1/models/" + created.Key)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestModels_InvalidConfig(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/models", "application/yaml", strings.NewReader("main_branch: {diameter: -1}\ncolour: red\n"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Len(t, body["details"], 2)
}

func TestModels_ShapeError(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/models", "application/json", strings.NewReader(`{"primary_branches": {"angles": [10, 20]}}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestValidate(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/validate", "application/yaml", strings.NewReader(scenario))
	require.NoError(t, err)
	ok := decode[api.ValidateResponse](t, resp)
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Errors)

	resp, err = http.Post(srv.URL+"/v1/validate", "application/yaml", strings.NewReader("rounding: {external_seam: -1}\n"))
	require.NoError(t, err)
	bad := decode[api.ValidateResponse](t, resp)
	assert.False(t, bad.Valid)
	require.Len(t, bad.Errors, 1)
	assert.Contains(t, bad.Errors[0], "rounding.external_seam")
}

func TestSchema(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/v1/schema")
	require.NoError(t, err)
	body := decode[map[string]any](t, resp)
	assert.Contains(t, body, "main_branch")
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/models", "application/yaml", strings.NewReader(scenario))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sb bytes.Buffer
	_, err = sb.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), `vessel_builds_total{result="ok"} 1`)
	assert.Contains(t, sb.String(), "vessel_stage_duration_seconds")
}

type failingEngine struct{ err error }

func (f failingEngine) Validate(*config.Config) ([]error, error) { return nil, f.err }

func (f failingEngine) Artifact(context.Context, ports.ArtifactStore, *config.Config) (*domain.Artifact, bool, error) {
	return nil, false, f.err
}

func TestCreateModel_ErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"degenerate", &domain.DegenerateGeometryError{Body: "p0", Reason: "too wide", Fatal: true}, http.StatusUnprocessableEntity},
		{"boolean", &domain.BooleanOperationError{Op: "union", Left: "a", Right: "b", Err: errors.New("kernel")}, http.StatusInternalServerError},
		{"canceled", context.Canceled, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := api.NewHandler(&api.Server{Engine: failingEngine{err: tc.err}, Store: memory.NewStore()})
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/models", strings.NewReader("{}")))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestReadBody_Errors(t *testing.T) {
	handler := api.NewHandler(&api.Server{Engine: vessel.New(), Store: memory.NewStore()})

	t.Run("too large", func(t *testing.T) {
		body := strings.NewReader("# " + strings.Repeat("x", 1<<20) + "\n")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/validate", body))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("read failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/models", brokenBody{}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection reset")
	})
}
