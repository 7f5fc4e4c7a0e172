package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabbalab/mahabba-server/internal/config"
	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/logger"
	"github.com/mahabbalab/mahabba-server/internal/service"
)

// testServer wraps the API server for testing.
type testServer struct {
	*Server
	api  humatest.TestAPI
	path string
}

// corpusCSV has 12 rows valid for the scatter view and two that it drops.
// The overview view accepts 13 of them, short of its 20-record threshold.
func corpusCSV() string {
	var b strings.Builder
	b.WriteString("ID,Title,Author,Genre Code,Century AH,Love Index\n")
	genres := []string{"BIO", "DEV", "PHI", "POE", "RHE", "THE"}
	for i := range 12 {
		fmt.Fprintf(&b, "ms-%d,Work %d,Author %d,%s,%d,%.1f\n", i+1, i+1, i%3, genres[i%6], 2+i%4, float64(i%5)*0.5)
	}
	b.WriteString("ms-98,Too Early,Nobody,POE,1,1.0\n")
	b.WriteString("ms-99,Unknown,Nobody,XYZ,5,1.0\n")
	return b.String()
}

// setupTestServer creates a test server over a temporary dataset.
// An empty csv leaves the dataset file absent.
func setupTestServer(t *testing.T, csv string, opts Options) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "corpus.csv")
	if csv != "" {
		require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))
	}

	log := logger.Discard()
	atlas := service.NewAtlasService(dataset.New(path, dataset.Options{}), config.DefaultViews(), log)
	if opts.CORSOrigins == nil {
		opts.CORSOrigins = []string{"*"}
	}
	server := NewServer(atlas, opts, log)

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.api),
		path:   path,
	}
}

// envelope mirrors the wire shape for decoding in tests.
type envelope struct {
	V       int             `json:"v"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	require.Equal(t, 1, env.V)
	return env
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	env := decodeEnvelope(t, body)
	require.True(t, env.Success, string(body))

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func requireError(t *testing.T, resp *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	require.Equal(t, status, resp.Code, resp.Body.String())
	env := decodeEnvelope(t, resp.Body.Bytes())
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
	return env
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, corpusCSV(), Options{})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decodeData[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, Version, health.Version)
	assert.Equal(t, []string{"overview", "scatter", "genres"}, health.Views)
}

func TestHealthCheck_DoesNotReadDataset(t *testing.T) {
	ts := setupTestServer(t, "", Options{})

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestNotFoundRoute(t *testing.T) {
	ts := setupTestServer(t, corpusCSV(), Options{})

	resp := ts.api.Get("/api/v1/nothing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
