package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uscann/chemtrack/docs/api"
	"github.com/uscann/chemtrack/internal/middleware"
	"github.com/uscann/chemtrack/internal/services"
	"github.com/uscann/chemtrack/internal/testutil"
)

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/nope", nil)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	body := errorBody(t, resp)
	assert.Equal(t, "[404] Resource Not Found", body.Message)
	assert.Equal(t, "/nope", body.URL)
	assert.False(t, body.Ok)
}

func TestErrorBody(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/chemicals/query", nil)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))

	body := errorBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Equal(t, "validation", body.Type)
	assert.Equal(t, "/chemicals/query", body.URL)
	assert.NotEmpty(t, body.Timestamp)
}

func TestMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/add_chemical", `{"name": `)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	assert.Equal(t, "invalid request body", errorBody(t, resp).Message)

	resp = env.do(t, http.MethodPost, "/buildings", nil)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestInvalidPathID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodDelete, "/chemicaldelete/abc", nil)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	assert.Equal(t, `invalid id "abc"`, errorBody(t, resp).Message)
}

func TestHealthRoute(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)

	var result services.HealthCheckResult
	testutil.ParseJSON(t, resp, &result)
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "unreachable", result.PubChem)
}

func TestRoutesAreDocumented(t *testing.T) {
	env := newTestEnv(t)

	var doc struct {
		Info struct {
			Contact map[string]string `json:"contact"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(api.SwaggerInfo.ReadDoc()), &doc))
	assert.NotContains(t, doc.Info.Contact["email"], "localnerve")

	param := regexp.MustCompile(`:(\w+)`)
	for _, route := range env.app.GetRoutes(true) {
		if route.Method == http.MethodHead {
			continue
		}
		path := param.ReplaceAllString(route.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "undocumented path %s", path) {
			assert.Contains(t, ops, strings.ToLower(route.Method), path)
		}
	}
}
