package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/gossip/api"
	"github.com/cppla/gossip/config"
	"github.com/cppla/gossip/utils"
)

func testRouter(t *testing.T) http.Handler {
	cfg := config.AppConfig{
		App: config.AppSection{GinMode: "test", AllowedOrigins: []string{"https://embed.test"}, TokenStorage: config.StorageMemory, TokenTTL: time.Hour},
		API: config.APISection{BaseURL: "http://forum.invalid", Timeout: time.Second},
		Cookie: config.CookieSection{
			SessionCookie: "gossip_sid",
			TokenCookie:   "access_token",
		},
	}
	r, err := SetupRouter(cfg, utils.NewMemoryTokenStorage(), api.NewClient(cfg.API.BaseURL, "access_token", time.Second))
	require.NoError(t, err)
	return r
}

func TestRootRedirectsToLogin(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"status":"ok"}}`, rec.Body.String())
}

func TestSessionProbe(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("Origin", "https://embed.test")
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://embed.test", rec.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		Data struct {
			State string `json:"state"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "anonymous", body.Data.State)
}

func TestLoginScreenRenders(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign In")
	assert.Contains(t, rec.Body.String(), "Create Account")
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
