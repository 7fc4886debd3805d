package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/portal/internal/client"
	"github.com/joescharf/portal/internal/store"
)

func TestNewAPIServer_Routes(t *testing.T) {
	testEnv(t)
	app, err := getServices()
	require.NoError(t, err)

	h := newAPIServer(app).Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Website Redesign")
}

func TestNewAPIServer_RequiresAPIKey(t *testing.T) {
	testEnv(t)
	viper.Set("api_key", "s3cret")
	app, err := getServices()
	require.NoError(t, err)

	h := newAPIServer(app).Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("X-API-Key", "s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeRun_RefusesRemoteBackend(t *testing.T) {
	testEnv(t)
	viper.Set("backend", backendRemote)

	err := serveRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local backend")
}

func TestOpenStore_Backends(t *testing.T) {
	testEnv(t)
	logger := newLogger()

	viper.Set("backend", backendRemote)
	s, err := openStore(logger)
	require.NoError(t, err)
	_, ok := s.(*client.Client)
	assert.True(t, ok, "remote backend should use the HTTP client")
	require.NoError(t, s.Close())

	viper.Set("backend", backendLocal)
	viper.Set("db_path", "")
	s, err = openStore(logger)
	require.NoError(t, err)
	_, ok = s.(*store.LocalStore)
	assert.True(t, ok, "local backend should use the local store")
	require.NoError(t, s.Close())

	viper.Set("backend", "ftp")
	_, err = openStore(logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}
