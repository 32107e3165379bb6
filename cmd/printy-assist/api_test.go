package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/printyhq/printy-assist/pkg/persistence/memory"
	"github.com/printyhq/printy-assist/pkg/registry"
	"github.com/printyhq/printy-assist/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp() *API {
	return NewAPI(
		slog.Default(),
		memory.NewPersistence(),
		registry.Default(slog.Default()),
		nil,
		session.NewMemoryHistory(),
		time.Hour,
	)
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp().App()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Printy Assist API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app := setupTestApp().App()

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
