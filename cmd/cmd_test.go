package cmd

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rajangupta9/taskmanager/config"
	"github.com/Rajangupta9/taskmanager/logging"
	"github.com/Rajangupta9/taskmanager/store"
)

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "migrate"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
}

func TestNewAPI(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.Database.Driver = config.DriverMemory

	api := newAPI(cfg, store.NewMemoryStore(), logging.NopLogger())

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/check", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"healthy"`) {
		t.Errorf("GET /check = %d %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /api/v1/tasks without session = %d", rec.Code)
	}
}
