package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL: "http://monolith.test",
		Routes:  SplitRoutes("http://services.test/"),
	}, StaticToken("secret-token"))
}

func TestClientList(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, "http://monolith.test/api/v1/calendars",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `[{"id":"c1","name":"Work"}]`), nil
		})

	var out []models.CalendarDTO
	err := newTestClient(t).List(context.Background(), models.ResourceCalendars, &out)

	require.NoError(t, err)
	assert.Equal(t, []models.CalendarDTO{{ID: "c1", Name: "Work"}}, out)
}

func TestClientRoutesToServices(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, "http://services.test/api/v1/events",
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)

			var dto models.EventDTO
			require.NoError(t, json.Unmarshal(body, &dto))
			dto.ID = "e1"
			return httpmock.NewJsonResponse(http.StatusCreated, dto)
		})

	var out models.EventDTO
	err := newTestClient(t).Create(context.Background(), models.ResourceEvents, models.EventDTO{Name: "Standup"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "e1", out.ID)
	assert.Equal(t, "Standup", out.Name)
}

func TestClientUpdateAndDelete(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPut, "http://services.test/api/v1/notes/n1",
		httpmock.NewStringResponder(http.StatusOK, `{"id":"n1","description":"d","calendarId":"c1"}`))
	httpmock.RegisterResponder(http.MethodDelete, "http://monolith.test/api/v1/categories/k1",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	client := newTestClient(t)

	var note models.NoteDTO
	require.NoError(t, client.Update(context.Background(), models.ResourceNotes, "n1", models.NoteDTO{Description: "d"}, &note))
	assert.Equal(t, "n1", note.ID)

	require.NoError(t, client.Delete(context.Background(), models.ResourceCategories, "k1"))
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		status     int
		wantStatus int
	}{
		{"list server error", http.MethodGet, http.StatusInternalServerError, http.StatusInternalServerError},
		{"create conflict", http.MethodPost, http.StatusConflict, http.StatusConflict},
		{"update created is not ok", http.MethodPut, http.StatusCreated, http.StatusCreated},
		{"delete not found", http.MethodDelete, http.StatusNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			httpmock.RegisterNoResponder(httpmock.NewStringResponder(tt.status, `{"error":"boom"}`))

			client := newTestClient(t)
			ctx := context.Background()

			var err error
			switch tt.method {
			case http.MethodGet:
				err = client.List(ctx, models.ResourceTasks, &[]models.TaskDTO{})
			case http.MethodPost:
				err = client.Create(ctx, models.ResourceTasks, models.TaskDTO{}, &models.TaskDTO{})
			case http.MethodPut:
				err = client.Update(ctx, models.ResourceTasks, "t1", models.TaskDTO{}, &models.TaskDTO{})
			case http.MethodDelete:
				err = client.Delete(ctx, models.ResourceTasks, "t1")
			}

			require.Error(t, err)
			assert.True(t, IsFetchError(err))
			assert.Equal(t, tt.wantStatus, StatusCode(err))
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestClientPostAction(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, "http://monolith.test/api/v1/authentication/logout",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	c := newTestClient(t)
	require.NoError(t, c.Post(context.Background(), ResourceAuthentication, "logout", nil, nil))

	// Creating a resource still requires 200 or 201.
	httpmock.RegisterResponder(http.MethodPost, "http://monolith.test/api/v1/calendars",
		httpmock.NewStringResponder(http.StatusNoContent, ""))
	err := c.Create(context.Background(), models.ResourceCalendars, models.CalendarDTO{Name: "Work"}, nil)
	assert.Equal(t, http.StatusNoContent, StatusCode(err))
}

func TestClientTransportError(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterNoResponder(httpmock.NewErrorResponder(errors.New("connection refused")))

	err := newTestClient(t).List(context.Background(), models.ResourceCalendars, &[]models.CalendarDTO{})

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.Status)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestClientMalformedBody(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, "http://monolith.test/api/v1/calendars",
		httpmock.NewStringResponder(http.StatusOK, `not json`))

	err := newTestClient(t).List(context.Background(), models.ResourceCalendars, &[]models.CalendarDTO{})

	assert.True(t, IsFetchError(err))
	assert.Contains(t, err.Error(), "decoding response")
}

func TestClientWithoutToken(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, "http://localhost:8080/api/v1/calendars",
		func(req *http.Request) (*http.Response, error) {
			assert.Empty(t, req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
		})

	client := NewClient(Config{}, nil)
	require.NoError(t, client.List(context.Background(), models.ResourceCalendars, &[]models.CalendarDTO{}))
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("VITE_API_URL", "http://vite.test")
	t.Setenv("SERVICES_API_URL", "http://svc.test")

	cfg := DefaultConfig()
	assert.Equal(t, "http://vite.test", cfg.BaseURLFor(models.ResourceCalendars))
	assert.Equal(t, "http://svc.test", cfg.BaseURLFor(models.ResourceTasks))
	assert.Equal(t, "http://vite.test", cfg.BaseURLFor(ResourceAuthentication))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("VITE_API_URL", "")
	t.Setenv("SERVICES_API_URL", "")

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://core.test/
timeout: 5s
routes:
  notes: http://notes.test
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "http://core.test", cfg.BaseURLFor(models.ResourceEvents))
	assert.Equal(t, "http://notes.test", cfg.BaseURLFor(models.ResourceNotes))

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
