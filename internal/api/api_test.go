package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/auth"
	"github.com/AdrianDanlos/rythm/internal/cache"
	"github.com/AdrianDanlos/rythm/internal/service"
	"github.com/AdrianDanlos/rythm/internal/storage"
)

type testApp struct {
	logger internal.Logger
	svc    Service
}

func (a *testApp) Logger() internal.Logger { return a.logger }
func (a *testApp) Service() Service        { return a.svc }

const token = "MOCK-TOKEN"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	logger := internal.NewNopLogger()

	store, err := storage.NewFileStorage(filepath.Join(dir, "entries.json"), filepath.Join(dir, "users.json"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SaveUser(context.Background(), &internal.User{ID: "u1", Token: token, Name: "Test User"}))

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := service.New(store, cache.NopCache{}, logger, service.Options{
		SleepThreshold: 7,
		Clock:          func() time.Time { return now },
	})
	return NewRouter(&testApp{logger: logger, svc: svc}, auth.NewLocalAuthProvider(store, logger))
}

type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Meta  map[string]any     `json:"meta"`
	Error *internal.AppError `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHealthzIsOpen(t *testing.T) {
	r := setupRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequiresAuth(t *testing.T) {
	r := setupRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEntryLifecycle(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodPut, "/api/entries/2024-03-10", `{"sleep_hours":7.5,"mood":4,"tags":["Work"," gym "]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved internal.Entry
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "2024-03-10", saved.EntryDate)
	assert.Equal(t, []string{"work", "gym"}, saved.Tags)
	assert.True(t, saved.IsComplete)

	w, env = do(t, r, http.MethodGet, "/api/entries/2024-03-10", "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched internal.Entry
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, saved.ID, fetched.ID)

	_, _ = do(t, r, http.MethodPut, "/api/entries/2024-03-08", `{"mood":2}`)
	w, env = do(t, r, http.MethodGet, "/api/entries", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []internal.Entry
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-10", list[0].EntryDate)
	assert.Equal(t, float64(2), env.Meta["count"])

	w, _ = do(t, r, http.MethodDelete, "/api/entries/2024-03-08", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = do(t, r, http.MethodGet, "/api/entries/2024-03-08", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, http.StatusNotFound, env.Error.Code)
}

func TestPutEntry_Invalid(t *testing.T) {
	r := setupRouter(t)
	cases := map[string]struct{ path, body string }{
		"bad json":  {"/api/entries/2024-03-10", `{"mood":`},
		"mood 0":    {"/api/entries/2024-03-10", `{"mood":0}`},
		"mood 6":    {"/api/entries/2024-03-10", `{"mood":6}`},
		"sleep 13":  {"/api/entries/2024-03-10", `{"sleep_hours":13}`},
		"bad date":  {"/api/entries/10-03-2024", `{"mood":3}`},
		"wrong typ": {"/api/entries/2024-03-10", `{"mood":"good"}`},
		"tag sep":   {"/api/entries/2024-03-10", `{"tags":["work;gym"]}`},
	}
	for name, tc := range cases {
		w, env := do(t, r, http.MethodPut, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		if assert.NotNil(t, env.Error, name) {
			assert.Equal(t, http.StatusBadRequest, env.Error.Code, name)
		}
	}
}

func TestStatsReflectsUpsert(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var before map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &before))
	assert.Equal(t, float64(0), before["total_entries"])
	assert.Equal(t, "2024-03-10", before["today"])

	do(t, r, http.MethodPut, "/api/entries/2024-03-10", `{"sleep_hours":8,"mood":5}`)

	w, env = do(t, r, http.MethodGet, "/api/stats?sleep_threshold=7:30", "")
	require.Equal(t, http.StatusOK, w.Code)
	var after map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Equal(t, float64(1), after["total_entries"])
	assert.Equal(t, true, after["logged_today"])
	assert.Equal(t, 7.5, after["sleep_threshold"])

	w, _ = do(t, r, http.MethodGet, "/api/stats?sleep_threshold=lots", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/stats?sleep_threshold=30", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBadgesAndMotivation(t *testing.T) {
	r := setupRouter(t)
	do(t, r, http.MethodPut, "/api/entries/2024-03-10", `{"sleep_hours":8,"mood":5}`)

	w, env := do(t, r, http.MethodGet, "/api/badges", "")
	require.Equal(t, http.StatusOK, w.Code)
	var badges []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &badges))
	assert.Len(t, badges, 20)
	assert.Equal(t, float64(20), env.Meta["total"])

	w, env = do(t, r, http.MethodGet, "/api/motivation", "")
	require.Equal(t, http.StatusOK, w.Code)
	var msg map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.NotEmpty(t, msg["id"])
	assert.NotEmpty(t, msg["text"])
}

func TestExportImport(t *testing.T) {
	r := setupRouter(t)
	do(t, r, http.MethodPut, "/api/entries/2024-03-09", `{"sleep_hours":6.25,"mood":3,"tags":["travel"]}`)

	w, _ := do(t, r, http.MethodGet, "/api/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Body.String(), "2024-03-09,6:15,3,travel,,true")

	csvBody := "date,sleep,mood,tags,note,complete\n2024-03-01,7:00,4,,,true\n2024-03-02,8:30,5,gym,,true\n"
	w, env := do(t, r, http.MethodPost, "/api/import", csvBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), env.Meta["imported"])

	w, env = do(t, r, http.MethodGet, "/api/entries", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), env.Meta["count"])

	w, _ = do(t, r, http.MethodPost, "/api/import", "not,a,csv\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
