package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/qcm-hub/scoreboard/internal/db"
	"github.com/qcm-hub/scoreboard/internal/score"
)

func newTestRouter(t *testing.T, qcmOrigins ...string) (chi.Router, *sql.DB) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })

	svc := score.NewService(score.NewSQLStore(dbh, "sqlite"))

	r := chi.NewRouter()
	r.Route("/rest/scores", func(sr chi.Router) {
		sr.Get("/", PingHandler())
		sr.Post("/", SubmitScoreHandler(svc))
		sr.Get("/{externalID}", GetScoresHandler(svc))
	})
	r.Route("/public", func(pr chi.Router) {
		pr.Post("/qcm", RecordQuizSessionHandler(svc, qcmOrigins))
		pr.Get("/themes", ThemeCatalogHandler(svc))
	})
	return r, dbh
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPing(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/rest/scores", nil)
	require.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["ok"])
	require.Equal(t, "pong", body["ping"])
}

func TestSubmitThenFetch(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/rest/scores", map[string]any{
		"external_id": "alice",
		"session":     "QCM",
		"theme_code":  "algebra",
		"score":       8,
		"max_score":   10,
	})
	require.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["ok"])
	require.Equal(t, "alice", body["external_id"])
	require.EqualValues(t, 8, body["score"])
	require.EqualValues(t, 10, body["max_score"])

	w = doJSON(t, r, http.MethodGet, "/rest/scores/alice", nil)
	require.Equal(t, 200, w.Code)
	body = decodeBody(t, w)
	require.EqualValues(t, 1, body["total_themes"])
	scores := body["scores"].([]any)
	require.Len(t, scores, 1)
	entry := scores[0].(map[string]any)
	require.Equal(t, "algebra", entry["theme_code"])
	require.EqualValues(t, 8, entry["score"])
	require.EqualValues(t, 10, entry["max_score"])
}

func TestSubmitInvalidFields(t *testing.T) {
	r, dbh := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/rest/scores", map[string]any{
		"external_id": "alice",
		"session":     "QCM",
		"theme_code":  "algebra",
		"score":       8,
		"max_score":   0,
	})
	require.Equal(t, 400, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, false, body["ok"])
	require.Equal(t, "champs invalides", body["error"])

	var n int
	require.NoError(t, dbh.QueryRow(`SELECT count(*) FROM scores`).Scan(&n))
	require.Zero(t, n, "rejected submission must not create a row")
}

func TestSubmitBadJSON(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/rest/scores", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, 400, w.Code)
}

func TestFetchUnknownStudent(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/rest/scores/nonexistent", nil)
	require.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["ok"])
	require.EqualValues(t, 0, body["total_themes"])
	require.Empty(t, body["scores"])
}
