package scoreclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qcm-hub/scoreboard/internal/score"
)

func TestSubmitScoreNotifiesSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/scores", r.URL.Path)
		var req score.SubmitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true, "external_id": req.ExternalID, "theme_code": req.ThemeCode,
			"score": req.Score, "max_score": req.MaxScore,
		})
	}))
	defer ts.Close()

	var notes []string
	c := New(Config{BaseURL: ts.URL, Notify: func(level, msg string) {
		notes = append(notes, level+": "+msg)
	}})

	receipt, err := c.SubmitScore(context.Background(),
		score.SubmitRequest{ExternalID: "alice", Session: "QCM", ThemeCode: "algebra", Score: 8, MaxScore: 10})
	require.NoError(t, err)
	require.Equal(t, int64(8), receipt.Score)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0], "success")
}

func TestSubmitScoreSurfacesServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "champs invalides"})
	}))
	defer ts.Close()

	var notes []string
	c := New(Config{BaseURL: ts.URL, Notify: func(level, msg string) {
		notes = append(notes, level)
	}})

	_, err := c.SubmitScore(context.Background(), score.SubmitRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "champs invalides")
	require.Equal(t, []string{"error"}, notes)
}

func TestRecordSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/public/qcm", r.URL.Path)
		w.WriteHeader(201)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	// nil Notifier must be silent, not panic.
	c := New(Config{BaseURL: ts.URL})
	err := c.RecordSession(context.Background(), map[string]any{
		"session_id": "run-1", "completed_at": "2026-03-01T10:00:00Z",
	})
	require.NoError(t, err)
}
