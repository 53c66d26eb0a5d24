package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qcm-hub/scoreboard/internal/apperr"
	"github.com/qcm-hub/scoreboard/internal/score"
)

// POST /rest/scores
func SubmitScoreHandler(svc *score.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req score.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Invalid("champs invalides"))
			return
		}
		receipt, err := svc.Submit(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":          true,
			"external_id": receipt.ExternalID,
			"theme_code":  receipt.ThemeCode,
			"score":       receipt.Score,
			"max_score":   receipt.MaxScore,
		})
	}
}

// GET /rest/scores — liveness
func PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "ping": "pong"})
	}
}

// GET /rest/scores/{externalID}
func GetScoresHandler(svc *score.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID := chi.URLParam(r, "externalID")
		entries, err := svc.ScoresForStudent(r.Context(), externalID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":           true,
			"external_id":  externalID,
			"scores":       entries,
			"total_themes": len(entries),
		})
	}
}
