package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/qcm-hub/scoreboard/internal/apperr"
	"github.com/qcm-hub/scoreboard/internal/score"
)

// quizSessionBody takes the summary fields loosely typed; clients send
// numbers, numeric strings or garbage, and everything non-coercible lands as
// NULL rather than rejecting the whole row.
type quizSessionBody struct {
	SessionID         string `json:"session_id"`
	StartedAt         any    `json:"started_at"`
	CompletedAt       any    `json:"completed_at"`
	NumThemes         any    `json:"num_themes"`
	NumQuestionsTotal any    `json:"num_questions_total"`
	NumCorrectTotal   any    `json:"num_correct_total"`
	Themes            any    `json:"themes"`
}

// POST /public/qcm
func RecordQuizSessionHandler(svc *score.Service, allowedOrigins []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checkOrigin(r, allowedOrigins); err != nil {
			writeError(w, err)
			return
		}
		var body quizSessionBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, apperr.Invalid("bad json"))
			return
		}
		qs := score.QuizSession{
			SessionID:         body.SessionID,
			StartedAt:         coerceString(body.StartedAt),
			NumThemes:         coerceInt(body.NumThemes),
			NumQuestionsTotal: coerceInt(body.NumQuestionsTotal),
			NumCorrectTotal:   coerceInt(body.NumCorrectTotal),
			Themes:            coerceList(body.Themes),
		}
		if s := coerceString(body.CompletedAt); s != nil {
			qs.CompletedAt = *s
		}
		if err := svc.RecordQuizSession(r.Context(), qs); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
	}
}

// GET /public/themes
func ThemeCatalogHandler(svc *score.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := svc.ThemeCatalog(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":     true,
			"themes": subjects,
			"count":  len(subjects),
		})
	}
}

// checkOrigin rejects browsers posting from an unexpected Origin. An empty
// allowlist disables the check; a request without an Origin header passes
// (non-browser clients).
func checkOrigin(r *http.Request, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return nil
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return nil
		}
	}
	return apperr.Forbidden("origin not allowed")
}

func coerceInt(v any) *int64 {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		n := int64(x)
		return &n
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

func coerceString(v any) *string {
	switch x := v.(type) {
	case string:
		if x == "" {
			return nil
		}
		return &x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		s := strconv.FormatFloat(x, 'f', -1, 64)
		return &s
	}
	return nil
}

func coerceList(v any) *string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	buf, err := json.Marshal(list)
	if err != nil {
		return nil
	}
	s := string(buf)
	return &s
}
