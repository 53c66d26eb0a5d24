package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/qcm-hub/scoreboard/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError converts any failure to a JSON body; nothing escapes to a
// framework error page. Inconsistency faults are logged apart so they can be
// spotted even though the caller just sees a 500.
func writeError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Datastore(err)
	}
	if ae.Code == apperr.CodeInconsistency {
		log.Printf("consistency fault: %v", ae)
	} else if ae.Status >= 500 {
		log.Printf("server error: %v", ae)
	}
	writeJSON(w, ae.Status, map[string]any{"ok": false, "error": ae.Message})
}
