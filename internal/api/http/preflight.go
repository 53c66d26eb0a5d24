package http

import "net/http"

// PreflightStatus makes preflight responses answer 204. The CORS layer writes
// 200 with an empty body; mounting this outside it rewrites only that status,
// only for OPTIONS requests.
func PreflightStatus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w = &preflightWriter{ResponseWriter: w}
		}
		next.ServeHTTP(w, r)
	})
}

type preflightWriter struct{ http.ResponseWriter }

func (w *preflightWriter) WriteHeader(status int) {
	if status == http.StatusOK {
		status = http.StatusNoContent
	}
	w.ResponseWriter.WriteHeader(status)
}
