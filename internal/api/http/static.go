package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// MountStatic serves the public asset directory. Responses carry no-store
// cache headers so the quiz frontend never sees a stale build during class.
func MountStatic(r chi.Router, dir string) {
	fs := http.StripPrefix("/public", http.FileServer(http.Dir(dir)))
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		// FileServer answers a literal /index.html with a 301 to ./;
		// rewrite so the entry page is served directly.
		if strings.HasSuffix(req.URL.Path, "/index.html") {
			req.URL.Path = strings.TrimSuffix(req.URL.Path, "index.html")
		}
		fs.ServeHTTP(w, req)
	})
}
