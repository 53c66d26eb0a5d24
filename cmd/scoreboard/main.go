package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/qcm-hub/scoreboard/internal/api/http"
	auth "github.com/qcm-hub/scoreboard/internal/auth/middleware"
	"github.com/qcm-hub/scoreboard/internal/config"
	"github.com/qcm-hub/scoreboard/internal/db"
	"github.com/qcm-hub/scoreboard/internal/score"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := score.NewSQLStore(dbh, cfg.DBDriver)
	svc := score.NewService(store)

	authSvc := auth.NewAuthService(cfg.HMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(api.PreflightStatus)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	// Public score API
	r.Route("/rest/scores", func(sr chi.Router) {
		sr.Get("/", api.PingHandler())
		sr.Post("/", api.SubmitScoreHandler(svc))
		sr.Get("/{externalID}", api.GetScoresHandler(svc))
	})

	// Public quiz surfaces + static assets
	r.Route("/public", func(pr chi.Router) {
		pr.Post("/qcm", api.RecordQuizSessionHandler(svc, cfg.AllowedQCMOrigins))
		pr.Get("/themes", api.ThemeCatalogHandler(svc))
		api.MountStatic(pr, cfg.PublicDir)
	})

	// Admin login + bearer-gated table CRUD
	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.AdminUser, cfg.AdminPassHash))
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Route("/admin", func(ar chi.Router) {
			api.MountAdmin(ar, dbh)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
