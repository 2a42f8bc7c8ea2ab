package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"rds/internal/entity"
	"rds/internal/store"
)

// newDebugServer builds the optional HTTP listener a Data Owner can run
// alongside the mailbox for health checks and read-only job visibility
// from a dashboard. It never accepts job-mutating requests: every
// state change still goes through the mailbox so internal/authz stays
// the single place permission is enforced.
func newDebugServer(addr string, jobs store.Store[entity.Job], log *zap.Logger) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/jobs", func(w http.ResponseWriter, req *http.Request) {
		all, err := jobs.GetAll(req.Context(), store.Query{})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(all)
	})

	return &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// serveDebugHTTP runs srv until ctx is cancelled, then shuts it down
// gracefully. It logs and returns on a listen error other than the
// expected post-shutdown http.ErrServerClosed.
func serveDebugHTTP(ctx context.Context, srv *http.Server, log *zap.Logger) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("debug http server shutdown", zap.Error(err))
		}
	}()

	log.Info("debug http listener ready", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("debug http listener stopped", zap.Error(err))
	}
}
