// Package server exposes the content engine over HTTP: public read
// endpoints, conditional image serving, and JWT-gated admin routes for
// rebuilds and content mutations. The server holds no state of its own;
// everything flows through the engine.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lumapress/luma/pkg/content"
	"github.com/lumapress/luma/pkg/log"
	"github.com/lumapress/luma/pkg/storage"
)

// Server bundles the engine with the HTTP surface.
type Server struct {
	engine    *content.Engine
	logger    *slog.Logger
	jwtSecret []byte
}

// New constructs a Server. An empty jwtSecret disables all admin routes.
func New(engine *content.Engine, logger *slog.Logger, jwtSecret string) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{engine: engine, logger: logger, jwtSecret: []byte(jwtSecret)}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/index", s.handleIndex)
		r.Get("/nav", s.handleNav)
		r.Get("/tags", s.handleTags)
		r.Get("/galleries", s.handleGalleries)
		r.Get("/galleries/{slug}", s.handleGallery)
		r.Get("/posts", s.handlePosts)
		r.Get("/posts/{slug}", s.handlePost)
		r.Get("/pages", s.handlePages)
		r.Get("/pages/{slug}", s.handlePage)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/index", s.handleAdminIndex)
			r.Post("/rebuild", s.handleRebuild)
			r.Post("/invalidate", s.handleInvalidate)
			r.Put("/posts/{slug}", s.handleSavePost)
			r.Delete("/posts/{slug}", s.handleDeletePost)
			r.Put("/pages/{slug}", s.handleSavePage)
			r.Delete("/pages/{slug}", s.handleDeletePage)
			r.Put("/galleries/{slug}", s.handleSaveGalleryMeta)
			r.Put("/galleries/{slug}/password", s.handleSetGalleryPassword)
			r.Post("/galleries/{slug}/photos/{filename}", s.handleUploadPhoto)
			r.Delete("/galleries/{slug}/photos/{filename}", s.handleDeletePhoto)
			r.Delete("/galleries/{slug}", s.handleDeleteGallery)
		})
	})

	r.Get("/img/*", s.handleImage)

	return r
}

// respondJSON writes v as JSON.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error envelope.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// fail maps engine errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case content.IsNotFound(err):
		respondError(w, http.StatusNotFound, "not found")
	case content.IsForbidden(err):
		s.logger.Warn("forbidden request", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusForbidden, "forbidden")
	case content.IsSlugCollision(err):
		s.logger.Error("slug collision during rebuild", "error", err)
		respondError(w, http.StatusConflict, err.Error())
	case storage.IsUnavailable(err):
		s.logger.Error("storage unavailable", "error", err)
		respondError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
