package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumapress/luma/pkg/content"
)

// galleryView is the public shape of a gallery: the stored password hash
// never leaves the server, only the fact that one exists.
type galleryView struct {
	content.Gallery
	Protected bool `json:"protected,omitempty"`
}

func publicGallery(g content.Gallery) galleryView {
	v := galleryView{Gallery: g, Protected: g.Protected()}
	v.PasswordHash = ""
	return v
}

// indexView is the public shape of the index: visible entries only, no
// scan warnings.
type indexView struct {
	Galleries []galleryView  `json:"galleries"`
	Posts     []content.Post `json:"posts"`
	Pages     []content.Page `json:"pages"`
	Tags      map[string]int `json:"tags"`
	Stats     content.Stats  `json:"stats"`
	UpdatedAt string         `json:"updatedAt"`
	Version   int64          `json:"version"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ix, err := s.engine.GetIndex(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := indexView{
		Galleries: make([]galleryView, 0, len(ix.Galleries)),
		Posts:     make([]content.Post, 0, len(ix.Posts)),
		Pages:     make([]content.Page, 0, len(ix.Pages)),
		Tags:      ix.Tags,
		Stats:     ix.Stats,
		UpdatedAt: ix.UpdatedAt.UTC().Format(time.RFC3339),
		Version:   ix.Version,
	}
	for _, g := range ix.Galleries {
		if g.Hidden || g.Private {
			continue
		}
		view.Galleries = append(view.Galleries, publicGallery(g))
	}
	for _, p := range ix.Posts {
		if p.Draft || p.Hidden {
			continue
		}
		view.Posts = append(view.Posts, p)
	}
	for _, p := range ix.Pages {
		if p.Hidden {
			continue
		}
		view.Pages = append(view.Pages, p)
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleAdminIndex(w http.ResponseWriter, r *http.Request) {
	ix, err := s.engine.GetIndex(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ix)
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	nav, err := s.engine.Navigation(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nav)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.engine.Tags(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func (s *Server) handleGalleries(w http.ResponseWriter, r *http.Request) {
	galleries, err := s.engine.Galleries(r.Context(), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views := make([]galleryView, 0, len(galleries))
	for _, g := range galleries {
		views = append(views, publicGallery(g))
	}
	respondJSON(w, http.StatusOK, views)
}

// handleGallery serves one gallery. Protected galleries require the
// password in the X-Gallery-Password header; hidden galleries stay
// reachable by direct slug, matching listing-only visibility.
func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	g, err := s.engine.GalleryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if g.Protected() && !content.VerifyGalleryPassword(g, r.Header.Get("X-Gallery-Password")) {
		respondError(w, http.StatusUnauthorized, "password required")
		return
	}
	respondJSON(w, http.StatusOK, publicGallery(*g))
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.engine.Posts(r.Context(), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if p.Draft {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.engine.Pages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, pages)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.PageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// handleImage serves originals and width variants with conditional
// request support. ?w= selects a width class; If-None-Match short-cuts
// to 304 when the validator still matches.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	imgPath := chi.URLParam(r, "*")

	width := 0
	if raw := r.URL.Query().Get("w"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid width")
			return
		}
		width = n
	}

	res, err := s.engine.Image(r.Context(), imgPath, width, r.Header.Get("If-None-Match"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("ETag", res.Validator)
	w.Header().Set("Cache-Control", res.CacheControl)
	if res.NotModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	_, _ = w.Write(res.Data)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	ix, err := s.engine.Rebuild(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"version": ix.Version,
		"stats":   ix.Stats,
	})
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Invalidate(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (s *Server) handleSavePost(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if err := s.engine.SavePost(r.Context(), chi.URLParam(r, "slug"), doc); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeletePost(r.Context(), chi.URLParam(r, "slug")); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSavePage(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if err := s.engine.SavePage(r.Context(), chi.URLParam(r, "slug"), doc); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeletePage(r.Context(), chi.URLParam(r, "slug")); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSaveGalleryMeta(w http.ResponseWriter, r *http.Request) {
	var meta content.GalleryMeta
	if err := decodeJSON(r, &meta); err != nil {
		respondError(w, http.StatusBadRequest, "invalid gallery metadata")
		return
	}
	if err := s.engine.SaveGalleryMeta(r.Context(), chi.URLParam(r, "slug"), meta); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleSetGalleryPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := s.engine.SetGalleryPassword(r.Context(), chi.URLParam(r, "slug"), body.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	slug := chi.URLParam(r, "slug")
	filename := chi.URLParam(r, "filename")
	if err := s.engine.UploadPhoto(r.Context(), slug, filename, data); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "uploaded"})
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	filename := chi.URLParam(r, "filename")
	if err := s.engine.DeletePhoto(r.Context(), slug, filename); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleDeleteGallery(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteGallery(r.Context(), chi.URLParam(r, "slug")); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
