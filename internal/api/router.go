package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/wikisvc"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *wikisvc.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Index snapshot.
	r.Get("/index", h.GetIndex)

	// Notes CRUD.
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/*", h.GetNote)
	r.Put("/notes/*", h.UpdateNote)
	r.Delete("/notes/*", h.DeleteNote)

	// Path operations.
	r.Post("/rename", h.RenamePath)
	r.Post("/dirs", h.CreateDir)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
