package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/checksum"
	"github.com/starford/othala/internal/wikisvc"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *wikisvc.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *wikisvc.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after the route
// prefix). Supports encoded slashes (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// GetIndex handles GET /api/index: the complete current snapshot.
func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snapshot(r.Context()))
}

// GetNote handles GET /api/notes/*.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("ETag", checksum.ETag(note.Checksum))
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), req.Path, []byte(req.Content))
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody("note already exists"))
		} else {
			slog.Error("create note failed", slog.String("path", req.Path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/*. The body carries either raw content
// or a {metadata, body} pair; the latter is serialized through the
// frontmatter codec server-side. If-Match (checksum) enables optimistic
// concurrency.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	var note *wikisvc.NoteDetail
	var err error
	switch {
	case req.Metadata != nil:
		note, err = h.svc.SaveNote(r.Context(), path, req.Metadata, req.Body, ifMatch)
	case req.Content != "":
		note, err = h.svc.UpdateNote(r.Context(), path, []byte(req.Content), ifMatch)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("content or metadata is required"))
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
		default:
			slog.Error("update note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("ETag", checksum.ETag(note.Checksum))
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/*.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeleteNote(r.Context(), path); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete note failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenamePath handles POST /api/rename.
func (h *Handler) RenamePath(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.OldPath == "" || req.NewPath == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("oldPath and newPath are required"))
		return
	}
	if err := h.svc.RenamePath(r.Context(), req.OldPath, req.NewPath); err != nil {
		slog.Error("rename failed", slog.String("oldPath", req.OldPath), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("rename failed"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateDir handles POST /api/dirs.
func (h *Handler) CreateDir(w http.ResponseWriter, r *http.Request) {
	var req CreateDirRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.CreateDir(r.Context(), req.Path); err != nil {
		slog.Error("create dir failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("create dir failed"))
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, map[string]any{
		"results": h.svc.Search(r.Context(), q, limit),
	})
}
