// Package server implements the notes REST API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/csheth/carevo/internal/store"
)

// Server serves the notes API from a repository.
type Server struct {
	repo   store.Repository
	logger *zap.Logger
	// mu serialises read-modify-write cycles on a note.
	mu  sync.Mutex
	mux *http.ServeMux
}

// New wires the routes.
func New(repo store.Repository, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{repo: repo, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /api/notes", s.handleList)
	s.mux.HandleFunc("POST /api/notes", s.handleCreate)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/notes/{id}", s.handleGet)
	s.mux.HandleFunc("POST /api/notes/{id}/like", s.handleLike)
	s.mux.HandleFunc("POST /api/notes/{id}/star", s.handleStar)
	return s
}

// Handler returns the routes wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(cors(s.mux))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Carevo notes API!"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	notes, err := s.repo.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	category := r.URL.Query().Get("category")
	out := make([]store.Note, 0, len(notes))
	for _, note := range notes {
		if category != "" && note.Category != category {
			continue
		}
		out = append(out, note)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	out := make([]store.Note, 0)
	if query == "" {
		writeJSON(w, http.StatusOK, out)
		return
	}
	notes, err := s.repo.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), query) ||
			strings.Contains(strings.ToLower(note.Subtitle), query) ||
			strings.Contains(strings.ToLower(note.Author), query) {
			out = append(out, note)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	note, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.repoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

type createRequest struct {
	Title     *string `json:"title"`
	Subtitle  string  `json:"subtitle"`
	Author    string  `json:"author"`
	Image     string  `json:"image"`
	Tag       string  `json:"tag"`
	DriveLink *string `json:"drive_link"`
	Category  string  `json:"category"`
	Likes     int     `json:"likes"`
	Starred   bool    `json:"starred"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "Expected application/json")
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Title == nil || req.DriveLink == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields: title, drive_link")
		return
	}
	s.mu.Lock()
	note, err := s.repo.Create(r.Context(), store.Note{
		Title:     *req.Title,
		Subtitle:  req.Subtitle,
		Author:    req.Author,
		Image:     req.Image,
		Tag:       req.Tag,
		DriveLink: *req.DriveLink,
		Category:  req.Category,
		Likes:     req.Likes,
		Starred:   req.Starred,
	})
	s.mu.Unlock()
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.logger.Info("note created", zap.Int("id", note.ID), zap.String("category", note.Category))
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	user := strings.TrimSpace(r.Header.Get("User-ID"))
	if user == "" {
		writeError(w, http.StatusBadRequest, "User-ID header is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	note, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.repoError(w, r, err)
		return
	}
	liked := true
	kept := note.LikedBy[:0]
	for _, existing := range note.LikedBy {
		if existing == user {
			liked = false
			continue
		}
		kept = append(kept, existing)
	}
	note.LikedBy = kept
	if liked {
		note.LikedBy = append(note.LikedBy, user)
		note.Likes++
	} else if note.Likes > 0 {
		note.Likes--
	}
	if _, err := s.repo.Update(r.Context(), note); err != nil {
		s.repoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "likes": note.Likes, "liked": liked})
}

func (s *Server) handleStar(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	// A missing or malformed body toggles.
	var body struct {
		Starred *bool `json:"starred"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	note, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.repoError(w, r, err)
		return
	}
	if body.Starred != nil {
		note.Starred = *body.Starred
	} else {
		note.Starred = !note.Starred
	}
	if _, err := s.repo.Update(r.Context(), note); err != nil {
		s.repoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "starred": note.Starred})
}

func noteID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Note not found")
		return 0, false
	}
	return id, true
}

func (s *Server) repoError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	return serve(ctx, &http.Server{Addr: addr, Handler: handler}, nil, logger)
}
