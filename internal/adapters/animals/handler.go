// Package animals exposes the animal collection over HTTP.
package animals

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"menagerie/pkg/domain"
)

// Response bodies for the plain-text error paths.
const (
	MsgInvalidAnimal = "The animal is not properly formatted."
	MsgPersistFailed = "The animal could not be saved."
	MsgBodyTooLarge  = "Request body too large."
)

// DefaultMaxBodyBytes caps POST bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// RequestIDHeader carries the request id set by the server middleware.
const RequestIDHeader = "X-Request-Id"

// Collection is the subset of the record store the handler needs.
type Collection interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Animal, error)
	Get(ctx context.Context, id string) (domain.Animal, error)
	Append(ctx context.Context, animal domain.Animal) (domain.Animal, error)
}

// Handler serves /api/animals.
type Handler struct {
	Animals      Collection
	Logger       *slog.Logger
	MaxBodyBytes int64
}

// NewHandler constructs a handler over c.
func NewHandler(c Collection, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Animals: c, Logger: logger, MaxBodyBytes: DefaultMaxBodyBytes}
}

// Register mounts the animal routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/animals", h.handleList)
	mux.HandleFunc("GET /api/animals/{id}", h.handleGet)
	mux.HandleFunc("POST /api/animals", h.handleCreate)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Animals.List(r.Context(), ParseFilter(r.URL.Query()))
	if err != nil {
		h.Logger.Error("list animals failed", "error", err, "requestId", requestID(w, r))
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	if matches == nil {
		matches = []domain.Animal{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	animal, err := h.Animals.Get(r.Context(), r.PathValue("id"))
	var notFound domain.ErrNotFound
	switch {
	case errors.As(err, &notFound):
		w.WriteHeader(http.StatusNotFound)
	case err != nil:
		h.Logger.Error("get animal failed", "error", err, "requestId", requestID(w, r))
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	default:
		writeJSON(w, http.StatusOK, animal)
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r, h.maxBody())
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeText(w, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
		return
	}
	if err != nil {
		h.Logger.Debug("rejecting unreadable animal body", "error", err, "requestId", requestID(w, r))
		writeText(w, http.StatusBadRequest, MsgInvalidAnimal)
		return
	}
	animal, err := domain.DecodeAnimal(raw)
	if err != nil {
		h.Logger.Debug("rejecting animal", "error", err, "requestId", requestID(w, r))
		writeText(w, http.StatusBadRequest, MsgInvalidAnimal)
		return
	}
	created, err := h.Animals.Append(r.Context(), animal)
	switch {
	case errors.Is(err, domain.ErrInvalidAnimal):
		writeText(w, http.StatusBadRequest, MsgInvalidAnimal)
	case err != nil:
		h.Logger.Error("append animal failed", "error", err, "requestId", requestID(w, r))
		writeText(w, http.StatusInternalServerError, MsgPersistFailed)
	default:
		writeJSON(w, http.StatusOK, created)
	}
}

func (h *Handler) maxBody() int64 {
	if h.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return h.MaxBodyBytes
}

func requestID(w http.ResponseWriter, r *http.Request) string {
	if id := w.Header().Get(RequestIDHeader); id != "" {
		return id
	}
	return r.Header.Get(RequestIDHeader)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
