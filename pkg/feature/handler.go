package feature

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/flagkit/pkg/logger"
)

const maxOverrideBody = 1 << 10

type overrideRequest struct {
	Value string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler exposes a Service as a small JSON API:
//
//	GET    /                 all flags in catalog order
//	GET    /{name}           one flag
//	PUT    /{name}/override  body {"value":"on"}
//	DELETE /{name}/override
//
// Mount it behind Middleware so query and cookie overrides are visible.
type Handler struct {
	svc    *Service
	logger *slog.Logger
	router chi.Router
}

// NewHandler builds the API router for svc. A nil logger discards output.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	h := &Handler{svc: svc, logger: log.With(logger.Component("feature_api"))}

	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{name}", h.get)
	r.Put("/{name}/override", h.setOverride)
	r.Delete("/{name}/override", h.clearOverride)
	h.router = r

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.svc.ResolveAll(r.Context()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	flag, err := h.svc.Resolve(r.Context(), Name(chi.URLParam(r, "name")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, flag)
}

func (h *Handler) setOverride(w http.ResponseWriter, r *http.Request) {
	name := Name(chi.URLParam(r, "name"))

	var req overrideRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOverrideBody)).Decode(&req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.svc.SetOverride(r.Context(), name, req.Value); err != nil {
		h.writeError(w, r, err)
		return
	}

	flag, err := h.svc.Resolve(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, flag)
}

func (h *Handler) clearOverride(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearOverride(r.Context(), Name(chi.URLParam(r, "name"))); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownFlag):
		status = http.StatusNotFound
	case errors.Is(err, ErrUnsupportedStorage), errors.Is(err, ErrNoStore):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalidState):
		status = http.StatusBadRequest
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "feature api request failed", logger.Error(err))
		msg = http.StatusText(status)
	}
	h.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", logger.Error(err))
	}
}
