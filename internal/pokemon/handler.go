package pokemon

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayush/pokecatch/backend/internal/auth"
	"github.com/ayush/pokecatch/backend/internal/catalog"
	"github.com/ayush/pokecatch/backend/internal/httpjson"
	"github.com/ayush/pokecatch/backend/internal/models"
)

// Handler holds catalog and collection HTTP handlers.
type Handler struct {
	coll    *Collection
	catalog catalog.Lookuper
	logger  *zap.SugaredLogger
}

func NewHandler(coll *Collection, lookup catalog.Lookuper, logger *zap.SugaredLogger) *Handler {
	return &Handler{coll: coll, catalog: lookup, logger: logger}
}

// identity returns the caller set by the access guard, answering 401 if the
// route was mounted without it.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
	}
	return id, ok
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Errorw(msg, "err", err)
	httpjson.Error(w, http.StatusInternalServerError, "internal error")
}

// Lookup returns catalog data for a Pokémon.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := h.catalog.Lookup(r.Context(), name)
	switch {
	case err == nil:
		httpjson.Write(w, http.StatusOK, map[string]json.RawMessage{"data": data})
	case errors.Is(err, models.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "Pokemon not found")
	default:
		h.internalError(w, "catalog lookup failed", err)
	}
}

// Catch adds a Pokémon to the caller's collection.
func (h *Handler) Catch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req models.CatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.coll.Catch(r.Context(), id, req.Name)
	switch {
	case err == nil:
		httpjson.Write(w, http.StatusOK, map[string]any{
			"message": "Pokemon caught",
			"data":    rec,
		})
	case errors.Is(err, models.ErrInvalidInput):
		httpjson.Error(w, http.StatusBadRequest, "name is required")
	default:
		h.internalError(w, "catch failed", err)
	}
}

// Release removes one of the caller's records.
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	err := h.coll.Release(r.Context(), id, chi.URLParam(r, "id"))
	switch {
	case err == nil:
		httpjson.Message(w, http.StatusOK, "Pokemon released")
	case errors.Is(err, models.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "Pokemon not found")
	default:
		h.internalError(w, "release failed", err)
	}
}

// Caught lists the caller's records.
func (h *Handler) Caught(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	recs, err := h.coll.List(r.Context(), id)
	if err != nil {
		h.internalError(w, "list caught failed", err)
		return
	}
	if len(recs) == 0 {
		httpjson.Message(w, http.StatusOK, "No Pokemon caught yet")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"data": recs})
}

// History lists the caller's catch and release events.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	events, err := h.coll.History(r.Context(), id)
	if err != nil {
		h.internalError(w, "history failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"data": events})
}
