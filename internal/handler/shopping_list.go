package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/smartfood/internal/auth"
	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/store"
)

// ShoppingListHandler serves the signed-in user's lists. Routes are mounted
// behind bearer auth, so the user id is always in the context.
type ShoppingListHandler struct {
	store  *store.ShoppingListStore
	logger *slog.Logger
}

func NewShoppingListHandler(s *store.ShoppingListStore, logger *slog.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{store: s, logger: logger.With("component", "shopping_list")}
}

func (h *ShoppingListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.store.List(auth.UserID(r.Context()))
	if err != nil {
		writeServerError(w, h.logger, "failed to list shopping lists", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(lists))
}

func (h *ShoppingListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.ShoppingListDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.Normalize()
	if !validate(w, d.Validate()) {
		return
	}
	l, err := h.store.Create(auth.UserID(r.Context()), d)
	if err != nil {
		writeServerError(w, h.logger, "failed to create shopping list", err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// Update applies a partial body; omitted fields keep their values.
func (h *ShoppingListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p model.ShoppingListPatch
	if !decodeBody(w, r, &p) {
		return
	}
	if !validate(w, p.Validate()) {
		return
	}

	userID := auth.UserID(r.Context())
	existing, err := h.store.GetByID(userID, id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get shopping list", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}
	p.Apply(existing)

	updated, err := h.store.Update(*existing)
	if err != nil {
		writeServerError(w, h.logger, "failed to update shopping list", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.Delete(auth.UserID(r.Context()), id)
	if err != nil {
		writeServerError(w, h.logger, "failed to delete shopping list", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
