package handler

import (
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/fridge"
	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/store"
	"github.com/dukerupert/smartfood/internal/websocket"
)

type FridgeHandler struct {
	store    *store.FridgeStore
	policy   fridge.Policy
	notifier Notifier
	logger   *slog.Logger
	clock    Clock
}

func NewFridgeHandler(s *store.FridgeStore, policy fridge.Policy, n Notifier, logger *slog.Logger, clock Clock) *FridgeHandler {
	return &FridgeHandler{
		store:    s,
		policy:   policy,
		notifier: n,
		logger:   logger.With("component", "fridge"),
		clock:    clock,
	}
}

func (h *FridgeHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List()
	if err != nil {
		writeServerError(w, h.logger, "failed to list fridge items", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(items))
}

func (h *FridgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, err := h.store.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get fridge item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "fridge item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *FridgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.FridgeDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.Normalize()
	if !validate(w, d.Validate()) {
		return
	}
	if d.AddedDate == nil {
		today := civil.DateOf(h.clock())
		d.AddedDate = &today
	}

	item, err := h.store.Create(d)
	if err != nil {
		writeServerError(w, h.logger, "failed to create fridge item", err)
		return
	}
	h.notifier.Notify(websocket.EntityFridgeItems, websocket.ActionCreated, item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (h *FridgeHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d model.FridgeDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.Normalize()
	if !validate(w, d.Validate()) {
		return
	}

	existing, ok := h.load(w, id)
	if !ok {
		return
	}
	existing.Name = d.Name
	existing.Category = d.Category
	existing.Quantity = d.Quantity
	existing.Location = d.Location
	existing.ExpiryDate = d.ExpiryDate
	h.save(w, existing)
}

func (h *FridgeHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p model.FridgePatch
	if !decodeBody(w, r, &p) {
		return
	}
	if !validate(w, p.Validate()) {
		return
	}

	existing, ok := h.load(w, id)
	if !ok {
		return
	}
	p.Apply(existing)
	h.save(w, existing)
}

func (h *FridgeHandler) load(w http.ResponseWriter, id int64) (*model.FridgeItem, bool) {
	item, err := h.store.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get fridge item", err)
		return nil, false
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "fridge item not found")
		return nil, false
	}
	return item, true
}

func (h *FridgeHandler) save(w http.ResponseWriter, item *model.FridgeItem) {
	updated, err := h.store.Update(*item)
	if err != nil {
		writeServerError(w, h.logger, "failed to update fridge item", err)
		return
	}
	h.notifier.Notify(websocket.EntityFridgeItems, websocket.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *FridgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, ok := h.load(w, id); !ok {
		return
	}
	if err := h.store.Delete(id); err != nil {
		writeServerError(w, h.logger, "failed to delete fridge item", err)
		return
	}
	h.notifier.Notify(websocket.EntityFridgeItems, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// Expiry lists fridge contents annotated with days left and status.
func (h *FridgeHandler) Expiry(w http.ResponseWriter, r *http.Request) {
	now, err := requestNow(r, h.clock)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.store.List()
	if err != nil {
		writeServerError(w, h.logger, "failed to list fridge items", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(h.policy.Annotate(items, now)))
}
