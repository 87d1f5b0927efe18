package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/recipe"
	"github.com/dukerupert/smartfood/internal/store"
	"github.com/dukerupert/smartfood/internal/websocket"
)

type DishHandler struct {
	dishStore   *store.DishStore
	fridgeStore *store.FridgeStore
	matcher     recipe.Matcher
	notifier    Notifier
	logger      *slog.Logger
}

func NewDishHandler(ds *store.DishStore, fs *store.FridgeStore, matcher recipe.Matcher, n Notifier, logger *slog.Logger) *DishHandler {
	return &DishHandler{
		dishStore:   ds,
		fridgeStore: fs,
		matcher:     matcher,
		notifier:    n,
		logger:      logger.With("component", "dish"),
	}
}

func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.dishStore.List()
	if err != nil {
		writeServerError(w, h.logger, "failed to list dishes", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(dishes))
}

func (h *DishHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if d, ok := h.load(w, id); ok {
		writeJSON(w, http.StatusOK, d)
	}
}

func (h *DishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.DishDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.Normalize()
	if !validate(w, d.Validate()) {
		return
	}
	dish, err := h.dishStore.Create(d)
	if err != nil {
		writeServerError(w, h.logger, "failed to create dish", err)
		return
	}
	h.notifier.Notify(websocket.EntityDishes, websocket.ActionCreated, dish.ID)
	writeJSON(w, http.StatusCreated, dish)
}

func (h *DishHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d model.DishDraft
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
	existing.Description = d.Description
	existing.CookTime = d.CookTime
	existing.Servings = d.Servings
	existing.Difficulty = d.Difficulty
	existing.Category = d.Category
	existing.Ingredients = d.Ingredients
	existing.Instructions = d.Instructions
	existing.ImageEmoji = d.ImageEmoji
	existing.Rating = d.Rating
	h.save(w, existing)
}

func (h *DishHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p model.DishPatch
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

func (h *DishHandler) load(w http.ResponseWriter, id int64) (*model.Dish, bool) {
	d, err := h.dishStore.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get dish", err)
		return nil, false
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "dish not found")
		return nil, false
	}
	return d, true
}

func (h *DishHandler) save(w http.ResponseWriter, d *model.Dish) {
	updated, err := h.dishStore.Update(*d)
	if err != nil {
		writeServerError(w, h.logger, "failed to update dish", err)
		return
	}
	h.notifier.Notify(websocket.EntityDishes, websocket.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

// Delete also removes the dish's meal plans; clients of both collections
// are told.
func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, ok := h.load(w, id); !ok {
		return
	}
	if err := h.dishStore.Delete(id); err != nil {
		writeServerError(w, h.logger, "failed to delete dish", err)
		return
	}
	h.notifier.Notify(websocket.EntityDishes, websocket.ActionDeleted, id)
	h.notifier.Notify(websocket.EntityMealPlans, websocket.ActionDeleted, 0)
	w.WriteHeader(http.StatusNoContent)
}

// Availability matches every dish against what is in the fridge.
// ?mode=substring overrides the configured match mode.
func (h *DishHandler) Availability(w http.ResponseWriter, r *http.Request) {
	matcher := h.matcher
	if s := r.URL.Query().Get("mode"); s != "" {
		mode, err := recipe.ParseMode(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		matcher.Mode = mode
	}

	dishes, err := h.dishStore.List()
	if err != nil {
		writeServerError(w, h.logger, "failed to list dishes", err)
		return
	}
	items, err := h.fridgeStore.List()
	if err != nil {
		writeServerError(w, h.logger, "failed to list fridge items", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(matcher.Rank(dishes, recipe.AvailableFromFridge(items))))
}
