package handler

import (
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/mealplan"
	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/store"
	"github.com/dukerupert/smartfood/internal/websocket"
)

type MealPlanHandler struct {
	planStore   *store.MealPlanStore
	dishStore   *store.DishStore
	memberStore *store.FamilyMemberStore
	notifier    Notifier
	logger      *slog.Logger
}

func NewMealPlanHandler(ps *store.MealPlanStore, ds *store.DishStore, ms *store.FamilyMemberStore, n Notifier, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{
		planStore:   ps,
		dishStore:   ds,
		memberStore: ms,
		notifier:    n,
		logger:      logger.With("component", "meal_plan"),
	}
}

// List returns plans by date. With ?week=YYYY-MM-DD only the Sunday to
// Saturday week holding that date is returned.
func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		plans []model.MealPlan
		err   error
	)
	if s := r.URL.Query().Get("week"); s != "" {
		ref, perr := civil.ParseDate(s)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid week date")
			return
		}
		win := mealplan.WeekOf(ref)
		plans, err = h.planStore.ListInRange(win.Start, win.End)
	} else {
		plans, err = h.planStore.List()
	}
	if err != nil {
		writeServerError(w, h.logger, "failed to list meal plans", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(plans))
}

// Slot returns the plan for ?date= and ?time_of_day=, or 404.
func (h *MealPlanHandler) Slot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := civil.ParseDate(q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	tod := model.MealTime(q.Get("time_of_day"))
	if !tod.Valid() {
		writeError(w, http.StatusBadRequest, "time_of_day must be breakfast, lunch or dinner")
		return
	}

	plans, err := h.planStore.ListInRange(date, date)
	if err != nil {
		writeServerError(w, h.logger, "failed to list meal plans", err)
		return
	}
	plan, ok := mealplan.Slot(plans, date, tod)
	if !ok {
		writeError(w, http.StatusNotFound, "no meal planned")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *MealPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if mp, ok := h.load(w, id); ok {
		writeJSON(w, http.StatusOK, mp)
	}
}

// checkRefs answers 400 when the dish or family member does not exist.
func (h *MealPlanHandler) checkRefs(w http.ResponseWriter, dishID int64, memberID *int64) bool {
	dish, err := h.dishStore.GetByID(dishID)
	if err != nil {
		writeServerError(w, h.logger, "failed to get dish", err)
		return false
	}
	if dish == nil {
		writeError(w, http.StatusBadRequest, "dish not found")
		return false
	}
	if memberID == nil {
		return true
	}
	m, err := h.memberStore.GetByID(*memberID)
	if err != nil {
		writeServerError(w, h.logger, "failed to get family member", err)
		return false
	}
	if m == nil {
		writeError(w, http.StatusBadRequest, "family member not found")
		return false
	}
	return true
}

func (h *MealPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.MealPlanDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.Normalize()
	if !validate(w, d.Validate()) {
		return
	}
	if !h.checkRefs(w, d.DishID, d.FamilyMemberID) {
		return
	}

	mp, err := h.planStore.Create(d)
	if err != nil {
		writeServerError(w, h.logger, "failed to create meal plan", err)
		return
	}
	h.notifier.Notify(websocket.EntityMealPlans, websocket.ActionCreated, mp.ID)
	writeJSON(w, http.StatusCreated, mp)
}

func (h *MealPlanHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d model.MealPlanDraft
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
	if !h.checkRefs(w, d.DishID, d.FamilyMemberID) {
		return
	}
	existing.DishID = d.DishID
	existing.Date = d.Date
	existing.TimeOfDay = d.TimeOfDay
	existing.PlannedServings = d.PlannedServings
	existing.Notes = d.Notes
	existing.FamilyMemberID = d.FamilyMemberID
	h.save(w, existing)
}

func (h *MealPlanHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p model.MealPlanPatch
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
	if p.DishID != nil || p.FamilyMemberID != nil {
		if !h.checkRefs(w, existing.DishID, p.FamilyMemberID) {
			return
		}
	}
	h.save(w, existing)
}

func (h *MealPlanHandler) load(w http.ResponseWriter, id int64) (*model.MealPlan, bool) {
	mp, err := h.planStore.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get meal plan", err)
		return nil, false
	}
	if mp == nil {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return nil, false
	}
	return mp, true
}

func (h *MealPlanHandler) save(w http.ResponseWriter, mp *model.MealPlan) {
	updated, err := h.planStore.Update(*mp)
	if err != nil {
		writeServerError(w, h.logger, "failed to update meal plan", err)
		return
	}
	h.notifier.Notify(websocket.EntityMealPlans, websocket.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, ok := h.load(w, id); !ok {
		return
	}
	if err := h.planStore.Delete(id); err != nil {
		writeServerError(w, h.logger, "failed to delete meal plan", err)
		return
	}
	h.notifier.Notify(websocket.EntityMealPlans, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
