package handler

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/smartfood/internal/dashboard"
	"github.com/dukerupert/smartfood/internal/fridge"
	"github.com/dukerupert/smartfood/internal/store"
)

type DashboardHandler struct {
	groceryStore *store.GroceryStore
	fridgeStore  *store.FridgeStore
	planStore    *store.MealPlanStore
	policy       fridge.Policy
	logger       *slog.Logger
	clock        Clock
}

func NewDashboardHandler(gs *store.GroceryStore, fs *store.FridgeStore, ps *store.MealPlanStore, policy fridge.Policy, logger *slog.Logger, clock Clock) *DashboardHandler {
	return &DashboardHandler{
		groceryStore: gs,
		fridgeStore:  fs,
		planStore:    ps,
		policy:       policy,
		logger:       logger.With("component", "dashboard"),
		clock:        clock,
	}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	now, err := requestNow(r, h.clock)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var snap dashboard.Snapshot
	var g errgroup.Group
	g.Go(func() (err error) {
		snap.Groceries, err = h.groceryStore.List()
		return err
	})
	g.Go(func() (err error) {
		snap.Fridge, err = h.fridgeStore.List()
		return err
	})
	g.Go(func() (err error) {
		snap.MealPlans, err = h.planStore.List()
		return err
	})
	if err := g.Wait(); err != nil {
		writeServerError(w, h.logger, "failed to load dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard.Compute(snap, h.policy, now))
}
