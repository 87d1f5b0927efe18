package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/smartfood/internal/report"
	"github.com/dukerupert/smartfood/internal/store"
)

type ReportHandler struct {
	groceryStore *store.GroceryStore
	fridgeStore  *store.FridgeStore
	config       report.Config
	logger       *slog.Logger
	clock        Clock
}

func NewReportHandler(gs *store.GroceryStore, fs *store.FridgeStore, cfg report.Config, logger *slog.Logger, clock Clock) *ReportHandler {
	return &ReportHandler{
		groceryStore: gs,
		fridgeStore:  fs,
		config:       cfg,
		logger:       logger.With("component", "report"),
		clock:        clock,
	}
}

// Spending builds the spend and waste summary from purchase history and
// the fridge.
func (h *ReportHandler) Spending(w http.ResponseWriter, r *http.Request) {
	now, err := requestNow(r, h.clock)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.groceryStore.ListPurchases()
	if err != nil {
		writeServerError(w, h.logger, "failed to list purchases", err)
		return
	}
	items, err := h.fridgeStore.List()
	if err != nil {
		writeServerError(w, h.logger, "failed to list fridge items", err)
		return
	}
	writeJSON(w, http.StatusOK, h.config.Build(records, items, now))
}
