package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/grocery"
	"github.com/dukerupert/smartfood/internal/metrics"
	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/store"
	"github.com/dukerupert/smartfood/internal/websocket"
)

type GroceryHandler struct {
	groceryStore *store.GroceryStore
	memberStore  *store.FamilyMemberStore
	fridgeStore  *store.FridgeStore
	notifier     Notifier
	metrics      *metrics.Metrics
	logger       *slog.Logger
	clock        Clock
}

func NewGroceryHandler(gs *store.GroceryStore, ms *store.FamilyMemberStore, fs *store.FridgeStore, n Notifier, m *metrics.Metrics, logger *slog.Logger, clock Clock) *GroceryHandler {
	return &GroceryHandler{
		groceryStore: gs,
		memberStore:  ms,
		fridgeStore:  fs,
		notifier:     n,
		metrics:      m,
		logger:       logger.With("component", "grocery"),
		clock:        clock,
	}
}

func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.groceryStore.List()
	if err != nil {
		writeServerError(w, h.logger, "failed to list items", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(items))
}

func (h *GroceryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, err := h.groceryStore.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// resolveMember checks the referenced member exists and fills addedBy from
// its name when the form left it blank.
func (h *GroceryHandler) resolveMember(w http.ResponseWriter, memberID *int64, addedBy *string) bool {
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
	if *addedBy == "" {
		*addedBy = m.Name
	}
	return true
}

func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.GroceryDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.Normalize()
	if !validate(w, d.Validate()) {
		return
	}
	if d.ItemType == "" {
		d.ItemType = grocery.Categorize(d.ItemName)
	}
	if !h.resolveMember(w, d.FamilyMemberID, &d.AddedBy) {
		return
	}

	item, err := h.groceryStore.Create(d)
	if err != nil {
		writeServerError(w, h.logger, "failed to create item", err)
		return
	}
	h.notifier.Notify(websocket.EntityGroceryItems, websocket.ActionCreated, item.ID)
	writeJSON(w, http.StatusCreated, item)
}

// Replace handles PUT: every editable field is taken from the body.
func (h *GroceryHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d model.GroceryDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.Normalize()
	if !validate(w, d.Validate()) {
		return
	}
	if d.ItemType == "" {
		d.ItemType = grocery.Categorize(d.ItemName)
	}
	if !h.resolveMember(w, d.FamilyMemberID, &d.AddedBy) {
		return
	}

	existing, err := h.groceryStore.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get item", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	existing.ItemName = d.ItemName
	existing.ItemType = d.ItemType
	existing.Amount = d.Amount
	existing.AddedBy = d.AddedBy
	existing.FamilyMemberID = d.FamilyMemberID
	existing.Price = d.Price
	h.save(w, existing)
}

func (h *GroceryHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p model.GroceryPatch
	if !decodeBody(w, r, &p) {
		return
	}
	if !validate(w, p.Validate()) {
		return
	}

	existing, err := h.groceryStore.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get item", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	p.Apply(existing)
	if p.FamilyMemberID != nil {
		unchanged := existing.AddedBy
		if !h.resolveMember(w, p.FamilyMemberID, &unchanged) {
			return
		}
	}
	h.save(w, existing)
}

func (h *GroceryHandler) save(w http.ResponseWriter, item *model.GroceryItem) {
	updated, err := h.groceryStore.Update(*item)
	if err != nil {
		writeServerError(w, h.logger, "failed to update item", err)
		return
	}
	h.notifier.Notify(websocket.EntityGroceryItems, websocket.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	existing, err := h.groceryStore.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get item", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err := h.groceryStore.Delete(id); err != nil {
		writeServerError(w, h.logger, "failed to delete item", err)
		return
	}
	h.notifier.Notify(websocket.EntityGroceryItems, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// CompleteResponse is the body of a successful complete.
type CompleteResponse struct {
	Item     model.GroceryItem    `json:"item"`
	Purchase model.PurchaseRecord `json:"purchase"`
}

// Complete marks the item bought and records the purchase.
func (h *GroceryHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, record, err := h.groceryStore.Complete(id, h.clock())
	if errors.Is(err, store.ErrAlreadyCompleted) {
		writeError(w, http.StatusConflict, "item already completed")
		return
	}
	if err != nil {
		writeServerError(w, h.logger, "failed to complete item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.logger.Info("grocery item completed", "id", item.ID, "purchase_id", record.ID)
	if h.metrics != nil {
		h.metrics.GroceryCompleted()
	}
	h.notifier.Notify(websocket.EntityGroceryItems, websocket.ActionCompleted, item.ID)
	h.notifier.Notify(websocket.EntityPurchases, websocket.ActionCreated, record.ID)
	if item.FamilyMemberID != nil {
		h.notifier.Notify(websocket.EntityFamilyMembers, websocket.ActionUpdated, *item.FamilyMemberID)
	}
	writeJSON(w, http.StatusOK, CompleteResponse{Item: *item, Purchase: *record})
}

type setCompletedRequest struct {
	Completed *bool `json:"completed"`
}

// SetCompleted toggles the flag without writing purchase history.
func (h *GroceryHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req setCompletedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Completed == nil {
		writeError(w, http.StatusBadRequest, "completed is required")
		return
	}

	item, err := h.groceryStore.SetCompleted(id, *req.Completed)
	if err != nil {
		writeServerError(w, h.logger, "failed to update item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	h.notifier.Notify(websocket.EntityGroceryItems, websocket.ActionUpdated, item.ID)
	writeJSON(w, http.StatusOK, item)
}

// MoveToFridge stores a grocery item in the fridge.
func (h *GroceryHandler) MoveToFridge(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req model.MoveToFridge
	if !decodeBody(w, r, &req) {
		return
	}
	if !validate(w, req.Validate()) {
		return
	}

	item, err := h.groceryStore.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	d := model.FridgeDraftFrom(*item, req)
	d.Normalize()
	today := civil.DateOf(h.clock())
	d.AddedDate = &today
	if !validate(w, d.Validate()) {
		return
	}
	created, err := h.fridgeStore.Create(d)
	if err != nil {
		writeServerError(w, h.logger, "failed to create fridge item", err)
		return
	}
	h.notifier.Notify(websocket.EntityFridgeItems, websocket.ActionCreated, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (h *GroceryHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	records, err := h.groceryStore.ListPurchases()
	if err != nil {
		writeServerError(w, h.logger, "failed to list purchases", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(records))
}
