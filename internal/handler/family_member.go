package handler

import (
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/store"
	"github.com/dukerupert/smartfood/internal/websocket"
)

type FamilyMemberHandler struct {
	store    *store.FamilyMemberStore
	notifier Notifier
	logger   *slog.Logger
	clock    Clock
}

func NewFamilyMemberHandler(s *store.FamilyMemberStore, n Notifier, logger *slog.Logger, clock Clock) *FamilyMemberHandler {
	return &FamilyMemberHandler{
		store:    s,
		notifier: n,
		logger:   logger.With("component", "family_member"),
		clock:    clock,
	}
}

func (h *FamilyMemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.List()
	if err != nil {
		writeServerError(w, h.logger, "failed to list family members", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(members))
}

func (h *FamilyMemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if m, ok := h.load(w, id); ok {
		writeJSON(w, http.StatusOK, m)
	}
}

func (h *FamilyMemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.FamilyMemberDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.Normalize()
	if !validate(w, d.Validate()) {
		return
	}

	m, err := h.store.Create(d, civil.DateOf(h.clock()))
	if err != nil {
		writeServerError(w, h.logger, "failed to create family member", err)
		return
	}
	h.notifier.Notify(websocket.EntityFamilyMembers, websocket.ActionCreated, m.ID)
	writeJSON(w, http.StatusCreated, m)
}

func (h *FamilyMemberHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d model.FamilyMemberDraft
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
	existing.AvatarInitials = model.Initials(d.Name)
	existing.Email = d.Email
	existing.Phone = d.Phone
	existing.Role = d.Role
	h.save(w, existing)
}

func (h *FamilyMemberHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p model.FamilyMemberPatch
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

func (h *FamilyMemberHandler) load(w http.ResponseWriter, id int64) (*model.FamilyMember, bool) {
	m, err := h.store.GetByID(id)
	if err != nil {
		writeServerError(w, h.logger, "failed to get family member", err)
		return nil, false
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "family member not found")
		return nil, false
	}
	return m, true
}

func (h *FamilyMemberHandler) save(w http.ResponseWriter, m *model.FamilyMember) {
	updated, err := h.store.Update(*m)
	if err != nil {
		writeServerError(w, h.logger, "failed to update family member", err)
		return
	}
	h.notifier.Notify(websocket.EntityFamilyMembers, websocket.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *FamilyMemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, ok := h.load(w, id); !ok {
		return
	}
	if err := h.store.Delete(id); err != nil {
		writeServerError(w, h.logger, "failed to delete family member", err)
		return
	}
	h.notifier.Notify(websocket.EntityFamilyMembers, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
