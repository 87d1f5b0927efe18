package store

import (
	"testing"

	"github.com/dukerupert/smartfood/internal/model"
)

func TestFamilyMemberCRUD(t *testing.T) {
	ms := NewFamilyMemberStore(setupTestDB(t))

	m, err := ms.Create(model.FamilyMemberDraft{Name: "Trần Thị Bình", Email: "binh@example.com", Role: model.RoleMember}, date(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.AvatarInitials != "TTB" {
		t.Errorf("initials = %q, want %q", m.AvatarInitials, "TTB")
	}
	if m.JoinDate != date(t, "2024-02-01") {
		t.Errorf("join date = %v, want 2024-02-01", m.JoinDate)
	}

	model.FamilyMemberPatch{Name: ptr("Bình")}.Apply(m)
	updated, err := ms.Update(*m)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Bình" || updated.AvatarInitials != "B" {
		t.Errorf("updated = %q/%q, want Bình/B", updated.Name, updated.AvatarInitials)
	}

	members, err := ms.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("got %d members, want 1", len(members))
	}

	if err := ms.Delete(m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := ms.GetByID(m.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestFamilyMemberDeleteDetachesGroceries(t *testing.T) {
	db := setupTestDB(t)
	ms := NewFamilyMemberStore(db)
	gs := NewGroceryStore(db)

	m, _ := ms.Create(model.FamilyMemberDraft{Name: "An", Email: "an@example.com", Role: model.RoleMember}, date(t, "2024-01-01"))
	item, _ := gs.Create(model.GroceryDraft{ItemName: "Sữa", Amount: "1", FamilyMemberID: &m.ID})

	if err := ms.Delete(m.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	got, err := gs.GetByID(item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got.FamilyMemberID != nil {
		t.Errorf("family_member_id = %d, want nil", *got.FamilyMemberID)
	}
}
