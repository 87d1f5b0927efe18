package store

import (
	"testing"

	"github.com/dukerupert/smartfood/internal/model"
)

func TestFridgeItemCRUD(t *testing.T) {
	fs := NewFridgeStore(setupTestDB(t))

	item, err := fs.Create(model.FridgeDraft{
		Name: "Sữa tươi", Category: "Sữa", Quantity: "1 hộp", Location: model.LocationFridge,
		ExpiryDate: date(t, "2024-03-20"), AddedDate: ptr(date(t, "2024-03-14")),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ExpiryDate != date(t, "2024-03-20") {
		t.Errorf("expiry = %v, want 2024-03-20", item.ExpiryDate)
	}
	if item.AddedDate != date(t, "2024-03-14") {
		t.Errorf("added = %v, want 2024-03-14", item.AddedDate)
	}

	item.Location = model.LocationFreezer
	item.ExpiryDate = date(t, "2024-04-20")
	updated, err := fs.Update(*item)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Location != model.LocationFreezer || updated.ExpiryDate != date(t, "2024-04-20") {
		t.Errorf("updated = %+v", updated)
	}

	items, err := fs.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	if err := fs.Delete(item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := fs.GetByID(item.ID); got != nil {
		t.Error("expected nil after delete")
	}
}

func TestFridgeCreateRequiresAddedDate(t *testing.T) {
	fs := NewFridgeStore(setupTestDB(t))
	_, err := fs.Create(model.FridgeDraft{Name: "Sữa", Quantity: "1", Location: model.LocationFridge, ExpiryDate: date(t, "2024-03-20")})
	if err == nil {
		t.Fatal("expected error for missing added date")
	}
}
