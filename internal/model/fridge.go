package model

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Storage locations offered by the fridge form. Other values are accepted.
const (
	LocationFridge  = "fridge"
	LocationFreezer = "freezer"
	LocationPantry  = "pantry"
)

type FridgeItem struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Quantity   string     `json:"quantity"`
	Location   string     `json:"location"`
	ExpiryDate civil.Date `json:"expiry_date"`
	AddedDate  civil.Date `json:"added_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (f FridgeItem) EntityID() int64 { return f.ID }

// FridgeDraft is the body of a new fridge item. A nil AddedDate means today.
type FridgeDraft struct {
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Quantity   string      `json:"quantity"`
	Location   string      `json:"location"`
	ExpiryDate civil.Date  `json:"expiry_date"`
	AddedDate  *civil.Date `json:"added_date,omitempty"`
}

func (d FridgeDraft) Validate() error {
	if err := requireText("name", d.Name); err != nil {
		return err
	}
	if err := requireText("quantity", d.Quantity); err != nil {
		return err
	}
	if err := requireText("location", d.Location); err != nil {
		return err
	}
	if d.ExpiryDate == (civil.Date{}) || !d.ExpiryDate.IsValid() {
		return fieldErr("expiry_date", "is required")
	}
	if d.AddedDate != nil && !d.AddedDate.IsValid() {
		return fieldErr("added_date", "is not a valid date")
	}
	return nil
}

func (d *FridgeDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Quantity = strings.TrimSpace(d.Quantity)
	d.Location = strings.ToLower(strings.TrimSpace(d.Location))
}

type FridgePatch struct {
	Name       *string     `json:"name,omitempty"`
	Category   *string     `json:"category,omitempty"`
	Quantity   *string     `json:"quantity,omitempty"`
	Location   *string     `json:"location,omitempty"`
	ExpiryDate *civil.Date `json:"expiry_date,omitempty"`
}

func (p FridgePatch) Validate() error {
	if err := optionalText("name", p.Name); err != nil {
		return err
	}
	if err := optionalText("quantity", p.Quantity); err != nil {
		return err
	}
	if err := optionalText("location", p.Location); err != nil {
		return err
	}
	if p.ExpiryDate != nil && !p.ExpiryDate.IsValid() {
		return fieldErr("expiry_date", "is not a valid date")
	}
	return nil
}

func (p FridgePatch) Apply(item *FridgeItem) {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		item.Category = strings.TrimSpace(*p.Category)
	}
	if p.Quantity != nil {
		item.Quantity = strings.TrimSpace(*p.Quantity)
	}
	if p.Location != nil {
		item.Location = strings.ToLower(strings.TrimSpace(*p.Location))
	}
	if p.ExpiryDate != nil {
		item.ExpiryDate = *p.ExpiryDate
	}
}

// MoveToFridge carries the fields the fridge dialog asks for when a bought
// grocery item is put away. Everything else is copied from the grocery item.
type MoveToFridge struct {
	Location   string     `json:"location"`
	ExpiryDate civil.Date `json:"expiry_date"`
}

func (m MoveToFridge) Validate() error {
	if err := requireText("location", m.Location); err != nil {
		return err
	}
	if m.ExpiryDate == (civil.Date{}) || !m.ExpiryDate.IsValid() {
		return fieldErr("expiry_date", "is required")
	}
	return nil
}

// FridgeDraftFrom builds the fridge entry for a grocery item being put away.
func FridgeDraftFrom(item GroceryItem, m MoveToFridge) FridgeDraft {
	return FridgeDraft{
		Name:       item.ItemName,
		Category:   item.ItemType,
		Quantity:   item.Amount,
		Location:   m.Location,
		ExpiryDate: m.ExpiryDate,
	}
}
