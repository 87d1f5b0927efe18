package model

import (
	"strings"
	"time"
)

type GroceryItem struct {
	ID             int64     `json:"id"`
	ItemName       string    `json:"item_name"`
	ItemType       string    `json:"item_type"`
	Amount         string    `json:"amount"`
	Completed      bool      `json:"completed"`
	AddedBy        string    `json:"added_by"`
	FamilyMemberID *int64    `json:"family_member_id"`
	Price          *int64    `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (g GroceryItem) EntityID() int64 { return g.ID }

// GroceryDraft is the body of a new grocery list entry. An empty ItemType is
// filled in by the server's categorizer; AddedBy is resolved from the family
// member when one is given.
type GroceryDraft struct {
	ItemName       string `json:"item_name"`
	ItemType       string `json:"item_type"`
	Amount         string `json:"amount"`
	AddedBy        string `json:"added_by"`
	FamilyMemberID *int64 `json:"family_member_id"`
	Price          *int64 `json:"price"`
}

func (d GroceryDraft) Validate() error {
	if err := requireText("item_name", d.ItemName); err != nil {
		return err
	}
	if err := requireText("amount", d.Amount); err != nil {
		return err
	}
	return nonNegativePrice(d.Price)
}

// Normalize trims free-text fields in place.
func (d *GroceryDraft) Normalize() {
	d.ItemName = strings.TrimSpace(d.ItemName)
	d.ItemType = strings.TrimSpace(d.ItemType)
	d.Amount = strings.TrimSpace(d.Amount)
	d.AddedBy = strings.TrimSpace(d.AddedBy)
}

type GroceryPatch struct {
	ItemName       *string `json:"item_name,omitempty"`
	ItemType       *string `json:"item_type,omitempty"`
	Amount         *string `json:"amount,omitempty"`
	FamilyMemberID *int64  `json:"family_member_id,omitempty"`
	Price          *int64  `json:"price,omitempty"`
}

func (p GroceryPatch) Validate() error {
	if err := optionalText("item_name", p.ItemName); err != nil {
		return err
	}
	if err := optionalText("amount", p.Amount); err != nil {
		return err
	}
	return nonNegativePrice(p.Price)
}

// Apply copies every set field of p onto item.
func (p GroceryPatch) Apply(item *GroceryItem) {
	if p.ItemName != nil {
		item.ItemName = strings.TrimSpace(*p.ItemName)
	}
	if p.ItemType != nil {
		item.ItemType = strings.TrimSpace(*p.ItemType)
	}
	if p.Amount != nil {
		item.Amount = strings.TrimSpace(*p.Amount)
	}
	if p.FamilyMemberID != nil {
		item.FamilyMemberID = p.FamilyMemberID
	}
	if p.Price != nil {
		item.Price = p.Price
	}
}

type PurchaseRecord struct {
	ID             int64     `json:"id"`
	GroceryItemID  *int64    `json:"grocery_item_id"`
	ItemName       string    `json:"item_name"`
	ItemType       string    `json:"item_type"`
	Amount         string    `json:"amount"`
	Price          *int64    `json:"price"`
	PurchasedBy    string    `json:"purchased_by"`
	FamilyMemberID *int64    `json:"family_member_id"`
	PurchasedAt    time.Time `json:"purchased_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r PurchaseRecord) EntityID() int64 { return r.ID }

// PriceOrZero treats an absent price as zero.
func (r PurchaseRecord) PriceOrZero() int64 {
	if r.Price == nil {
		return 0
	}
	return *r.Price
}
