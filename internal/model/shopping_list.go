package model

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Credentials is the body of the register and login endpoints. Name is only
// read on registration.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

const minPasswordLen = 8

func (c Credentials) Validate() error {
	if err := validEmail(c.Email); err != nil {
		return err
	}
	if len(c.Password) < minPasswordLen {
		return fieldErr("password", "must be at least 8 characters")
	}
	return nil
}

type ListType string

const (
	ListDaily  ListType = "daily"
	ListWeekly ListType = "weekly"
)

func (t ListType) Valid() bool {
	return t == ListDaily || t == ListWeekly
}

type ShoppingItem struct {
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"`
	IsPurchased bool    `json:"is_purchased"`
}

type ShoppingList struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Name      string         `json:"name"`
	Type      ListType       `json:"type"`
	Items     []ShoppingItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (l ShoppingList) EntityID() int64 { return l.ID }

type ShoppingListDraft struct {
	Name  string         `json:"name"`
	Type  ListType       `json:"type"`
	Items []ShoppingItem `json:"items"`
}

func (d ShoppingListDraft) Validate() error {
	if err := requireText("name", d.Name); err != nil {
		return err
	}
	if !d.Type.Valid() {
		return fieldErr("type", "must be daily or weekly")
	}
	return validateShoppingItems(d.Items)
}

func (d *ShoppingListDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Items = cleanShoppingItems(d.Items)
}

type ShoppingListPatch struct {
	Name  *string         `json:"name,omitempty"`
	Type  *ListType       `json:"type,omitempty"`
	Items *[]ShoppingItem `json:"items,omitempty"`
}

func (p ShoppingListPatch) Validate() error {
	if err := optionalText("name", p.Name); err != nil {
		return err
	}
	if p.Type != nil && !p.Type.Valid() {
		return fieldErr("type", "must be daily or weekly")
	}
	if p.Items != nil {
		return validateShoppingItems(*p.Items)
	}
	return nil
}

func (p ShoppingListPatch) Apply(l *ShoppingList) {
	if p.Name != nil {
		l.Name = strings.TrimSpace(*p.Name)
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Items != nil {
		l.Items = cleanShoppingItems(*p.Items)
	}
}

func validateShoppingItems(items []ShoppingItem) error {
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return fieldErr("items", "must all have a name")
		}
		if it.Quantity < 0 {
			return fieldErr("items", "must not have a negative quantity")
		}
	}
	return nil
}

// cleanShoppingItems trims names and defaults a missing quantity to one.
func cleanShoppingItems(items []ShoppingItem) []ShoppingItem {
	out := make([]ShoppingItem, 0, len(items))
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		it.Unit = strings.TrimSpace(it.Unit)
		it.Category = strings.TrimSpace(it.Category)
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		out = append(out, it)
	}
	return out
}
