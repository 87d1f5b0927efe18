package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dukerupert/smartfood/internal/model"
)

type FridgeStore struct {
	db *sql.DB
}

func NewFridgeStore(db *sql.DB) *FridgeStore {
	return &FridgeStore{db: db}
}

func scanFridgeItem(s scanner) (*model.FridgeItem, error) {
	var item model.FridgeItem
	var expiry, added string
	err := s.Scan(
		&item.ID, &item.Name, &item.Category, &item.Quantity, &item.Location,
		&expiry, &added, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if item.ExpiryDate, err = parseDate(expiry); err != nil {
		return nil, err
	}
	if item.AddedDate, err = parseDate(added); err != nil {
		return nil, err
	}
	return &item, nil
}

const fridgeCols = `id, name, category, quantity, location, expiry_date, added_date, created_at, updated_at`

func (s *FridgeStore) GetByID(id int64) (*model.FridgeItem, error) {
	item, err := scanFridgeItem(s.db.QueryRow(`SELECT `+fridgeCols+` FROM fridge_items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fridge item: %w", err)
	}
	return item, nil
}

// List returns fridge contents, newest first.
func (s *FridgeStore) List() ([]model.FridgeItem, error) {
	rows, err := s.db.Query(`SELECT ` + fridgeCols + ` FROM fridge_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list fridge items: %w", err)
	}
	defer rows.Close()

	var items []model.FridgeItem
	for rows.Next() {
		item, err := scanFridgeItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fridge item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Create inserts d. The caller fills AddedDate; it is required here.
func (s *FridgeStore) Create(d model.FridgeDraft) (*model.FridgeItem, error) {
	if d.AddedDate == nil {
		return nil, errors.New("insert fridge item: added date is required")
	}
	result, err := s.db.Exec(
		`INSERT INTO fridge_items (name, category, quantity, location, expiry_date, added_date) VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, d.Category, d.Quantity, d.Location, d.ExpiryDate.String(), d.AddedDate.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert fridge item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *FridgeStore) Update(item model.FridgeItem) (*model.FridgeItem, error) {
	_, err := s.db.Exec(
		`UPDATE fridge_items SET name = ?, category = ?, quantity = ?, location = ?, expiry_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		item.Name, item.Category, item.Quantity, item.Location, item.ExpiryDate.String(), item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update fridge item: %w", err)
	}
	return s.GetByID(item.ID)
}

func (s *FridgeStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM fridge_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fridge item: %w", err)
	}
	return nil
}
