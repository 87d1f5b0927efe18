package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/smartfood/internal/model"
)

// ErrAlreadyCompleted is returned by Complete when the item was bought
// before; no purchase record is written in that case.
var ErrAlreadyCompleted = errors.New("grocery item already completed")

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

// --- Item methods ---

func scanItem(s scanner) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var memberID, price sql.NullInt64
	var completed int

	err := s.Scan(
		&item.ID, &item.ItemName, &item.ItemType, &item.Amount, &completed,
		&item.AddedBy, &memberID, &price, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Completed = completed != 0
	item.FamilyMemberID = int64Ptr(memberID)
	item.Price = int64Ptr(price)
	return &item, nil
}

const itemCols = `id, item_name, item_type, amount, completed, added_by, family_member_id, price, created_at, updated_at`

func (s *GroceryStore) GetByID(id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery item: %w", err)
	}
	return item, nil
}

// List returns all grocery items, newest first.
func (s *GroceryStore) List() ([]model.GroceryItem, error) {
	rows, err := s.db.Query(`SELECT ` + itemCols + ` FROM grocery_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *GroceryStore) Create(d model.GroceryDraft) (*model.GroceryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO grocery_items (item_name, item_type, amount, added_by, family_member_id, price) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ItemName, d.ItemType, d.Amount, d.AddedBy, nullInt64(d.FamilyMemberID), nullInt64(d.Price),
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Update writes the editable fields of item. Completion state is changed
// only through Complete and SetCompleted.
func (s *GroceryStore) Update(item model.GroceryItem) (*model.GroceryItem, error) {
	_, err := s.db.Exec(
		`UPDATE grocery_items SET item_name = ?, item_type = ?, amount = ?, added_by = ?, family_member_id = ?, price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		item.ItemName, item.ItemType, item.Amount, item.AddedBy, nullInt64(item.FamilyMemberID), nullInt64(item.Price), item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update grocery item: %w", err)
	}
	return s.GetByID(item.ID)
}

func (s *GroceryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	return nil
}

// SetCompleted flips the completed flag without touching purchase history.
func (s *GroceryStore) SetCompleted(id int64, completed bool) (*model.GroceryItem, error) {
	result, err := s.db.Exec(
		`UPDATE grocery_items SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolInt(completed), id,
	)
	if err != nil {
		return nil, fmt.Errorf("set completed: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

// Complete marks an item bought and appends its purchase record in one
// transaction. A missing item yields (nil, nil, nil).
func (s *GroceryStore) Complete(id int64, at time.Time) (*model.GroceryItem, *model.PurchaseRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	item, err := scanItem(tx.QueryRow(`SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get grocery item: %w", err)
	}
	if item.Completed {
		return item, nil, ErrAlreadyCompleted
	}

	at = at.UTC()
	result, err := tx.Exec(
		`UPDATE grocery_items SET completed = 1, updated_at = ? WHERE id = ? AND completed = 0`,
		at, id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("mark completed: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return item, nil, ErrAlreadyCompleted
	}

	result, err = tx.Exec(
		`INSERT INTO purchase_history (grocery_item_id, item_name, item_type, amount, price, purchased_by, family_member_id, purchased_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ItemName, item.ItemType, item.Amount, nullInt64(item.Price), item.AddedBy, nullInt64(item.FamilyMemberID), at,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert purchase record: %w", err)
	}
	recordID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	if item.FamilyMemberID != nil {
		_, err = tx.Exec(
			`UPDATE family_members SET contributions = contributions + 1, last_active = ? WHERE id = ?`,
			at, *item.FamilyMemberID,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("bump contributions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	updated, err := s.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	record, err := s.GetPurchaseByID(recordID)
	if err != nil {
		return nil, nil, err
	}
	return updated, record, nil
}

func (s *GroceryStore) CountPending() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM grocery_items WHERE completed = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return count, nil
}

// --- Purchase history methods ---

func scanPurchase(s scanner) (*model.PurchaseRecord, error) {
	var r model.PurchaseRecord
	var groceryID, price, memberID sql.NullInt64

	err := s.Scan(
		&r.ID, &groceryID, &r.ItemName, &r.ItemType, &r.Amount, &price,
		&r.PurchasedBy, &memberID, &r.PurchasedAt, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.GroceryItemID = int64Ptr(groceryID)
	r.Price = int64Ptr(price)
	r.FamilyMemberID = int64Ptr(memberID)
	return &r, nil
}

const purchaseCols = `id, grocery_item_id, item_name, item_type, amount, price, purchased_by, family_member_id, purchased_at, created_at`

func (s *GroceryStore) GetPurchaseByID(id int64) (*model.PurchaseRecord, error) {
	row := s.db.QueryRow(`SELECT `+purchaseCols+` FROM purchase_history WHERE id = ?`, id)
	r, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase record: %w", err)
	}
	return r, nil
}

// ListPurchases returns the purchase history, most recent first.
func (s *GroceryStore) ListPurchases() ([]model.PurchaseRecord, error) {
	rows, err := s.db.Query(`SELECT ` + purchaseCols + ` FROM purchase_history ORDER BY purchased_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var records []model.PurchaseRecord
	for rows.Next() {
		r, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}
