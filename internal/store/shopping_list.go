package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/smartfood/internal/model"
)

// ShoppingListStore keeps per-user shopping lists. Every method is scoped
// by user id; a list owned by someone else reads as missing.
type ShoppingListStore struct {
	db *sql.DB
}

func NewShoppingListStore(db *sql.DB) *ShoppingListStore {
	return &ShoppingListStore{db: db}
}

const listCols = `id, user_id, name, type, created_at, updated_at`

func scanList(s scanner) (*model.ShoppingList, error) {
	var l model.ShoppingList
	if err := s.Scan(&l.ID, &l.UserID, &l.Name, &l.Type, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func loadItems(q querier, listID int64) ([]model.ShoppingItem, error) {
	rows, err := q.Query(
		`SELECT name, quantity, unit, category, is_purchased FROM shopping_list_items WHERE list_id = ? ORDER BY sort_order, id`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("query shopping items: %w", err)
	}
	defer rows.Close()

	items := []model.ShoppingItem{}
	for rows.Next() {
		var it model.ShoppingItem
		var purchased int
		if err := rows.Scan(&it.Name, &it.Quantity, &it.Unit, &it.Category, &purchased); err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		it.IsPurchased = purchased != 0
		items = append(items, it)
	}
	return items, rows.Err()
}

func replaceItems(tx *sql.Tx, listID int64, items []model.ShoppingItem) error {
	if _, err := tx.Exec(`DELETE FROM shopping_list_items WHERE list_id = ?`, listID); err != nil {
		return fmt.Errorf("clear shopping items: %w", err)
	}
	for i, it := range items {
		_, err := tx.Exec(
			`INSERT INTO shopping_list_items (list_id, name, quantity, unit, category, is_purchased, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			listID, it.Name, it.Quantity, it.Unit, it.Category, boolInt(it.IsPurchased), i,
		)
		if err != nil {
			return fmt.Errorf("insert shopping item: %w", err)
		}
	}
	return nil
}

func (s *ShoppingListStore) GetByID(userID, id int64) (*model.ShoppingList, error) {
	l, err := scanList(s.db.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE id = ? AND user_id = ?`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	if l.Items, err = loadItems(s.db, l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// List returns the user's lists, newest first, items included.
func (s *ShoppingListStore) List(userID int64) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(`SELECT `+listCols+` FROM shopping_lists WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Items are loaded after the outer cursor is closed; the in-memory
	// database runs on a single connection.
	for i := range lists {
		if lists[i].Items, err = loadItems(s.db, lists[i].ID); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

func (s *ShoppingListStore) Create(userID int64, d model.ShoppingListDraft) (*model.ShoppingList, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO shopping_lists (user_id, name, type) VALUES (?, ?, ?)`, userID, d.Name, d.Type)
	if err != nil {
		return nil, fmt.Errorf("insert shopping list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := replaceItems(tx, id, d.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(userID, id)
}

// Update rewrites the list header and replaces its items.
func (s *ShoppingListStore) Update(l model.ShoppingList) (*model.ShoppingList, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE shopping_lists SET name = ?, type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		l.Name, l.Type, l.ID, l.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("update shopping list: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, nil
	}
	if err := replaceItems(tx, l.ID, l.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(l.UserID, l.ID)
}

// Delete reports whether a list owned by userID was removed.
func (s *ShoppingListStore) Delete(userID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete shopping list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
