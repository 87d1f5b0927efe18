package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/smartfood/internal/model"
)

type DishStore struct {
	db *sql.DB
}

func NewDishStore(db *sql.DB) *DishStore {
	return &DishStore{db: db}
}

func scanDish(s scanner) (*model.Dish, error) {
	var d model.Dish
	var ingredients string
	var rating sql.NullFloat64
	err := s.Scan(
		&d.ID, &d.Name, &d.Description, &d.CookTime, &d.Servings, &d.Difficulty, &d.Category,
		&ingredients, &d.Instructions, &d.ImageEmoji, &rating, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &d.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if d.Ingredients == nil {
		d.Ingredients = []model.Ingredient{}
	}
	d.Rating = float64Ptr(rating)
	return &d, nil
}

const dishCols = `id, name, description, cook_time, servings, difficulty, category, ingredients, instructions, image_emoji, rating, created_at, updated_at`

func encodeIngredients(ings []model.Ingredient) (string, error) {
	if ings == nil {
		ings = []model.Ingredient{}
	}
	b, err := json.Marshal(ings)
	if err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}
	return string(b), nil
}

func (s *DishStore) GetByID(id int64) (*model.Dish, error) {
	d, err := scanDish(s.db.QueryRow(`SELECT `+dishCols+` FROM dishes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dish: %w", err)
	}
	return d, nil
}

func (s *DishStore) List() ([]model.Dish, error) {
	rows, err := s.db.Query(`SELECT ` + dishCols + ` FROM dishes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	var dishes []model.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, *d)
	}
	return dishes, rows.Err()
}

func (s *DishStore) Create(d model.DishDraft) (*model.Dish, error) {
	ings, err := encodeIngredients(d.Ingredients)
	if err != nil {
		return nil, err
	}
	result, err := s.db.Exec(
		`INSERT INTO dishes (name, description, cook_time, servings, difficulty, category, ingredients, instructions, image_emoji, rating) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Name, d.Description, d.CookTime, d.Servings, d.Difficulty, d.Category, ings, d.Instructions, d.ImageEmoji, nullFloat64(d.Rating),
	)
	if err != nil {
		return nil, fmt.Errorf("insert dish: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *DishStore) Update(d model.Dish) (*model.Dish, error) {
	ings, err := encodeIngredients(d.Ingredients)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(
		`UPDATE dishes SET name = ?, description = ?, cook_time = ?, servings = ?, difficulty = ?, category = ?, ingredients = ?, instructions = ?, image_emoji = ?, rating = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		d.Name, d.Description, d.CookTime, d.Servings, d.Difficulty, d.Category, ings, d.Instructions, d.ImageEmoji, nullFloat64(d.Rating), d.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update dish: %w", err)
	}
	return s.GetByID(d.ID)
}

// Delete removes the dish and, through the foreign key, its meal plans.
func (s *DishStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM dishes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	return nil
}
