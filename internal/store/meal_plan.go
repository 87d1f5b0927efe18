package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

// Reads embed the planned dish's summary.
const mealPlanSelect = `SELECT mp.id, mp.dish_id, mp.meal_date, mp.time_of_day, mp.planned_servings, mp.notes,
	mp.created_by, mp.family_member_id, mp.created_at, mp.updated_at,
	d.name, d.cook_time, d.servings, d.ingredients, d.image_emoji
	FROM meal_plans mp JOIN dishes d ON d.id = mp.dish_id`

func scanMealPlan(s scanner) (*model.MealPlan, error) {
	var mp model.MealPlan
	var date, ingredients string
	var memberID sql.NullInt64
	var dish model.DishSummary

	err := s.Scan(
		&mp.ID, &mp.DishID, &date, &mp.TimeOfDay, &mp.PlannedServings, &mp.Notes,
		&mp.CreatedBy, &memberID, &mp.CreatedAt, &mp.UpdatedAt,
		&dish.Name, &dish.CookTime, &dish.Servings, &ingredients, &dish.ImageEmoji,
	)
	if err != nil {
		return nil, err
	}
	if mp.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &dish.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	dish.ID = mp.DishID
	mp.Dish = &dish
	mp.FamilyMemberID = int64Ptr(memberID)
	return &mp, nil
}

func (s *MealPlanStore) query(where string, args ...any) ([]model.MealPlan, error) {
	rows, err := s.db.Query(mealPlanSelect+where+` ORDER BY mp.meal_date, mp.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	defer rows.Close()

	var plans []model.MealPlan
	for rows.Next() {
		mp, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		plans = append(plans, *mp)
	}
	return plans, rows.Err()
}

// List returns every meal plan by date ascending.
func (s *MealPlanStore) List() ([]model.MealPlan, error) {
	return s.query("")
}

// ListInRange returns plans dated start through end inclusive. Dates are
// ISO text so string comparison orders them.
func (s *MealPlanStore) ListInRange(start, end civil.Date) ([]model.MealPlan, error) {
	return s.query(` WHERE mp.meal_date >= ? AND mp.meal_date <= ?`, start.String(), end.String())
}

func (s *MealPlanStore) GetByID(id int64) (*model.MealPlan, error) {
	mp, err := scanMealPlan(s.db.QueryRow(mealPlanSelect+` WHERE mp.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return mp, nil
}

func (s *MealPlanStore) Create(d model.MealPlanDraft) (*model.MealPlan, error) {
	result, err := s.db.Exec(
		`INSERT INTO meal_plans (dish_id, meal_date, time_of_day, planned_servings, notes, created_by, family_member_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.DishID, d.Date.String(), d.TimeOfDay, d.PlannedServings, d.Notes, d.CreatedBy, nullInt64(d.FamilyMemberID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MealPlanStore) Update(mp model.MealPlan) (*model.MealPlan, error) {
	_, err := s.db.Exec(
		`UPDATE meal_plans SET dish_id = ?, meal_date = ?, time_of_day = ?, planned_servings = ?, notes = ?, family_member_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		mp.DishID, mp.Date.String(), mp.TimeOfDay, mp.PlannedServings, mp.Notes, nullInt64(mp.FamilyMemberID), mp.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal plan: %w", err)
	}
	return s.GetByID(mp.ID)
}

func (s *MealPlanStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM meal_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meal plan: %w", err)
	}
	return nil
}
