package model

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type MealTime string

const (
	Breakfast MealTime = "breakfast"
	Lunch     MealTime = "lunch"
	Dinner    MealTime = "dinner"
)

// MealTimes lists the meal slots of a day in calendar order.
var MealTimes = []MealTime{Breakfast, Lunch, Dinner}

func (m MealTime) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner:
		return true
	}
	return false
}

type MealPlan struct {
	ID              int64        `json:"id"`
	DishID          int64        `json:"dish_id"`
	Date            civil.Date   `json:"meal_date"`
	TimeOfDay       MealTime     `json:"time_of_day"`
	PlannedServings int          `json:"planned_servings"`
	Notes           string       `json:"notes"`
	CreatedBy       string       `json:"created_by"`
	FamilyMemberID  *int64       `json:"family_member_id"`
	Dish            *DishSummary `json:"dish,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (m MealPlan) EntityID() int64 { return m.ID }

type MealPlanDraft struct {
	DishID          int64      `json:"dish_id"`
	Date            civil.Date `json:"meal_date"`
	TimeOfDay       MealTime   `json:"time_of_day"`
	PlannedServings int        `json:"planned_servings"`
	Notes           string     `json:"notes"`
	CreatedBy       string     `json:"created_by"`
	FamilyMemberID  *int64     `json:"family_member_id"`
}

func (d MealPlanDraft) Validate() error {
	if d.DishID <= 0 {
		return fieldErr("dish_id", "is required")
	}
	if d.Date == (civil.Date{}) || !d.Date.IsValid() {
		return fieldErr("meal_date", "is required")
	}
	if !d.TimeOfDay.Valid() {
		return fieldErr("time_of_day", "must be breakfast, lunch or dinner")
	}
	if d.PlannedServings < 0 {
		return fieldErr("planned_servings", "must not be negative")
	}
	return nil
}

func (d *MealPlanDraft) Normalize() {
	if d.PlannedServings == 0 {
		d.PlannedServings = 2
	}
	d.Notes = strings.TrimSpace(d.Notes)
	d.CreatedBy = strings.TrimSpace(d.CreatedBy)
}

type MealPlanPatch struct {
	DishID          *int64      `json:"dish_id,omitempty"`
	Date            *civil.Date `json:"meal_date,omitempty"`
	TimeOfDay       *MealTime   `json:"time_of_day,omitempty"`
	PlannedServings *int        `json:"planned_servings,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	FamilyMemberID  *int64      `json:"family_member_id,omitempty"`
}

func (p MealPlanPatch) Validate() error {
	if p.DishID != nil && *p.DishID <= 0 {
		return fieldErr("dish_id", "is required")
	}
	if p.Date != nil && !p.Date.IsValid() {
		return fieldErr("meal_date", "is not a valid date")
	}
	if p.TimeOfDay != nil && !p.TimeOfDay.Valid() {
		return fieldErr("time_of_day", "must be breakfast, lunch or dinner")
	}
	if p.PlannedServings != nil && *p.PlannedServings < 1 {
		return fieldErr("planned_servings", "must be at least 1")
	}
	return nil
}

func (p MealPlanPatch) Apply(m *MealPlan) {
	if p.DishID != nil {
		m.DishID = *p.DishID
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.TimeOfDay != nil {
		m.TimeOfDay = *p.TimeOfDay
	}
	if p.PlannedServings != nil {
		m.PlannedServings = *p.PlannedServings
	}
	if p.Notes != nil {
		m.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.FamilyMemberID != nil {
		m.FamilyMemberID = p.FamilyMemberID
	}
}
