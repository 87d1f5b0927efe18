package dashboard

import (
	"time"

	"github.com/dukerupert/smartfood/internal/fridge"
	"github.com/dukerupert/smartfood/internal/mealplan"
	"github.com/dukerupert/smartfood/internal/model"
)

// Stats are the home page tiles.
type Stats struct {
	ExpiringSoon     int `json:"expiring_soon"`
	PendingGroceries int `json:"pending_groceries"`
	FridgeItems      int `json:"fridge_items"`
	MealsThisWeek    int `json:"meals_this_week"`
}

type Snapshot struct {
	Groceries []model.GroceryItem
	Fridge    []model.FridgeItem
	MealPlans []model.MealPlan
}

func Compute(s Snapshot, policy fridge.Policy, now time.Time) Stats {
	pending := 0
	for _, g := range s.Groceries {
		if !g.Completed {
			pending++
		}
	}
	return Stats{
		ExpiringSoon:     policy.CountExpiringSoon(s.Fridge, now),
		PendingGroceries: pending,
		FridgeItems:      len(s.Fridge),
		MealsThisWeek:    mealplan.CountThisWeek(s.MealPlans, now),
	}
}
