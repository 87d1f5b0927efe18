package dashboard

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/fridge"
	"github.com/dukerupert/smartfood/internal/model"
)

func TestCompute(t *testing.T) {
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	today := civil.DateOf(now)

	s := Snapshot{
		Groceries: []model.GroceryItem{
			{ItemName: "Sữa"},
			{ItemName: "Trứng", Completed: true},
			{ItemName: "Gạo"},
		},
		Fridge: []model.FridgeItem{
			{Name: "rau", ExpiryDate: today.AddDays(1)},
			{Name: "thịt", ExpiryDate: today.AddDays(-1)},
			{Name: "cá", ExpiryDate: today.AddDays(10)},
		},
		MealPlans: []model.MealPlan{
			{Date: today, TimeOfDay: model.Lunch},
			{Date: today.AddDays(3), TimeOfDay: model.Dinner},
			{Date: today.AddDays(4), TimeOfDay: model.Dinner},
		},
	}

	got := Compute(s, fridge.DefaultPolicy, now)
	want := Stats{ExpiringSoon: 2, PendingGroceries: 2, FridgeItems: 3, MealsThisWeek: 2}
	if got != want {
		t.Errorf("Compute = %+v, want %+v", got, want)
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(Snapshot{}, fridge.DefaultPolicy, time.Now())
	if got != (Stats{}) {
		t.Errorf("Compute(empty) = %+v, want zero", got)
	}
}
