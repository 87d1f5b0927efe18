package mealplan

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/model"
)

// Window is a Sunday through Saturday week, both ends inclusive.
type Window struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// WeekOf returns the week containing ref.
func WeekOf(ref civil.Date) Window {
	offset := int(ref.In(time.UTC).Weekday())
	start := ref.AddDays(-offset)
	return Window{Start: start, End: start.AddDays(6)}
}

func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days lists the seven dates of the window in order.
func (w Window) Days() []civil.Date {
	days := make([]civil.Date, 7)
	for i := range days {
		days[i] = w.Start.AddDays(i)
	}
	return days
}

func InWindow(plans []model.MealPlan, w Window) []model.MealPlan {
	var out []model.MealPlan
	for _, p := range plans {
		if w.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// CountThisWeek counts plans in the week containing now's date.
func CountThisWeek(plans []model.MealPlan, now time.Time) int {
	return len(InWindow(plans, WeekOf(civil.DateOf(now))))
}

// Slot returns the first plan in list order for the given day and meal.
func Slot(plans []model.MealPlan, date civil.Date, timeOfDay model.MealTime) (model.MealPlan, bool) {
	for _, p := range plans {
		if p.Date == date && p.TimeOfDay == timeOfDay {
			return p, true
		}
	}
	return model.MealPlan{}, false
}

// Day is one column of the calendar view. Meals maps each meal time to its
// plan; empty slots are absent.
type Day struct {
	Date  civil.Date                        `json:"date"`
	Meals map[model.MealTime]model.MealPlan `json:"meals"`
}

// Week buckets the plans of w into its seven days, first match per slot.
func Week(plans []model.MealPlan, w Window) []Day {
	days := make([]Day, 0, 7)
	for _, d := range w.Days() {
		day := Day{Date: d, Meals: make(map[model.MealTime]model.MealPlan)}
		for _, mt := range model.MealTimes {
			if p, ok := Slot(plans, d, mt); ok {
				day.Meals[mt] = p
			}
		}
		days = append(days, day)
	}
	return days
}
