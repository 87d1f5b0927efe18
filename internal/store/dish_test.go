package store

import (
	"testing"

	"github.com/dukerupert/smartfood/internal/model"
)

func TestDishIngredientsRoundTrip(t *testing.T) {
	ds := NewDishStore(setupTestDB(t))

	d, err := ds.Create(model.DishDraft{
		Name: "Phở bò", CookTime: 120, Servings: 4, Difficulty: model.DifficultyHard,
		Ingredients: []model.Ingredient{{Name: "Bánh phở", Amount: "500g"}, {Name: "Thịt bò", Amount: "300g"}},
		ImageEmoji:  "🍜",
		Rating:      ptr(4.5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(d.Ingredients) != 2 || d.Ingredients[1].Name != "Thịt bò" {
		t.Errorf("ingredients = %+v", d.Ingredients)
	}
	if d.Rating == nil || *d.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", d.Rating)
	}

	d.Ingredients = nil
	d.Rating = nil
	updated, err := ds.Update(*d)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Ingredients == nil || len(updated.Ingredients) != 0 {
		t.Errorf("ingredients = %#v, want empty slice", updated.Ingredients)
	}
	if updated.Rating != nil {
		t.Errorf("rating = %v, want nil", *updated.Rating)
	}

	if err := ds.Delete(d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := ds.GetByID(d.ID); got != nil {
		t.Error("expected nil after delete")
	}
}
