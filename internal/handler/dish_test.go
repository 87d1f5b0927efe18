package handler

import (
	"net/http"
	"testing"

	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/recipe"
	"github.com/dukerupert/smartfood/internal/store"
)

func setupDish(t *testing.T) (*http.ServeMux, *store.DishStore, *store.FridgeStore) {
	t.Helper()
	db := setupTestDB(t)
	ds, fs := store.NewDishStore(db), store.NewFridgeStore(db)
	h := NewDishHandler(ds, fs, recipe.DefaultMatcher, &recordingNotifier{}, testLogger)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dishes", h.List)
	mux.HandleFunc("POST /api/dishes", h.Create)
	mux.HandleFunc("GET /api/dishes/availability", h.Availability)
	mux.HandleFunc("GET /api/dishes/{id}", h.Get)
	mux.HandleFunc("PUT /api/dishes/{id}", h.Replace)
	mux.HandleFunc("PATCH /api/dishes/{id}", h.Patch)
	mux.HandleFunc("DELETE /api/dishes/{id}", h.Delete)
	return mux, ds, fs
}

func TestDishCreateDefaults(t *testing.T) {
	mux, _, _ := setupDish(t)

	rec := doJSON(t, mux, "POST", "/api/dishes", map[string]any{
		"name":        "Phở bò",
		"cook_time":   120,
		"ingredients": []map[string]string{{"name": " Bánh phở ", "amount": "500g"}, {"name": "Thịt bò"}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	d := decode[model.Dish](t, rec)
	if d.Difficulty != model.DifficultyEasy {
		t.Errorf("Difficulty = %q, want easy", d.Difficulty)
	}
	if d.Servings != 1 {
		t.Errorf("Servings = %d, want 1", d.Servings)
	}
	if len(d.Ingredients) != 2 || d.Ingredients[0].Name != "Bánh phở" {
		t.Errorf("Ingredients = %+v", d.Ingredients)
	}
}

func TestDishValidation(t *testing.T) {
	mux, ds, _ := setupDish(t)
	d, _ := ds.Create(model.DishDraft{Name: "Cơm tấm", Difficulty: model.DifficultyMedium, Servings: 2})

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
	}{
		{"create without name", "POST", "/api/dishes", map[string]any{"cook_time": 10}},
		{"create bad difficulty", "POST", "/api/dishes", map[string]any{"name": "Bún", "difficulty": "insane"}},
		{"create bad rating", "POST", "/api/dishes", map[string]any{"name": "Bún", "rating": 6}},
		{"patch zero servings", "PATCH", "/api/dishes/" + itoa(d.ID), map[string]any{"servings": 0}},
		{"patch blank ingredient", "PATCH", "/api/dishes/" + itoa(d.ID), map[string]any{"ingredients": []map[string]string{{"name": " "}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doJSON(t, mux, tt.method, tt.path, tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestDishPatch(t *testing.T) {
	mux, ds, _ := setupDish(t)
	d, _ := ds.Create(model.DishDraft{Name: "Bún chả", Difficulty: model.DifficultyMedium, Servings: 4})

	rec := doJSON(t, mux, "PATCH", "/api/dishes/"+itoa(d.ID), map[string]any{"rating": 4.5})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[model.Dish](t, rec)
	if got.Rating == nil || *got.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", got.Rating)
	}
	if got.Servings != 4 || got.Difficulty != model.DifficultyMedium {
		t.Errorf("patch changed other fields: %+v", got)
	}
}

func TestDishAvailability(t *testing.T) {
	mux, ds, fs := setupDish(t)
	today := testNowDate()

	ds.Create(model.DishDraft{
		Name: "Canh chua", Difficulty: model.DifficultyEasy, Servings: 4,
		Ingredients: []model.Ingredient{{Name: "Cá lóc"}, {Name: "Cà chua"}, {Name: "Dứa"}, {Name: "Giá đỗ"}, {Name: "Me"}},
	})
	ds.Create(model.DishDraft{
		Name: "Trứng chiên", Difficulty: model.DifficultyEasy, Servings: 1,
		Ingredients: []model.Ingredient{{Name: "Trứng gà"}, {Name: "Hành lá"}},
	})
	for _, name := range []string{"Cà chua", "Dứa", "trứng gà"} {
		fs.Create(model.FridgeDraft{Name: name, Quantity: "1", Location: "fridge", ExpiryDate: today.AddDays(5), AddedDate: &today})
	}

	rec := doJSON(t, mux, "GET", "/api/dishes/availability", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	matches := decode[[]recipe.DishMatch](t, rec)
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].Dish.Name != "Trứng chiên" || !matches[0].Cookable {
		t.Errorf("first match = %s cookable=%v, want Trứng chiên cookable", matches[0].Dish.Name, matches[0].Cookable)
	}
	canh := matches[1]
	if canh.Cookable || len(canh.Missing) != 3 {
		t.Errorf("Canh chua = %+v, want 3 missing and not cookable", canh.Result)
	}

	if rec := doJSON(t, mux, "GET", "/api/dishes/availability?mode=fuzzy", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad mode status = %d, want 400", rec.Code)
	}
}
