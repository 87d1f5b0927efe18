package model

import (
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type Dish struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	CookTime     int          `json:"cook_time"`
	Servings     int          `json:"servings"`
	Difficulty   Difficulty   `json:"difficulty"`
	Category     string       `json:"category"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions"`
	ImageEmoji   string       `json:"image_emoji"`
	Rating       *float64     `json:"rating"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (d Dish) EntityID() int64 { return d.ID }

// IngredientNames lists the dish's ingredient names in recipe order.
func (d Dish) IngredientNames() []string {
	names := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// Summary is the subset of a dish embedded in meal plan reads.
func (d Dish) Summary() DishSummary {
	return DishSummary{
		ID:          d.ID,
		Name:        d.Name,
		CookTime:    d.CookTime,
		Servings:    d.Servings,
		Ingredients: d.Ingredients,
		ImageEmoji:  d.ImageEmoji,
	}
}

type DishSummary struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	CookTime    int          `json:"cook_time"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`
	ImageEmoji  string       `json:"image_emoji"`
}

type DishDraft struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	CookTime     int          `json:"cook_time"`
	Servings     int          `json:"servings"`
	Difficulty   Difficulty   `json:"difficulty"`
	Category     string       `json:"category"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions"`
	ImageEmoji   string       `json:"image_emoji"`
	Rating       *float64     `json:"rating"`
}

func (d DishDraft) Validate() error {
	if err := requireText("name", d.Name); err != nil {
		return err
	}
	if d.CookTime < 0 {
		return fieldErr("cook_time", "must not be negative")
	}
	if d.Servings < 0 {
		return fieldErr("servings", "must not be negative")
	}
	if d.Difficulty != "" && !d.Difficulty.Valid() {
		return fieldErr("difficulty", "must be easy, medium or hard")
	}
	if err := validateIngredients(d.Ingredients); err != nil {
		return err
	}
	return validateRating(d.Rating)
}

// Normalize trims text and fills the defaults the catalog form uses.
func (d *DishDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	if d.Difficulty == "" {
		d.Difficulty = DifficultyEasy
	}
	if d.Servings == 0 {
		d.Servings = 1
	}
	d.Ingredients = cleanIngredients(d.Ingredients)
}

type DishPatch struct {
	Name         *string       `json:"name,omitempty"`
	Description  *string       `json:"description,omitempty"`
	CookTime     *int          `json:"cook_time,omitempty"`
	Servings     *int          `json:"servings,omitempty"`
	Difficulty   *Difficulty   `json:"difficulty,omitempty"`
	Category     *string       `json:"category,omitempty"`
	Ingredients  *[]Ingredient `json:"ingredients,omitempty"`
	Instructions *string       `json:"instructions,omitempty"`
	ImageEmoji   *string       `json:"image_emoji,omitempty"`
	Rating       *float64      `json:"rating,omitempty"`
}

func (p DishPatch) Validate() error {
	if err := optionalText("name", p.Name); err != nil {
		return err
	}
	if p.CookTime != nil && *p.CookTime < 0 {
		return fieldErr("cook_time", "must not be negative")
	}
	if p.Servings != nil && *p.Servings < 1 {
		return fieldErr("servings", "must be at least 1")
	}
	if p.Difficulty != nil && !p.Difficulty.Valid() {
		return fieldErr("difficulty", "must be easy, medium or hard")
	}
	if p.Ingredients != nil {
		if err := validateIngredients(*p.Ingredients); err != nil {
			return err
		}
	}
	return validateRating(p.Rating)
}

func (p DishPatch) Apply(d *Dish) {
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.CookTime != nil {
		d.CookTime = *p.CookTime
	}
	if p.Servings != nil {
		d.Servings = *p.Servings
	}
	if p.Difficulty != nil {
		d.Difficulty = *p.Difficulty
	}
	if p.Category != nil {
		d.Category = strings.TrimSpace(*p.Category)
	}
	if p.Ingredients != nil {
		d.Ingredients = cleanIngredients(*p.Ingredients)
	}
	if p.Instructions != nil {
		d.Instructions = *p.Instructions
	}
	if p.ImageEmoji != nil {
		d.ImageEmoji = *p.ImageEmoji
	}
	if p.Rating != nil {
		d.Rating = p.Rating
	}
}

func validateIngredients(ings []Ingredient) error {
	for _, ing := range ings {
		if strings.TrimSpace(ing.Name) == "" {
			return fieldErr("ingredients", "must all have a name")
		}
	}
	return nil
}

func validateRating(r *float64) error {
	if r != nil && (*r < 0 || *r > 5) {
		return fieldErr("rating", "must be between 0 and 5")
	}
	return nil
}

func cleanIngredients(ings []Ingredient) []Ingredient {
	out := make([]Ingredient, 0, len(ings))
	for _, ing := range ings {
		out = append(out, Ingredient{
			Name:   strings.TrimSpace(ing.Name),
			Amount: strings.TrimSpace(ing.Amount),
		})
	}
	return out
}
