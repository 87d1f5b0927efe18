package recipe

import (
	"reflect"
	"testing"

	"github.com/dukerupert/smartfood/internal/model"
)

func TestMatchCanhChua(t *testing.T) {
	required := []string{"Cá", "Dứa", "Đậu bắp", "Cà chua", "Giá đỗ", "Me"}
	available := []string{"Cá", "Cà chua", "Giá đỗ"}

	got := DefaultMatcher.Match(required, available)

	if want := []string{"Dứa", "Đậu bắp", "Me"}; !reflect.DeepEqual(got.Missing, want) {
		t.Errorf("missing = %v, want %v", got.Missing, want)
	}
	if want := []string{"Cá", "Cà chua", "Giá đỗ"}; !reflect.DeepEqual(got.Available, want) {
		t.Errorf("available = %v, want %v", got.Available, want)
	}
	if got.Cookable {
		t.Error("3 missing ingredients should not be cookable")
	}
}

func TestMatchThreshold(t *testing.T) {
	required := []string{"a", "b", "c", "d"}
	tests := []struct {
		threshold int
		available []string
		want      bool
	}{
		{2, []string{"a", "b"}, true},
		{2, []string{"a"}, false},
		{0, []string{"a", "b", "c", "d"}, true},
		{0, []string{"a", "b", "c"}, false},
		{4, nil, true},
	}
	for _, tt := range tests {
		m := Matcher{Threshold: tt.threshold, Mode: ModeExact}
		if got := m.Match(required, tt.available).Cookable; got != tt.want {
			t.Errorf("threshold %d with %v: cookable = %v, want %v", tt.threshold, tt.available, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	decomposed := "Ca\u0300 chua"
	tests := []struct {
		a, b string
	}{
		{"Cà chua", " cà chua "},
		{"CÁ", "cá"},
		{decomposed, "cà chua"},
	}
	for _, tt := range tests {
		if Normalize(tt.a) != Normalize(tt.b) {
			t.Errorf("Normalize(%q) = %q, Normalize(%q) = %q", tt.a, Normalize(tt.a), tt.b, Normalize(tt.b))
		}
	}
}

func TestMatchModes(t *testing.T) {
	required := []string{"Thịt bò"}
	available := []string{"thịt bò Úc"}

	if DefaultMatcher.Match(required, available).Missing[0] != "Thịt bò" {
		t.Error("exact mode should not match a longer name")
	}
	sub := Matcher{Threshold: 0, Mode: ModeSubstring}
	if res := sub.Match(required, available); len(res.Missing) != 0 {
		t.Errorf("substring mode missing = %v, want none", res.Missing)
	}
}

func TestMatchBlankRequiredName(t *testing.T) {
	for _, mode := range []MatchMode{ModeExact, ModeSubstring} {
		m := Matcher{Threshold: 0, Mode: mode}
		res := m.Match([]string{"  ", "hành"}, []string{"hành lá", "hành"})
		if len(res.Available) != 1 || res.Available[0] != "hành" {
			t.Errorf("%s: available = %v, want [hành]", mode, res.Available)
		}
		if len(res.Missing) != 1 || res.Missing[0] != "  " {
			t.Errorf("%s: missing = %q, want the blank name", mode, res.Missing)
		}
		if res.Cookable {
			t.Errorf("%s: blank requirement should not count as available", mode)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]MatchMode{"": ModeExact, "EXACT": ModeExact, "substring": ModeSubstring} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("fuzzy"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRankCookableFirst(t *testing.T) {
	dishes := []model.Dish{
		{ID: 1, Name: "Canh chua", Ingredients: []model.Ingredient{{Name: "Cá"}, {Name: "Dứa"}, {Name: "Me"}, {Name: "Đậu bắp"}}},
		{ID: 2, Name: "Trứng chiên", Ingredients: []model.Ingredient{{Name: "Trứng"}}},
		{ID: 3, Name: "Rau muống xào", Ingredients: []model.Ingredient{{Name: "Rau muống"}, {Name: "Tỏi"}}},
	}
	fridge := []model.FridgeItem{{Name: "Trứng"}, {Name: "Rau muống"}}

	ranked := DefaultMatcher.Rank(dishes, AvailableFromFridge(fridge))

	var ids []int64
	for _, r := range ranked {
		ids = append(ids, r.Dish.ID)
	}
	if want := []int64{2, 3, 1}; !reflect.DeepEqual(ids, want) {
		t.Errorf("rank order = %v, want %v", ids, want)
	}
	if ranked[2].Cookable {
		t.Error("canh chua should not be cookable")
	}
}
