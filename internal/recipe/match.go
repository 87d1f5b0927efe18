package recipe

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dukerupert/smartfood/internal/model"
)

type MatchMode string

const (
	// ModeExact matches names that are equal after Normalize.
	ModeExact MatchMode = "exact"
	// ModeSubstring matches when either normalized name contains the other.
	ModeSubstring MatchMode = "substring"
)

func ParseMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeExact:
		return ModeExact, nil
	case ModeSubstring:
		return ModeSubstring, nil
	}
	return "", fmt.Errorf("unknown match mode %q", s)
}

// Matcher decides whether a dish can be cooked from what is on hand. A dish
// is cookable when no more than Threshold ingredients are missing.
type Matcher struct {
	Threshold int
	Mode      MatchMode
}

var DefaultMatcher = Matcher{Threshold: 2, Mode: ModeExact}

// Normalize trims, composes to NFC and lowercases an ingredient name so that
// "Cà chua", " cà chua" and a decomposed "cà chua" compare equal.
func Normalize(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

type Result struct {
	Available []string `json:"available"`
	Missing   []string `json:"missing"`
	Cookable  bool     `json:"cookable"`
}

// Match splits required into available and missing, both in required order.
func (m Matcher) Match(required, available []string) Result {
	have := make([]string, 0, len(available))
	for _, a := range available {
		if n := Normalize(a); n != "" {
			have = append(have, n)
		}
	}

	res := Result{Available: []string{}, Missing: []string{}}
	for _, name := range required {
		if m.has(have, Normalize(name)) {
			res.Available = append(res.Available, name)
		} else {
			res.Missing = append(res.Missing, name)
		}
	}
	res.Cookable = len(res.Missing) <= m.Threshold
	return res
}

func (m Matcher) has(have []string, want string) bool {
	if want == "" {
		return false
	}
	for _, h := range have {
		switch m.Mode {
		case ModeSubstring:
			if strings.Contains(h, want) || strings.Contains(want, h) {
				return true
			}
		default:
			if h == want {
				return true
			}
		}
	}
	return false
}

// AvailableFromFridge lists the names of what is stored.
func AvailableFromFridge(items []model.FridgeItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

type DishMatch struct {
	Dish model.DishSummary `json:"dish"`
	Result
}

// Rank matches every dish and puts the cookable ones first, otherwise
// keeping the input order.
func (m Matcher) Rank(dishes []model.Dish, available []string) []DishMatch {
	out := make([]DishMatch, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, DishMatch{Dish: d.Summary(), Result: m.Match(d.IngredientNames(), available)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cookable && !out[j].Cookable
	})
	return out
}
