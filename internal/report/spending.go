package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dukerupert/smartfood/internal/fridge"
	"github.com/dukerupert/smartfood/internal/model"
)

// Config carries the estimates the spending report is built with. Amounts
// are in currency minor units.
type Config struct {
	WastePerItem int64
	SavingsRate  float64
	Months       int
}

var DefaultConfig = Config{WastePerItem: 25000, SavingsRate: 0.15, Months: 6}

// TotalSpend sums prices; records without a price count as zero.
func TotalSpend(records []model.PurchaseRecord) int64 {
	var total int64
	for _, r := range records {
		total += r.PriceOrZero()
	}
	return total
}

type CategorySpend struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

func CategoryTotals(records []model.PurchaseRecord) map[string]int64 {
	totals := make(map[string]int64)
	for _, r := range records {
		totals[r.ItemType] += r.PriceOrZero()
	}
	return totals
}

// SpendByCategory returns per item type totals, largest first. Ties are
// broken by category name.
func SpendByCategory(records []model.PurchaseRecord) []CategorySpend {
	totals := CategoryTotals(records)
	out := make([]CategorySpend, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, CategorySpend{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Label string     `json:"label"`
	Spend int64      `json:"spend"`
	Waste int64      `json:"waste"`
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlySeries returns the c.Months calendar months ending with now's
// month, oldest first. Purchases are bucketed in now's location; waste
// counts items that have expired, by the month of their expiry date.
func (c Config) MonthlySeries(records []model.PurchaseRecord, items []model.FridgeItem, now time.Time) []Month {
	if c.Months <= 0 {
		return []Month{}
	}

	loc := now.Location()
	series := make([]Month, c.Months)
	index := make(map[monthKey]int, c.Months)
	for i := range series {
		first := time.Date(now.Year(), now.Month()-time.Month(c.Months-1-i), 1, 0, 0, 0, 0, loc)
		series[i] = Month{
			Year:  first.Year(),
			Month: first.Month(),
			Label: fmt.Sprintf("%04d-%02d", first.Year(), int(first.Month())),
		}
		index[monthKey{first.Year(), first.Month()}] = i
	}

	for _, r := range records {
		at := r.PurchasedAt.In(loc)
		if i, ok := index[monthKey{at.Year(), at.Month()}]; ok {
			series[i].Spend += r.PriceOrZero()
		}
	}
	for _, item := range fridge.Expired(items, now) {
		if i, ok := index[monthKey{item.ExpiryDate.Year, item.ExpiryDate.Month}]; ok {
			series[i].Waste += c.WastePerItem
		}
	}
	return series
}

// EstimatedWaste prices every expired item at WastePerItem.
func (c Config) EstimatedWaste(items []model.FridgeItem, now time.Time) int64 {
	return int64(len(fridge.Expired(items, now))) * c.WastePerItem
}

func (c Config) EstimatedSavings(totalSpend int64) int64 {
	return int64(math.Round(float64(totalSpend) * c.SavingsRate))
}

type Summary struct {
	TotalSpend       int64           `json:"total_spend"`
	ByCategory       []CategorySpend `json:"by_category"`
	Monthly          []Month         `json:"monthly"`
	EstimatedWaste   int64           `json:"estimated_waste"`
	EstimatedSavings int64           `json:"estimated_savings"`
	PurchaseCount    int             `json:"purchase_count"`
	ExpiredCount     int             `json:"expired_count"`
}

func (c Config) Build(records []model.PurchaseRecord, items []model.FridgeItem, now time.Time) Summary {
	total := TotalSpend(records)
	return Summary{
		TotalSpend:       total,
		ByCategory:       SpendByCategory(records),
		Monthly:          c.MonthlySeries(records, items, now),
		EstimatedWaste:   c.EstimatedWaste(items, now),
		EstimatedSavings: c.EstimatedSavings(total),
		PurchaseCount:    len(records),
		ExpiredCount:     len(fridge.Expired(items, now)),
	}
}
