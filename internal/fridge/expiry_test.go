package fridge

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/model"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		days int
		want Status
	}{
		{-30, StatusExpired},
		{-1, StatusExpired},
		{0, StatusWarning},
		{3, StatusWarning},
		{4, StatusSoon},
		{7, StatusSoon},
		{8, StatusFresh},
		{365, StatusFresh},
	}
	for _, tt := range tests {
		if got := Classify(tt.days); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	expiry := civil.Date{Year: 2024, Month: 3, Day: 15}
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same day morning", time.Date(2024, 3, 15, 0, 1, 0, 0, time.UTC), 0},
		{"same day night", time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC), 0},
		{"day before", time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC), 1},
		{"day after", time.Date(2024, 3, 16, 8, 0, 0, 0, time.UTC), -1},
		{"across month", time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilExpiry(expiry, tt.now); got != tt.want {
				t.Errorf("DaysUntilExpiry = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysUntilExpiryAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("load location: %v", err)
	}
	// 2024-03-10 is a 23 hour day in New York.
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, loc)
	expiry := civil.Date{Year: 2024, Month: 3, Day: 11}
	if got := DaysUntilExpiry(expiry, now); got != 2 {
		t.Errorf("DaysUntilExpiry = %d, want 2", got)
	}
}

func fridgeItem(name string, expiry civil.Date) model.FridgeItem {
	return model.FridgeItem{Name: name, Quantity: "1", Location: model.LocationFridge, ExpiryDate: expiry}
}

func TestAnnotateAndCount(t *testing.T) {
	now := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	today := civil.DateOf(now)
	items := []model.FridgeItem{
		fridgeItem("sữa", today.AddDays(-2)),
		fridgeItem("trứng", today),
		fridgeItem("rau", today.AddDays(3)),
		fridgeItem("thịt", today.AddDays(5)),
		fridgeItem("cá đông lạnh", today.AddDays(30)),
	}

	annotated := Annotate(items, now)
	want := []Status{StatusExpired, StatusWarning, StatusWarning, StatusSoon, StatusFresh}
	for i, s := range want {
		if annotated[i].Status != s {
			t.Errorf("annotated[%d] (%s) = %q, want %q", i, annotated[i].Name, annotated[i].Status, s)
		}
	}
	if annotated[0].DaysLeft != -2 {
		t.Errorf("days left = %d, want -2", annotated[0].DaysLeft)
	}

	if got := CountExpiringSoon(items, now); got != 3 {
		t.Errorf("CountExpiringSoon = %d, want 3", got)
	}
	if got := len(Expired(items, now)); got != 1 {
		t.Errorf("len(Expired) = %d, want 1", got)
	}
}

func TestCustomPolicy(t *testing.T) {
	p := Policy{WarningDays: 1, SoonDays: 2}
	if got := p.Classify(2); got != StatusSoon {
		t.Errorf("Classify(2) = %q, want %q", got, StatusSoon)
	}
	if got := p.Classify(3); got != StatusFresh {
		t.Errorf("Classify(3) = %q, want %q", got, StatusFresh)
	}
}
