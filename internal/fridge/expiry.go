package fridge

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/model"
)

type Status string

const (
	StatusExpired Status = "expired"
	StatusWarning Status = "warning"
	StatusSoon    Status = "soon"
	StatusFresh   Status = "fresh"
)

// Policy holds the day thresholds of the expiry badges. An item expiring in
// WarningDays days or fewer is a warning; up to SoonDays it is soon.
type Policy struct {
	WarningDays int
	SoonDays    int
}

var DefaultPolicy = Policy{WarningDays: 3, SoonDays: 7}

type ItemWithStatus struct {
	model.FridgeItem
	DaysLeft int    `json:"days_left"`
	Status   Status `json:"status"`
}

// DaysUntilExpiry counts calendar days from now's date to expiry. Today is
// zero, yesterday is -1.
func DaysUntilExpiry(expiry civil.Date, now time.Time) int {
	return expiry.DaysSince(civil.DateOf(now))
}

func (p Policy) Classify(days int) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= p.WarningDays:
		return StatusWarning
	case days <= p.SoonDays:
		return StatusSoon
	default:
		return StatusFresh
	}
}

// Classify applies DefaultPolicy.
func Classify(days int) Status {
	return DefaultPolicy.Classify(days)
}

// Annotate pairs every item with its days left and status, keeping order.
func (p Policy) Annotate(items []model.FridgeItem, now time.Time) []ItemWithStatus {
	out := make([]ItemWithStatus, 0, len(items))
	for _, item := range items {
		days := DaysUntilExpiry(item.ExpiryDate, now)
		out = append(out, ItemWithStatus{FridgeItem: item, DaysLeft: days, Status: p.Classify(days)})
	}
	return out
}

func Annotate(items []model.FridgeItem, now time.Time) []ItemWithStatus {
	return DefaultPolicy.Annotate(items, now)
}

// CountExpiringSoon counts items within WarningDays of expiry. Items that
// have already expired are counted too.
func (p Policy) CountExpiringSoon(items []model.FridgeItem, now time.Time) int {
	n := 0
	for _, item := range items {
		if DaysUntilExpiry(item.ExpiryDate, now) <= p.WarningDays {
			n++
		}
	}
	return n
}

func CountExpiringSoon(items []model.FridgeItem, now time.Time) int {
	return DefaultPolicy.CountExpiringSoon(items, now)
}

// Expired returns the items whose expiry date is before now's date.
func Expired(items []model.FridgeItem, now time.Time) []model.FridgeItem {
	var out []model.FridgeItem
	for _, item := range items {
		if DaysUntilExpiry(item.ExpiryDate, now) < 0 {
			out = append(out, item)
		}
	}
	return out
}
