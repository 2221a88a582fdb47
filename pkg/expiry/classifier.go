// Package expiry classifies inventory items by how close they are to their
// expiry date. Everything here is pure; callers pass the reference time.
package expiry

import (
	"SmartExpire/entities"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

type Status string

const (
	StatusRed    Status = "red"
	StatusYellow Status = "yellow"
	StatusGreen  Status = "green"
)

const day = 24 * time.Hour

// DaysUntil returns the number of calendar days from now to expiry. Time of
// day is ignored on both sides. Expiry dates are calendar dates, so expiry
// keeps its own location while today is taken in now's location.
func DaysUntil(expiry, now time.Time) int {
	e := midnight(expiry)
	n := midnight(now)
	return int(math.Ceil(float64(e.Sub(n)) / float64(day)))
}

// midnight keeps the calendar date but drops the wall clock and zone so DST
// transitions never produce 23h or 25h days.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StatusColor is red for anything expiring today or earlier, yellow for the
// next two days and green after that.
func StatusColor(expiry, now time.Time) Status {
	days := DaysUntil(expiry, now)
	if days < 1 {
		return StatusRed
	} else if days <= 2 {
		return StatusYellow
	}
	return StatusGreen
}

func StatusText(expiry, now time.Time) string {
	days := DaysUntil(expiry, now)
	switch {
	case days < 0:
		return "Expired"
	case days == 0:
		return "Expires today"
	case days == 1:
		return "Expires tomorrow"
	default:
		return fmt.Sprintf("Expires in %d days", days)
	}
}

// SortByExpiry returns a copy of items ordered soonest first. Items without an
// expiry date keep their relative order at the end.
func SortByExpiry(items []entities.Item) []entities.Item {
	sorted := make([]entities.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ExpiryDate, sorted[j].ExpiryDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
	return sorted
}

// FilterByName keeps items whose name contains term, ignoring case. A blank
// term returns items as given.
func FilterByName(items []entities.Item, term string) []entities.Item {
	if strings.TrimSpace(term) == "" {
		return items
	}
	term = strings.ToLower(strings.TrimSpace(term))

	filtered := make([]entities.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), term) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

type Summary struct {
	Total     int
	Red       int
	Yellow    int
	Green     int
	Untracked int
	Opened    int
}

func Summarize(items []entities.Item, now time.Time) Summary {
	var s Summary
	for _, item := range items {
		s.Total++
		if item.Opened {
			s.Opened++
		}
		if item.ExpiryDate == nil {
			s.Untracked++
			continue
		}
		switch StatusColor(*item.ExpiryDate, now) {
		case StatusRed:
			s.Red++
		case StatusYellow:
			s.Yellow++
		default:
			s.Green++
		}
	}
	return s
}
