package data

import (
	"fmt"
	"time"
)

// ExpiryRule selects how the monthly option expiry date is derived.
type ExpiryRule string

const (
	// ThirdFridayRule is the standard monthly options expiration.
	ThirdFridayRule ExpiryRule = "third_friday"
	// LastFridayRule is the last Friday of the month.
	LastFridayRule ExpiryRule = "last_friday"
	// ThirdLastFridayRule is the third Friday counted from month end,
	// used by some crypto option venues.
	ThirdLastFridayRule ExpiryRule = "third_last_friday"
)

// fridaysOf lists every Friday of the given month, ascending.
func fridaysOf(year int, month time.Month) []time.Time {
	var out []time.Time
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	for d.Month() == month {
		out = append(out, d)
		d = d.AddDate(0, 0, 7)
	}
	return out
}

// ThirdFriday returns the third Friday of the given month.
func ThirdFriday(year int, month time.Month) time.Time {
	return fridaysOf(year, month)[2]
}

// LastFriday returns the last Friday of the given month.
func LastFriday(year int, month time.Month) time.Time {
	fridays := fridaysOf(year, month)
	return fridays[len(fridays)-1]
}

// ThirdLastFriday returns the third Friday counted backwards from the end
// of the month.
func ThirdLastFriday(year int, month time.Month) time.Time {
	fridays := fridaysOf(year, month)
	return fridays[len(fridays)-3]
}

// ExpiryFor resolves the rule for a specific month.
func ExpiryFor(year int, month time.Month, rule ExpiryRule) (time.Time, error) {
	switch rule {
	case ThirdFridayRule:
		return ThirdFriday(year, month), nil
	case LastFridayRule:
		return LastFriday(year, month), nil
	case ThirdLastFridayRule:
		return ThirdLastFriday(year, month), nil
	default:
		return time.Time{}, fmt.Errorf("unknown expiry rule %q", rule)
	}
}

// NextExpiry returns the first expiry under the rule that falls on or
// after the given date, rolling into the following month when the current
// month's expiry has already passed.
func NextExpiry(after time.Time, rule ExpiryRule) (time.Time, error) {
	exp, err := ExpiryFor(after.Year(), after.Month(), rule)
	if err != nil {
		return time.Time{}, err
	}
	if exp.Before(after.Truncate(24 * time.Hour)) {
		year, month := after.Year(), after.Month()+1
		if month > time.December {
			month = time.January
			year++
		}
		return ExpiryFor(year, month, rule)
	}
	return exp, nil
}
