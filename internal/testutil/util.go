// Package testutil holds shared test fixtures and assertion helpers.
package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/contactkeval/gamma-scalper/internal/data"
)

// Day builds a UTC date at midnight, the granularity every market row uses.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Row builds a market row with sane defaults for the fields a test does
// not care about: 20-vol legs and a perp trading at spot.
func Row(date time.Time, spot, callPrice, putPrice float64, daysToExpiry int) data.MarketRow {
	return data.MarketRow{
		Date:         date,
		SpotPrice:    spot,
		CallPrice:    callPrice,
		PutPrice:     putPrice,
		CallIV:       0.20,
		PutIV:        0.20,
		PerpPrice:    spot,
		Expiry:       date.AddDate(0, 0, daysToExpiry),
		DaysToExpiry: daysToExpiry,
	}
}

// AssertClose fails the test when got is not within tol of want.
func AssertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v, want %v (tol %v)", name, got, want, tol)
	}
}
