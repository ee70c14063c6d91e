// Package data provides market data loading for the gamma-scalping
// simulator: a CSV file provider, an HTTP provider, and a synthetic
// generator, all behind a common RowProvider interface with
// primary/secondary fallback chaining.
package data

import (
	"errors"
	"sort"
	"time"
)

// ErrNoRows is returned when a provider has no rows for the requested range.
var ErrNoRows = errors.New("data: no market rows in range")

// MarketRow is one validated record per trading day, the only shape the
// engine ever sees. Prices and vols are non-negative; DaysToExpiry is
// clamped at zero by the loaders.
type MarketRow struct {
	Date         time.Time `json:"date"`
	SpotPrice    float64   `json:"spot_price"`
	CallPrice    float64   `json:"call_price"`
	PutPrice     float64   `json:"put_price"`
	CallIV       float64   `json:"call_iv"`
	PutIV        float64   `json:"put_iv"`
	PerpPrice    float64   `json:"perp_price"`
	Expiry       time.Time `json:"expiry"`
	DaysToExpiry int       `json:"days_to_expiry"`
}

// RowProvider supplies the daily market rows driving a simulation run.
//
// Implementations must return rows sorted ascending by date; the driving
// loop and the engine rely on that ordering (strict calendar sequencing of
// open/hedge/close).
type RowProvider interface {
	// Secondary returns the fallback provider, or nil.
	Secondary() RowProvider

	// GetRows returns rows with fromDate <= Date <= toDate, ascending.
	GetRows(fromDate, toDate time.Time) ([]MarketRow, error)
}

// sortRows orders rows ascending by date, the invariant every provider
// upholds before returning.
func sortRows(rows []MarketRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
}

// WithExpiry stamps each row with the given expiry date and recomputes
// DaysToExpiry as calendar days from row date to expiry, clamped at 0.
func WithExpiry(rows []MarketRow, expiry time.Time) []MarketRow {
	out := make([]MarketRow, len(rows))
	for i, r := range rows {
		r.Expiry = expiry
		days := int(expiry.Sub(r.Date).Hours() / 24.0)
		if days < 0 {
			days = 0
		}
		r.DaysToExpiry = days
		out[i] = r
	}
	return out
}
