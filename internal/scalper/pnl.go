package scalper

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/gamma-scalper/internal/data"
)

// Snapshot is one immutable end-of-day accounting record for an open
// position. It is the row schema of the simulation report.
//
// Accounting conventions:
//   - Cost and Value follow Position.Cost / Position.Value, so Snapshot
//     and Close always agree on valuation
//   - RealizedPnL is the engine's running total; after a close it already
//     lives inside cash, so TotalAsset = cash + Value and never adds
//     RealizedPnL on top
//   - Return is measured against initial capital, not position cost
type Snapshot struct {
	Date          time.Time       `json:"date"`
	Spot          float64         `json:"spot"`
	Expiry        time.Time       `json:"expiry"`
	DaysToExpiry  int             `json:"days_to_expiry"`
	CallDelta     float64         `json:"call_delta"`
	PutDelta      float64         `json:"put_delta"`
	PerpDelta     float64         `json:"perp_delta"`
	TotalDelta    float64         `json:"total_delta"`
	Cost          decimal.Decimal `json:"cost"`
	Value         decimal.Decimal `json:"value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	RealizedPnL   decimal.Decimal `json:"realized_pnl"`
	TotalAsset    decimal.Decimal `json:"total_asset"`
	Return        float64         `json:"return"`
}

// Snapshot marks the open position to market at the row's prices and
// produces the day's accounting record from the given pre-hedge deltas.
//
// Pure read: calling it twice with the same inputs yields identical
// records and never mutates cash, realized PnL, or the position.
func (e *Engine) Snapshot(row data.MarketRow, d Deltas) (Snapshot, error) {
	if e.pos == nil {
		return Snapshot{}, fmt.Errorf("snapshot failed: %w", ErrNoPosition)
	}

	cost := e.pos.Cost()
	value := e.pos.Value(row)
	totalAsset := e.cash.Add(value)

	return Snapshot{
		Date:          row.Date,
		Spot:          row.SpotPrice,
		Expiry:        e.pos.Expiry,
		DaysToExpiry:  row.DaysToExpiry,
		CallDelta:     d.Call,
		PutDelta:      d.Put,
		PerpDelta:     d.Perp,
		TotalDelta:    d.Total,
		Cost:          cost,
		Value:         value,
		UnrealizedPnL: value.Sub(cost),
		RealizedPnL:   e.realized,
		TotalAsset:    totalAsset,
		Return:        totalAsset.Div(e.initialCapital).InexactFloat64() - 1,
	}, nil
}
