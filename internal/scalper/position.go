package scalper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/gamma-scalper/internal/data"
)

// Position is one open long straddle plus its perpetual-futures hedge leg.
//
// The engine holds zero or one Position; a nil *Position is the Flat state
// and every transition goes through Open/Close on the engine, never through
// direct field writes from outside the package.
//
// Monetary fields (quantities, costs) are decimal — never float64 for money.
// Greeks and vols stay float64; they feed transcendental math.
type Position struct {
	CallQty decimal.Decimal // straddle call leg quantity
	PutQty  decimal.Decimal // straddle put leg quantity, equal to CallQty at open
	PerpQty decimal.Decimal // signed hedge quantity; positive = long, starts at 0

	CallCost decimal.Decimal // full cash outlay for the call leg at open
	PutCost  decimal.Decimal // full cash outlay for the put leg at open
	PerpCost decimal.Decimal // cumulative |adjustment| x PerpPrice across hedges

	OpenDate   time.Time
	Expiry     time.Time
	CallIV     float64
	PutIV      float64
	CallStrike float64 // spot at open; the straddle is struck at the money
	PutStrike  float64
	Spot       float64 // spot at open
	PerpPrice  float64 // perp at open

	LastHedgeDay *time.Time // date of most recent hedge adjustment, nil if none
}

// Cost is the running total cost basis of the whole position: the full
// option outlay plus every hedge trade's absolute cash cost. Recomputed
// from the legs rather than stored, so the three leg costs are the single
// source of truth.
func (p *Position) Cost() decimal.Decimal {
	return p.CallCost.Add(p.PutCost).Add(p.PerpCost)
}

// Value is the mark-to-market liquidation value of the position at the
// given row's prices. The perp leg values at |PerpQty| x PerpPrice,
// mirroring the absolute-outlay convention of PerpCost so the two sides of
// the perp book cancel at unchanged prices. Used identically by Close and
// Snapshot.
func (p *Position) Value(row data.MarketRow) decimal.Decimal {
	callValue := p.CallQty.Mul(decimal.NewFromFloat(row.CallPrice))
	putValue := p.PutQty.Mul(decimal.NewFromFloat(row.PutPrice))
	perpValue := p.PerpQty.Abs().Mul(decimal.NewFromFloat(row.PerpPrice))
	return callValue.Add(putValue).Add(perpValue)
}
