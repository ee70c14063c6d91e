// Package scalper implements the position lifecycle and delta-hedging state
// machine of a gamma-scalping strategy: one long at-the-money straddle
// against a single perpetual-futures hedge, rebalanced as the underlying
// moves, with mark-to-market profit/loss accounting.
//
// Design notes:
//   - The engine holds zero or one position (Flat -> Open -> Flat); open
//     and close are the only transitions, hedging mutates in place
//   - One Engine instance drives one simulation run and is owned
//     exclusively by it; nothing here is safe for concurrent use
//   - Monetary state (cash, costs, PnL) is shopspring/decimal; greeks are
//     float64 and cross into decimal only at the accounting boundary
//   - Every operation is all-or-nothing: on error no field is left
//     partially updated
package scalper

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/gamma-scalper/internal/data"
	"github.com/contactkeval/gamma-scalper/internal/logger"
	"github.com/contactkeval/gamma-scalper/internal/metrics"
)

// Engine composes the position ledger, hedge controller, and PnL
// accountant, and owns the cash balance and cumulative realized profit
// across the lifetime of the run.
type Engine struct {
	initialCapital decimal.Decimal
	hedgeFreqDays  int

	cash     decimal.Decimal
	realized decimal.Decimal
	pos      *Position

	lastRowDate time.Time // monotonicity check on incoming rows
}

// New constructs an Engine with the given starting capital and hedge
// frequency in days.
//
// The frequency is accepted here but the rebalancing decision itself is
// threshold-driven (see Hedge); calendar throttling is applied by the
// driving loop, which reads it back via HedgeFreqDays.
func New(initialCapital float64, hedgeFreqDays int) (*Engine, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidCapital, initialCapital)
	}
	if hedgeFreqDays <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidHedgeFreq, hedgeFreqDays)
	}
	capital := decimal.NewFromFloat(initialCapital)
	return &Engine{
		initialCapital: capital,
		hedgeFreqDays:  hedgeFreqDays,
		cash:           capital,
		realized:       decimal.Zero,
	}, nil
}

// Open buys one straddle sized to fully deploy the available cash:
// qty = cash / (CallPrice + PutPrice), call and put legs equal, struck at
// the row's spot price. Cash drops to zero and the position is recorded.
//
// Fails with ErrPositionOpen if a position already exists, ErrNoCash if
// there is nothing to deploy, and ErrZeroPremium if the straddle premium
// is not positive.
func (e *Engine) Open(row data.MarketRow) error {
	if e.pos != nil {
		return fmt.Errorf("open failed: %w", ErrPositionOpen)
	}
	if !e.cash.IsPositive() {
		return fmt.Errorf("open failed: %w", ErrNoCash)
	}
	if err := e.checkOrder(row); err != nil {
		return fmt.Errorf("open failed: %w", err)
	}

	callPrice := decimal.NewFromFloat(row.CallPrice)
	putPrice := decimal.NewFromFloat(row.PutPrice)
	premium := callPrice.Add(putPrice)
	if !premium.IsPositive() {
		return fmt.Errorf("open failed: %w", ErrZeroPremium)
	}

	qty := e.cash.Div(premium)
	e.pos = &Position{
		CallQty:    qty,
		PutQty:     qty,
		PerpQty:    decimal.Zero,
		CallCost:   qty.Mul(callPrice),
		PutCost:    qty.Mul(putPrice),
		PerpCost:   decimal.Zero,
		OpenDate:   row.Date,
		Expiry:     row.Expiry,
		CallIV:     row.CallIV,
		PutIV:      row.PutIV,
		CallStrike: row.SpotPrice,
		PutStrike:  row.SpotPrice,
		Spot:       row.SpotPrice,
		PerpPrice:  row.PerpPrice,
	}
	e.cash = decimal.Zero
	e.lastRowDate = row.Date

	metrics.PositionsOpened.Inc()
	metrics.OpenPositions.Inc()
	logger.Infof("opened straddle %s qty=%s strike=%.2f premium=%s",
		row.Date.Format("2006-01-02"), qty.StringFixed(6), row.SpotPrice, premium.String())
	return nil
}

// Close liquidates the position at the row's prices, folds the realized
// profit into the running total, returns the freed cash to the balance,
// and leaves the engine Flat. Returns the realized amount for this close.
func (e *Engine) Close(row data.MarketRow) (decimal.Decimal, error) {
	if e.pos == nil {
		return decimal.Zero, fmt.Errorf("close failed: %w", ErrNoPosition)
	}
	if err := e.checkOrder(row); err != nil {
		return decimal.Zero, fmt.Errorf("close failed: %w", err)
	}

	value := e.pos.Value(row)
	realized := value.Sub(e.pos.Cost())

	e.realized = e.realized.Add(realized)
	e.cash = e.cash.Add(value)
	e.pos = nil
	e.lastRowDate = row.Date

	metrics.PositionsClosed.Inc()
	metrics.OpenPositions.Dec()
	logger.Infof("closed position %s value=%s realized=%s",
		row.Date.Format("2006-01-02"), value.StringFixed(2), realized.StringFixed(2))
	return realized, nil
}

// HasPosition reports whether the engine is in the Open state.
func (e *Engine) HasPosition() bool { return e.pos != nil }

// Position returns a copy of the open position, or nil when Flat.
func (e *Engine) Position() *Position {
	if e.pos == nil {
		return nil
	}
	cp := *e.pos
	return &cp
}

// Cash returns the current uninvested capital.
func (e *Engine) Cash() decimal.Decimal { return e.cash }

// RealizedPnL returns the cumulative realized profit over the life of the
// engine.
func (e *Engine) RealizedPnL() decimal.Decimal { return e.realized }

// InitialCapital returns the fixed capital the engine was constructed with.
func (e *Engine) InitialCapital() decimal.Decimal { return e.initialCapital }

// HedgeFreqDays returns the configured hedge frequency for the driving
// loop's calendar throttle.
func (e *Engine) HedgeFreqDays() int { return e.hedgeFreqDays }

// checkOrder rejects rows dated before the last mutating row processed.
// Providers sort their output, so this only trips on a misbehaving caller.
func (e *Engine) checkOrder(row data.MarketRow) error {
	if !e.lastRowDate.IsZero() && row.Date.Before(e.lastRowDate) {
		return fmt.Errorf("%w: %s < %s", ErrRowOutOfOrder,
			row.Date.Format("2006-01-02"), e.lastRowDate.Format("2006-01-02"))
	}
	return nil
}
