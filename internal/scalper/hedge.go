package scalper

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/gamma-scalper/internal/data"
	"github.com/contactkeval/gamma-scalper/internal/logger"
	"github.com/contactkeval/gamma-scalper/internal/metrics"
	"github.com/contactkeval/gamma-scalper/internal/pricing"
)

const (
	// riskFreeRate is fixed at zero for the whole simulation.
	riskFreeRate = 0.0

	// minTimeToExpiry floors T to avoid a division blow-up on expiry day
	// while keeping near-zero time nearly zero.
	minTimeToExpiry = 1e-6

	// minHedgeLot is the smallest perp trade worth executing; anything
	// smaller is suppressed to exactly zero.
	minHedgeLot = 0.001
)

// Deltas is the position's exposure as computed before any hedge
// adjustment, scaled by leg quantities. Perp delta is exactly the perp
// quantity (a perpetual future has delta 1 per unit).
type Deltas struct {
	Call  float64 `json:"call_delta"`
	Put   float64 `json:"put_delta"`
	Perp  float64 `json:"perp_delta"`
	Total float64 `json:"total_delta"`
}

// Exposure computes the position's aggregate delta at the row's prices
// without mutating anything. The driving loop uses it for reporting on
// days where the calendar throttle rules hedging out.
func (e *Engine) Exposure(row data.MarketRow) (Deltas, error) {
	if e.pos == nil {
		return Deltas{}, fmt.Errorf("exposure failed: %w", ErrNoPosition)
	}
	d, err := e.exposure(row)
	if err != nil {
		return Deltas{}, fmt.Errorf("exposure failed: %w", err)
	}
	return d, nil
}

// exposure is the shared delta computation behind Exposure and Hedge.
// Caller guarantees an open position.
func (e *Engine) exposure(row data.MarketRow) (Deltas, error) {
	pos := e.pos
	T := math.Max(float64(row.DaysToExpiry)/365.0, minTimeToExpiry)

	callUnit, err := pricing.Delta(row.SpotPrice, pos.CallStrike, T, riskFreeRate, row.CallIV, pricing.Call)
	if err != nil {
		return Deltas{}, err
	}
	putUnit, err := pricing.Delta(row.SpotPrice, pos.PutStrike, T, riskFreeRate, row.PutIV, pricing.Put)
	if err != nil {
		return Deltas{}, err
	}

	d := Deltas{
		Call: callUnit * pos.CallQty.InexactFloat64(),
		Put:  putUnit * pos.PutQty.InexactFloat64(),
		Perp: pos.PerpQty.InexactFloat64(),
	}
	d.Total = d.Call + d.Put + d.Perp
	return d, nil
}

// Hedge computes the position's aggregate delta at the row's prices and,
// when the exposure breaches the dead-band threshold, trades the perp leg
// to fully neutralize it in one step.
//
// The threshold is max(0.1*call_qty, 0.1*put_qty) — proportional to
// position size, so noise never triggers a trade. Within the dead band
// nothing mutates; the returned deltas still describe the unhedged
// exposure for reporting. Adjustments below minHedgeLot are suppressed.
//
// Total delta is the sum of the already-quantity-scaled leg deltas. (An
// earlier formulation re-multiplied by quantity a second time; that
// double-scaling is wrong and is not what this does.)
func (e *Engine) Hedge(row data.MarketRow, today time.Time) (Deltas, error) {
	if e.pos == nil {
		return Deltas{}, fmt.Errorf("hedge failed: %w", ErrNoPosition)
	}
	if err := e.checkOrder(row); err != nil {
		return Deltas{}, fmt.Errorf("hedge failed: %w", err)
	}
	pos := e.pos

	d, err := e.exposure(row)
	if err != nil {
		return Deltas{}, fmt.Errorf("hedge failed: %w", err)
	}

	threshold := math.Max(0.1*pos.PutQty.InexactFloat64(), 0.1*pos.CallQty.InexactFloat64())
	if math.Abs(d.Total) <= threshold {
		logger.Tracef("hedge skipped %s totalDelta=%.6f threshold=%.6f",
			today.Format("2006-01-02"), d.Total, threshold)
		e.lastRowDate = row.Date
		return d, nil
	}

	adjustment := -d.Total
	if math.Abs(adjustment) < minHedgeLot {
		metrics.DustTradesSuppressed.Inc()
		logger.Debugf("hedge suppressed %s adjustment=%.6f below min lot",
			today.Format("2006-01-02"), adjustment)
		e.lastRowDate = row.Date
		return d, nil
	}

	adj := decimal.NewFromFloat(adjustment)
	pos.PerpQty = pos.PerpQty.Add(adj)
	pos.PerpCost = pos.PerpCost.Add(adj.Abs().Mul(decimal.NewFromFloat(row.PerpPrice)))
	day := today
	pos.LastHedgeDay = &day
	e.lastRowDate = row.Date

	direction := "buy"
	if adjustment < 0 {
		direction = "sell"
	}
	metrics.HedgeAdjustments.WithLabelValues(direction).Inc()
	logger.Debugf("hedged %s qty=%.6f perp=%s totalDelta=%.6f",
		today.Format("2006-01-02"), adjustment, pos.PerpQty.StringFixed(6), d.Total)
	return d, nil
}
