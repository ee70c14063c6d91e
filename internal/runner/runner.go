// Package runner drives a gamma-scalping simulation: it feeds market rows
// to the engine in calendar order, applies the hedge-frequency throttle
// and the configured exit rule, and collects the daily snapshots.
//
// The loop itself is deliberately thin — open on the first row, hedge (or
// just measure exposure) every row, close when the exit rule fires or the
// data ends. All strategy state lives in the engine.
package runner

import (
	"fmt"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contactkeval/gamma-scalper/internal/data"
	"github.com/contactkeval/gamma-scalper/internal/logger"
	"github.com/contactkeval/gamma-scalper/internal/metrics"
	"github.com/contactkeval/gamma-scalper/internal/scalper"
)

// Close reasons recorded on the result.
const (
	ClosedByExitRule = "exit_rule"
	ClosedByDataEnd  = "data_end"
)

// Result is the output of one simulation run.
type Result struct {
	RunID          string             `json:"run_id"`
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	InitialCapital decimal.Decimal    `json:"initial_capital"`
	FinalAsset     decimal.Decimal    `json:"final_asset"`
	RealizedPnL    decimal.Decimal    `json:"realized_pnl"`
	Return         float64            `json:"return"`
	HedgeCount     int                `json:"hedge_count"`
	ClosedBy       string             `json:"closed_by"`
	Snapshots      []scalper.Snapshot `json:"snapshots"`
}

// Runner owns one engine instance for one run.
type Runner struct {
	eng      *scalper.Engine
	prov     data.RowProvider
	exitExpr *govaluate.EvaluableExpression
	hedges   int
}

// New builds a runner. exitExpression is a govaluate expression over
// DaysToExpiry, Spot, UnrealizedPnL, Return, and TotalDelta; when it
// evaluates true the position is closed at that row. Empty means hold
// until the data ends.
func New(eng *scalper.Engine, prov data.RowProvider, exitExpression string) (*Runner, error) {
	r := &Runner{eng: eng, prov: prov}
	if exitExpression != "" {
		expr, err := govaluate.NewEvaluableExpression(exitExpression)
		if err != nil {
			return nil, fmt.Errorf("invalid exit expression: %w", err)
		}
		r.exitExpr = expr
	}
	return r, nil
}

// Run executes the simulation over [start, end]: one straddle opened on
// the first row, hedged and marked to market each subsequent day, closed
// by the exit rule or at the final row.
func (r *Runner) Run(start, end time.Time) (*Result, error) {
	rows, err := r.prov.GetRows(start, end)
	if err != nil {
		return nil, fmt.Errorf("load market rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, data.ErrNoRows
	}

	res := &Result{
		RunID:          uuid.NewString(),
		Start:          rows[0].Date,
		End:            rows[len(rows)-1].Date,
		InitialCapital: r.eng.InitialCapital(),
	}
	logger.Infof("run %s: %d rows %s..%s", res.RunID, len(rows),
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"))

	if err := r.eng.Open(rows[0]); err != nil {
		return nil, err
	}

	for i, row := range rows {
		deltas, err := r.step(row)
		if err != nil {
			return nil, err
		}

		snap, err := r.eng.Snapshot(row, deltas)
		if err != nil {
			return nil, err
		}
		res.Snapshots = append(res.Snapshots, snap)

		exit, err := r.shouldExit(row, snap)
		if err != nil {
			return nil, err
		}
		if exit || i == len(rows)-1 {
			if _, err := r.eng.Close(row); err != nil {
				return nil, err
			}
			res.ClosedBy = ClosedByDataEnd
			if exit {
				res.ClosedBy = ClosedByExitRule
			}
			break
		}
	}

	res.FinalAsset = r.eng.Cash()
	res.RealizedPnL = r.eng.RealizedPnL()
	res.HedgeCount = r.hedges
	res.Return = res.FinalAsset.Div(res.InitialCapital).InexactFloat64() - 1
	metrics.RunsCompleted.Inc()
	logger.Infof("run %s: closed_by=%s hedges=%d realized=%s return=%.4f",
		res.RunID, res.ClosedBy, res.HedgeCount, res.RealizedPnL.StringFixed(2), res.Return)
	return res, nil
}

// step hedges when the calendar throttle allows it, otherwise only
// measures exposure for the day's snapshot.
func (r *Runner) step(row data.MarketRow) (scalper.Deltas, error) {
	pos := r.eng.Position()
	before := pos.PerpQty

	if !hedgeDue(pos.LastHedgeDay, row.Date, r.eng.HedgeFreqDays()) {
		return r.eng.Exposure(row)
	}

	deltas, err := r.eng.Hedge(row, row.Date)
	if err != nil {
		return scalper.Deltas{}, err
	}
	if after := r.eng.Position().PerpQty; !after.Equal(before) {
		r.hedges++
	}
	return deltas, nil
}

// hedgeDue applies the hedge-frequency-in-days throttle. The first hedge
// is always due.
func hedgeDue(lastHedge *time.Time, today time.Time, freqDays int) bool {
	if lastHedge == nil {
		return true
	}
	return !today.Before(lastHedge.AddDate(0, 0, freqDays))
}

// shouldExit evaluates the exit expression against the day's snapshot.
func (r *Runner) shouldExit(row data.MarketRow, snap scalper.Snapshot) (bool, error) {
	if r.exitExpr == nil {
		return false, nil
	}
	out, err := r.exitExpr.Evaluate(map[string]interface{}{
		"DaysToExpiry":  float64(row.DaysToExpiry),
		"Spot":          row.SpotPrice,
		"UnrealizedPnL": snap.UnrealizedPnL.InexactFloat64(),
		"Return":        snap.Return,
		"TotalDelta":    snap.TotalDelta,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate exit expression: %w", err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("exit expression is not boolean, got %T", out)
	}
	return b, nil
}
