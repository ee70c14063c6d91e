// Package report writes simulation results as JSON and CSV files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/gamma-scalper/internal/runner"
)

// WriteJSON writes the full result (snapshots plus summary) to
// portfolio.json in outdir.
func WriteJSON(res *runner.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "portfolio.json"), b, 0644)
}

// WriteCSV writes the daily snapshot series to portfolio.csv in outdir.
func WriteCSV(res *runner.Result, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "portfolio.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{
		"date", "spot", "expiry", "days_to_expiry",
		"call_delta", "put_delta", "perp_delta", "total_delta",
		"cost", "value", "unrealized_pnl", "realized_pnl", "total_asset", "return",
	}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, s := range res.Snapshots {
		row := []string{
			s.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", s.Spot),
			s.Expiry.Format("2006-01-02"),
			fmt.Sprintf("%d", s.DaysToExpiry),
			fmt.Sprintf("%.6f", s.CallDelta),
			fmt.Sprintf("%.6f", s.PutDelta),
			fmt.Sprintf("%.6f", s.PerpDelta),
			fmt.Sprintf("%.6f", s.TotalDelta),
			s.Cost.StringFixed(2),
			s.Value.StringFixed(2),
			s.UnrealizedPnL.StringFixed(2),
			s.RealizedPnL.StringFixed(2),
			s.TotalAsset.StringFixed(2),
			fmt.Sprintf("%.6f", s.Return),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
