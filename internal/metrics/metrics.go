// Package metrics provides Prometheus instrumentation for the simulator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PositionsOpened counts straddles opened across all runs.
	PositionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamma_positions_opened_total",
		Help: "Total number of straddle positions opened",
	})

	// PositionsClosed counts straddles closed across all runs.
	PositionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamma_positions_closed_total",
		Help: "Total number of straddle positions closed",
	})

	// HedgeAdjustments counts executed hedge trades, partitioned by direction.
	HedgeAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamma_hedge_adjustments_total",
		Help: "Total number of perp hedge adjustments executed",
	}, []string{"direction"})

	// DustTradesSuppressed counts hedge adjustments below the minimum lot.
	DustTradesSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamma_dust_trades_suppressed_total",
		Help: "Hedge adjustments suppressed by the minimum lot filter",
	})

	// OpenPositions tracks the number of currently open positions.
	OpenPositions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamma_open_positions",
		Help: "Number of currently open straddle positions",
	})

	// RunsCompleted counts finished simulation runs.
	RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamma_runs_completed_total",
		Help: "Total number of completed simulation runs",
	})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
