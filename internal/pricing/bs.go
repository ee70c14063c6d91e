// Package pricing implements Black-Scholes analytics for European options.
//
// Design notes:
//   - Pure functions only; no state, no I/O
//   - Degenerate inputs (T <= 0, sigma <= 0) short-circuit to fixed values
//     instead of blowing up numerically near expiry
//   - Errors are typed where useful and wrapped for caller inspection
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// Option types accepted by Delta and BlackScholesPrice.
const (
	Call = "call"
	Put  = "put"
)

// ErrInvalidOptionType is returned when an option type is neither
// "call" nor "put".
var ErrInvalidOptionType = errors.New("option type must be \"call\" or \"put\"")

// Delta calculates the Black-Scholes delta of a European option.
//
// Parameters:
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years
//   - r: risk-free interest rate (annual)
//   - sigma: implied volatility (annual, as a decimal)
//   - optType: "call" or "put"
//
// Returns exactly 0.0 when T <= 0 or sigma <= 0. This is deliberate policy
// for the hedging engine (no rebalancing signal at or past expiry, or with
// degenerate vol), not an approximation of the true limit.
//
// A call delta lies in [0, 1], a put delta in [-1, 0]. Non-finite
// intermediate results (e.g. from S or K being zero, negative, or infinite)
// are surfaced as a wrapped error, never returned as a numeric value.
func Delta(S, K, T, r, sigma float64, optType string) (float64, error) {
	if optType != Call && optType != Put {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidOptionType, optType)
	}

	if T <= 0 || sigma <= 0 {
		return 0.0, nil
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	if math.IsNaN(d1) || math.IsInf(d1, 0) {
		return 0, fmt.Errorf("delta: non-finite d1 for S=%v K=%v T=%v sigma=%v", S, K, T, sigma)
	}

	if optType == Call {
		return normCDF(d1), nil
	}
	return normCDF(d1) - 1, nil
}

// BlackScholesPrice calculates the price of a European option using the
// Black-Scholes model. If time to expiry or volatility is zero or negative,
// it returns the intrinsic value of the option.
//
// Used by the synthetic data provider to generate internally consistent
// option quotes; the hedging engine itself only consumes Delta.
func BlackScholesPrice(S, K, T, r, sigma float64, optType string) float64 {
	if T <= 0 || sigma <= 0 {
		// intrinsic fallback
		if optType == Put {
			return math.Max(0, K-S)
		}
		return math.Max(0, S-K)
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	if optType == Put {
		return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
	}
	return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
}

// normCDF computes the cumulative distribution function of the standard
// normal distribution for a given value x using the error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
