package data

import (
	"math"
	"math/rand"
	"time"

	"github.com/contactkeval/gamma-scalper/internal/pricing"
)

// syntheticRowProvider generates a seeded random-walk price series with
// internally consistent Black-Scholes option quotes for an at-the-money
// straddle struck at the first day's spot. Weekends are skipped. Used by
// tests and the demo path when no price table is available.
type syntheticRowProvider struct {
	seed      int64
	startSpot float64
	iv        float64
	rule      ExpiryRule
	secondary RowProvider
}

// NewSyntheticProvider constructs a synthetic row provider. A fixed seed
// makes runs reproducible.
func NewSyntheticProvider(seed int64, startSpot, iv float64, rule ExpiryRule) RowProvider {
	return &syntheticRowProvider{seed: seed, startSpot: startSpot, iv: iv, rule: rule}
}

func (p *syntheticRowProvider) Secondary() RowProvider { return p.secondary }

func (p *syntheticRowProvider) GetRows(fromDate, toDate time.Time) ([]MarketRow, error) {
	expiry, err := NextExpiry(fromDate, p.rule)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(p.seed))
	strike := p.startSpot
	spot := p.startSpot

	var rows []MarketRow
	for cur := fromDate; !cur.After(toDate); cur = cur.AddDate(0, 0, 1) {
		if cur.Weekday() == time.Saturday || cur.Weekday() == time.Sunday {
			continue
		}

		days := int(expiry.Sub(cur).Hours() / 24.0)
		if days < 0 {
			days = 0
		}
		T := float64(days) / 365.0

		callIV := p.iv + rng.NormFloat64()*0.01
		putIV := p.iv + rng.NormFloat64()*0.01

		rows = append(rows, MarketRow{
			Date:         cur,
			SpotPrice:    spot,
			CallPrice:    pricing.BlackScholesPrice(spot, strike, T, 0, callIV, pricing.Call),
			PutPrice:     pricing.BlackScholesPrice(spot, strike, T, 0, putIV, pricing.Put),
			CallIV:       callIV,
			PutIV:        putIV,
			PerpPrice:    spot * (1 + rng.NormFloat64()*0.0002), // tiny perp basis
			Expiry:       expiry,
			DaysToExpiry: days,
		})

		// daily log-return walk, ~1% vol
		spot *= math.Exp(rng.NormFloat64() * 0.01)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}
