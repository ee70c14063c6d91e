package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestDeltaCallBounds(t *testing.T) {
	for _, tc := range []struct{ S, K, T, sigma float64 }{
		{100, 100, 30.0 / 365, 0.20},
		{80, 100, 0.5, 0.60},
		{150, 100, 1.0, 0.15},
		{100, 100, 1e-4, 0.90},
	} {
		d, err := Delta(tc.S, tc.K, tc.T, 0.02, tc.sigma, Call)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d < 0 || d > 1 {
			t.Errorf("call delta out of [0,1]: %f for %+v", d, tc)
		}
	}
}

func TestDeltaPutBounds(t *testing.T) {
	for _, tc := range []struct{ S, K, T, sigma float64 }{
		{100, 100, 30.0 / 365, 0.20},
		{80, 100, 0.5, 0.60},
		{150, 100, 1.0, 0.15},
	} {
		d, err := Delta(tc.S, tc.K, tc.T, 0.02, tc.sigma, Put)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d < -1 || d > 0 {
			t.Errorf("put delta out of [-1,0]: %f for %+v", d, tc)
		}
	}
}

// Degenerate time or vol must return exactly zero, not a near-limit value.
func TestDeltaDegenerateInputs(t *testing.T) {
	for _, optType := range []string{Call, Put} {
		for _, tc := range []struct{ T, sigma float64 }{
			{0, 0.2},
			{-1, 0.2},
			{0.5, 0},
			{0.5, -0.3},
		} {
			d, err := Delta(100, 100, tc.T, 0, tc.sigma, optType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d != 0.0 {
				t.Errorf("%s delta with T=%v sigma=%v: got %v, want exactly 0",
					optType, tc.T, tc.sigma, d)
			}
		}
	}
}

func TestDeltaPutCallParity(t *testing.T) {
	for _, tc := range []struct{ S, K, T, r, sigma float64 }{
		{100, 100, 45.0 / 365, 0.03, 0.25},
		{95, 105, 0.25, 0.0, 0.40},
		{120, 100, 1.5, 0.05, 0.10},
	} {
		call, err := Delta(tc.S, tc.K, tc.T, tc.r, tc.sigma, Call)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		put, err := Delta(tc.S, tc.K, tc.T, tc.r, tc.sigma, Put)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(call-put-1.0) > 1e-12 {
			t.Errorf("parity violated: call=%f put=%f diff=%f", call, put, call-put)
		}
	}
}

func TestDeltaInvalidOptionType(t *testing.T) {
	_, err := Delta(100, 100, 0.5, 0, 0.2, "straddle")
	if !errors.Is(err, ErrInvalidOptionType) {
		t.Fatalf("expected ErrInvalidOptionType, got %v", err)
	}
}

func TestDeltaNonFinite(t *testing.T) {
	if _, err := Delta(0, 100, 0.5, 0, 0.2, Call); err == nil {
		t.Error("expected error for zero spot")
	}
	if _, err := Delta(math.NaN(), 100, 0.5, 0, 0.2, Put); err == nil {
		t.Error("expected error for NaN spot")
	}
}

func TestBlackScholesPriceATM(t *testing.T) {
	call := BlackScholesPrice(100, 100, 30.0/365, 0.05, 0.20, Call)
	if call <= 0 {
		t.Fatalf("expected call price > 0, got %f", call)
	}
	put := BlackScholesPrice(100, 100, 30.0/365, 0.05, 0.20, Put)
	if put <= 0 {
		t.Fatalf("expected put price > 0, got %f", put)
	}
}

func TestBlackScholesPriceIntrinsicFallback(t *testing.T) {
	if got := BlackScholesPrice(110, 100, 0, 0, 0.2, Call); got != 10 {
		t.Errorf("expired call intrinsic: got %f, want 10", got)
	}
	if got := BlackScholesPrice(90, 100, 0, 0, 0.2, Put); got != 10 {
		t.Errorf("expired put intrinsic: got %f, want 10", got)
	}
}
