package scalper

import "errors"

//
// ==========================
// Error taxonomy
// ==========================
//

// Typed errors allow callers and tests to detect failure categories
// without string matching.
//
// Construction errors (ErrInvalidCapital, ErrInvalidHedgeFreq) are fatal:
// the engine cannot be used. Precondition violations (ErrPositionOpen,
// ErrNoPosition, ErrRowOutOfOrder, ErrNoCash, ErrZeroPremium) are surfaced
// per operation, wrapped with a stage-identifying message; the caller
// decides whether to abort the run or skip the row. There is no retry —
// these failures are deterministic.
var (
	ErrInvalidCapital   = errors.New("initial capital must be positive")
	ErrInvalidHedgeFreq = errors.New("hedge frequency must be a positive number of days")

	ErrPositionOpen  = errors.New("a position is already open")
	ErrNoPosition    = errors.New("no position is open")
	ErrNoCash        = errors.New("no cash available to deploy")
	ErrZeroPremium   = errors.New("straddle premium must be positive")
	ErrRowOutOfOrder = errors.New("market row dated before last processed row")
)
