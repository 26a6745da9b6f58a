package domain

import "math/big"

// Quote is the outcome of running one route with one input amount through
// the read surface. Exactly one of AmountOut / Err is set.
type Quote struct {
	Route     Route
	AmountIn  *big.Int
	AmountOut *big.Int
	Err       error
}

func (q Quote) Failed() bool {
	return q.Err != nil
}

type EstimateKind uint8

const (
	EstimateSingle EstimateKind = iota
	EstimateMulti
)

func (k EstimateKind) String() string {
	if k == EstimateSingle {
		return "single"
	}
	return "multi"
}

// Estimate is the estimator's published decision: either one route carrying
// the full amount, or a split allocation across several routes. It is the
// contract a later execution relies on.
//
// Invariants: sum(SplitAmounts) == TotalInput and sum(RouteOutputs) ==
// TotalOutput, both exactly. For EstimateMulti, ImprovementBps is at least
// the estimator's configured threshold.
type Estimate struct {
	Kind      EstimateKind
	FromToken Token
	ToToken   Token

	TotalInput  *big.Int
	TotalOutput *big.Int

	Routes       []Route
	SplitAmounts []*big.Int
	RouteOutputs []*big.Int

	// ImprovementBps is the advantage of the split over the best single
	// route, in basis points. Zero for single-route estimates.
	ImprovementBps int64
}

// SplitBps expresses the allocation as basis-point shares summing to 10000,
// with the rounding remainder absorbed into the last slot. Presentation
// only; execution always works from the integer SplitAmounts.
func (e *Estimate) SplitBps() []int64 {
	shares := make([]int64, len(e.SplitAmounts))
	if e.TotalInput == nil || e.TotalInput.Sign() == 0 {
		return shares
	}
	var acc int64
	for i, a := range e.SplitAmounts {
		if i == len(shares)-1 {
			shares[i] = 10000 - acc
			break
		}
		s := new(big.Int).Mul(a, big.NewInt(10000))
		shares[i] = s.Div(s, e.TotalInput).Int64()
		acc += shares[i]
	}
	return shares
}
