package router

import (
	"math/big"

	"github.com/kaonlabs/splitswap/internal/common"
)

// twoRouteWindowMin terminates the two-route window narrowing once it is at
// most this many basis points wide.
const twoRouteWindowMin = 50

// Candidate is one basis-point split vector over K routes. Shares always sum
// to exactly BpsDenominator.
type Candidate struct {
	Shares []int64
}

// TwoRouteCandidates materializes the candidate shares for a two-route
// split. The procedure mirrors a ternary search on the first route's share:
// each iteration appends the two third-points of the current window plus
// their midpoint, then narrows the window to the third-points. Every
// generated point is kept; all candidates are evaluated afterwards in one
// batch, so the narrowing only controls where the candidate set densifies.
func TwoRouteCandidates() []Candidate {
	var out []Candidate
	l, r := int64(0), int64(common.BpsDenominator)
	for r-l > twoRouteWindowMin {
		m1 := l + (r-l)/3
		m2 := r - (r-l)/3
		m := (m1 + m2) / 2
		for _, s := range []int64{m1, m, m2} {
			out = append(out, Candidate{Shares: []int64{s, common.BpsDenominator - s}})
		}
		l, r = m1, m2
	}
	return out
}

// GridCandidates enumerates every composition of BpsDenominator into k
// nonnegative parts, each divisible by step, in lexicographic order.
func GridCandidates(k, step int) []Candidate {
	if k < 1 || step <= 0 {
		return nil
	}
	var out []Candidate
	cur := make([]int64, k)
	var rec func(i int, remaining int64)
	rec = func(i int, remaining int64) {
		if i == k-1 {
			if remaining%int64(step) != 0 {
				return
			}
			cur[i] = remaining
			shares := make([]int64, k)
			copy(shares, cur)
			out = append(out, Candidate{Shares: shares})
			return
		}
		for v := int64(0); v <= remaining; v += int64(step) {
			cur[i] = v
			rec(i+1, remaining-v)
		}
	}
	rec(0, common.BpsDenominator)
	return out
}

// SplitAmounts translates basis-point shares into integer amounts. All but
// the last slot use floor division; the last slot absorbs the remainder so
// the amounts sum to total exactly.
func SplitAmounts(total *big.Int, shares []int64) []*big.Int {
	out := make([]*big.Int, len(shares))
	rest := new(big.Int).Set(total)
	denom := big.NewInt(common.BpsDenominator)
	for i, s := range shares {
		if i == len(shares)-1 {
			out[i] = rest
			break
		}
		a := new(big.Int).Mul(total, big.NewInt(s))
		a.Div(a, denom)
		out[i] = a
		rest.Sub(rest, a)
	}
	return out
}
