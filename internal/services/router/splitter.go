package router

import (
	"math/big"

	"github.com/kaonlabs/splitswap/internal/chain"
	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/services/quoter"
)

// planLeg is one quote call inside a materialized split plan: candidate c,
// route r, at a concrete amount.
type planLeg struct {
	candidate int
	routeIdx  int
	amount    *big.Int
}

// splitPlan is the offline materialization of a split search: every
// candidate share vector, the integer amounts it implies, and one flat
// ordered list of quote calls covering all nonzero legs. The whole plan is
// evaluated in a single aggregated read.
type splitPlan struct {
	routes     []domain.Route
	candidates []Candidate
	amounts    [][]*big.Int // per candidate, aligned with routes
	legs       []planLeg
	calls      []chain.Call
}

// buildSplitPlan materializes the candidate set for the given routes and
// total amount. Requires len(routes) >= 2; the single-route case is a plain
// quote and never reaches the splitter.
func buildSplitPlan(adapter *quoter.Adapter, routes []domain.Route, total *big.Int, stepBps int) (*splitPlan, error) {
	var cands []Candidate
	if len(routes) == 2 {
		cands = TwoRouteCandidates()
	} else {
		cands = GridCandidates(len(routes), stepBps)
	}

	p := &splitPlan{routes: routes, candidates: cands}
	p.amounts = make([][]*big.Int, len(cands))
	for ci, cand := range cands {
		amts := SplitAmounts(total, cand.Shares)
		p.amounts[ci] = amts
		for ri, a := range amts {
			if a.Sign() <= 0 {
				continue
			}
			call, err := adapter.Call(routes[ri], a)
			if err != nil {
				return nil, err
			}
			p.legs = append(p.legs, planLeg{candidate: ci, routeIdx: ri, amount: a})
			p.calls = append(p.calls, call)
		}
	}
	return p, nil
}

// SplitOutcome is the winning allocation of a split plan.
type SplitOutcome struct {
	Routes  []domain.Route
	Amounts []*big.Int
	Outputs []*big.Int
	Total   *big.Int
}

// selectBest decodes the plan's slice of batch results and returns the
// candidate with the largest total output. Candidates touching any failed
// or malformed slot are skipped entirely; ties keep the earlier-enumerated
// candidate. Returns false when every candidate failed.
func (p *splitPlan) selectBest(adapter *quoter.Adapter, results []chain.Result) (*SplitOutcome, bool) {
	type candState struct {
		outputs []*big.Int
		total   *big.Int
		failed  bool
	}
	states := make([]candState, len(p.candidates))
	for ci := range states {
		states[ci].outputs = make([]*big.Int, len(p.routes))
		for ri := range states[ci].outputs {
			states[ci].outputs[ri] = new(big.Int)
		}
		states[ci].total = new(big.Int)
	}

	for li, leg := range p.legs {
		st := &states[leg.candidate]
		if st.failed {
			continue
		}
		res := results[li]
		if !res.Success {
			st.failed = true
			continue
		}
		out, err := adapter.Decode(p.routes[leg.routeIdx], res.ReturnData)
		if err != nil {
			// Decode failure is isolated to this candidate; it never
			// masks another candidate's success.
			st.failed = true
			continue
		}
		st.outputs[leg.routeIdx] = out
		st.total.Add(st.total, out)
	}

	best := -1
	for ci, st := range states {
		if st.failed {
			continue
		}
		if best == -1 || st.total.Cmp(states[best].total) > 0 {
			best = ci
		}
	}
	if best == -1 {
		return nil, false
	}

	return &SplitOutcome{
		Routes:  p.routes,
		Amounts: p.amounts[best],
		Outputs: states[best].outputs,
		Total:   states[best].total,
	}, true
}

// firstLegMalformed reports whether the first leg of the first candidate
// split succeeded at the transport level but returned a malformed word.
// This is the recognized liquidity-exceeded signature: it has only ever been
// observed when the input amount exceeds what the pool can absorb.
func (p *splitPlan) firstLegMalformed(adapter *quoter.Adapter, results []chain.Result) bool {
	if len(p.legs) == 0 || len(results) == 0 {
		return false
	}
	res := results[0]
	if !res.Success {
		return false
	}
	_, err := adapter.Decode(p.routes[p.legs[0].routeIdx], res.ReturnData)
	return err != nil
}
