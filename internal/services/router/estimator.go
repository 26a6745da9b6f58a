package router

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kaonlabs/splitswap/internal/chain"
	"github.com/kaonlabs/splitswap/internal/common"
	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/metrics"
	"github.com/kaonlabs/splitswap/internal/services/catalog"
	"github.com/kaonlabs/splitswap/internal/services/quoter"
)

// Config carries the estimator's search knobs.
type Config struct {
	// MaxRoutes caps how many catalog routes the split search spans.
	MaxRoutes int

	// StepBps is the grid step for 3+ route splits.
	StepBps int

	// MinImprovementBps is the advantage a split must show over the best
	// single route before a multi estimate is published. Covers the extra
	// gas a multi-leg execution costs.
	MinImprovementBps int64
}

func DefaultConfig() Config {
	return Config{MaxRoutes: 4, StepBps: 500, MinImprovementBps: 10}
}

// Estimator orchestrates catalog, quote adapter and batch executor for one
// (from, to, amount) triple and publishes the Estimate a later execution
// relies on. It never runs concurrently with itself by contract: callers
// serialize invocations through the input debouncer.
type Estimator struct {
	adapter *quoter.Adapter
	batcher chain.Batcher
	cfg     Config

	// Single-slot last-estimate cache, last-writer-wins. Written here,
	// read by the executor path.
	mu      sync.Mutex
	lastKey string
	last    *domain.Estimate
}

func NewEstimator(adapter *quoter.Adapter, batcher chain.Batcher, cfg Config) *Estimator {
	if cfg.MaxRoutes < 1 || cfg.MaxRoutes > 4 {
		cfg.MaxRoutes = 4
	}
	if cfg.StepBps <= 0 {
		cfg.StepBps = 500
	}
	return &Estimator{adapter: adapter, batcher: batcher, cfg: cfg}
}

// Estimate decides how to allocate amount across the routes connecting the
// pair. The full evaluation — one full-amount baseline per route plus every
// split candidate — goes out as a single combined batch, which halves the
// round-trip count against running the single and multi phases sequentially.
func (e *Estimator) Estimate(ctx context.Context, from, to domain.Token, amount *big.Int) (*domain.Estimate, error) {
	pair := from.String() + "-" + to.String()
	start := time.Now()
	defer func() {
		metrics.EstimateDuration.WithLabelValues(pair).Observe(time.Since(start).Seconds())
	}()

	if amount == nil || amount.Sign() <= 0 {
		metrics.EstimateRequests.WithLabelValues(pair, "invalid").Inc()
		return nil, ErrInvalidAmount
	}

	routes := catalog.RoutesFor(from, to)
	if len(routes) == 0 {
		metrics.EstimateRequests.WithLabelValues(pair, "no_route").Inc()
		return nil, ErrNoRoute
	}

	est, err := e.estimateRoutes(ctx, from, to, amount, routes)
	if err != nil {
		metrics.EstimateRequests.WithLabelValues(pair, "error").Inc()
		return nil, err
	}

	metrics.EstimateRequests.WithLabelValues(pair, "ok").Inc()
	metrics.EstimateKind.WithLabelValues(est.Kind.String()).Inc()

	e.store(est)
	return est, nil
}

func (e *Estimator) estimateRoutes(ctx context.Context, from, to domain.Token, amount *big.Int, routes []domain.Route) (*domain.Estimate, error) {
	// Baseline calls: every route quoted at the full amount.
	calls := make([]chain.Call, 0, len(routes))
	for _, r := range routes {
		call, err := e.adapter.Call(r, amount)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}

	// Split candidates over the first MaxRoutes routes, appended to the
	// same batch.
	var plan *splitPlan
	splitRoutes := routes
	if len(splitRoutes) > e.cfg.MaxRoutes {
		splitRoutes = splitRoutes[:e.cfg.MaxRoutes]
	}
	if len(splitRoutes) >= 2 {
		var err error
		plan, err = buildSplitPlan(e.adapter, splitRoutes, amount, e.cfg.StepBps)
		if err != nil {
			return nil, err
		}
		metrics.SplitCandidates.Observe(float64(len(plan.candidates)))
		calls = append(calls, plan.calls...)
	}

	results, err := e.batcher.Execute(ctx, calls)
	if err != nil {
		return nil, err
	}

	// Best single route at the full amount.
	bestSingle := -1
	var bestOut *big.Int
	for i := range routes {
		res := results[i]
		if !res.Success {
			continue
		}
		out, err := e.adapter.Decode(routes[i], res.ReturnData)
		if err != nil {
			continue
		}
		if bestSingle == -1 || out.Cmp(bestOut) > 0 {
			bestSingle, bestOut = i, out
		}
	}

	if bestSingle == -1 {
		// No route survives the full amount. A malformed-but-successful
		// word on the first leg of the first split has only ever been
		// observed when the input exceeds pool liquidity; map it
		// explicitly so the caller can suggest lowering the amount.
		if plan != nil && plan.firstLegMalformed(e.adapter, results[len(routes):]) {
			return nil, ErrLiquidityExceeded
		}
		return nil, ErrAllQuotesFailed
	}

	est := &domain.Estimate{
		Kind:         domain.EstimateSingle,
		FromToken:    from,
		ToToken:      to,
		TotalInput:   amount,
		TotalOutput:  bestOut,
		Routes:       []domain.Route{routes[bestSingle]},
		SplitAmounts: []*big.Int{amount},
		RouteOutputs: []*big.Int{bestOut},
	}

	if plan == nil {
		return est, nil
	}

	outcome, ok := plan.selectBest(e.adapter, results[len(routes):])
	if !ok {
		// Every candidate split failed; downgrade to single.
		return est, nil
	}

	improvement := improvementBps(outcome.Total, bestOut)
	if improvement < e.cfg.MinImprovementBps {
		return est, nil
	}

	log.Debug().
		Str("pair", est.FromToken.String()+"-"+est.ToToken.String()).
		Int64("improvementBps", improvement).
		Msg("[estimator] split beats best single route")

	return &domain.Estimate{
		Kind:           domain.EstimateMulti,
		FromToken:      from,
		ToToken:        to,
		TotalInput:     amount,
		TotalOutput:    outcome.Total,
		Routes:         outcome.Routes,
		SplitAmounts:   outcome.Amounts,
		RouteOutputs:   outcome.Outputs,
		ImprovementBps: improvement,
	}, nil
}

// improvementBps is floor((multi - single) * 10000 / single). A zero single
// baseline is a valid remote response (a dust-dry pool quotes 0); against it
// any positive multi total is an unbounded improvement.
func improvementBps(multi, single *big.Int) int64 {
	if single.Sign() == 0 {
		if multi.Sign() > 0 {
			return math.MaxInt64
		}
		return 0
	}
	diff := new(big.Int).Sub(multi, single)
	diff.Mul(diff, big.NewInt(common.BpsDenominator))
	diff.Div(diff, single)
	return diff.Int64()
}

func estimateKey(from, to domain.Token, amount *big.Int) string {
	return fmt.Sprintf("%d:%d:%s", from, to, amount.String())
}

func (e *Estimator) store(est *domain.Estimate) {
	e.mu.Lock()
	e.lastKey = estimateKey(est.FromToken, est.ToToken, est.TotalInput)
	e.last = est
	e.mu.Unlock()
}

// Last returns the cached estimate for the triple, if it is still current.
func (e *Estimator) Last(from, to domain.Token, amount *big.Int) (*domain.Estimate, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil || e.lastKey != estimateKey(from, to, amount) {
		return nil, false
	}
	return e.last, true
}

// Invalidate drops the cached estimate.
func (e *Estimator) Invalidate() {
	e.mu.Lock()
	e.last = nil
	e.lastKey = ""
	e.mu.Unlock()
}
