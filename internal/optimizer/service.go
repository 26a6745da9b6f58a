// Package optimizer is the composition root of the swap route optimizer: it
// wires catalog, quote adapter, batch executor, split search and executor
// behind one DI service and exposes the estimate/execute surface plus its
// event stream.
package optimizer

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/kaonlabs/splitswap/internal/chain"
	"github.com/kaonlabs/splitswap/internal/config"
	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/services"
	"github.com/kaonlabs/splitswap/internal/services/catalog"
	"github.com/kaonlabs/splitswap/internal/services/debounce"
	"github.com/kaonlabs/splitswap/internal/services/executor"
	"github.com/kaonlabs/splitswap/internal/services/quoter"
	"github.com/kaonlabs/splitswap/internal/services/router"
)

const OPTIMIZER_SERVICE = "optimizer-service"

// Error aliases
var (
	ErrNoRoute           = router.ErrNoRoute
	ErrInvalidAmount     = router.ErrInvalidAmount
	ErrAllQuotesFailed   = router.ErrAllQuotesFailed
	ErrLiquidityExceeded = router.ErrLiquidityExceeded
	ErrUserRejected      = executor.ErrUserRejected
	ErrSlippageExceeded  = executor.ErrSlippageExceeded
	ErrInvalidSlippage   = executor.ErrInvalidSlippage

	ErrExecutionDisabled = errors.New("optimizer: no signer configured, execution disabled")
)

type Service struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	chainCfg *config.ChainConfig
	optCfg   *config.OptimizerConfig

	client    *ethclient.Client
	universe  *domain.Universe
	adapter   *quoter.Adapter
	estimator *router.Estimator
	executor  *executor.Executor
	debouncer *debounce.Debouncer

	cbMu        sync.RWMutex
	onEstimate  []func(*domain.Estimate)
	onError     []func(error)
	onSubmitted []func(common.Hash)
	onConfirmed []func(*domain.SwapReceipt)
}

func (svc *Service) ID() string {
	return OPTIMIZER_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)
	svc.chainCfg = c.GetConfig(config.CHAIN_CONFIG_KEY).(*config.ChainConfig)
	svc.optCfg = c.GetConfig(config.OPTIMIZER_CONFIG_KEY).(*config.OptimizerConfig)

	svc.universe = domain.NewUniverse(svc.chainCfg.NXToken, svc.chainCfg.NUSDToken, svc.chainCfg.Hook)
	svc.adapter = quoter.NewAdapter(svc.universe, svc.chainCfg.SwapContract)
	svc.debouncer = debounce.New(time.Duration(svc.optCfg.DebounceMs)*time.Millisecond, svc.debouncedEstimate)
	return nil
}

func (svc *Service) Start() error {
	client, err := ethclient.Dial(svc.chainCfg.RPCURL)
	if err != nil {
		return err
	}
	svc.client = client

	policy := chain.RetryPolicy{
		MaxAttempts:  svc.optCfg.RetryAttempts,
		BaseDelay:    time.Duration(svc.optCfg.BaseDelayMs) * time.Millisecond,
		MaxDelay:     time.Duration(svc.optCfg.MaxDelayMs) * time.Millisecond,
		JitterFactor: 0.3,
	}
	batcher := chain.NewMulticall(client, svc.chainCfg.Multicall, svc.optCfg.BatchCeil, policy)

	svc.estimator = router.NewEstimator(svc.adapter, batcher, router.Config{
		MaxRoutes:         svc.optCfg.MaxRoutes,
		StepBps:           svc.optCfg.StepBps,
		MinImprovementBps: svc.optCfg.MinImprovementBps,
	})

	if svc.chainCfg.SignerKey != "" {
		signer, err := executor.NewKeySigner(svc.chainCfg.SignerKey, svc.chainCfg.ChainID)
		if err != nil {
			return err
		}
		svc.executor = executor.New(client, signer, svc.universe, svc.chainCfg.SwapContract, svc.chainCfg.GasLimit)
		svc.executor.SetSubmitHook(svc.emitSubmitted)
	} else {
		svc.logger.Warn().Msg("no signer key, running estimate-only")
	}

	svc.logger.Info().
		Str("swapContract", svc.chainCfg.SwapContract.Hex()).
		Str("multicall", svc.chainCfg.Multicall.Hex()).
		Msg("optimizer started")
	return nil
}

func (svc *Service) Stop() error {
	svc.debouncer.Stop()
	if svc.client != nil {
		svc.client.Close()
	}
	return nil
}

// Routes lists the catalog routes for a pair.
func (svc *Service) Routes(from, to domain.Token) []domain.Route {
	return catalog.RoutesFor(from, to)
}

// Estimate runs the full route optimization for the triple and publishes
// the result to subscribers.
func (svc *Service) Estimate(ctx context.Context, from, to domain.Token, amount *big.Int) (*domain.Estimate, error) {
	est, err := svc.estimator.Estimate(ctx, from, to, amount)
	if err != nil {
		svc.emitError(err)
		return nil, err
	}
	svc.emitEstimate(est)
	return est, nil
}

// SubmitInput feeds one input snapshot through the debouncer; the estimate
// runs once the input has been stable for the configured window.
func (svc *Service) SubmitInput(from, to domain.Token, amount *big.Int) {
	svc.debouncer.Update(debounce.Input{From: from, To: to, Amount: amount})
}

func (svc *Service) debouncedEstimate(in debounce.Input) {
	// No abort primitive for an in-flight estimate: the debouncer
	// serializes invocations, and the cache is last-writer-wins.
	if _, err := svc.Estimate(context.Background(), in.From, in.To, in.Amount); err != nil {
		svc.logger.Debug().Err(err).Msg("debounced estimate failed")
	}
}

// LastEstimate returns the cached estimate for the triple, if current.
func (svc *Service) LastEstimate(from, to domain.Token, amount *big.Int) (*domain.Estimate, bool) {
	return svc.estimator.Last(from, to, amount)
}

// InvalidateEstimate drops the cached estimate on user request.
func (svc *Service) InvalidateEstimate() {
	svc.estimator.Invalidate()
}

// Execute submits the swap described by the estimate under the given
// slippage tolerance.
func (svc *Service) Execute(ctx context.Context, est *domain.Estimate, slippage float64) (*domain.SwapReceipt, error) {
	if svc.executor == nil {
		return nil, ErrExecutionDisabled
	}
	receipt, err := svc.executor.Execute(ctx, est, slippage)
	if err != nil {
		svc.emitError(err)
		return nil, err
	}
	svc.emitConfirmed(receipt)
	return receipt, nil
}

// Event subscriptions. Callbacks run synchronously on the emitting
// goroutine and must not block.

func (svc *Service) OnEstimate(fn func(*domain.Estimate)) {
	svc.cbMu.Lock()
	svc.onEstimate = append(svc.onEstimate, fn)
	svc.cbMu.Unlock()
}

func (svc *Service) OnError(fn func(error)) {
	svc.cbMu.Lock()
	svc.onError = append(svc.onError, fn)
	svc.cbMu.Unlock()
}

func (svc *Service) OnExecuteSubmitted(fn func(common.Hash)) {
	svc.cbMu.Lock()
	svc.onSubmitted = append(svc.onSubmitted, fn)
	svc.cbMu.Unlock()
}

func (svc *Service) OnExecuteConfirmed(fn func(*domain.SwapReceipt)) {
	svc.cbMu.Lock()
	svc.onConfirmed = append(svc.onConfirmed, fn)
	svc.cbMu.Unlock()
}

func (svc *Service) emitEstimate(est *domain.Estimate) {
	svc.cbMu.RLock()
	defer svc.cbMu.RUnlock()
	for _, fn := range svc.onEstimate {
		fn(est)
	}
}

func (svc *Service) emitError(err error) {
	svc.cbMu.RLock()
	defer svc.cbMu.RUnlock()
	for _, fn := range svc.onError {
		fn(err)
	}
}

func (svc *Service) emitSubmitted(hash common.Hash) {
	svc.cbMu.RLock()
	defer svc.cbMu.RUnlock()
	for _, fn := range svc.onSubmitted {
		fn(hash)
	}
}

func (svc *Service) emitConfirmed(r *domain.SwapReceipt) {
	svc.cbMu.RLock()
	defer svc.cbMu.RUnlock()
	for _, fn := range svc.onConfirmed {
		fn(r)
	}
}

// UserMessage maps an optimizer error to the message shown to end users.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoRoute):
		return "No routes available for this pair"
	case errors.Is(err, ErrLiquidityExceeded):
		return "Input amount exceeds available liquidity, lower the amount"
	case errors.Is(err, ErrAllQuotesFailed):
		return "Liquidity too low or endpoint unavailable, try again later"
	case errors.Is(err, ErrUserRejected):
		return "Approve the request in your wallet"
	case errors.Is(err, ErrSlippageExceeded):
		return "Price moved; please re-estimate"
	case err != nil:
		return err.Error()
	default:
		return ""
	}
}
