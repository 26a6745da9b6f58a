// Package executor turns a published estimate into a single on-chain
// executeMultiRouteSwap call, guarded by a slippage floor.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"

	"github.com/kaonlabs/splitswap/internal/chain"
	sscommon "github.com/kaonlabs/splitswap/internal/common"
	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/metrics"
)

var (
	// ErrUserRejected means the signer refused the request. Non-retriable.
	ErrUserRejected = errors.New("executor: request rejected by signer")

	// ErrSlippageExceeded means the contract refused the trade below the
	// minimum-output floor. Non-retriable; the caller must re-estimate.
	ErrSlippageExceeded = errors.New("executor: minimum output not met, price moved")

	// ErrInvalidSlippage means the tolerance is outside [0, 0.5].
	ErrInvalidSlippage = errors.New("executor: slippage must be in [0, 0.5]")
)

// slippageRevertMarker is the revert reason the swap contract emits when the
// output falls below minTotalAmountOut.
const slippageRevertMarker = "minimum output not met"

const receiptPollInterval = 200 * time.Millisecond

// Backend is the narrow slice of the chain client the executor needs.
// *ethclient.Client satisfies it.
type Backend interface {
	chain.ContractCaller
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// MinTotalOut computes the slippage floor: floor(total * (10000 - floor(σ *
// 10000)) / 10000), all in integer math. For any σ in [0, 1) the floor never
// exceeds total and decreases monotonically as σ grows.
//
// σ values that are exact basis-point fractions do not round-trip through
// float64 exactly (2900/10000 binary-rounds just below 0.29), so the bps
// conversion tolerates that representation error before flooring. Callers
// that already hold integer bps should use MinTotalOutBps.
func MinTotalOut(total *big.Int, slippage float64) *big.Int {
	bps := int64(math.Floor(slippage*sscommon.BpsDenominator + 1e-9))
	return MinTotalOutBps(total, bps)
}

// MinTotalOutBps is MinTotalOut with the tolerance already in basis points.
func MinTotalOutBps(total *big.Int, bps int64) *big.Int {
	if bps < 0 {
		bps = 0
	}
	if bps > sscommon.BpsDenominator {
		bps = sscommon.BpsDenominator
	}
	out := new(big.Int).Mul(total, big.NewInt(sscommon.BpsDenominator-bps))
	return out.Div(out, big.NewInt(sscommon.BpsDenominator))
}

// Executor submits the mutating swap call for an estimate.
type Executor struct {
	backend  Backend
	signer   Signer
	universe *domain.Universe
	contract common.Address
	gasLimit uint64
	gasPrice *chain.GasPriceCache

	// onSubmit, when set, observes the swap transaction hash as soon as
	// it is accepted by the node, before confirmation.
	onSubmit func(common.Hash)
}

func New(backend Backend, signer Signer, universe *domain.Universe, contract common.Address, gasLimit uint64) *Executor {
	return &Executor{
		backend:  backend,
		signer:   signer,
		universe: universe,
		contract: contract,
		gasLimit: gasLimit,
		gasPrice: chain.NewGasPriceCache(backend, 2*time.Second),
	}
}

// SetSubmitHook registers an observer for swap submissions.
func (x *Executor) SetSubmitHook(fn func(common.Hash)) {
	x.onSubmit = fn
}

// Execute derives the execution plan from the estimate, ensures approval for
// token inputs, submits executeMultiRouteSwap and awaits confirmation.
func (x *Executor) Execute(ctx context.Context, est *domain.Estimate, slippage float64) (*domain.SwapReceipt, error) {
	if est == nil {
		return nil, errors.New("executor: nil estimate")
	}
	if slippage < 0 || slippage > 0.5 {
		return nil, ErrInvalidSlippage
	}

	plan := BuildPlan(est, slippage, x.signer.Address(), x.universe)

	// Native input rides as call value; token input needs allowance.
	if plan.Value == nil {
		if err := x.ensureAllowance(ctx, plan.TokenIn, est.TotalInput); err != nil {
			return nil, err
		}
	}

	data, err := packSwap(plan)
	if err != nil {
		return nil, err
	}

	// Pre-flight the call so a slippage revert is classified before any
	// gas is spent.
	msg := ethereum.CallMsg{From: x.signer.Address(), To: &x.contract, Data: data, Value: plan.Value}
	if _, err := x.backend.CallContract(ctx, msg, nil); err != nil {
		if strings.Contains(err.Error(), slippageRevertMarker) {
			metrics.SwapSubmissions.WithLabelValues("slippage").Inc()
			return nil, ErrSlippageExceeded
		}
		metrics.SwapSubmissions.WithLabelValues("revert").Inc()
		return nil, fmt.Errorf("executor: swap would revert: %w", err)
	}

	receipt, err := x.submit(ctx, x.contract, data, plan.Value, true)
	if err != nil {
		if errors.Is(err, ErrUserRejected) {
			metrics.SwapSubmissions.WithLabelValues("rejected").Inc()
		} else {
			metrics.SwapSubmissions.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	metrics.SwapSubmissions.WithLabelValues("ok").Inc()

	log.Info().
		Str("tx", receipt.TxHash.Hex()).
		Str("pair", est.FromToken.String()+"-"+est.ToToken.String()).
		Str("minOut", plan.MinTotalOut.String()).
		Msg("[executor] swap confirmed")

	return receipt, nil
}

// ensureAllowance checks the swap contract's allowance for the input token
// and requests an unbounded approval when it is short, awaiting confirmation
// before the swap proceeds.
func (x *Executor) ensureAllowance(ctx context.Context, token common.Address, needed *big.Int) error {
	data, err := tokenABI.Pack("allowance", x.signer.Address(), x.contract)
	if err != nil {
		return err
	}
	ret, err := x.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("executor: allowance read failed: %w", err)
	}
	out, err := tokenABI.Unpack("allowance", ret)
	if err != nil {
		return fmt.Errorf("executor: allowance decode failed: %w", err)
	}
	allowance := out[0].(*big.Int)
	if allowance.Cmp(needed) >= 0 {
		return nil
	}

	approve, err := tokenABI.Pack("approve", x.contract, abi.MaxUint256)
	if err != nil {
		return err
	}
	metrics.ApprovalSubmissions.Inc()
	log.Info().Str("token", token.Hex()).Msg("[executor] requesting unbounded approval")

	if _, err := x.submit(ctx, token, approve, nil, false); err != nil {
		return err
	}
	return nil
}

// submit signs, sends and awaits one transaction.
func (x *Executor) submit(ctx context.Context, to common.Address, data []byte, value *big.Int, notify bool) (*domain.SwapReceipt, error) {
	nonce, err := x.backend.PendingNonceAt(ctx, x.signer.Address())
	if err != nil {
		return nil, err
	}
	gasPrice, err := x.gasPrice.Get(ctx)
	if err != nil {
		return nil, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      x.gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := x.signer.SignTx(tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserRejected, err)
	}
	if err := x.backend.SendTransaction(ctx, signed); err != nil {
		if strings.Contains(err.Error(), slippageRevertMarker) {
			return nil, ErrSlippageExceeded
		}
		return nil, err
	}
	if notify && x.onSubmit != nil {
		x.onSubmit(signed.Hash())
	}

	receipt, err := x.waitMined(ctx, signed.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("executor: transaction %s reverted", signed.Hash().Hex())
	}
	return &domain.SwapReceipt{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}

func (x *Executor) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	t := time.NewTicker(receiptPollInterval)
	defer t.Stop()
	for {
		receipt, err := x.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}
