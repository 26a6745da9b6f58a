package chain

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/kaonlabs/splitswap/internal/metrics"
)

// DefaultBatchCeil is the reference per-aggregate call ceiling. The read
// endpoint is shared and rate-limited; batches above this are split.
const DefaultBatchCeil = 100

const multicall3ABI = `[{"name":"aggregate3","type":"function","stateMutability":"payable","inputs":[{"components":[{"name":"target","type":"address"},{"name":"allowFailure","type":"bool"},{"name":"callData","type":"bytes"}],"name":"calls","type":"tuple[]"}],"outputs":[{"components":[{"name":"success","type":"bool"},{"name":"returnData","type":"bytes"}],"name":"returnData","type":"tuple[]"}]}]`

var mcABI = mustABI(multicall3ABI)

func mustABI(s string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return a
}

// Call is one read destined for the aggregated endpoint.
type Call struct {
	Target       common.Address
	CallData     []byte
	AllowFailure bool
}

// Result mirrors the aggregate3 per-call outcome. The i-th Result always
// corresponds to the i-th Call.
type Result struct {
	Success    bool
	ReturnData []byte
}

// Batcher is the surface the quoting pipeline depends on.
type Batcher interface {
	Execute(ctx context.Context, calls []Call) ([]Result, error)
}

type mcCall struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

type mcResult struct {
	Success    bool
	ReturnData []byte
}

// Multicall batches reads through a Multicall3-style aggregate3 contract.
// Sub-batches run sequentially: the endpoint is the bottleneck and issuing
// them in parallel only worsens rate-limit behavior.
type Multicall struct {
	caller  ContractCaller
	address common.Address
	ceil    int
	policy  RetryPolicy

	// test seams
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

func NewMulticall(caller ContractCaller, address common.Address, ceil int, policy RetryPolicy) *Multicall {
	if ceil <= 0 {
		ceil = DefaultBatchCeil
	}
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	return &Multicall{
		caller:  caller,
		address: address,
		ceil:    ceil,
		policy:  policy,
		sleep:   sleepCtx,
		jitter:  defaultJitter,
	}
}

// Execute submits calls as ordered sub-batches of at most the configured
// ceiling. A sub-batch that exhausts its retries degrades to per-call
// failures instead of aborting the whole operation; len(results) ==
// len(calls) always holds on a nil error.
func (m *Multicall) Execute(ctx context.Context, calls []Call) ([]Result, error) {
	metrics.MulticallCalls.Add(float64(len(calls)))
	results := make([]Result, len(calls))
	for start := 0; start < len(calls); start += m.ceil {
		end := start + m.ceil
		if end > len(calls) {
			end = len(calls)
		}
		sub, err := m.executeSubBatch(ctx, calls[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Degrade this slice only; later sub-batches still run.
			log.Warn().Err(err).Int("from", start).Int("to", end).
				Msg("[multicall] sub-batch failed after retries")
			metrics.MulticallSubBatchFailures.Inc()
			for i := start; i < end; i++ {
				results[i] = Result{Success: false}
			}
			continue
		}
		copy(results[start:end], sub)

		// Yield between sub-batches so a long combined batch cannot
		// starve the rest of the process.
		if end < len(calls) {
			runtime.Gosched()
		}
	}
	return results, nil
}

func (m *Multicall) executeSubBatch(ctx context.Context, calls []Call) ([]Result, error) {
	packed := make([]mcCall, len(calls))
	for i, c := range calls {
		packed[i] = mcCall{Target: c.Target, AllowFailure: c.AllowFailure, CallData: c.CallData}
	}
	input, err := mcABI.Pack("aggregate3", packed)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= m.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.MulticallRetries.Inc()
			if err := m.sleep(ctx, m.policy.Delay(attempt-1, m.jitter)); err != nil {
				return nil, err
			}
		}
		ret, err := m.caller.CallContract(ctx, ethereum.CallMsg{To: &m.address, Data: input}, nil)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		decoded, err := decodeAggregate3(ret, len(calls))
		if err != nil {
			lastErr = err
			continue
		}
		return decoded, nil
	}
	return nil, lastErr
}

func decodeAggregate3(ret []byte, want int) ([]Result, error) {
	out, err := mcABI.Unpack("aggregate3", ret)
	if err != nil {
		return nil, err
	}
	raw := *abi.ConvertType(out[0], new([]mcResult)).(*[]mcResult)
	if len(raw) != want {
		return nil, errBatchShape(len(raw), want)
	}
	results := make([]Result, len(raw))
	for i, r := range raw {
		results[i] = Result{Success: r.Success, ReturnData: r.ReturnData}
	}
	return results, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
