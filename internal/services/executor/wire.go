package executor

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kaonlabs/splitswap/internal/domain"
)

const writerABI = `[
	{"name":"executeMultiRouteSwap","type":"function","stateMutability":"payable","inputs":[
		{"components":[
			{"name":"isSingleHop","type":"bool"},
			{"name":"pool1TokenA","type":"address"},
			{"name":"pool1TokenB","type":"address"},
			{"name":"pool2TokenA","type":"address"},
			{"name":"pool2TokenB","type":"address"},
			{"name":"hookAddress","type":"address"},
			{"name":"hook2Address","type":"address"}],
		 "name":"routes","type":"tuple[]"},
		{"name":"amounts","type":"uint256[]"},
		{"name":"tokenIn","type":"address"},
		{"name":"tokenOut","type":"address"},
		{"name":"minTotalAmountOut","type":"uint256"},
		{"name":"recipient","type":"address"}],
	 "outputs":[{"name":"totalAmountOut","type":"uint256"}]}
]`

const erc20ABI = `[
	{"name":"allowance","type":"function","stateMutability":"view","inputs":[
		{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

var (
	swapABI  = mustABI(writerABI)
	tokenABI = mustABI(erc20ABI)
)

func mustABI(s string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return a
}

// NormalizeRoute maps an in-memory route to the wire tuple the swap contract
// consumes. Sentinels reappear here: unused pool-2 fields and the unused
// second hook carry the zero address. IsSingleHop is derived from the pool-2
// fields being zero rather than trusted from the route kind, matching how
// the contract itself discriminates.
func NormalizeRoute(r domain.Route, u *domain.Universe) domain.WireRoute {
	w := domain.WireRoute{
		Pool1TokenA: u.Address(r.Pool1.TokenA),
		Pool1TokenB: u.Address(r.Pool1.TokenB),
		HookAddress: u.Hook(),
	}
	if r.Kind == domain.RouteMulti {
		w.Pool2TokenA = u.Address(r.Pool2.TokenA)
		w.Pool2TokenB = u.Address(r.Pool2.TokenB)
		w.Hook2Address = u.Hook()
	}
	zero := common.Address{}
	w.IsSingleHop = w.Pool2TokenA == zero && w.Pool2TokenB == zero
	return w
}

// BuildPlan derives the ephemeral execution plan from an estimate at
// submission time.
func BuildPlan(est *domain.Estimate, slippage float64, recipient common.Address, u *domain.Universe) *domain.ExecutionPlan {
	routes := make([]domain.WireRoute, len(est.Routes))
	for i, r := range est.Routes {
		routes[i] = NormalizeRoute(r, u)
	}

	plan := &domain.ExecutionPlan{
		Routes:      routes,
		Amounts:     est.SplitAmounts,
		TokenIn:     u.Address(est.FromToken),
		TokenOut:    u.Address(est.ToToken),
		MinTotalOut: MinTotalOut(est.TotalOutput, slippage),
		Recipient:   recipient,
	}
	if est.FromToken == domain.TokenNative {
		plan.Value = new(big.Int).Set(est.TotalInput)
	}
	return plan
}

func packSwap(plan *domain.ExecutionPlan) ([]byte, error) {
	return swapABI.Pack("executeMultiRouteSwap",
		plan.Routes,
		plan.Amounts,
		plan.TokenIn,
		plan.TokenOut,
		plan.MinTotalOut,
		plan.Recipient,
	)
}
